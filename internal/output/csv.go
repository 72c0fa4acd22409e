package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/wpgo/wealth-planner/internal/calculation"
)

// CSVAnnualExporter writes the annual view of a projection, one row per year.
type CSVAnnualExporter struct{}

func (c CSVAnnualExporter) Name() string { return "csv" }

func (c CSVAnnualExporter) Format(report *Report) ([]byte, error) {
	if report.Projection == nil {
		return nil, fmt.Errorf("csv format requires a projection")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Client", "Year", "ProjectedValue"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, pt := range calculation.AnnualView(report.Projection) {
		row := []string{
			report.Projection.ClientID,
			intToString(pt.Year),
			pt.ProjectedValue.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVMonthlyExporter writes the raw monthly projection series, one row per
// simulated month.
type CSVMonthlyExporter struct{}

func (c CSVMonthlyExporter) Name() string { return "detailed-csv" }

func (c CSVMonthlyExporter) Format(report *Report) ([]byte, error) {
	if report.Projection == nil {
		return nil, fmt.Errorf("detailed-csv format requires a projection")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Client", "Year", "Month", "ProjectedValue", "EventsFired"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, pt := range report.Projection.ProjectionPoints {
		row := []string{
			report.Projection.ClientID,
			intToString(pt.Year),
			intToString(pt.Month),
			pt.ProjectedValue.StringFixed(2),
			intToString(len(pt.Events)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

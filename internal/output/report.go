package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wpgo/wealth-planner/internal/domain"
)

// ErrUnsupportedFormat is returned when a requested format name resolves to
// no registered formatter.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Report is the renderable envelope every formatter consumes. Sections are
// optional; a formatter renders the ones that are present and skips the rest,
// so one registry serves every command.
type Report struct {
	Client      *domain.Client             `json:"client,omitempty"`
	Projection  *domain.WealthProjection   `json:"projection,omitempty"`
	Goals       []domain.GoalAnalysis      `json:"goals,omitempty"`
	Suggestions []domain.Suggestion        `json:"suggestions,omitempty"`
	Impact      *ImpactComparison          `json:"impact,omitempty"`
	Insurance   *domain.InsuranceSummary   `json:"insurance,omitempty"`
	History     *domain.SimulationPage     `json:"history,omitempty"`
	Comparison  *domain.ComparisonResult   `json:"comparison,omitempty"`
	Stats       *domain.ClientStats        `json:"stats,omitempty"`
	Simulation  *domain.SimulationMetadata `json:"simulation,omitempty"`
}

// ImpactComparison pairs the base projection with the projection after a
// suggestion is adopted, for before/after rendering.
type ImpactComparison struct {
	Suggestion domain.Suggestion        `json:"suggestion"`
	Base       *domain.WealthProjection `json:"base"`
	Adjusted   *domain.WealthProjection `json:"adjusted"`
}

// UnsupportedFormat builds the lookup error for an unknown format name,
// listing the available formats and aliases.
func UnsupportedFormat(name string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// GenerateReport resolves a formatter by name and writes its output to w.
func GenerateReport(w io.Writer, report *Report, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return UnsupportedFormat(format)
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

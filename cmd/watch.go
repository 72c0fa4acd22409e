package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/domain"
)

var (
	flagSweepSchedule    string
	flagSnapshotSchedule string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scheduled cache sweeps and projection snapshots until interrupted",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagSweepSchedule, "sweep-schedule", "@hourly", "Cron schedule for the cache cleanup sweep")
	watchCmd.Flags().StringVar(&flagSnapshotSchedule, "snapshot-schedule", "@daily", "Cron schedule for the projection snapshot pass")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(flagSweepSchedule, func() {
		removed := pl.engine.Cache.Cleanup()
		pl.logger.Infof("cache sweep removed %d expired entries", removed)
	}); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", flagSweepSchedule, err)
	}
	if _, err := scheduler.AddFunc(flagSnapshotSchedule, func() {
		snapshotAll(ctx, pl)
	}); err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", flagSnapshotSchedule, err)
	}

	scheduler.Start()
	pl.logger.Infof("watch mode running: sweep %q, snapshot %q", flagSweepSchedule, flagSnapshotSchedule)

	<-ctx.Done()
	<-scheduler.Stop().Done()
	pl.logger.Infof("watch mode stopped")
	return nil
}

// snapshotAll rebuilds every client's default projection and saves it to the
// history tagged "scheduled", so repeated passes accumulate a trend series.
func snapshotAll(ctx context.Context, pl *planner) {
	ids, err := pl.store.ClientIDs(ctx)
	if err != nil {
		pl.logger.Errorf("listing clients for snapshot: %v", err)
		return
	}
	for _, id := range ids {
		projection, err := pl.engine.Project(ctx, id)
		if err != nil {
			pl.logger.Warnf("snapshot projection for client %s failed: %v", id, err)
			continue
		}
		sim, err := pl.history.Save(ctx, id, projection, domain.MetadataUpdate{Tags: []string{"scheduled"}})
		if err != nil {
			pl.logger.Warnf("saving snapshot for client %s failed: %v", id, err)
			continue
		}
		pl.logger.Infof("saved scheduled snapshot %s for client %s", sim.ID, id)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratawm/strata/internal/clock"
	"github.com/stratawm/strata/model"
	"github.com/stratawm/strata/orchestrator"
)

func newDumpCmd() *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Run one full_refresh pass over a fixture and print the resulting frames",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDump(fixturePath)
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "path to a TOML monitor/window fixture (required)")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func runDump(fixturePath string) error {
	log, _, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	fixture, err := loadFixture(fixturePath)
	if err != nil {
		return fmt.Errorf("load fixture %s: %w", fixturePath, err)
	}

	service := newFakeWindowService(fixture)
	store := model.NewStore(log)
	o := orchestrator.New(store, service, clock.SystemClock{}, log, orchestrator.Settings{}, model.MonitorID{})
	monIDs := seedMonitors(o, fixture)
	if len(monIDs) > 0 {
		o.SetCurrentMonitor(monIDs[0])
	}

	o.Refresh.FullRefresh()

	for _, mon := range store.Monitors() {
		wsID, ok := store.ActiveWorkspace(mon.ID)
		if !ok {
			continue
		}
		fmt.Printf("monitor %s (%s) workspace %s:\n", mon.Name, mon.ID, wsID)
		for _, e := range store.EntriesInWorkspace(wsID) {
			bounds, _ := service.WindowBounds(e.WindowID)
			fmt.Printf("  window %d (pid %d): %dx%d @ (%d,%d)\n", e.WindowID, e.Handle.PID, bounds.W, bounds.H, bounds.X, bounds.Y)
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/stratawm/strata/internal/clock"
	"github.com/stratawm/strata/internal/settings"
	"github.com/stratawm/strata/model"
	"github.com/stratawm/strata/orchestrator"
	"github.com/stratawm/strata/wsapi"
)

func newServeCmd() *cobra.Command {
	var fixturePath, settingsPath string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tiling core against a fixture window service",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(fixturePath, settingsPath, watch)
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "path to a TOML monitor/window fixture (required)")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "path to a TOML settings override file")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the fixture on change and trigger a refresh")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func runServe(fixturePath, settingsPath string, watch bool) error {
	log, _, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	fixture, err := loadFixture(fixturePath)
	if err != nil {
		return fmt.Errorf("load fixture %s: %w", fixturePath, err)
	}

	sec, err := loadSettingsFile(settingsPath)
	if err != nil {
		return fmt.Errorf("load settings %s: %w", settingsPath, err)
	}
	snapshot := orchestrator.LoadSettings(sec)

	service := newFakeWindowService(fixture)
	store := model.NewStore(log)

	o := orchestrator.New(store, service, clock.SystemClock{}, log, snapshot, model.MonitorID{})
	monIDs := seedMonitors(o, fixture)
	if len(monIDs) > 0 {
		o.SetCurrentMonitor(monIDs[0])
	}

	go o.Events.Run(service.Events())
	o.Refresh.FullRefresh()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watch {
		go watchFixture(ctx, fixturePath, service, log)
	}

	fmt.Printf("stratawm serving %d monitor(s) from %s\n", len(monIDs), fixturePath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("stratawm stopped")
	return nil
}

// watchFixture re-reads the fixture file on every fsnotify write event
// and injects an ax_timer_refresh event, letting full_refresh's own
// diffing logic pick up added/removed/moved windows, mirroring how the
// teacher's main.go reloads its theme on SIGHUP rather than restarting.
func watchFixture(ctx context.Context, path string, service *fakeWindowService, log interface {
	Warnw(string, ...interface{})
}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warnw("fixture watch disabled", "error", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		log.Warnw("fixture watch add failed", "path", path, "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f, err := loadFixture(path)
			if err != nil {
				log.Warnw("fixture reload failed", "error", err)
				continue
			}
			service.reload(f)
			service.inject(wsapi.Event{Kind: wsapi.EventTimerRefresh})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warnw("fixture watch error", "error", err)
		}
	}
}

func loadSettingsFile(path string) (settings.Section, error) {
	if path == "" {
		return settings.Section{}, nil
	}
	return decodeSettingsFile(path)
}

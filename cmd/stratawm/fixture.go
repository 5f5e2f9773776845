package main

import (
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/internal/settings"
	"github.com/stratawm/strata/model"
	"github.com/stratawm/strata/orchestrator"
	"github.com/stratawm/strata/wsapi"
)

// decodeSettingsFile reads a TOML settings override file into a
// settings.Section; BurntSushi/toml decodes nested tables as
// map[string]interface{}, which Section.Section() already unwraps.
func decodeSettingsFile(path string) (settings.Section, error) {
	var raw map[string]interface{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, err
	}
	return settings.Section(raw), nil
}

// fixtureFile is the on-disk shape loaded by `stratawm dump`/`serve
// --fixture` for local exercising without a real accessibility bridge,
// grounded on cmd/texel-server-sim/main.go's role as a simulation
// harness standing in for the production driver.
type fixtureFile struct {
	Monitors []fixtureMonitor `toml:"monitor"`
	Windows  []fixtureWindow  `toml:"window"`
}

type fixtureMonitor struct {
	Name   string `toml:"name"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	W      int    `toml:"w"`
	H      int    `toml:"h"`
	HzRate float64 `toml:"refresh_hz"`
}

type fixtureWindow struct {
	PID      int    `toml:"pid"`
	WindowID uint64 `toml:"window_id"`
	BundleID string `toml:"bundle_id"`
	Title    string `toml:"title"`
	X        int    `toml:"x"`
	Y        int    `toml:"y"`
	W        int    `toml:"w"`
	H        int    `toml:"h"`
}

func loadFixture(path string) (fixtureFile, error) {
	var f fixtureFile
	_, err := toml.DecodeFile(path, &f)
	return f, err
}

// seedMonitors registers every fixture monitor on the orchestrator and
// returns the monitor IDs in fixture order, so the caller can pick a
// current-interaction monitor deterministically.
func seedMonitors(o *orchestrator.Orchestrator, f fixtureFile) []model.MonitorID {
	ids := make([]model.MonitorID, 0, len(f.Monitors))
	for _, m := range f.Monitors {
		mon := model.Monitor{
			ID:            model.NewMonitorID(),
			Name:          m.Name,
			Frame:         geom.Rect{X: m.X, Y: m.Y, W: m.W, H: m.H},
			VisibleFrame:  geom.Rect{X: m.X, Y: m.Y, W: m.W, H: m.H},
			RefreshRateHz: m.HzRate,
		}
		o.AddMonitor(mon)
		ids = append(ids, mon.ID)
	}
	return ids
}

// fakeWindowService is an in-process stand-in for the real accessibility
// bridge (spec §6's WindowService), backed by a fixture snapshot. Frame
// writes are recorded in an in-memory bounds map rather than applied to
// any real display, and focus/raise calls are accepted and ignored,
// mirroring how cmd/texel-server-sim/main.go swaps tcell's simulation
// screen in for a real terminal.
type fakeWindowService struct {
	mu      sync.Mutex
	visible []wsapi.VisibleWindow
	bounds  map[uint64]wsapi.Rect
	events  chan wsapi.Event
}

func newFakeWindowService(f fixtureFile) *fakeWindowService {
	svc := &fakeWindowService{
		bounds: make(map[uint64]wsapi.Rect),
		events: make(chan wsapi.Event, 64),
	}
	for _, w := range f.Windows {
		vw := wsapi.VisibleWindow{
			WindowID: w.WindowID,
			PID:      w.PID,
			AXRef:    w.WindowID,
			Frame:    geom.Rect{X: w.X, Y: w.Y, W: w.W, H: w.H},
			BundleID: w.BundleID,
			Title:    w.Title,
		}
		svc.visible = append(svc.visible, vw)
		svc.bounds[w.WindowID] = vw.Frame
	}
	return svc
}

func (s *fakeWindowService) QueryAllVisible() ([]wsapi.VisibleWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wsapi.VisibleWindow, len(s.visible))
	copy(out, s.visible)
	return out, nil
}

func (s *fakeWindowService) WindowInfo(windowID uint64) (wsapi.WindowInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.visible {
		if v.WindowID == windowID {
			return wsapi.WindowInfo{PID: v.PID, BundleID: v.BundleID, Title: v.Title}, nil
		}
	}
	return wsapi.WindowInfo{}, nil
}

func (s *fakeWindowService) WindowBounds(windowID uint64) (wsapi.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds[windowID], nil
}

func (s *fakeWindowService) WindowTitle(windowID uint64) (string, error) {
	info, _ := s.WindowInfo(windowID)
	return info.Title, nil
}

func (s *fakeWindowService) SetFrame(ax model.AXRef, r wsapi.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := ax.(uint64); ok {
		s.bounds[id] = r
	}
	return nil
}

func (s *fakeWindowService) SetOriginViaCompositor(windowID uint64, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.bounds[windowID]
	r.X, r.Y = x, y
	s.bounds[windowID] = r
	return nil
}

func (s *fakeWindowService) SetAlpha(uint64, float32) error { return nil }
func (s *fakeWindowService) Raise(model.AXRef) error         { return nil }
func (s *fakeWindowService) Focus(int, uint64, model.AXRef) error { return nil }
func (s *fakeWindowService) IsFullscreen(model.AXRef) (bool, error) { return false, nil }
func (s *fakeWindowService) SetNativeFullscreen(model.AXRef, bool) error { return nil }

func (s *fakeWindowService) SizeConstraints(model.AXRef, int, int) (wsapi.SizeConstraints, error) {
	return wsapi.SizeConstraints{}, nil
}

func (s *fakeWindowService) Events() <-chan wsapi.Event { return s.events }

// reload replaces the visible-window snapshot wholesale, used by `serve
// --watch` after the fixture file changes on disk.
func (s *fakeWindowService) reload(f fixtureFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = s.visible[:0]
	s.bounds = make(map[uint64]wsapi.Rect)
	for _, w := range f.Windows {
		vw := wsapi.VisibleWindow{
			WindowID: w.WindowID,
			PID:      w.PID,
			AXRef:    w.WindowID,
			Frame:    geom.Rect{X: w.X, Y: w.Y, W: w.W, H: w.H},
			BundleID: w.BundleID,
			Title:    w.Title,
		}
		s.visible = append(s.visible, vw)
		s.bounds[w.WindowID] = vw.Frame
	}
}

// inject delivers a synthetic event to Handle's consumer, used by `serve
// --watch` to turn a fixture-file rewrite into an ax_timer_refresh event.
func (s *fakeWindowService) inject(ev wsapi.Event) {
	select {
	case s.events <- ev:
	default:
	}
}

// Package wsapi defines the external collaborators consumed by the core
// (spec §6): the window service and the notification channels the core
// publishes. Grounded on texel/runtime_interfaces.go's pattern of small,
// narrowly-scoped Go interfaces for out-of-process collaborators
// (ScreenDriver, BufferStore, EventRouter, AppLifecycleManager).
package wsapi

import (
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

// Rect is re-exported from geom so callers at the service boundary don't
// need to import geom separately.
type Rect = geom.Rect

// VisibleWindow is one row of query_all_visible()'s snapshot (spec §6).
type VisibleWindow struct {
	WindowID uint64
	PID      int
	AXRef    model.AXRef
	Frame    Rect
	BundleID string
	Title    string
}

// WindowInfo is the result of window_info(window_id) (spec §6).
type WindowInfo struct {
	PID      int
	BundleID string
	Title    string
}

// SizeConstraints mirrors size_constraints()'s result.
type SizeConstraints struct {
	MinW, MinH int
	MaxW, MaxH int
	HasMax     bool
}

// WindowService is the accessibility/window-service bridge the core
// consumes (spec §6). All operations are best-effort: failures are
// reported via `error` and the caller logs-and-continues per spec §7.
type WindowService interface {
	QueryAllVisible() ([]VisibleWindow, error)
	WindowInfo(windowID uint64) (WindowInfo, error)
	WindowBounds(windowID uint64) (Rect, error)
	WindowTitle(windowID uint64) (string, error)

	SetFrame(ax model.AXRef, r Rect) error
	SetOriginViaCompositor(windowID uint64, x, y int) error
	SetAlpha(windowID uint64, alpha float32) error

	Raise(ax model.AXRef) error
	Focus(pid int, windowID uint64, ax model.AXRef) error
	IsFullscreen(ax model.AXRef) (bool, error)
	SetNativeFullscreen(ax model.AXRef, fullscreen bool) error

	SizeConstraints(ax model.AXRef, currentW, currentH int) (SizeConstraints, error)

	// Events returns the serial event stream (spec §6's "delivered
	// serially on the executor"). Implementations should deliver events
	// on a single goroutine, in arrival order.
	Events() <-chan Event
}

// FrameWrite is one entry of an apply_frames_parallel batch (spec §5:
// "an apply_frames_parallel(updates) batch that may use a worker pool
// internally but whose completion is not awaited").
type FrameWrite struct {
	AX    model.AXRef
	Frame Rect
}

package model

import "github.com/stratawm/strata/geom"

// Direction re-exports geom's cardinal direction for callers that only
// import model (e.g. AdjacentMonitor's signature).
type Direction = geom.Direction

const (
	DirUp    = geom.DirUp
	DirDown  = geom.DirDown
	DirLeft  = geom.DirLeft
	DirRight = geom.DirRight
)

// Orientation describes a monitor's physical layout, used by §4.2's
// adjacency computation.
type Orientation int

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

// Monitor mirrors spec §3's Monitor record.
type Monitor struct {
	ID            MonitorID
	DisplayID     uint64
	Name          string
	Frame         geom.Rect
	VisibleFrame  geom.Rect
	Orientation   Orientation
	RefreshRateHz float64
}

// LayoutKind selects which engine (C3 or C4) owns a workspace's layout
// tree (spec §3 WorkspaceDescriptor).
type LayoutKind int

const (
	LayoutScroll LayoutKind = iota
	LayoutBinary
)

// WorkspaceDescriptor mirrors spec §3's WorkspaceDescriptor record.
type WorkspaceDescriptor struct {
	ID        WorkspaceID
	Name      string
	MonitorID *MonitorID
	Layout    LayoutKind
}

// Package model implements component C2, the workspace/monitor model:
// window entries, workspace descriptors, monitors, active-workspace
// tracking, adjacency, and the GC rule from spec §3/§4.2.
package model

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// MonitorID, WorkspaceID, and NodeID are opaque, totally-ordered,
// process-lifetime-unique identifiers (spec §3). The teacher backs its
// pane/session identity with a raw [16]byte (texel/pane.go's pane.id,
// server/manager.go's crypto/rand session id); here that same "opaque
// 16-byte identity" idiom is generalized to a named, string-ordered type
// via google/uuid so identifiers are safely comparable and sortable
// without exposing the underlying bytes.
type MonitorID uuid.UUID

type WorkspaceID uuid.UUID

type NodeID uuid.UUID

// WindowHandle is (pid, opaque-window-id): stable across refreshes even
// though the OS-level window id may be reused (spec §3).
type WindowHandle struct {
	PID      int
	WindowID uint64
}

func NewMonitorID() MonitorID    { return MonitorID(uuid.New()) }
func NewWorkspaceID() WorkspaceID { return WorkspaceID(uuid.New()) }
func NewNodeID() NodeID           { return NodeID(uuid.New()) }

func (m MonitorID) String() string    { return uuid.UUID(m).String() }
func (w WorkspaceID) String() string  { return uuid.UUID(w).String() }
func (n NodeID) String() string       { return uuid.UUID(n).String() }
func (h WindowHandle) String() string { return fmt.Sprintf("%d:%d", h.PID, h.WindowID) }

// Less gives a total order over identifiers so tie-breaks in spec §4.2's
// adjacent_monitor ("ties broken by monitor id") are deterministic.
func (m MonitorID) Less(o MonitorID) bool {
	return uuid.UUID(m).String() < uuid.UUID(o).String()
}

func (h WindowHandle) Less(o WindowHandle) bool {
	if h.PID != o.PID {
		return h.PID < o.PID
	}
	return h.WindowID < o.WindowID
}

// SortMonitorIDs returns ids sorted by the total order above.
func SortMonitorIDs(ids []MonitorID) []MonitorID {
	out := append([]MonitorID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

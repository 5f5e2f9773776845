package model

import "github.com/stratawm/strata/internal/anim"

// ViewportState is the per-workspace viewport record from spec §3.
type ViewportState struct {
	SelectedNodeID      *NodeID
	ViewOffsetPx        *anim.OffsetAnim
	ActiveColumnIndex   int
	ActivatePrevOnRemoval *float64
	DisplayRefreshHz    float64
}

// NewViewportState returns a fresh viewport pinned at offset 0.
func NewViewportState(refreshHz float64) *ViewportState {
	return &ViewportState{
		ViewOffsetPx:     anim.NewStaticOffset(0),
		DisplayRefreshHz: refreshHz,
	}
}

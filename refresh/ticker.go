package refresh

import (
	"time"

	"github.com/stratawm/strata/model"
)

// StartDisplayTicker arms a per-monitor animation ticker at the
// monitor's refresh rate (spec §4.6 "Per-display ticker": "the
// controller owns a display link per active monitor"), grounded on
// texel/desktop.go's animationTicker. On each tick it re-runs the
// layout/apply steps of the active engine pipeline for whatever
// workspace is active on that monitor, and stops itself once neither
// engine reports any animation still running.
func (c *Controller) StartDisplayTicker(monitorID model.MonitorID, hz float64) {
	if _, ok := c.tickers[monitorID]; ok {
		return // already running
	}
	if hz <= 0 {
		hz = 60
	}
	interval := time.Duration(float64(time.Second) / hz)
	t := time.NewTicker(interval)
	c.tickers[monitorID] = t

	go func() {
		for range t.C {
			if !c.tickDisplay(monitorID) {
				c.StopDisplayTicker(monitorID)
				return
			}
		}
	}()
}

// StopDisplayTicker stops and forgets a monitor's ticker.
func (c *Controller) StopDisplayTicker(monitorID model.MonitorID) {
	if t, ok := c.tickers[monitorID]; ok {
		t.Stop()
		delete(c.tickers, monitorID)
	}
}

// tickDisplay advances whichever engine is active on monitorID and
// reports whether any animation is still running (spec §4.6 "Stop the
// ticker when all four report done").
func (c *Controller) tickDisplay(monitorID model.MonitorID) bool {
	mon, ok := c.Store.Monitor(monitorID)
	if !ok {
		return false
	}
	active, ok := c.Store.ActiveWorkspace(monitorID)
	if !ok {
		return false
	}
	desc, ok := c.Store.Workspace(active)
	if !ok {
		return false
	}

	now := c.Clock.Now()
	switch desc.Layout {
	case model.LayoutBinary:
		c.runBinaryPipeline(active, mon.VisibleFrame, now)
		anim := c.binaryAnim[active]
		return anim != nil && anim.IsAnimating(now)
	default:
		c.runScrollPipeline(active, mon.ID, mon.VisibleFrame, now)
		a := c.scrollAnim[active]
		ws := c.scrollWS[active]
		running := a != nil && (a.HasAnyColumnAnimationsRunning() || a.HasAnyWindowAnimationsRunning() || a.IsWorkspaceSwitchRunning())
		if ws != nil && ws.Viewport.IsAnimating() {
			running = true
		}
		return running
	}
}

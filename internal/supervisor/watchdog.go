package supervisor

import (
	"time"

	"github.com/roelstierum/plcsim-go/internal/model"
	"github.com/roelstierum/plcsim-go/internal/varspace"
)

// serviceWatchdog implements spec §9's watchdog Open Question
// resolution: EcoToPlc/xWatchDog must toggle within the configured
// window or both lifts are forced into Error 888 with WatchdogExpiry,
// per §7's error taxonomy. The check runs after both lifts have
// ticked this cycle, so a trip takes effect starting next tick rather
// than pre-empting work already validated this one.
func (c *Cell) serviceWatchdog(now time.Time) {
	current := c.space.ReadBool(varspace.PathWatchDog)
	if c.lastWatchdogChange.IsZero() {
		c.lastWatchdogChange = now
		c.lastWatchdog = current
		return
	}
	if current != c.lastWatchdog {
		c.lastWatchdog = current
		c.lastWatchdogChange = now
		c.watchdogTripped = false
		return
	}
	if c.watchdogTripped {
		return
	}
	if now.Sub(c.lastWatchdogChange) <= c.watchdogWindow {
		return
	}

	c.watchdogTripped = true
	c.log.Error("watchdog expired, forcing both lifts into error", "window", c.watchdogWindow)
	for i := 0; i < 2; i++ {
		l := c.seqs[i].Lift()
		if l.Cycle == model.CycleError {
			continue
		}
		c.seqs[i].EnterError(model.ErrCodeWatchdogExpiry)
	}
	if c.metrics != nil {
		c.metrics.WatchdogTrips.Inc()
	}
}

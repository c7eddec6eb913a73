// Package supervisor implements the Cell aggregate of spec §3 and its
// fixed-cadence tick loop of §4.6 and §5: sample EcoToPlc, advance
// lift-1 then lift-2 (the deterministic order that gives lift 1
// validator priority on a simultaneous conflict), optionally auditing
// each lift's cycle change and recomputing its reach right after it
// ticks, then service the watchdog and publish to PlcToEco.
//
// Run is grounded directly on the teacher's ingester/network_poller.go
// Start(ctx) loop: poll once, then tick on a time.Ticker, selecting on
// ctx.Done() to stop.
package supervisor

import (
	"context"
	"time"

	"github.com/roelstierum/plcsim-go/internal/audit"
	"github.com/roelstierum/plcsim-go/internal/config"
	"github.com/roelstierum/plcsim-go/internal/metrics"
	"github.com/roelstierum/plcsim-go/internal/model"
	"github.com/roelstierum/plcsim-go/internal/obslog"
	"github.com/roelstierum/plcsim-go/internal/publish"
	"github.com/roelstierum/plcsim-go/internal/sequencer"
	"github.com/roelstierum/plcsim-go/internal/validator"
	"github.com/roelstierum/plcsim-go/internal/varspace"
)

// Cell owns both lift Sequencers and the shared tick loop that
// resolves their cross-lift reach conflicts through the Cell, rather
// than through any direct reference between the two Sequencers (spec
// §9's "Cyclic entity relationship" design note).
type Cell struct {
	space *varspace.Space
	pub   *publish.Publisher
	seqs  [2]*sequencer.Sequencer
	dur   config.Durations

	metrics *metrics.Collectors
	audit   audit.Sink
	log     *obslog.Logger

	watchdogWindow     time.Duration
	lastWatchdog       bool
	lastWatchdogChange time.Time
	watchdogTripped    bool
}

// New constructs a Cell for the two lifts described by cfg, writing
// into space. coll and sink may be nil; a nil sink disables audit
// recording entirely.
func New(space *varspace.Space, cfg *config.Config, coll *metrics.Collectors, sink audit.Sink) *Cell {
	dur := sequencer.Durations{
		ForkMove:   cfg.Durations.ForkMove,
		EngineMove: cfg.Durations.EngineMove,
		PickOffset: cfg.Durations.PickOffset,
	}
	lim1 := validatorLimits(cfg.Lift1)
	lim2 := validatorLimits(cfg.Lift2)

	c := &Cell{
		space:   space,
		pub:     publish.New(space),
		dur:     cfg.Durations,
		metrics: coll,
		audit:   sink,
		log:     obslog.New("supervisor"),
	}
	c.seqs[0] = sequencer.New(1, lim1, dur)
	c.seqs[1] = sequencer.New(2, lim2, dur)
	c.watchdogWindow = cfg.Durations.Watchdog
	return c
}

func validatorLimits(l config.LiftLimits) validator.Limits {
	return validator.Limits{MinRow: l.MinRow, MaxRow: l.MaxRow}
}

// Lift returns the live state for lift 1 or 2, for inspection by
// tests and diagnostics. The returned pointer is the Cell's own lift
// state, not a copy.
func (c *Cell) Lift(id int) *model.Lift {
	return c.seqs[id-1].Lift()
}

// Run drives the fixed-cadence tick loop until ctx is cancelled.
func (c *Cell) Run(ctx context.Context, period time.Duration) {
	c.log.Info("starting", "period", period)

	c.Tick(time.Now())

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("stopping")
			return
		case now := <-ticker.C:
			c.Tick(now)
		}
	}
}

// Tick advances both Sequencers exactly once and publishes the result.
// It is exported so tests can drive it with an explicit clock instead
// of Run's real ticker.
func (c *Cell) Tick(now time.Time) {
	start := now
	jobs := [2]model.Job{c.readJob(1), c.readJob(2)}
	clearAll := [2]bool{!jobs[0].Active(), !jobs[1].Active()}

	c.reconcileTrayOverride(1)
	c.reconcileTrayOverride(2)
	c.serviceClearError(1)
	c.serviceClearError(2)

	peer1 := c.peerView(0) // lift 1's view of lift 2, built before either ticks

	before0 := c.seqs[0].Lift().Cycle
	c.seqs[0].Tick(now, jobs[0], peer1, clearAll[0])
	c.recordTransition(1, before0, now, "tick")
	c.recomputeReach(0, jobs[0])

	// Lift 2 sees lift 1's state as just updated above, giving lift 1
	// priority on a conflict raised in the same tick (spec §5's
	// "Validator tie-break by lift id").
	peer2 := c.peerView(1)
	before1 := c.seqs[1].Lift().Cycle
	c.seqs[1].Tick(now, jobs[1], peer2, clearAll[1])
	c.recordTransition(2, before1, now, "tick")
	c.recomputeReach(1, jobs[1])

	c.serviceWatchdog(now)
	c.publishAll()

	if c.metrics != nil {
		c.metrics.TickDuration.Observe(time.Since(start).Seconds())
		befores := [2]int{before0, before1}
		for i := 0; i < 2; i++ {
			l := c.seqs[i].Lift()
			liftLabel := liftLabel(l.ID)
			c.metrics.LiftCycle.WithLabelValues(liftLabel).Set(float64(l.Cycle))
			c.metrics.LiftStatus.WithLabelValues(liftLabel).Set(float64(statusFor(l.Cycle)))
			// Count a rejection/cancellation once, on entry to 650.
			if l.Cycle == model.CycleRejected && befores[i] != model.CycleRejected && l.CancelCode != model.CancelNone {
				c.metrics.CancelCodes.WithLabelValues(liftLabel, l.CancelCode.String()).Inc()
			}
		}
	}
}

func (c *Cell) readJob(lift int) model.Job {
	p := varspace.EcoToPlc(lift)
	return model.Job{
		TaskType:    model.TaskType(c.space.ReadInt(p.TaskType)),
		Origin:      c.space.ReadInt(p.Origination),
		Destination: c.space.ReadInt(p.Destination),
		Ack:         c.space.ReadBool(p.AcknowledgeMovement),
		CancelReq:   varspace.ReadCancelAssignment(c.space, lift),
	}
}

// peerView builds the PeerView for the lift at the OTHER index of idx
// (idx is 0 for lift 1, 1 for lift 2), reflecting whatever state that
// other lift holds at the moment of the call.
func (c *Cell) peerView(idx int) sequencer.PeerView {
	other := c.seqs[1-idx].Lift()
	return sequencer.PeerView{
		Active:   model.JobActive(other.Cycle),
		ReachMin: other.ReachMin,
		ReachMax: other.ReachMax,
		InError:  other.Cycle == model.CycleError,
	}
}

func (c *Cell) recomputeReach(idx int, job model.Job) {
	l := c.seqs[idx].Lift()
	active := model.JobActive(l.Cycle)
	l.ReachMin, l.ReachMax = model.Reach(*l, job, active)
}

func (c *Cell) recordTransition(liftID, fromCycle int, now time.Time, reason string) {
	l := c.seqs[liftID-1].Lift()
	if l.Cycle == fromCycle {
		return
	}
	if c.audit != nil {
		if err := c.audit.Record(context.Background(), audit.Transition{
			Lift: liftID, FromCycle: fromCycle, ToCycle: l.Cycle, Reason: reason, At: now,
		}); err != nil {
			c.log.Warn("audit record failed", "lift", liftID, "err", err)
		}
	}
}

// reconcileTrayOverride implements spec §4.7/§9's xTrayInElevator
// override: if the PlcToEco value currently in the Space differs from
// what this Publisher itself last wrote there, an external write
// bypassed Set and must win — the Sequencer's tray_present is updated
// to match before this tick's Sequencer.Tick runs.
func (c *Cell) reconcileTrayOverride(lift int) {
	idx := lift - 1
	paths := varspace.PlcToEco(lift, idx)
	current, ok := c.space.Read(paths.TrayInElevator)
	if !ok {
		return
	}
	lastPublished, hadLast := c.pub.LastWritten(paths.TrayInElevator)
	if hadLast && lastPublished.Equal(current) {
		return
	}
	l := c.seqs[idx].Lift()
	l.TrayPresent = current.B
	c.log.Info("tray presence overridden externally", "lift", lift, "present", current.B)
}

// serviceClearError implements the xClearError leg of spec §4.5: a
// lift latched in Error only ever leaves it via this supervisor
// action, never by a Job field, since Tick's CycleError branch returns
// immediately without inspecting the job at all.
func (c *Cell) serviceClearError(lift int) {
	s := c.seqs[lift-1]
	if s.Lift().Cycle != model.CycleError {
		return
	}
	p := varspace.EcoToPlc(lift)
	if c.space.ReadBool(p.ClearError) {
		s.ClearError()
	}
}

func liftLabel(id int) string {
	if id == 1 {
		return "1"
	}
	return "2"
}

func statusFor(cycle int) model.StationStatus {
	switch {
	case cycle == model.CycleError:
		return model.StatusErr
	case cycle == model.CycleInit:
		return model.StatusBoot
	case cycle == model.CycleRejected:
		return model.StatusWarn
	case cycle == model.CycleIdle, cycle == model.CycleReady:
		return model.StatusOK
	default:
		return model.StatusSemiAuto
	}
}

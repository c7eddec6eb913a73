// Package publish implements the tick-scoped diff publisher of spec
// §4.7: it holds the last-published value per PlcToEco path and only
// calls Space.Write for paths whose value actually changed this tick,
// so subscribers (internal/transport/ws.go) only ever see real
// transitions.
package publish

import "github.com/roelstierum/plcsim-go/internal/varspace"

// Publisher tracks the last value written to each path it has ever
// published and skips a write when the value hasn't changed.
type Publisher struct {
	space *varspace.Space
	last  map[string]varspace.Value
}

// New returns a Publisher writing into space.
func New(space *varspace.Space) *Publisher {
	return &Publisher{space: space, last: make(map[string]varspace.Value)}
}

// Set writes path only if v differs from the last value this
// Publisher wrote there.
func (p *Publisher) Set(path string, v varspace.Value) {
	if last, ok := p.last[path]; ok && last.Equal(v) {
		return
	}
	p.last[path] = v
	p.space.Write(path, v)
}

// LastWritten returns the value this Publisher last wrote to path, and
// whether it has ever written there. The Cell Supervisor uses this to
// detect an external write that bypassed Set entirely — e.g. a
// transport-layer client writing xTrayInElevator directly — since
// Space.Read alone can't distinguish "we wrote this" from "someone
// else did".
func (p *Publisher) LastWritten(path string) (varspace.Value, bool) {
	v, ok := p.last[path]
	return v, ok
}

// SetTrayInElevator publishes an xTrayInElevator path, the single
// PlcToEco path the EcoSystem side is allowed to override directly
// (spec §4.7 and §9). It is Set with a Bool value and does nothing
// further about overrides: callers must reconcile an external override
// back into Lift.TrayPresent themselves before the next
// Sequencer.Tick. The Cell Supervisor publishes this path with Set and
// does that reconciliation in reconcileTrayOverride.
func (p *Publisher) SetTrayInElevator(path string, present bool) {
	p.Set(path, varspace.Bool(present))
}

package sequencer

import "github.com/roelstierum/plcsim-go/internal/model"

// ackEdge reports whether this tick's Ack level is a rising edge
// against the lift's last observed level, per spec §4.5's handshake
// protocol: "the Sequencer observes the rising edge ... and then when
// it emits a new handshake point it expects the supervisor to drop
// xAcknowledgeMovement back to false before the next rising edge
// counts." It always records the level seen this tick, so a
// supervisor that never drops the ack cannot produce a second edge.
func (s *Sequencer) ackEdge(job model.Job) bool {
	rising := job.Ack && !s.lift.LastAck()
	s.lift.SetLastAck(job.Ack)
	return rising
}

// publishHandshake sets the advertised expected job type and resets
// iRowNr to 0, per spec §9's Open Question resolution (iRowNr is
// published as 0 unless otherwise specified — it is declared but never
// consumed by the supervisor in observed traces).
func (s *Sequencer) publishHandshake(jt model.HandshakeJobType) {
	s.pendingHandshake = jt
	s.lift.HandshakeJobType = jt
	s.lift.HandshakeRowNr = 0
}

// clearHandshake drops the advertised handshake once it has been
// consumed, so a stale xAcknowledgeMovement read on a later, unrelated
// cycle cannot be mistaken for this handshake's acknowledgement.
func (s *Sequencer) clearHandshake() {
	s.pendingHandshake = model.HandshakeNone
	s.lift.HandshakeJobType = model.HandshakeNone
}

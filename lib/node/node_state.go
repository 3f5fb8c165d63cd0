package node

import (
	"fmt"
	"sync/atomic"
)

type State uint32

const (
	StateNONE State = iota
	StateBOOTING
	StateSERVING
	StateTERMINATING
)

var NodeInitState = StateNONE

func (s State) String() string {
	switch s {
	case StateNONE:
		return "NONE"
	case StateBOOTING:
		return "BOOTING"
	case StateSERVING:
		return "SERVING"
	case StateTERMINATING:
		return "TERMINATING"
	}

	return ""
}

func (s State) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", s.String())), nil
}

func (s *State) UnmarshalJSON(b []byte) (err error) {
	if len(b) < 2 {
		return fmt.Errorf("invalid node state: %q", b)
	}

	var c State
	switch string(b[1 : len(b)-1]) {
	case "NONE":
		c = StateNONE
	case "BOOTING":
		c = StateBOOTING
	case "SERVING":
		c = StateSERVING
	case "TERMINATING":
		c = StateTERMINATING
	default:
		return fmt.Errorf("unknown node state: %s", b)
	}

	*s = c

	return
}

// StateHolder can be read from the API handlers while the runner changes it.
type StateHolder struct {
	v uint32
}

func (h *StateHolder) State() State {
	return State(atomic.LoadUint32(&h.v))
}

func (h *StateHolder) SetBooting() {
	atomic.StoreUint32(&h.v, uint32(StateBOOTING))
}

func (h *StateHolder) SetServing() {
	atomic.StoreUint32(&h.v, uint32(StateSERVING))
}

func (h *StateHolder) SetTerminating() {
	atomic.StoreUint32(&h.v, uint32(StateTERMINATING))
}

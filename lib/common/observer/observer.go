package observer

import (
	"github.com/GianlucaGuarini/go-observable"
)

// LedgerObserver carries every externally observable ledger event. Events
// are triggered only after the transition that caused them was committed.
var LedgerObserver = observable.New()

const (
	VoterRegistered     = "voter-registered"
	ProposalCreated     = "proposal-created"
	VoteCast            = "vote-cast"
	DelegationSet       = "delegation-set"
	DelegationRevoked   = "delegation-revoked"
	ProposalClosed      = "proposal-closed"
	DecryptionRequested = "decryption-requested"
	DecryptionResolved  = "decryption-resolved"
	DecryptionFailed    = "decryption-failed"
	RefundIssued        = "refund-issued"
)

// Event is the payload passed to the observers of `LedgerObserver`.
type Event struct {
	Topic string                 `json:"topic"`
	Data  map[string]interface{} `json:"data"`
}

func NewEvent(topic string, kv ...interface{}) Event {
	e := Event{Topic: topic, Data: map[string]interface{}{}}
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		e.Data[k] = kv[i+1]
	}

	return e
}

func (e Event) String() string {
	return e.Topic
}

// Trigger sends e to the observers of its topic and of `All`.
func Trigger(e Event) {
	LedgerObserver.Trigger(e.Topic, e)
	LedgerObserver.Trigger(All, e)
}

// All is the topic that receives every event.
const All = "all"

// Provide test utilities for the common package
package common

import (
	"time"
)

var TestNetworkID = []byte("obscura-unittest")

// NewTestConfig returns a config for unittests with a fixed tally key.
func NewTestConfig() Config {
	p := NewConfig(TestNetworkID)
	for i := range p.TallyKey {
		p.TallyKey[i] = byte(i)
	}

	return p
}

func NewTestClock() *FixedClock {
	return NewFixedClock(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
}

package common

import (
	"sync"
	"time"
)

const (
	TIMEFORMAT_ISO8601 string = "2006-01-02T15:04:05.000000000Z07:00"
)

func FormatISO8601(t time.Time) string {
	return t.Format(TIMEFORMAT_ISO8601)
}

func NowISO8601() string {
	return FormatISO8601(time.Now())
}

func ParseISO8601(s string) (time.Time, error) {
	return time.Parse(TIMEFORMAT_ISO8601, s)
}

// Clock is the wall clock the ledger compares deadlines and timeouts against.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock only moves when it is told to.
type FixedClock struct {
	sync.RWMutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.RLock()
	defer c.RUnlock()

	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.Lock()
	defer c.Unlock()

	c.now = now
}

func (c *FixedClock) Add(d time.Duration) time.Time {
	c.Lock()
	defer c.Unlock()

	c.now = c.now.Add(d)
	return c.now
}

package runner

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
)

// NTPQueryFunc asks a NTP server for the offset of the local clock.
type NTPQueryFunc func(host string) (time.Duration, error)

func QueryNTP(host string) (time.Duration, error) {
	response, err := ntp.Query(host)
	if err != nil {
		return 0, err
	}

	return response.ClockOffset, nil
}

// NTPClock is the local clock corrected by the last offset reported by a NTP
// server. Without a server, or before the first successful sync, it is the
// local clock.
type NTPClock struct {
	sync.RWMutex
	host   string
	query  NTPQueryFunc
	offset time.Duration
}

func NewNTPClock(host string, query NTPQueryFunc) *NTPClock {
	if query == nil {
		query = QueryNTP
	}
	return &NTPClock{host: host, query: query}
}

func (c *NTPClock) Now() time.Time {
	c.RLock()
	defer c.RUnlock()

	return time.Now().Add(c.offset).UTC()
}

func (c *NTPClock) Offset() time.Duration {
	c.RLock()
	defer c.RUnlock()

	return c.offset
}

// Sync queries the server once; on failure the previous offset is kept.
func (c *NTPClock) Sync() error {
	if len(c.host) < 1 {
		return nil
	}

	offset, err := c.query(c.host)
	if err != nil {
		log.Warn("failed to query ntp server", "host", c.host, "error", err)
		return err
	}

	c.Lock()
	c.offset = offset
	c.Unlock()

	log.Debug("clock synced", "host", c.host, "offset", offset)

	return nil
}

// Run syncs every interval until stop is closed.
func (c *NTPClock) Run(interval time.Duration, stop <-chan struct{}) {
	if len(c.host) < 1 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sync()
		case <-stop:
			return
		}
	}
}

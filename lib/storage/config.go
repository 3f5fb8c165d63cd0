package storage

import (
	"net/url"

	"boscoin.io/obscura/lib/errors"
)

// Config selects the LevelDB backend: `file:///path/to/db` or `memory://`.
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (*Config, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return nil, errors.InvalidStorageConfig.Clone().SetData("error", err.Error())
	}

	switch parsed.Scheme {
	case "file":
		if len(parsed.Path) < 1 {
			return nil, errors.InvalidStorageConfig.Clone().SetData("error", "empty path")
		}
		return &Config{Scheme: "file", Path: parsed.Path}, nil
	case "memory":
		return &Config{Scheme: "memory"}, nil
	default:
		return nil, errors.InvalidStorageConfig.Clone().SetData("scheme", parsed.Scheme)
	}
}

func (c Config) String() string {
	if c.Scheme == "memory" {
		return "memory://"
	}

	return (&url.URL{Scheme: c.Scheme, Path: c.Path}).String()
}

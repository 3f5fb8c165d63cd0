package version

import (
	"fmt"
	"runtime"
)

var (
	Version             = "0.1.0" // follows SemVer (https://semver.org)
	GitCommit, GitState string    // set by the build system with -ldflags
	BuildDate           string    // set by the build system with -ldflags
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GitState  string `json:"git_state"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitState:  GitState,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

func ToDetailVersion() string {
	return fmt.Sprintf("version=%s git=%s build=%s", Version, GitCommit, BuildDate)
}

package buildinfo

import (
	"runtime/debug"
	"sync"
)

// Set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info contains build information.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

var (
	once     sync.Once
	embedded Info
)

// Get returns the build information.
func Get() Info {
	once.Do(func() {
		embedded = fromBuildInfo(debug.ReadBuildInfo())
	})

	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: embedded.GoVersion,
	}
	if info.Commit == "unknown" && embedded.Commit != "" {
		info.Commit = embedded.Commit
	}
	if info.BuildTime == "unknown" && embedded.BuildTime != "" {
		info.BuildTime = embedded.BuildTime
	}
	if info.GoVersion == "" {
		info.GoVersion = "unknown"
	}
	return info
}

func fromBuildInfo(bi *debug.BuildInfo, ok bool) Info {
	var info Info
	if !ok || bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
			if len(info.Commit) > 12 {
				info.Commit = info.Commit[:12]
			}
		case "vcs.time":
			info.BuildTime = s.Value
		}
	}
	return info
}

// String returns a formatted version string.
func String() string {
	i := Get()
	return i.Version + " (" + i.Commit + ") built at " + i.BuildTime + " with " + i.GoVersion
}

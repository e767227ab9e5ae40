package version

import (
	"runtime"
	"runtime/debug"
)

var version = "dev"

// Info is the machine-readable version report.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Version returns the current version string
func Version() string {
	if rev := Revision(); rev != "" {
		return version + " (" + rev + ")"
	}
	return version
}

// Revision returns the VCS revision recorded in build info, shortened.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}

// GetInfo collects version details.
func GetInfo() Info {
	return Info{
		Version:   version,
		Revision:  Revision(),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

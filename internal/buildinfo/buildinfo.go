// Package buildinfo reports the version the binary was built with.
//
// The values are set with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/shopclient/internal/buildinfo.buildVersion=v1.2.0"
//
// When unset, the module version and VCS revision recorded by the Go
// toolchain are used where available.
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const na = "N/A"

type Info struct {
	Version string
	Date    string
	Commit  string
}

var readBuildInfo = debug.ReadBuildInfo

// Get returns the linked-in values, falling back to the embedded build info.
func Get() Info {
	info := Info{Version: buildVersion, Date: buildDate, Commit: buildCommit}

	if bi, ok := readBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			}
		}
	}

	if info.Version == "" {
		info.Version = na
	}
	if info.Date == "" {
		info.Date = na
	}
	if info.Commit == "" {
		info.Commit = na
	}
	return info
}

func PrintBuildData(w io.Writer) {
	info := Get()
	fmt.Fprintf(w, "Build version: %s\n", info.Version)
	fmt.Fprintf(w, "Build date: %s\n", info.Date)
	fmt.Fprintf(w, "Build commit: %s\n", info.Commit)
}

// Package version resolves the build version of the binary.
package version

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

// Info describes the running build.
type Info struct {
	Version   string
	Revision  string
	Dirty     bool
	GoVersion string
	Install   InstallMethod
}

// InstallMethod represents how the binary was installed.
type InstallMethod string

const (
	InstallMethodGo     InstallMethod = "go"
	InstallMethodBinary InstallMethod = "binary"
)

// Effective returns v when set at build time via ldflags, otherwise a
// version derived from the Go build info.
func Effective(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	revision, dirty := vcs(info)
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + ShortRevision(revision)
	if dirty {
		ver += "+dirty"
	}
	return ver
}

func vcs(info *debug.BuildInfo) (revision string, dirty bool) {
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return revision, dirty
}

// Current collects Info for the running binary.
func Current(v string) Info {
	out := Info{
		Version:   Effective(v),
		GoVersion: runtime.Version(),
		Install:   DetectInstallMethod(),
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		out.Revision, out.Dirty = vcs(info)
	}
	return out
}

// ShortRevision returns the first 12 chars of a revision.
func ShortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// DetectInstallMethod reports whether the binary lives in a Go bin directory.
func DetectInstallMethod() InstallMethod {
	exe, err := os.Executable()
	if err != nil {
		return InstallMethodBinary
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if isGoBin(filepath.Dir(exe)) {
		return InstallMethodGo
	}
	return InstallMethodBinary
}

func isGoBin(dir string) bool {
	if gobin := os.Getenv("GOBIN"); gobin != "" && dir == gobin {
		return true
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" && dir == filepath.Join(gopath, "bin") {
		return true
	}
	if home, err := os.UserHomeDir(); err == nil && dir == filepath.Join(home, "go", "bin") {
		return true
	}
	sep := string(filepath.Separator)
	return strings.Contains(dir+sep, sep+"go"+sep+"bin"+sep)
}

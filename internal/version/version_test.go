package version

import (
	"path/filepath"
	"runtime/debug"
	"testing"
)

func TestEffectivePrefersLdflags(t *testing.T) {
	if got := Effective("v1.2.3"); got != "v1.2.3" {
		t.Errorf("Effective() = %q", got)
	}
}

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name string
		info debug.BuildInfo
		want string
	}{
		{
			name: "module version",
			info: debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			want: "v0.4.0",
		},
		{
			name: "devel with vcs",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: "devel+0123456789ab+dirty",
		},
		{
			name: "no vcs",
			info: debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: "devel",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromBuildInfo(&tt.info); got != tt.want {
				t.Errorf("fromBuildInfo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsGoBin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GOBIN", dir)
	t.Setenv("GOPATH", t.TempDir())
	if !isGoBin(dir) {
		t.Error("GOBIN not detected")
	}
	if !isGoBin(filepath.Join("/home/x", "go", "bin")) {
		t.Error("go/bin path not detected")
	}
	if isGoBin("/usr/local/bin") {
		t.Error("/usr/local/bin reported as go bin")
	}
}

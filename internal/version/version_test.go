package version

import (
	"runtime/debug"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	vcs := func(kv ...string) *debug.BuildInfo {
		info := &debug.BuildInfo{}
		for i := 0; i+1 < len(kv); i += 2 {
			info.Settings = append(info.Settings, debug.BuildSetting{Key: kv[i], Value: kv[i+1]})
		}
		return info
	}

	tests := []struct {
		name        string
		version     string
		commit      string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "ldflags win",
			version:     "v1.2.3",
			commit:      "abc123",
			info:        vcs("vcs.revision", "0123456789abcdef"),
			wantVersion: "v1.2.3",
			wantCommit:  "abc123",
		},
		{
			name:        "vcs info",
			info:        vcs("vcs.revision", "0123456789abcdef", "vcs.time", "2024-01-02T03:04:05Z"),
			wantVersion: "dev-20240102",
			wantCommit:  "0123456",
		},
		{
			name:        "dirty tree",
			info:        vcs("vcs.revision", "abc", "vcs.modified", "true"),
			wantVersion: "dev-20240309-140500",
			wantCommit:  "abc-dirty",
		},
		{
			name:        "module version",
			info:        &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			wantVersion: "v0.4.0",
			wantCommit:  "unknown",
		},
		{
			name:        "devel module falls back",
			info:        &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVersion: "dev-20240309-140500",
			wantCommit:  "unknown",
		},
		{
			name:        "no build info",
			wantVersion: "dev-20240309-140500",
			wantCommit:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := resolve(tt.version, tt.commit, tt.info, now)
			if v != tt.wantVersion || c != tt.wantCommit {
				t.Errorf("resolve() = %q, %q, want %q, %q", v, c, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestFull(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "v1.2.3", "abc123"
	if got := Full(); got != "v1.2.3 (commit: abc123)" {
		t.Errorf("Full() = %q, want %q", got, "v1.2.3 (commit: abc123)")
	}
}

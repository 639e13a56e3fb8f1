package version

import (
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if got := Plain(); got != "0.1.0-dev" {
		t.Errorf("Plain() = %q, want %q", got, "0.1.0-dev")
	}
}

func TestPlain_StripsColour(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "\x1b[33;1m1\x1b[0m.\x1b[32;1m2\x1b[0m.\x1b[34;1m3\x1b[0m"
	if got := Plain(); got != "1.2.3" {
		t.Errorf("Plain() = %q, want %q", got, "1.2.3")
	}

	Version = "  "
	if got := Plain(); got != "dev" {
		t.Errorf("Plain() = %q, want %q", got, "dev")
	}
}

func TestCollect(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	// Override values (simulating build-time ldflags)
	GitCommit = " abc123def456\n"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Collect()
	if info.GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
	if info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
	if info.GitMessage != "" {
		t.Errorf("GitMessage should be empty, got %q", info.GitMessage)
	}
}

// BenchmarkPlain benchmarks stripping colour from the version
func BenchmarkPlain(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Plain()
	}
}

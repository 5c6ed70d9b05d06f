package version

import (
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	b := Current()
	if b.Version == "" {
		t.Error("version should not be empty")
	}
	if b.Commit == "" {
		t.Error("commit should not be empty")
	}
	if b.Date == "" {
		t.Error("date should not be empty")
	}
}

func TestBuildString(t *testing.T) {
	s := Current().String()
	for _, part := range []string{"version=", "commit=", "date="} {
		if !strings.Contains(s, part) {
			t.Errorf("String should contain %q, got %q", part, s)
		}
	}
}

package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommandOutput(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	got := out.String()
	if !strings.HasPrefix(got, "skillparse "+Version) {
		t.Errorf("output = %q, want prefix %q", got, "skillparse "+Version)
	}
	if !strings.Contains(got, "commit "+GitCommit) {
		t.Errorf("output = %q, missing commit %q", got, GitCommit)
	}
	if !strings.Contains(got, "built "+BuildDate) {
		t.Errorf("output = %q, missing build date %q", got, BuildDate)
	}
}

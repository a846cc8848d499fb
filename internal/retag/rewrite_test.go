package retag

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elainajones/robotkit/internal/robot"
)

const suiteText = `*** Settings ***
Resource  common.robot

*** Test Cases ***
TC_001 Cold Boot
    [Tags]  smoke  TC_001
    Boot Host

TC_002 Warm Boot
    [Tags]  smoke  TC_002
    Reboot Host
`

func writeSuite(t *testing.T, text string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "smoke.robot")
	if err := os.WriteFile(p, []byte(text), 0600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSplitAtTestCases(t *testing.T) {
	preamble, body, ok := splitAtTestCases(suiteText)
	if !ok {
		t.Fatal("splitAtTestCases found no test cases section")
	}
	if !strings.HasSuffix(preamble, "*** Test Cases ***\n") {
		t.Errorf("preamble does not end at the header: %q", preamble)
	}
	if !strings.HasPrefix(body, "TC_001 Cold Boot") {
		t.Errorf("body does not start at the first test: %q", body)
	}

	if _, _, ok := splitAtTestCases("*** Keywords ***\nBoot Host\n"); ok {
		t.Error("splitAtTestCases matched a file without test cases")
	}
}

func TestRewrite(t *testing.T) {
	p := writeSuite(t, suiteText)

	err := Rewrite(p, "TC_001", "TC_001 Cold Boot", []string{"bios", "TC_001"})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	tcs := robot.ReadTestCases([]string{p})
	got := tcs["smoke.tc_001 cold boot"]
	if diff := cmp.Diff([]string{"bios", "TC_001"}, got.Tags); diff != "" {
		t.Errorf("rewritten tags -want,+got:\n%s", diff)
	}
	// The sibling test keeps its tags.
	other := tcs["smoke.tc_002 warm boot"]
	if diff := cmp.Diff([]string{"smoke", "TC_002"}, other.Tags); diff != "" {
		t.Errorf("untouched tags -want,+got:\n%s", diff)
	}
}

// A renamed test case is still found through its ID tag.
func TestRewrite_IDFallback(t *testing.T) {
	p := writeSuite(t, suiteText)

	err := Rewrite(p, "TC_001", "TC_001 Old Name", []string{"bios", "TC_001"})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	tcs := robot.ReadTestCases([]string{p})
	got := tcs["smoke.tc_001 cold boot"]
	if diff := cmp.Diff([]string{"bios", "TC_001"}, got.Tags); diff != "" {
		t.Errorf("rewritten tags -want,+got:\n%s", diff)
	}
}

func TestRewrite_NoTestCases(t *testing.T) {
	p := writeSuite(t, "*** Keywords ***\nBoot Host\n    Log  boot\n")
	if err := Rewrite(p, "TC_001", "TC_001 Cold Boot", nil); err == nil {
		t.Error("Rewrite on a resource file got nil error")
	}
}

func TestApply(t *testing.T) {
	p := writeSuite(t, suiteText)
	tcs := robot.ReadTestCases([]string{p})

	plan := Plan{
		"tc_001 cold boot": {
			NewTags:    []string{"bios"},
			RemoveTags: []string{"smoke"},
		},
	}
	if err := Apply(tcs, plan); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got := robot.ReadTestCases([]string{p})["smoke.tc_001 cold boot"]
	if diff := cmp.Diff([]string{"TC_001", "bios"}, got.Tags); diff != "" {
		t.Errorf("Apply tags -want,+got:\n%s", diff)
	}
}

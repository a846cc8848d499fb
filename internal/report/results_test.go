package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const resultXML = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="Tests*" tests="2" timestamp="20240513 09:15:01.000">
  <properties>
    <property name="03_bios" value="1.2.3"/>
  </properties>
  <testcase name="TC_001 Boot" time="12.5"/>
  <testsuite name="Smoke" timestamp="20240513 09:15:01.000">
    <testcase name="TC_001 Boot" time="12.5">
      <failure message="AssertionError: expected On"/>
    </testcase>
    <testcase name="TC_002 Idle" time="3.0">
      <skipped message="no image"/>
    </testcase>
  </testsuite>
</testsuite>
`

func TestReadResults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "xunit.xml")
	if err := os.WriteFile(p, []byte(resultXML), 0600); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "broken.xml")
	if err := os.WriteFile(bad, []byte("<unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	got := ReadResults([]string{p, bad})
	want := []Result{{
		Suite:     "Smoke",
		Name:      "TC_001 Boot",
		Fails:     []string{"AssertionError: expected On"},
		Time:      12.5,
		Timestamp: "20240513 09:15:01.000",
		BIOS:      "1.2.3",
	}, {
		Suite:     "Smoke",
		Name:      "TC_002 Idle",
		Skips:     []string{"no image"},
		Time:      3.0,
		Timestamp: "20240513 09:15:01.000",
		BIOS:      "1.2.3",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadResults -want,+got:\n%s", diff)
	}
}

func TestResultFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"xunit.xml", "output.xml", "log.html"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	got := ResultFiles(dir)
	want := []string{filepath.Join(dir, "xunit.xml")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResultFiles -want,+got:\n%s", diff)
	}
}

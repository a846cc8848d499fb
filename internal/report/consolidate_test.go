package report

import "testing"

func TestConsolidate(t *testing.T) {
	results := []Result{
		{Suite: "smoke", Name: "TC_001 Boot", Fails: []string{"AssertionError"}},
		{Suite: "smoke", Name: "TC_001 Boot"},
		{Suite: "smoke", Name: "TC_002 Idle"},
		{Suite: "smoke", Name: "TC_002 Idle", Fails: []string{"Timeout"}},
		{Suite: "smoke", Name: "TC_003 Flash", Skips: []string{"no image"}},
	}

	runs := Consolidate(results)
	if got, want := len(runs), 3; got != want {
		t.Fatalf("Consolidate got %d runs, want %d", got, want)
	}

	// The passing rerun replaces the earlier failure.
	if run := runs["smoke.tc_001 boot"]; !run.Pass {
		t.Errorf("rerun of TC_001 should have consolidated to a pass")
	}
	// The earlier pass survives a failing rerun.
	if run := runs["smoke.tc_002 idle"]; !run.Pass {
		t.Errorf("pass of TC_002 should survive a failing rerun")
	}
	if run := runs["smoke.tc_003 flash"]; run.Pass {
		t.Errorf("skipped TC_003 should not count as passing")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		desc  string
		fails []string
		skips []string
		want  string
	}{{
		desc: "passed",
		want: "PASSED",
	}, {
		desc:  "failed",
		fails: []string{"AssertionError"},
		want:  "FAILED",
	}, {
		desc:  "skipped",
		skips: []string{"no image"},
		want:  "SKIPPED",
	}, {
		desc:  "failure outranks skip",
		fails: []string{"AssertionError"},
		skips: []string{"no image"},
		want:  "FAILED",
	}}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			if got := Status(test.fails, test.skips); got != test.want {
				t.Errorf("Status got %q, want %q", got, test.want)
			}
		})
	}
}

func TestFailSummary(t *testing.T) {
	got := FailSummary([]string{"a", "b"}, []string{"c"})
	if want := "a; b; c"; got != want {
		t.Errorf("FailSummary got %q, want %q", got, want)
	}
	if got := FailSummary(nil, nil); got != "" {
		t.Errorf("FailSummary of no messages got %q", got)
	}
}

package affected

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPopularity(t *testing.T) {
	kws := index(
		kw("common", "Power Cycle", "common.robot", nil, "Log  cycling"),
		kw("common", "Reboot Host", "common.robot", nil, "Power Cycle"),
		kw("suite", "Prepare", "suite.robot", []string{"common.robot"}, "Power Cycle", "Reboot Host"),
		kw("suite", "Suite Setup Hook", "suite.robot", nil, "Prepare"),
	)
	tcs := testIndex(
		tc("smoke", "TC_001 Boot", "smoke.robot", []string{"TC_001"}, "Reboot Host"),
	)

	got := Popularity(kws, tcs)

	// Suite setup pseudo keywords are excluded from the ranking.
	for _, u := range got {
		if u.Key == "suite.suite setup hook" {
			t.Errorf("Popularity ranked %q", u.Key)
		}
	}

	counts := map[string]int{}
	for _, u := range got {
		counts[u.Key] = u.Count
	}
	// Power Cycle: called by Reboot Host (same file) and by Prepare
	// (imports common.robot).  Reboot Host: Prepare only; the smoke
	// test lives in another file without the import.  Prepare: the
	// setup hook in its own file, which counts as a caller even
	// though hooks are not ranked themselves.
	want := map[string]int{
		"common.power cycle": 2,
		"common.reboot host": 1,
		"suite.prepare":      1,
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("Popularity counts -want,+got:\n%s", diff)
	}

	for i := 1; i < len(got); i++ {
		if got[i-1].Count > got[i].Count {
			t.Errorf("Popularity not ascending: %v", got)
		}
	}
}

package report

import (
	"strings"

	"github.com/elainajones/robotkit/internal/robot"
)

// Run is a consolidated result keyed into the suite index.
type Run struct {
	Result
	Pass bool
}

// isPass treats a result with no non-empty failure or skip message as
// passing.
func isPass(r Result) bool {
	for _, m := range r.Fails {
		if m != "" {
			return false
		}
	}
	for _, m := range r.Skips {
		if m != "" {
			return false
		}
	}
	return true
}

// Consolidate dedupes results by suite and test name.  Reruns are
// common; a passing run always wins over a failing duplicate.
func Consolidate(results []Result) map[string]Run {
	runs := map[string]Run{}
	for _, r := range results {
		key := robot.Key(r.Suite, r.Name)
		run := Run{Result: r, Pass: isPass(r)}

		have, ok := runs[key]
		switch {
		case !ok:
			runs[key] = run
		case have.Pass:
			// Existing run already passed; this is a duplicate.
		case run.Pass:
			runs[key] = run
		}
	}
	return runs
}

// Status reports the run outcome for a result whose messages have
// been normalized with SplitMessages.
func Status(fails, skips []string) string {
	switch {
	case len(fails) > 0:
		return "FAILED"
	case len(skips) > 0:
		return "SKIPPED"
	}
	return "PASSED"
}

// firstOr returns the first element or the empty string.  Result
// files are expected to carry at most one failure and one skip per
// test case.
func firstOr(msgs []string) string {
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// FailSummary joins normalized failure and skip messages for the
// report's reason column.
func FailSummary(fails, skips []string) string {
	var all []string
	all = append(all, fails...)
	all = append(all, skips...)
	return strings.Join(all, "; ")
}

// Package retag applies bulk tag changes to test cases in place,
// driven by a CSV plan.
package retag

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/elainajones/robotkit/internal/robot"
)

// Entry is the tag change requested for one test case.
type Entry struct {
	NewTags    []string
	RemoveTags []string
}

// Plan maps lowercase test case names to their requested tag changes.
type Plan map[string]Entry

// planColumns is the expected width of a plan row: id, name, new tags,
// remove tags, and a trailing notes column.  Shorter rows are padded.
const planColumns = 5

// ReadPlan reads a retag plan.  The second column is the test case
// name; the third and fourth columns hold space-separated tags to add
// and to remove.
func ReadPlan(r io.Reader) (Plan, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	plan := Plan{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for len(row) < planColumns {
			row = append(row, "")
		}
		name := row[1]
		plan[strings.ToLower(name)] = Entry{
			NewTags:    strings.Fields(row[2]),
			RemoveTags: strings.Fields(row[3]),
		}
	}
	return plan, nil
}

// MergeTags computes the final tag set for a test case: the original
// tags minus the removed ones (case-insensitive), plus the new ones,
// with the test ID tag re-inserted if absent and duplicates dropped in
// first-seen order.
func MergeTags(tc robot.TestCase, e Entry) []string {
	remove := map[string]bool{}
	for _, t := range e.RemoveTags {
		remove[strings.ToLower(t)] = true
	}

	var tags []string
	for _, t := range tc.Tags {
		if !remove[strings.ToLower(t)] {
			tags = append(tags, t)
		}
	}
	tags = append(tags, e.NewTags...)

	if tc.ID != "" && !containsFold(tags, tc.ID) {
		tags = append(tags, tc.ID)
	}

	seen := map[string]bool{}
	var unique []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}
	return unique
}

func containsFold(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

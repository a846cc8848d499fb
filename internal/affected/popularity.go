package affected

import (
	"regexp"
	"sort"

	"github.com/sourcegraph/conc"

	"github.com/elainajones/robotkit/internal/robot"
)

// usage is the common view of a keyword or test case body needed for
// use counting.
type usage struct {
	file      string
	text      string
	resources []string
}

func keywordUsages(kws robot.Keywords) []usage {
	us := make([]usage, 0, len(kws))
	for _, kw := range kws {
		us = append(us, usage{
			file:      robot.BaseName(kw.Path),
			text:      kw.Text,
			resources: baseNames(kw.Resources),
		})
	}
	return us
}

func testUsages(tcs robot.TestCases) []usage {
	us := make([]usage, 0, len(tcs))
	for _, tc := range tcs {
		us = append(us, usage{
			file:      robot.BaseName(tc.Path),
			text:      tc.Text,
			resources: baseNames(tc.Resources),
		})
	}
	return us
}

func baseNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, robot.BaseName(p))
	}
	return names
}

// countUses counts bodies that invoke the named keyword and could
// plausibly resolve it: the body either lives in the keyword's own
// file or imports it as a resource.
func countUses(us []usage, m *regexp.Regexp, file string) int {
	count := 0
	for _, u := range us {
		if !m.MatchString(u.text) {
			continue
		}
		if u.file == file || contains(u.resources, file) {
			count++
		}
	}
	return count
}

// Use is a keyword's usage count in the popularity ranking.
type Use struct {
	Key   string
	Count int
}

// notRankedRE excludes suite and test setup/teardown pseudo keywords
// from the ranking.
var notRankedRE = regexp.MustCompile(`(?i)(suite|test).+(setup|teardown)`)

// Popularity counts how often each keyword is invoked across the
// keyword and test case indexes and returns the result sorted by
// ascending use count.  The two indexes are scanned by a pair of
// concurrent workers per keyword, joined before moving on; the scans
// are read-only so no locking is needed beyond the join.
func Popularity(kws robot.Keywords, tcs robot.TestCases) []Use {
	kwUses := keywordUsages(kws)
	tcUses := testUsages(tcs)
	ms := matchers{}

	var rank []Use
	for key, kw := range kws {
		if notRankedRE.MatchString(key) {
			continue
		}
		m := ms.get(kw.Name)
		file := robot.BaseName(kw.Path)

		var kwCount, tcCount int
		var wg conc.WaitGroup
		wg.Go(func() { kwCount = countUses(kwUses, m, file) })
		wg.Go(func() { tcCount = countUses(tcUses, m, file) })
		wg.Wait()

		rank = append(rank, Use{Key: key, Count: kwCount + tcCount})
	}

	sort.Slice(rank, func(i, j int) bool {
		if rank[i].Count == rank[j].Count {
			return rank[i].Key < rank[j].Key
		}
		return rank[i].Count < rank[j].Count
	})
	return rank
}

// Package affected computes which keywords and test cases are
// affected by a changed keyword.
//
// A keyword invocation is matched textually: the name preceded by two
// or more whitespace characters or a tab, and followed by the same or
// end of text, case-insensitive.  The same keyword name defined in
// different files is not disambiguated; the match is intentionally
// dumb and errs toward over-reporting.
package affected

import (
	"encoding/csv"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/elainajones/robotkit/internal/robot"
)

// matcher compiles the invocation pattern for a keyword name.
func matcher(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:\s{2,}|\t)` + regexp.QuoteMeta(name) + `(?:\s{2,}|\t|\n?\z)`)
}

// matchers caches compiled invocation patterns by lowercase name.
type matchers map[string]*regexp.Regexp

func (ms matchers) get(name string) *regexp.Regexp {
	name = strings.ToLower(name)
	m, ok := ms[name]
	if !ok {
		m = matcher(name)
		ms[name] = m
	}
	return m
}

// affectedBy returns the blacklisted names whose invocation pattern
// matches inside text, lowercased and deduplicated.
func affectedBy(text string, blacklist []string, ms matchers) []string {
	var names []string
	for _, name := range blacklist {
		if ms.get(name).MatchString(text) {
			names = append(names, strings.ToLower(name))
		}
	}
	sort.Strings(names)
	return names
}

// Closure is the fixed point of the affected-keyword walk.
type Closure struct {
	// Keywords maps the index key of each affected keyword to the
	// blacklisted names found in its body.
	Keywords map[string][]string

	blacklist map[string]bool // Keyword names, lowercase.
	files     map[string]bool // Suite file base names.
	ms        matchers
}

// Names returns the final keyword blacklist, sorted.
func (c *Closure) Names() []string {
	names := make([]string, 0, len(c.blacklist))
	for name := range c.blacklist {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk computes the transitive closure of keywords affected by the
// seed keyword.  The blacklist grows until an iteration adds no new
// name: a keyword is blacklisted when its body invokes the seed, when
// it resides in a file already blacklisted, or when it imports a
// resource file that is blacklisted.
func Walk(seed string, kws robot.Keywords) *Closure {
	seed = strings.ToLower(seed)
	c := &Closure{
		Keywords:  map[string][]string{},
		blacklist: map[string]bool{seed: true},
		files:     map[string]bool{},
		ms:        matchers{},
	}

	for {
		before := len(c.blacklist)
		c.sweep(seed, kws)
		if len(c.blacklist) == before {
			return c
		}
	}
}

func (c *Closure) sweep(seed string, kws robot.Keywords) {
	blacklist := c.Names()
	for key, kw := range kws {
		names := affectedBy(kw.Text, blacklist, c.ms)
		if len(names) == 0 {
			continue
		}
		c.Keywords[key] = mergeNames(c.Keywords[key], names)

		file := robot.BaseName(kw.Path)
		if file == "" {
			continue
		}
		switch {
		case contains(names, seed):
			// Directly invokes the seed keyword.
			c.blacklist[strings.ToLower(kw.Name)] = true
			c.files[file] = true
		case c.files[file]:
			// Invokes a blacklisted keyword that likely came
			// from the same file.
			c.blacklist[strings.ToLower(kw.Name)] = true
		case c.importsBlacklisted(kw.Resources):
			// Invokes a blacklisted keyword that likely came
			// from an imported resource.
			c.blacklist[strings.ToLower(kw.Name)] = true
		}
	}
}

func (c *Closure) importsBlacklisted(resources []string) bool {
	for _, r := range resources {
		if c.files[robot.BaseName(r)] {
			return true
		}
	}
	return false
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func mergeNames(have, add []string) []string {
	seen := map[string]bool{}
	for _, n := range have {
		seen[n] = true
	}
	for _, n := range add {
		seen[n] = true
	}
	merged := make([]string, 0, len(seen))
	for n := range seen {
		merged = append(merged, n)
	}
	sort.Strings(merged)
	return merged
}

// Test couples an affected test case with the blacklisted keyword
// names that triggered it.
type Test struct {
	robot.TestCase
	AffectedBy []string
}

// TestCases applies the final blacklist against the test case index.
// When required tags are given, a test case must carry all of them
// (case-insensitive) to be included.
func (c *Closure) TestCases(tcs robot.TestCases, requiredTags []string) []Test {
	var tests []Test
	blacklist := c.Names()
	for _, tc := range tcs {
		names := affectedBy(tc.Text, blacklist, c.ms)
		if len(names) == 0 {
			continue
		}
		if !hasAllTags(tc.Tags, requiredTags) {
			continue
		}
		tests = append(tests, Test{TestCase: tc, AffectedBy: names})
	}
	sort.Slice(tests, func(i, j int) bool {
		ki := robot.Key(tests[i].Suite, tests[i].Name)
		kj := robot.Key(tests[j].Suite, tests[j].Name)
		return ki < kj
	})
	return tests
}

func hasAllTags(tags, required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := map[string]bool{}
	for _, t := range tags {
		have[strings.ToLower(t)] = true
	}
	for _, t := range required {
		if !have[strings.ToLower(t)] {
			return false
		}
	}
	return true
}

// WriteCSV writes the affected test cases with the columns Suite,
// Test Case ID, Test Case Name, and Tags.
func WriteCSV(w io.Writer, tests []Test) error {
	cw := csv.NewWriter(w)
	heading := []string{"Suite", "Test Case ID", "Test Case Name", "Tags"}
	if err := cw.Write(heading); err != nil {
		return err
	}
	for _, t := range tests {
		row := []string{t.Suite, t.ID, t.Name, strings.Join(t.Tags, " ")}
		if err := cw.Write(row); err != nil {
			break
		}
	}
	cw.Flush()
	return cw.Error()
}

package robot

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/golang/glog"
)

var (
	resourceRE = regexp.MustCompile(`(?i)^resource\s+(\S.*\.robot)`)
	tagsRE     = regexp.MustCompile(`\[Tags\]([^\n]+)`)
	testIDRE   = regexp.MustCompile(`(?i)tc_[\d_-]+`)
)

// Resources returns the resource files imported by a settings section,
// one per `Resource  path/to/file.robot` line.
func Resources(settings string) []string {
	var resources []string
	sc := bufio.NewScanner(strings.NewReader(settings))
	for sc.Scan() {
		if m := resourceRE.FindStringSubmatch(sc.Text()); m != nil {
			resources = append(resources, strings.TrimSpace(m[1]))
		}
	}
	return resources
}

// Tags extracts the [Tags] list from a block body as a
// whitespace-separated tag list.  A block without tags yields nil.
func Tags(text string) []string {
	m := tagsRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return strings.Fields(m[1])
}

// TestID extracts the test identifier from a test case name, falling
// back to the first tc_ tag when the name carries no identifier.
func TestID(name string, tags []string) string {
	if id := testIDRE.FindString(name); id != "" {
		return id
	}
	for _, t := range tags {
		if strings.HasPrefix(strings.ToLower(t), "tc_") {
			return t
		}
	}
	return ""
}

// ReadKeywords builds the keyword index from suite files.  Files
// without a keywords section are resource-only and skipped.  Duplicate
// names are logged and the later entry wins.
func ReadKeywords(paths []string) Keywords {
	kws := Keywords{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		sections := Sections(string(data))
		body, ok := sections[SectionKeywords]
		if !ok {
			continue
		}
		resources := Resources(sections[SectionSettings])
		suite := SuiteName(p)
		for _, b := range Blocks(body) {
			key := Key(suite, b.Name)
			if _, dup := kws[key]; dup {
				glog.Warningf("Duplicate keyword %q in %s", b.Name, p)
			}
			kws[key] = Keyword{
				Suite:     suite,
				Name:      b.Name,
				Path:      p,
				Text:      b.Text,
				Resources: resources,
			}
		}
	}
	return kws
}

// ReadTestCases builds the test case index from suite files.  Files
// without a test cases section are resource-only and skipped.
// Duplicate names are logged and the later entry wins.
func ReadTestCases(paths []string) TestCases {
	tcs := TestCases{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		sections := Sections(string(data))
		body, ok := sections[SectionTestCases]
		if !ok {
			continue
		}
		resources := Resources(sections[SectionSettings])
		suite := SuiteName(p)
		for _, b := range Blocks(body) {
			key := Key(suite, b.Name)
			if _, dup := tcs[key]; dup {
				glog.Warningf("Duplicate test case %q in %s", b.Name, p)
			}
			tags := Tags(b.Text)
			tcs[key] = TestCase{
				Suite:     suite,
				ID:        TestID(b.Name, tags),
				Name:      b.Name,
				Path:      p,
				Text:      b.Text,
				Tags:      tags,
				Resources: resources,
			}
		}
	}
	return tcs
}

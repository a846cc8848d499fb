package robot

import (
	"bufio"
	"regexp"
	"strings"
)

// Section identifies a marker-delimited part of a suite file.
type Section int

// The sections the tools care about.  Headers that match the marker
// pattern but none of the known names are collected under
// SectionUnknown.
const (
	SectionUnknown Section = iota
	SectionSettings
	SectionKeywords
	SectionTestCases
)

// headerRE matches a section marker line such as `*** Test Cases ***`.
var headerRE = regexp.MustCompile(`^\*{3}[\w\s]+?\*{3}`)

func classify(header string) Section {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "settings"):
		return SectionSettings
	case strings.Contains(h, "keywords"):
		return SectionKeywords
	case strings.Contains(h, "test cases"):
		return SectionTestCases
	}
	return SectionUnknown
}

// Sections slices a suite file's text into its sections.  A section
// runs from the line after its header to the next header line or end
// of file.  Text before the first header is discarded and a repeated
// section name keeps the last occurrence.
func Sections(text string) map[Section]string {
	sections := map[Section]string{}
	cur := SectionUnknown
	seen := false
	var body strings.Builder

	flush := func() {
		if seen {
			sections[cur] = body.String()
		}
		body.Reset()
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if headerRE.MatchString(line) {
			flush()
			cur = classify(line)
			seen = true
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return sections
}

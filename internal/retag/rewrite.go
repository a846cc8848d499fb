package retag

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/golang/glog"

	"github.com/elainajones/robotkit/internal/robot"
)

var (
	testCasesHeaderRE = regexp.MustCompile(`(?im)^\*{3}\s+test\s+cases\s+\*{3}[^\n]*\n?`)
	tagsLineRE        = regexp.MustCompile(`(\[Tags\])[^\n]*`)
)

// splitAtTestCases splits a suite file's text into the preamble
// (everything through the test cases header line) and the test case
// section body.
func splitAtTestCases(text string) (preamble, body string, ok bool) {
	loc := testCasesHeaderRE.FindStringIndex(text)
	if loc == nil {
		return "", "", false
	}
	return text[:loc[1]], text[loc[1]:], true
}

// Rewrite replaces the [Tags] line of one test case in a suite file.
// The test case is matched by name; when the name no longer matches,
// the test ID is used as a fallback and a warning is logged since ID
// matching is less reliable.  The file is written atomically.
func Rewrite(path, id, name string, tags []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	preamble, body, ok := splitAtTestCases(string(data))
	if !ok {
		return fmt.Errorf("no test cases section in %s", path)
	}

	tagLine := "[Tags]  " + strings.Join(tags, "  ")
	var out strings.Builder
	out.WriteString(strings.TrimRight(preamble, "\n"))
	out.WriteString("\n\n")

	for _, b := range robot.Blocks(body) {
		blockTags := robot.Tags(b.Text)
		blockID := robot.TestID(b.Name, blockTags)

		text := b.Text
		switch {
		case strings.EqualFold(b.Name, name):
			text = tagsLineRE.ReplaceAllString(text, tagLine)
		case id != "" && blockID == id:
			// The name was probably changed out from under the
			// plan, so fall back to the ID.
			glog.Warningf("Test case name does not match for %s: want %q, found %q", id, name, b.Name)
			text = tagsLineRE.ReplaceAllString(text, tagLine)
		}
		out.WriteString(strings.TrimSpace(text))
		out.WriteString("\n\n")
	}

	return writeFile(path, out.String())
}

// writeFile commits new file contents with a temp file and rename.
func writeFile(path, data string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create: %w", err)
	}
	defer tmp.Close()
	if _, err := tmp.WriteString(data); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not rename: %w", err)
	}
	return nil
}

// Apply retags every test case in the index that has a plan entry.
func Apply(tcs robot.TestCases, plan Plan) error {
	for _, tc := range tcs {
		e, ok := plan[strings.ToLower(tc.Name)]
		if !ok {
			continue
		}
		tags := MergeTags(tc, e)
		glog.Infof("Updating tags for %s in %s", tc.ID, tc.Path)
		if err := Rewrite(tc.Path, tc.ID, tc.Name, tags); err != nil {
			return fmt.Errorf("retag %s: %w", tc.Path, err)
		}
	}
	return nil
}

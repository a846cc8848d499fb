// Package report joins parsed suite data with test run results and
// renders a spreadsheet report.
package report

import (
	"encoding/xml"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

// Result is one test case outcome from a result file.
type Result struct {
	Suite     string
	Name      string
	Fails     []string
	Skips     []string
	Time      float64
	Timestamp string
	BIOS      string
}

// ResultFiles returns the XML result files under root.  Files whose
// name contains "output" are raw Robot Framework output logs, not
// JUnit results, and are skipped.
func ResultFiles(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !d.IsDir() && strings.HasSuffix(name, ".xml") && !strings.Contains(name, "output") {
			files = append(files, p)
		}
		return nil
	})
	return files
}

// The result XML comes in three nesting shapes depending on how the
// run was launched: testsuite/testsuite/testcase for consolidated
// runs, testsuite/testcase for single runs, and a bare testcase list
// at the root for suite-level files.  The recursive suite element
// covers all of them.

type xmlMessage struct {
	Message string `xml:"message,attr"`
}

type xmlTestCase struct {
	Name     string       `xml:"name,attr"`
	Time     float64      `xml:"time,attr"`
	Failures []xmlMessage `xml:"failure"`
	Skipped  []xmlMessage `xml:"skipped"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlSuite struct {
	Name       string        `xml:"name,attr"`
	Timestamp  string        `xml:"timestamp,attr"`
	Properties []xmlProperty `xml:"properties>property"`
	Suites     []xmlSuite    `xml:"testsuite"`
	Cases      []xmlTestCase `xml:"testcase"`
}

// ReadResults parses test case results from the given result files.
// Unparseable files are logged and skipped.
func ReadResults(paths []string) []Result {
	var results []Result
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var root xmlSuite
		if err := xml.Unmarshal(data, &root); err != nil {
			glog.Warningf("Skipping unparseable result file %s: %v", p, err)
			continue
		}
		results = append(results, flatten(&root)...)
	}
	return results
}

// flatten walks the suite tree collecting test case results.  The run
// properties may carry the BIOS version under the "03_bios" key; the
// value applies to every case in the file.
func flatten(root *xmlSuite) []Result {
	bios := findProperty(root, "03_bios")

	var results []Result
	var walk func(s *xmlSuite, depth int)
	walk = func(s *xmlSuite, depth int) {
		// A root-level "Tests*" suite is a duplicate splatter of
		// the actual logs and matches nothing in the suite index.
		if depth == 0 && strings.EqualFold(s.Name, "tests*") {
			s.Cases = nil
		}
		for _, tc := range s.Cases {
			if tc.Name == "" {
				continue
			}
			results = append(results, Result{
				Suite:     s.Name,
				Name:      tc.Name,
				Fails:     messages(tc.Failures),
				Skips:     messages(tc.Skipped),
				Time:      tc.Time,
				Timestamp: s.Timestamp,
				BIOS:      bios,
			})
		}
		for i := range s.Suites {
			walk(&s.Suites[i], depth+1)
		}
	}
	walk(root, 0)
	return results
}

func messages(ms []xmlMessage) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.Message)
	}
	return out
}

func findProperty(root *xmlSuite, name string) string {
	for _, p := range root.Properties {
		if strings.EqualFold(p.Name, name) {
			return p.Value
		}
	}
	for i := range root.Suites {
		if v := findProperty(&root.Suites[i], name); v != "" {
			return v
		}
	}
	return ""
}

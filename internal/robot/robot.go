// Package robot parses Robot Framework suite files into keyword and
// test case indexes.
//
// Parsing is deliberately best effort: a suite file is sliced into its
// marker-delimited sections, each section is split into named blocks,
// and everything else is kept as raw text. There is no grammar and no
// error recovery beyond finding the next marker. Files lacking the
// wanted section are treated as resource-only files and skipped.
package robot

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Keyword is a named, reusable test step definition owned by a suite.
type Keyword struct {
	Suite     string
	Name      string
	Path      string
	Text      string
	Resources []string
}

// TestCase is a named, tagged, executable test definition.
type TestCase struct {
	Suite     string
	ID        string
	Name      string
	Path      string
	Text      string
	Tags      []string
	Resources []string
}

// Keywords indexes parsed keywords by Key(suite, name).
type Keywords map[string]Keyword

// TestCases indexes parsed test cases by Key(suite, name).
type TestCases map[string]TestCase

var suiteSepRE = regexp.MustCompile(`[-_]`)

// Key returns the case-insensitive index key for a named block.  The
// suite part has hyphens and underscores folded to spaces so the same
// suite referenced by file name or by display name keys identically.
func Key(suite, name string) string {
	return strings.ToLower(suiteSepRE.ReplaceAllString(suite, " ") + "." + name)
}

// BaseName returns the file name for a path written with either
// separator convention, so suite paths recorded on Windows still
// resolve on Linux and vice versa.
func BaseName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(p, "\\", "/"))
}

// SuiteName returns the suite name for a file path: the file base name
// without its extension.
func SuiteName(p string) string {
	base := BaseName(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package robot

import (
	"bufio"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Block is a named chunk of a section.  Text includes the header line
// and runs until the next block or the end of the section.
type Block struct {
	Name string
	Text string
}

// startsBlock reports whether an unindented line begins a new named
// block.  Block headers start with a word character or an opening
// bracket; any other unindented line only terminates the block in
// progress.
func startsBlock(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return r == '[' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// blockName is the header line with any trailing comment removed.
func blockName(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Blocks splits a section body into its named blocks.  A block starts
// at a line whose first character is neither whitespace nor a comment
// marker and runs until the next such line or end of text.
func Blocks(section string) []Block {
	var blocks []Block
	var body strings.Builder
	name := ""
	inBlock := false

	flush := func() {
		if inBlock {
			blocks = append(blocks, Block{Name: name, Text: body.String()})
		}
		body.Reset()
		inBlock = false
	}

	sc := bufio.NewScanner(strings.NewReader(section))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		r, _ := utf8.DecodeRuneInString(line)
		if line != "" && !strings.HasPrefix(line, "#") && !unicode.IsSpace(r) {
			flush()
			if startsBlock(line) {
				name = blockName(line)
				inBlock = true
			}
		}
		if inBlock {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()

	return blocks
}

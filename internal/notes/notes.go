// Package notes parses speaker-notes sidecar files.
//
// A notes file is UTF-8 text split into blocks by lines consisting of
// exactly "---". A block whose first line matches "--N--" (N a positive
// integer) is assigned slide N explicitly; any other block is assigned
// the next sequential index. Files with legacy single-byte encodings
// are decoded as Latin-1 rather than rejected.
package notes

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Map holds speaker notes keyed by 1-based slide index.
type Map map[int]string

// Get returns the notes for a slide. Missing notes are an empty
// string, never an error.
func (m Map) Get(slide int) string {
	return m[slide]
}

// Len returns the number of slides that have notes.
func (m Map) Len() int {
	return len(m)
}

// separator is a block delimiter line.
const separator = "---"

// markerRe matches an explicit slide assignment like "--12--".
var markerRe = regexp.MustCompile(`^--([0-9]+)--$`)

// Load reads and parses a sidecar file. A missing file is not an
// error: the returned map is simply empty.
func Load(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Map{}, nil
		}
		return nil, fmt.Errorf("opening notes file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads the full input and resolves blocks to slide indices.
//
// Sequential blocks continue counting from one past the highest index
// assigned so far, whether that assignment was explicit or sequential:
// a later sequential block never overwrites an earlier explicit one.
// A blank unmarked block is discarded but still consumes a sequential
// slot, keeping alignment with surrounding numbered blocks.
func Parse(r io.Reader) (Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading notes: %w", err)
	}

	m := Map{}
	next := 1 // next sequential index

	for _, block := range splitBlocks(decode(data)) {
		index := 0
		text := block

		if first, rest, found := strings.Cut(block, "\n"); found || block != "" {
			if n, ok := parseMarker(first); ok {
				index = n
				text = rest
			}
		}
		text = strings.TrimSpace(text)

		if index > 0 {
			if text != "" {
				m[index] = text
			}
			if index >= next {
				next = index + 1
			}
			continue
		}

		// Sequential assignment. Empty blocks reserve their index.
		if text != "" {
			m[next] = text
		}
		next++
	}

	return m, nil
}

// parseMarker recognises an explicit "--N--" assignment. A malformed
// marker (zero, overflow) is not treated as a marker at all: the block
// falls back to sequential assignment with the line kept as text.
func parseMarker(line string) (int, bool) {
	sub := markerRe.FindStringSubmatch(strings.TrimSpace(line))
	if sub == nil {
		return 0, false
	}
	n, err := strconv.Atoi(sub[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// splitBlocks cuts the content at separator lines. CRLF endings and
// surrounding whitespace on the separator itself are tolerated.
func splitBlocks(content string) []string {
	var blocks []string
	var cur strings.Builder

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == separator {
			blocks = append(blocks, cur.String())
			cur.Reset()
			continue
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	blocks = append(blocks, cur.String())

	return blocks
}

// decode returns the content as a string, falling back to Latin-1 for
// files that are not valid UTF-8.
func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

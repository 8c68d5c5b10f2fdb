package extract

import "strings"

// CodeFence tracks whether the scan is inside a <CODE BEGINS> ... <CODE ENDS>
// block. The zero value is outside any block.
type CodeFence struct {
	inside bool
	seen   bool
}

// Inside reports whether the fence is open.
func (f CodeFence) Inside() bool {
	return f.inside
}

// Seen reports whether any opening marker was observed.
func (f CodeFence) Seen() bool {
	return f.seen
}

// Advance updates the fence with a line and returns the new state. A line
// carrying a marker is itself part of the block.
func (e *Extractor) Advance(f CodeFence, line string) CodeFence {
	if e.codeBeginsPattern.MatchString(line) {
		f.inside = true
		f.seen = true
	}
	if e.codeEndsPattern.MatchString(line) {
		f.inside = false
	}
	return f
}

// IsFenceMarker reports whether line opens or closes a code block.
func (e *Extractor) IsFenceMarker(line string) bool {
	return e.codeBeginsPattern.MatchString(line) || e.codeEndsPattern.MatchString(line)
}

// InlineCode returns the first code comment lookalike in line: a "/*" or
// "*/" marker, or a "#" opening the trimmed line. Lines inside a code block
// are never reported.
func (e *Extractor) InlineCode(f CodeFence, line string) (Match, bool) {
	if f.inside || e.IsFenceMarker(line) {
		return Match{}, false
	}

	col := -1
	if loc := e.commentMarkPattern.FindStringIndex(line); loc != nil {
		col = loc[0]
	}
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		hash := len(line) - len(trimmed)
		if col < 0 || hash < col {
			col = hash
		}
	}
	if col < 0 {
		return Match{}, false
	}

	marker := line[col : col+1]
	if marker != "#" {
		marker = line[col : col+2]
	}
	return Match{Value: marker, Column: col + 1}, true
}

package clippings

// Delimiter is the line that terminates every clipping block.
const Delimiter = "=========="

// Splitter walks a decoded line slice and hands out the blocks between
// delimiter lines. It moves forward only; create a new Splitter to iterate
// again.
type Splitter struct {
	lines  []string
	cursor int
	done   bool
}

func NewSplitter(lines []string) *Splitter {
	return &Splitter{lines: lines}
}

// Next returns the lines between the cursor and the next delimiter, exclusive.
// It reports false once the input is exhausted, when no further delimiter
// exists, or when the next block would be empty. Content after the last
// delimiter is treated as trailing noise rather than a record.
func (s *Splitter) Next() ([]string, bool) {
	if s.done || s.cursor >= len(s.lines) {
		s.done = true
		return nil, false
	}

	start := s.cursor
	end := indexOf(s.lines, Delimiter, start)
	if end < 0 || end == start {
		s.done = true
		return nil, false
	}

	s.cursor = end + 1
	return s.lines[start:end:end], true
}

func indexOf(lines []string, target string, from int) int {
	for i := from; i < len(lines); i++ {
		if lines[i] == target {
			return i
		}
	}
	return -1
}

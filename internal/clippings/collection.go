package clippings

import (
	"io"
	"sort"

	"github.com/mrlokans/whoarder/internal/logger"
)

// Collection holds every clipping of one source, in source order, together
// with the distinct (book, author) pairs they belong to.
type Collection struct {
	clippings   []Clipping
	bookAuthors map[BookAuthor]struct{}
}

// Build parses every block in lines. The first invalid block aborts the build;
// no partial collection is returned.
func Build(lines []string, opts ...Option) (*Collection, error) {
	parser := NewParser(opts...)
	splitter := NewSplitter(lines)

	coll := &Collection{bookAuthors: make(map[BookAuthor]struct{})}
	for {
		block, ok := splitter.Next()
		if !ok {
			break
		}

		clipping, err := parser.Parse(block)
		if err != nil {
			return nil, err
		}
		coll.clippings = append(coll.clippings, clipping)
		coll.bookAuthors[clipping.BookAuthor()] = struct{}{}
	}

	logger.Debug("built clippings collection", map[string]interface{}{
		"clippings": len(coll.clippings),
		"books":     len(coll.bookAuthors),
	})
	return coll, nil
}

// FromBytes decodes data and builds a collection from it.
func FromBytes(data []byte, opts ...Option) (*Collection, error) {
	lines, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Build(lines, opts...)
}

// Read builds a collection from everything r yields.
func Read(r io.Reader, opts ...Option) (*Collection, error) {
	lines, err := DecodeReader(r)
	if err != nil {
		return nil, err
	}
	return Build(lines, opts...)
}

// Load builds a collection from the file at path.
func Load(path string, opts ...Option) (*Collection, error) {
	lines, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return Build(lines, opts...)
}

// Clippings returns a copy of the parsed clippings in source order.
func (c *Collection) Clippings() []Clipping {
	return append([]Clipping(nil), c.clippings...)
}

func (c *Collection) Len() int {
	return len(c.clippings)
}

// BookAuthors returns the distinct (book, author) pairs sorted by book, then
// author. The order carries no meaning beyond being stable.
func (c *Collection) BookAuthors() []BookAuthor {
	pairs := make([]BookAuthor, 0, len(c.bookAuthors))
	for pair := range c.bookAuthors {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Book != pairs[j].Book {
			return pairs[i].Book < pairs[j].Book
		}
		return pairs[i].Author < pairs[j].Author
	})
	return pairs
}

func (c *Collection) HasBookAuthor(pair BookAuthor) bool {
	_, ok := c.bookAuthors[pair]
	return ok
}

// ByBookAuthor returns the clippings of one pair in source order.
func (c *Collection) ByBookAuthor(pair BookAuthor) []Clipping {
	var out []Clipping
	for _, clipping := range c.clippings {
		if clipping.BookAuthor() == pair {
			out = append(out, clipping)
		}
	}
	return out
}

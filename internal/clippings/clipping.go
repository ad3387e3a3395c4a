// Package clippings parses Kindle "My Clippings.txt" exports.
//
// The pipeline runs in one direction:
//
//	bytes -> lines (Decode) -> blocks (Splitter) -> records (Parser) -> Collection
//
// Each block between two "==========" lines becomes one Clipping. Blocks are
// validated strictly: the first malformed block aborts the whole build with an
// *InvalidRecordError carrying the raw lines that failed.
//
// # Usage
//
//	coll, err := clippings.Load("My Clippings.txt")
//	if err != nil {
//		var invalid *clippings.InvalidRecordError
//		if errors.As(err, &invalid) {
//			fmt.Println(invalid.Block)
//		}
//		return err
//	}
//	for _, c := range coll.Clippings() {
//		fmt.Println(c.Book, c.Type, c.Contents)
//	}
package clippings

// ClippingType is the annotation kind read from the metadata line.
// English exports keep the literal word; other locales are normalised to the
// constants below.
type ClippingType string

const (
	TypeHighlight ClippingType = "Highlight"
	TypeNote      ClippingType = "Note"
	TypeBookmark  ClippingType = "Bookmark"
)

// Clipping is a single parsed annotation. Optional fields are empty when the
// export does not carry them.
type Clipping struct {
	Book     string       `json:"book"`
	Author   string       `json:"author,omitempty"`
	Type     ClippingType `json:"type"`
	Page     string       `json:"page,omitempty"`
	Location string       `json:"location,omitempty"`
	Date     string       `json:"date"`
	Contents string       `json:"contents"`
}

// BookAuthor returns the grouping key of the clipping.
func (c Clipping) BookAuthor() BookAuthor {
	return BookAuthor{Book: c.Book, Author: c.Author}
}

// BookAuthor is the (book, author) pair used to group clippings.
type BookAuthor struct {
	Book   string `json:"book"`
	Author string `json:"author,omitempty"`
}

func (p BookAuthor) String() string {
	if p.Author == "" {
		return p.Book
	}
	return p.Book + " (" + p.Author + ")"
}

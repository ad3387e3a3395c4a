package clippings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mrlokans/whoarder/internal/logger"
)

const minBlockLines = 4

var (
	// Le Petit Prince (Antoine de Saint-Exupéry)
	// 我的职业是小说家 ([日]村上春树 (Haruki Murakami))
	titleAuthorPattern = regexp.MustCompile(
		`(?i)^(?P<book>.*?)(?: \((?:\[.*\])?(?P<author>[^()]*?) ?(?:\(.*\))?\))?$`)

	// Trailing edition or series markers: 【套装】, (Chinese Edition), （全两册）
	bookIntroPattern = regexp.MustCompile(`^(.*?)(?:【.*】| \(.*\)|（.*）)*$`)
)

// Parser turns one block of lines into a Clipping.
type Parser struct {
	grammars []MetadataGrammar
}

type Option func(*Parser)

// WithGrammar appends g after the grammars already registered.
func WithGrammar(g MetadataGrammar) Option {
	return func(p *Parser) {
		p.grammars = append(p.grammars, g)
	}
}

// WithGrammars replaces the registered grammars.
func WithGrammars(grammars ...MetadataGrammar) Option {
	return func(p *Parser) {
		p.grammars = append([]MetadataGrammar(nil), grammars...)
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{grammars: DefaultGrammars()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grammars returns the metadata grammars in dispatch order.
func (p *Parser) Grammars() []MetadataGrammar {
	return append([]MetadataGrammar(nil), p.grammars...)
}

// Parse validates block and extracts its fields. Every failure is returned as
// an *InvalidRecordError holding a copy of block.
func (p *Parser) Parse(block []string) (Clipping, error) {
	clipping, err := p.parse(block)
	if err != nil {
		return Clipping{}, &InvalidRecordError{
			Block: append([]string(nil), block...),
			Err:   err,
		}
	}

	if logger.IsDebug() {
		logger.Debug("parsed clipping", map[string]interface{}{
			"book":     clipping.Book,
			"type":     clipping.Type,
			"location": clipping.Location,
		})
	}
	return clipping, nil
}

func (p *Parser) parse(block []string) (Clipping, error) {
	if len(block) < minBlockLines {
		return Clipping{}, fmt.Errorf("%w: got %d", ErrTooFewLines, len(block))
	}

	book, author, err := parseTitleLine(block[0])
	if err != nil {
		return Clipping{}, err
	}

	meta, err := p.matchMetadata(block[1])
	if err != nil {
		return Clipping{}, err
	}

	if block[2] != "" {
		return Clipping{}, fmt.Errorf("%w: %q", ErrSeparatorNotBlank, block[2])
	}

	return Clipping{
		Book:     book,
		Author:   author,
		Type:     meta.Type,
		Page:     meta.Page,
		Location: meta.Location,
		Date:     meta.Date,
		Contents: strings.TrimSpace(strings.Join(block[3:], "\n")),
	}, nil
}

func (p *Parser) matchMetadata(line string) (Metadata, error) {
	for _, g := range p.grammars {
		if meta, ok := g.Match(line); ok {
			return meta, nil
		}
	}
	return Metadata{}, fmt.Errorf("%w: %q", ErrNoGrammarMatched, line)
}

func parseTitleLine(line string) (book, author string, err error) {
	m := titleAuthorPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrTitleMismatch, line)
	}

	book = strings.TrimSpace(group(titleAuthorPattern, m, "book"))
	if intro := bookIntroPattern.FindStringSubmatch(book); intro != nil {
		book = strings.TrimSpace(intro[1])
	}
	if book == "" {
		return "", "", fmt.Errorf("%w: empty title in %q", ErrTitleMismatch, line)
	}

	return book, strings.TrimSpace(group(titleAuthorPattern, m, "author")), nil
}

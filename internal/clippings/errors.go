package clippings

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewLines        = errors.New("clipping has fewer than 4 lines")
	ErrTitleMismatch      = errors.New("title line did not match")
	ErrNoGrammarMatched   = errors.New("no metadata grammar matched")
	ErrSeparatorNotBlank  = errors.New("line 3 is not empty")
	ErrUnsupportedCharset = errors.New("unsupported charset")

	ErrInvalidByteSequence = errors.New("invalid byte sequence")
)

// DecodeError is returned when the source encoding cannot be detected or
// applied. Charset is empty when detection itself failed.
type DecodeError struct {
	Charset string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Charset == "" {
		return fmt.Sprintf("decode clippings: %v", e.Err)
	}
	return fmt.Sprintf("decode clippings as %s: %v", e.Charset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// InvalidRecordError reports a block that failed validation. Block holds the
// raw lines exactly as they were split from the source.
type InvalidRecordError struct {
	Block []string
	Err   error
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid clipping: %v\nfailed to parse: %q", e.Err, e.Block)
}

func (e *InvalidRecordError) Unwrap() error {
	return e.Err
}

package clippings

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var replacementChar = []byte("\uFFFD")

// Order matters: the UTF-32LE mark starts with the UTF-16LE one. The mark is
// cut off before decoding, so the encodings ignore BOMs.
var byteOrderMarks = []struct {
	prefix   []byte
	charset  string
	encoding encoding.Encoding
}{
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "UTF-32LE", utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)},
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "UTF-32BE", utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)},
	{[]byte{0xFF, 0xFE}, "UTF-16LE", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{[]byte{0xFE, 0xFF}, "UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

// chardet names that are not WHATWG labels.
var charsetAliases = map[string]string{
	"gb-18030": "gb18030",
}

// DecodeFile reads the whole file at path and decodes it into lines.
func DecodeFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open clippings file: %w", err)
	}
	defer file.Close()

	return DecodeReader(file)
}

// DecodeReader reads r to EOF and decodes the content into lines.
func DecodeReader(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read clippings: %w", err)
	}
	return Decode(data)
}

// Decode detects the encoding of data and splits the decoded text into lines
// without their terminators. A UTF-8 byte order mark forces UTF-8 and is
// stripped; other byte order marks select the matching UTF-16/32 decoder.
// Everything else goes through statistical detection.
func Decode(data []byte) ([]string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	return splitLines(text)
}

func decodeText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	// chardet reports BOM-prefixed UTF-8 as plain UTF-8, which would leave
	// U+FEFF glued to the first title.
	if bytes.HasPrefix(data, utf8BOM) {
		return decodeUTF8("UTF-8", data[len(utf8BOM):])
	}

	for _, bom := range byteOrderMarks {
		if bytes.HasPrefix(data, bom.prefix) {
			return decodeWith(bom.charset, bom.encoding, data[len(bom.prefix):])
		}
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", &DecodeError{Err: fmt.Errorf("failed to detect encoding: %w", err)}
	}

	return decodeCharset(result.Charset, data)
}

func decodeCharset(charset string, data []byte) (string, error) {
	if strings.EqualFold(charset, "UTF-8") {
		return decodeUTF8(charset, data)
	}

	enc, err := lookupEncoding(charset)
	if err != nil {
		return "", &DecodeError{Charset: charset, Err: err}
	}
	return decodeWith(charset, enc, data)
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}

	switch name {
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	case "utf-32be":
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharset, charset)
	}
	// The WHATWG replacement encoding turns the whole input into one U+FFFD.
	if enc == encoding.Replacement {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharset, charset)
	}
	return enc, nil
}

func decodeUTF8(charset string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &DecodeError{Charset: charset, Err: ErrInvalidByteSequence}
	}
	return string(data), nil
}

func decodeWith(charset string, enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &DecodeError{Charset: charset, Err: err}
	}
	if !replacementsEncoded(enc, data, out) {
		return "", &DecodeError{Charset: charset, Err: ErrInvalidByteSequence}
	}
	return string(out), nil
}

// x/text decoders substitute U+FFFD for invalid input instead of failing.
// Every U+FFFD in out must therefore be spelled out literally in data.
func replacementsEncoded(enc encoding.Encoding, data, out []byte) bool {
	decoded := bytes.Count(out, replacementChar)
	if decoded == 0 {
		return true
	}

	encoded, err := enc.NewEncoder().Bytes(replacementChar)
	if err != nil || len(encoded) == 0 {
		return false
	}
	return bytes.Count(data, encoded) >= decoded
}

func splitLines(text string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), max(len(text)+1, bufio.MaxScanTokenSize))
	scanner.Split(scanLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading clippings: %w", err)
	}
	return lines, nil
}

// scanLines splits on "\n", "\r\n", lone "\r", "\v", "\f", "\x1c"-"\x1e",
// U+0085, U+2028 and U+2029.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	for i := 0; i < len(data); {
		if !atEOF && !utf8.FullRune(data[i:]) {
			return 0, nil, nil
		}
		r, size := utf8.DecodeRune(data[i:])

		switch r {
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if atEOF {
				return i + 1, data[:i], nil
			}
			// "\r" at the end of the buffer: need one more byte to tell "\r\n" apart.
			return 0, nil, nil
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			return i + size, data[:i], nil
		}
		i += size
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

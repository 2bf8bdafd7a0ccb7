// Package textenc turns spreadsheet exports of unknown encoding into UTF-8.
package textenc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88591    = "ISO-8859-1"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decoders maps the chardet names we trust to a decoder. Anything else falls back to windows-1252,
// which is what Excel on Windows writes for "CSV (Comma delimited)".
var decoders = map[string]encoding.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	ISO88591:    charmap.ISO8859_1,
	Windows1252: charmap.Windows1252,
}

// NewReader sniffs the head of r and returns a UTF-8 reader over the whole input,
// along with the name of the charset it decoded from.
//
// A byte order mark wins. Otherwise valid UTF-8 passes through untouched and
// anything else goes through chardet.
func NewReader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("sniffing encoding: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		_, _ = br.Discard(len(bomUTF16LE))
		return decode(br, UTF16LE), UTF16LE, nil
	case bytes.HasPrefix(head, bomUTF16BE):
		_, _ = br.Discard(len(bomUTF16BE))
		return decode(br, UTF16BE), UTF16BE, nil
	}

	if utf8.Valid(head) || (len(head) == sniffSize && validUTF8Prefix(head)) {
		return br, UTF8, nil
	}

	charset := Windows1252

	if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if res.Charset == UTF8 {
			return br, UTF8, nil
		}

		if _, ok := decoders[res.Charset]; ok {
			charset = res.Charset
		}
	}

	return decode(br, charset), charset, nil
}

func decode(r io.Reader, charset string) io.Reader {
	return transform.NewReader(r, decoders[charset].NewDecoder())
}

// validUTF8Prefix tolerates a multi-byte sequence cut off by the sniff window.
func validUTF8Prefix(b []byte) bool {
	for i := 1; i < utf8.UTFMax && i < len(b); i++ {
		if utf8.Valid(b[:len(b)-i]) {
			return !utf8.FullRune(b[len(b)-i:])
		}
	}

	return false
}

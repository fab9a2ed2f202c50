package encoding

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

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charset is the encoding Detect settled on.
type Charset string

const (
	CharsetUTF8    Charset = "UTF-8"
	CharsetUTF8BOM Charset = "UTF-8-BOM"
	CharsetUTF16LE Charset = "UTF-16LE"
	CharsetUTF16BE Charset = "UTF-16BE"
	CharsetLatin1  Charset = "windows-1252"
	CharsetLatin5  Charset = "ISO-8859-9"
	CharsetLatin15 Charset = "ISO-8859-15"
)

// Detect guesses the charset of a spreadsheet export from its first bytes:
// a BOM wins, then valid UTF-8, then chardet, then Windows-1252.
func Detect(buf []byte) Charset {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return CharsetUTF8BOM
	case bytes.HasPrefix(buf, bomUTF16LE):
		return CharsetUTF16LE
	case bytes.HasPrefix(buf, bomUTF16BE):
		return CharsetUTF16BE
	case utf8.Valid(buf):
		return CharsetUTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return CharsetLatin1
	}

	switch result.Charset {
	case "UTF-8":
		return CharsetUTF8
	case "ISO-8859-9":
		return CharsetLatin5
	case "ISO-8859-15":
		return CharsetLatin15
	}

	return CharsetLatin1
}

func decoderFor(cs Charset) encoding.Encoding {
	switch cs {
	case CharsetUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case CharsetUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case CharsetLatin1:
		return charmap.Windows1252
	case CharsetLatin5:
		return charmap.ISO8859_9
	case CharsetLatin15:
		return charmap.ISO8859_15
	}

	return nil
}

// NewUTF8Reader wraps r so that it yields UTF-8 whatever the source
// encoding. A UTF-8 BOM is dropped.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	cs := Detect(buf)
	if cs == CharsetUTF8BOM {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	enc := decoderFor(cs)
	if enc == nil {
		return br, nil
	}

	return transform.NewReader(br, enc.NewDecoder()), nil
}

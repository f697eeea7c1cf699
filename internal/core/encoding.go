package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Encoding is the wire encoding tag carried in the kbin header.
type Encoding uint8

// Encoding values and their header byte.
const (
	EncodingNone      Encoding = 0x00
	EncodingASCII     Encoding = 0x20
	EncodingISO88591  Encoding = 0x40
	EncodingEUCJP     Encoding = 0x60
	EncodingShiftJIS  Encoding = 0x80
	EncodingUTF8      Encoding = 0xA0
	DefaultEncoding            = EncodingShiftJIS
)

// EncodingFromByte maps a header byte to an Encoding.
func EncodingFromByte(b byte) (Encoding, error) {
	switch Encoding(b) {
	case EncodingNone, EncodingASCII, EncodingISO88591, EncodingEUCJP, EncodingShiftJIS, EncodingUTF8:
		return Encoding(b), nil
	default:
		return 0, fmt.Errorf("%w: encoding byte 0x%02x", ErrHeaderInvalid, b)
	}
}

// Byte returns the header byte for e.
func (e Encoding) Byte() byte { return byte(e) }

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "None"
	case EncodingASCII:
		return "ASCII"
	case EncodingISO88591:
		return "ISO-8859-1"
	case EncodingEUCJP:
		return "EUC-JP"
	case EncodingShiftJIS:
		return "SHIFT-JIS"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return "unknown"
	}
}

// EncodingFromLabel resolves a text label (as found on a CLI flag or a
// text-XML declaration) to an Encoding.
func EncodingFromLabel(label string) (Encoding, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "", "NONE":
		return EncodingNone, nil
	case "ASCII", "US-ASCII":
		return EncodingASCII, nil
	case "ISO-8859-1", "ISO88591", "WINDOWS-1252", "LATIN1":
		return EncodingISO88591, nil
	case "EUC-JP", "EUCJP":
		return EncodingEUCJP, nil
	case "SHIFT-JIS", "SHIFT_JIS", "SJIS":
		return EncodingShiftJIS, nil
	case "UTF-8", "UTF8":
		return EncodingUTF8, nil
	default:
		return 0, fmt.Errorf("%w: encoding label %q", ErrHeaderInvalid, label)
	}
}

// textCodec returns the golang.org/x/text encoding.Encoding backing e, or
// nil for None/ASCII/UTF-8, which are handled directly as UTF-8 bytes.
func (e Encoding) textCodec() encoding.Encoding {
	switch e {
	case EncodingISO88591:
		return charmap.Windows1252
	case EncodingEUCJP:
		return japanese.EUCJP
	case EncodingShiftJIS:
		return japanese.ShiftJIS
	default:
		return nil
	}
}

// Decode converts wire bytes to a Go string using e.
//
// ASCII rejects any byte >= 0x80, naming the offending index. SHIFT-JIS is
// permissive of unmappable sequences, which decode through as the Unicode
// replacement character rather than failing — some producers emit them on
// legacy platforms, so tolerating them keeps real-world files decodable.
// The other encodings treat a replacement-character substitution as a
// decode failure.
func (e Encoding) Decode(input []byte) (string, error) {
	switch e {
	case EncodingNone, EncodingUTF8:
		if !utf8.Valid(input) {
			return "", fmt.Errorf("%w: invalid UTF-8 bytes", ErrEncodingFailure)
		}
		return string(input), nil
	case EncodingASCII:
		for i, b := range input {
			if b >= 0x80 {
				return "", fmt.Errorf("%w: invalid ASCII byte at index %d", ErrEncodingFailure, i)
			}
		}
		return string(input), nil
	case EncodingShiftJIS:
		out, err := e.textCodec().NewDecoder().Bytes(input)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEncodingFailure, err)
		}
		return string(out), nil
	default:
		codec := e.textCodec()
		if codec == nil {
			return "", fmt.Errorf("%w: unsupported encoding %s", ErrEncodingFailure, e)
		}
		out, err := codec.NewDecoder().Bytes(input)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEncodingFailure, err)
		}
		if strings.ContainsRune(string(out), utf8.RuneError) && !strings.ContainsRune(string(input), utf8.RuneError) {
			return "", fmt.Errorf("%w: unmappable characters decoding %s", ErrEncodingFailure, e)
		}
		return string(out), nil
	}
}

// Encode converts a Go string to wire bytes using e, always appending a
// single trailing NUL byte: every string/attribute payload and every
// uncompressed identifier on the wire carries a trailing NUL (sixbit
// identifiers do not).
func (e Encoding) Encode(s string) ([]byte, error) {
	var out []byte
	switch e {
	case EncodingNone, EncodingUTF8:
		out = []byte(s)
	case EncodingASCII:
		for i := 0; i < len(s); i++ {
			if s[i] >= 0x80 {
				return nil, fmt.Errorf("%w: invalid ASCII character at index %d", ErrEncodingFailure, i)
			}
		}
		out = []byte(s)
	default:
		codec := e.textCodec()
		if codec == nil {
			return nil, fmt.Errorf("%w: unsupported encoding %s", ErrEncodingFailure, e)
		}
		encoded, err := codec.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
		}
		out = encoded
	}
	out = append(out, 0x00)
	return out, nil
}

// StripTrailingNULs removes one or more trailing 0x00 bytes. A buffer of
// exactly one NUL byte strips to empty.
func StripTrailingNULs(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	if len(data) == 1 && data[0] == 0x00 {
		return data[:0]
	}
	i := len(data) - 1
	for i > 0 && data[i] == 0x00 {
		i--
	}
	return data[:i+1]
}

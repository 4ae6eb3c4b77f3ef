// Package encoding decodes object names and folds them into C identifiers.
package encoding

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name encodings accepted by Decoder.
const (
	UTF8  = "utf-8"
	EUCKR = "euc-kr"
)

// FallbackIdentifier is used when a name has no usable characters.
const FallbackIdentifier = "UNNAMED"

// ErrUnknownEncoding is returned for an unsupported encoding name.
var ErrUnknownEncoding = errors.New("unknown name encoding")

// NameDecoder converts raw object names to UTF-8.
type NameDecoder func(raw []byte) string

// Decoder returns the decoder for the named encoding. An empty name means UTF-8.
func Decoder(name string) (NameDecoder, error) {
	switch strings.ToLower(name) {
	case "", UTF8, "utf8":
		return decodeUTF8, nil
	case EUCKR, "euckr", "cp949":
		return EUCKRToUTF8, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// decodeUTF8 replaces invalid sequences so later folding sees valid text.
func decodeUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// EUCKRToUTF8 converts EUC-KR encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func EUCKRToUTF8(data []byte) string {
	decoder := korean.EUCKR.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToEUCKR converts a UTF-8 string to EUC-KR encoded bytes.
// Returns the original bytes if conversion fails.
func UTF8ToEUCKR(s string) []byte {
	encoder := korean.EUCKR.NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// Identifier folds a name into an upper-case C identifier: accents are
// stripped, letters upper-cased, every other character outside [A-Z0-9_]
// becomes '_', and a leading digit gets a '_' prefix.
func Identifier(name string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		stripped = name
	}
	upper := cases.Upper(language.Und).String(stripped)

	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	id := b.String()
	if strings.Trim(id, "_") == "" {
		return FallbackIdentifier
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}

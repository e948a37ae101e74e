package engine

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DecodePayload turns a raw client message into text.
//
// The payload is copied into a zeroed MaxPayload buffer and cut at the first
// NUL byte inside it, so bytes after an embedded terminator are ignored. A
// payload that fills the buffer without a terminator fails with ErrCStrDecode;
// text that is not UTF-8 fails with ErrUTF8Decode.
func DecodePayload(payload []byte) (string, error) {
	if len(payload) > MaxPayload {
		return "", ErrPayloadTooLarge
	}

	var buf [MaxPayload]byte
	copy(buf[:], payload)

	end := bytes.IndexByte(buf[:], 0)
	if end < 0 {
		return "", ErrCStrDecode
	}
	if !utf8.Valid(buf[:end]) {
		return "", ErrUTF8Decode
	}

	return string(buf[:end]), nil
}

// ParseGuess validates user text as a guess between MinGuess and MaxGuess.
// Surrounding whitespace and ASCII control characters are ignored.
func ParseGuess(text string) (int, bool) {
	trimmed := strings.TrimFunc(text, isPadding)
	trimmed = strings.TrimPrefix(trimmed, "+")

	n, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return 0, false
	}
	if n < MinGuess || n > MaxGuess {
		return 0, false
	}

	return int(n), true
}

func isPadding(r rune) bool {
	return r <= 0x1f || r == 0x7f || unicode.IsSpace(r)
}

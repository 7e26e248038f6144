// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import "strings"

// Source encoding conversion, per spec §6.3: surface forms on the
// public API are UTF-8; internally the engine operates in a single-
// byte encoding restricted to the BÍN alphabet, a Latin-1 superset.
// Conversion is lossless for any code point < 256; anything else has
// no internal representation, so it can never match.

// latin1ToUTF8 decodes a byte string in the source encoding into a Go
// string, treating each byte as its own Unicode code point (exactly
// what Latin-1 -> Unicode is).
func latin1ToUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// utf8ToLatin1 encodes a UTF-8 Go string into the source encoding. ok
// is false if s contains any code point >= 256, which per spec §6.3
// has no internal representation at all.
func utf8ToLatin1(s string) (out []byte, ok bool) {
	out = make([]byte, 0, len(s))
	for _, r := range s {
		if r >= 256 {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

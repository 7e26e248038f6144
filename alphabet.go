// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import "github.com/bits-and-blooms/bitset"

// maxAlphabetSize bounds the compressed letter-index space: the trie's
// node header packs an alphabet index into a 7-bit field (bits 23..29)
// of a 32-bit word, so the alphabet can never carry more than 127 entries.
const maxAlphabetSize = 127

// alphabetTable maps a compressed 7-bit letter index to the source-
// encoding byte it represents, and back. The forward direction is an
// in-image table; the reverse direction is built once at load time.
// The DAWGs are walked with raw source bytes, so the compound analyser
// does not use the reverse direction.
type alphabetTable struct {
	bytes   []byte        // index -> source byte
	reverse [256]int16    // source byte -> index, -1 if absent
	present *bitset.BitSet // which source bytes occur in the alphabet
}

// loadAlphabet reads the {length:u32, bytes:[length]} alphabet section
// at off and builds the reverse lookup.
func loadAlphabet(img *image, off uint32) *alphabetTable {
	n := img.u32le(off)
	raw := img.bytes(off+4, int(n))

	a := &alphabetTable{
		bytes:   append([]byte(nil), raw...),
		present: bitset.New(256),
	}
	for i := range a.reverse {
		a.reverse[i] = -1
	}
	for i, b := range a.bytes {
		a.reverse[b] = int16(i)
		a.present.Set(uint(b))
	}
	return a
}

// alpha returns the source byte for compressed index i, or 0 if i is
// out of range.
func (a *alphabetTable) alpha(i int) byte {
	if i < 0 || i >= len(a.bytes) {
		return 0
	}
	return a.bytes[i]
}

// index returns the compressed alphabet index for source byte b, and
// whether b occurs in the alphabet at all.
func (a *alphabetTable) index(b byte) (int, bool) {
	if !a.present.Test(uint(b)) {
		return 0, false
	}
	return int(a.reverse[b]), true
}

// size returns the number of letters in the alphabet.
func (a *alphabetTable) size() int {
	return len(a.bytes)
}

// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

// Packed meaning record encoding.
//
// Every record begins with a 32-bit word w0 whose top 3 bits (29..31)
// select one of three shapes, and whose bit 28 is the terminator flag
// when w0 is the last word read for the sequence (for the DOUBLE shape
// the terminator instead lives in bit 31 of the second word, since
// that word is the one actually last-read). This resolves the
// "bit allocation differs between headers and implementation" open
// question (spec §9) by fixing one internally consistent layout and
// verifying it with round-trip tests (DESIGN.md).
//
//	SINGLE_COMPACT (shape 0, one word):
//	  bits 0..10   meaning_index  (11 bits)
//	  bits 11..27  ksnid_index    (17 bits, a reduced-range fast path)
//	  bit  28      terminator
//	  bits 29..31  shape = 0
//
//	SINGLE_FULL (shape 1, one word):
//	  bits 0..19   lemma_id       (20 bits)
//	  bits 20..26  meaning_index  (7 bits, a reduced-range fast path)
//	  bit  27      ksnid shortcut flag: 0 -> ksnid_index 0, 1 -> ksnid_index 1
//	  bit  28      terminator
//	  bits 29..31  shape = 1
//
//	DOUBLE (shape 2, two words):
//	  w0 bits 0..19   lemma_id    (20 bits)
//	  w0 bits 29..31  shape = 2
//	  w1 bits 0..10   meaning_index (11 bits)
//	  w1 bits 11..29  ksnid_index   (19 bits, full range)
//	  w1 bit  31      terminator
const (
	shapeSingleCompact = 0
	shapeSingleFull    = 1
	shapeDouble        = 2

	shapeShift = 29
	shapeMask  = 0x7

	terminatorBitSingle = uint32(1) << 28
	terminatorBitDouble = uint32(1) << 31

	lemmaIDMask = 0x000FFFFF // 20 bits

	compactMeaningMask = 0x7FF   // 11 bits
	compactKsnidShift  = 11
	compactKsnidMask   = 0x1FFFF // 17 bits

	fullMeaningShift = 20
	fullMeaningMask  = 0x7F // 7 bits
	fullKsnidFlag    = uint32(1) << 27

	doubleMeaningMask = 0x7FF   // 11 bits
	doubleKsnidShift  = 11
	doubleKsnidMask   = 0x7FFFF // 19 bits
)

// packedMeaning is one decoded record: the lemma, the meaning-table
// index, and the (possibly zero) ksnid-table index.
type packedMeaning struct {
	lemmaID      uint32
	meaningIndex uint32
	ksnidIndex   uint32
}

// walkMeanings decodes the record sequence starting at the given
// mapping offset (a word index, in 4-byte steps, into the mappings
// section starting at mappingsBase). It never
// returns an error: a SINGLE_COMPACT record appearing first violates
// the sequence invariant (spec §3.2) and is corruption, in which case
// walkMeanings returns (nil) for the whole sequence, matching the
// CorruptRecord semantics of spec §7 (the caller gets no entries for
// this offset, not a fatal error).
func walkMeanings(img *image, mappingsBase, offsetWords uint32) []packedMeaning {
	var out []packedMeaning
	var prevLemmaID uint32
	haveLemma := false

	cursor := offsetWords
	for {
		w0 := img.u32le(mappingsBase + cursor*4)
		shape := (w0 >> shapeShift) & shapeMask

		switch shape {
		case shapeDouble:
			w1 := img.u32le(mappingsBase + (cursor+1)*4)
			lemmaID := w0 & lemmaIDMask
			meaningIndex := w1 & doubleMeaningMask
			ksnidIndex := (w1 >> doubleKsnidShift) & doubleKsnidMask
			out = append(out, packedMeaning{lemmaID, meaningIndex, ksnidIndex})
			prevLemmaID = lemmaID
			haveLemma = true

			terminated := w1&terminatorBitDouble != 0
			cursor += 2
			if terminated {
				return out
			}

		case shapeSingleFull:
			lemmaID := w0 & lemmaIDMask
			meaningIndex := (w0 >> fullMeaningShift) & fullMeaningMask
			var ksnidIndex uint32
			if w0&fullKsnidFlag != 0 {
				ksnidIndex = 1
			}
			out = append(out, packedMeaning{lemmaID, meaningIndex, ksnidIndex})
			prevLemmaID = lemmaID
			haveLemma = true

			terminated := w0&terminatorBitSingle != 0
			cursor++
			if terminated {
				return out
			}

		case shapeSingleCompact:
			if !haveLemma {
				// Data corruption: a compact record can never be
				// first in a sequence (spec §3.2). The sequence
				// contributes no entries; the engine keeps running.
				return nil
			}
			meaningIndex := w0 & compactMeaningMask
			ksnidIndex := (w0 >> compactKsnidShift) & compactKsnidMask
			out = append(out, packedMeaning{prevLemmaID, meaningIndex, ksnidIndex})

			terminated := w0&terminatorBitSingle != 0
			cursor++
			if terminated {
				return out
			}

		default:
			// An unrecognised shape value is also corruption.
			return nil
		}
	}
}

// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import "bytes"

const lemmaRecordStride = 16 // string_offset:u32, binding:u32, reserved:u64

// lemmaTable resolves a lemma_id into its string and subcategory
// (domain) index. It is a fixed-stride array, so indexing is O(1).
type lemmaTable struct {
	img     *image
	base    uint32
	count   uint32
	subcats *subcatsTable
}

func loadLemmaTable(img *image, h header, subcats *subcatsTable) *lemmaTable {
	count := uint32(0)
	if h.templates > h.lemmas {
		count = (h.templates - h.lemmas) / lemmaRecordStride
	}
	return &lemmaTable{img: img, base: h.lemmas, count: count, subcats: subcats}
}

// lookup returns the lemma string and domain name for lemmaID, or
// ("", "", false) if lemmaID is out of range. lemma_id 0 is reserved
// for synthetic compound entries and is never present in the table.
func (lt *lemmaTable) lookup(lemmaID uint32) (lemma, domain string, ok bool) {
	if lemmaID == 0 || lemmaID >= lt.count {
		return "", "", false
	}
	off := lt.base + lemmaID*lemmaRecordStride
	strOff := lt.img.u32le(off)
	binding := lt.img.u32le(off + 4)

	s := lt.img.pstr(strOff)
	if s == nil {
		return "", "", false
	}
	subcatIdx := binding & 0x1F // low 5 bits
	return latin1ToUTF8(s), lt.subcats.name(subcatIdx), true
}

// meaningTable resolves a meaning_index into (word_class, tag). Each
// entry is an offset to a 24-byte padded ASCII record
// "<class> SPACE <tag>" with trailing zero padding.
type meaningTable struct {
	img  *image
	base uint32
}

func loadMeaningTable(img *image, h header) *meaningTable {
	return &meaningTable{img: img, base: h.meanings}
}

const meaningRecordLen = 24

func (mt *meaningTable) lookup(meaningIndex uint32) (wordClass, tag string, ok bool) {
	slot := uint64(mt.base) + uint64(meaningIndex)*4
	if slot+4 > uint64(mt.img.len()) {
		return "", "", false
	}
	off := mt.img.u32le(mt.base + meaningIndex*4)
	raw := mt.img.bytes(off, meaningRecordLen)
	if raw == nil {
		return "", "", false
	}
	raw = bytes.TrimRight(raw, "\x00")
	sp := bytes.IndexByte(raw, ' ')
	if sp < 0 {
		return latin1ToUTF8(raw), "", true
	}
	return latin1ToUTF8(raw[:sp]), latin1ToUTF8(raw[sp+1:]), true
}

// ksnidTable resolves a ksnid_index into the nine ';'-separated
// augmented fields.
type ksnidTable struct {
	img  *image
	base uint32
}

func loadKsnidTable(img *image, h header) *ksnidTable {
	return &ksnidTable{img: img, base: h.ksnid}
}

// ksnidFields holds the nine fields of a ksnid record, in the order
// spec §3.1 lists them for the augmented Entry.
type ksnidFields struct {
	correctness      int
	register         string
	grammarNote      string
	crossRef         string
	publication      byte
	formCorrectness  int
	formRegister     string
	formBinding      string
	altLemma         string
}

func defaultKsnidFields() ksnidFields {
	return ksnidFields{correctness: 1, publication: 'K', formCorrectness: 1}
}

func (kt *ksnidTable) lookup(ksnidIndex uint32) ksnidFields {
	if ksnidIndex == 0 {
		return defaultKsnidFields()
	}
	off := kt.img.u32le(kt.base + ksnidIndex*4)
	raw := kt.img.pstr(off)
	if raw == nil {
		return defaultKsnidFields()
	}
	parts := bytes.Split(raw, []byte(";"))
	f := defaultKsnidFields()
	get := func(i int) string {
		if i < len(parts) {
			return latin1ToUTF8(parts[i])
		}
		return ""
	}
	if v := get(0); v != "" {
		f.correctness = parseDigit(v, 1)
	}
	f.register = get(1)
	f.grammarNote = get(2)
	f.crossRef = get(3)
	if v := get(4); v != "" {
		f.publication = v[0]
	}
	if v := get(5); v != "" {
		f.formCorrectness = parseDigit(v, 1)
	}
	f.formRegister = get(6)
	f.formBinding = get(7)
	f.altLemma = get(8)
	return f
}

// parseDigit parses a single ASCII digit 0-5, falling back to
// fallback on anything else; corrupt ksnid fields must never panic or
// propagate an error (spec §7).
func parseDigit(s string, fallback int) int {
	if len(s) != 1 || s[0] < '0' || s[0] > '5' {
		return fallback
	}
	return int(s[0] - '0')
}

// subcatsTable resolves a 5-bit subcategory index into a domain name.
type subcatsTable struct {
	img     *image
	entries []uint32
}

func loadSubcatsTable(img *image, h header) *subcatsTable {
	count := img.u32le(h.subcats)
	entries := make([]uint32, count)
	for i := uint32(0); i < count; i++ {
		entries[i] = img.u32le(h.subcats + 4 + i*4)
	}
	return &subcatsTable{img: img, entries: entries}
}

func (st *subcatsTable) name(idx uint32) string {
	if idx >= uint32(len(st.entries)) {
		return ""
	}
	s := st.img.pstr(st.entries[idx])
	if s == nil {
		return ""
	}
	return latin1ToUTF8(s)
}

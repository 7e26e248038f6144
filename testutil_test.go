// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// This file is a minimal, test-only stand-in for the offline packer
// spec §1 places out of core scope: it builds small synthetic images
// byte-for-byte in the layout spec §6.1 describes, so the reader can
// be exercised end-to-end without a real ~80MB BÍN image. Grounded on
// the teacher's internal/tests/golden package, which likewise builds
// synthetic routing tables in-process for its test suite rather than
// relying on fixture files.

// meaningRef is one packed-meaning spec for a fixture word, always
// encoded with the DOUBLE shape for simplicity; the three shapes
// themselves are unit-tested directly against hand-built words in
// meaning_test.go.
type meaningRef struct {
	lemmaID      uint32
	meaningIndex uint32
	ksnidIndex   uint32
}

// lemmaSpec is one fixture lemma; index 0 is reserved and never
// emitted (spec §3.2).
type lemmaSpec struct {
	lemma  string
	subcat uint32
}

type fixture struct {
	alphabet    []byte
	lemmas      []lemmaSpec // index 0 unused
	meanings    []string    // "class tag"
	subcats     []string
	ksnidFields []string // index 0 unused; ";"-joined 9 fields
	words       map[string][]meaningRef
}

// buildImage serializes fx into a byte slice matching spec §6.1.
func buildImage(t *testing.T, fx fixture) []byte {
	t.Helper()

	var buf []byte
	putU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}
	putPStr := func(s []byte) {
		if len(s) > 255 {
			t.Fatalf("fixture string too long for length-prefixed encoding: %q", s)
		}
		buf = append(buf, byte(len(s)))
		buf = append(buf, s...)
	}

	// Reserve the header; patched at the end once every section
	// offset is known.
	buf = make([]byte, headerLen)
	copy(buf, signaturePrefix)

	// --- mappings ---
	mappingsOff := uint32(len(buf))
	wordStart := make(map[string]uint32, len(fx.words))
	words := sortedKeys(fx.words)
	for _, w := range words {
		recs := fx.words[w]
		start := (uint32(len(buf)) - mappingsOff) / 4
		wordStart[w] = start
		for i, r := range recs {
			w0 := uint32(shapeDouble)<<shapeShift | (r.lemmaID & lemmaIDMask)
			w1 := (r.meaningIndex & doubleMeaningMask) | ((r.ksnidIndex & doubleKsnidMask) << doubleKsnidShift)
			if i == len(recs)-1 {
				w1 |= terminatorBitDouble
			}
			putU32(w0)
			putU32(w1)
		}
	}

	// --- forms (trie) ---
	formsOff := uint32(len(buf))
	alphaIndex := make(map[byte]int, len(fx.alphabet))
	for i, b := range fx.alphabet {
		alphaIndex[b] = i
	}
	trieBytes, rootOff := buildTrie(t, words, wordStart, formsOff, alphaIndex)
	buf = append(buf, trieBytes...)
	// buildTrie writes children before their parent, so the root node is
	// the last one written: rootOff, not formsOff, goes into the header.

	// --- lemmas + templates (marker) + lemma string blob ---
	lemmasOff := uint32(len(buf))
	count := uint32(len(fx.lemmas))
	templatesOff := lemmasOff + count*lemmaRecordStride

	// Pre-compute each lemma string's absolute offset, starting right
	// at templatesOff (the two sections are contiguous; templatesOff
	// is only ever used as an end-sentinel, never dereferenced).
	lemmaStrOff := make([]uint32, count)
	cursor := templatesOff
	for i := uint32(1); i < count; i++ {
		lemmaStrOff[i] = cursor
		cursor += 1 + uint32(len(fx.lemmas[i].lemma))
	}
	// Index 0 is reserved and occupies a full (unused) record slot, so
	// that lemma_id can index the array directly (tables.go).
	if count > 0 {
		putU32(0)
		putU32(0)
		putU32(0)
		putU32(0)
	}
	for i := uint32(1); i < count; i++ {
		putU32(lemmaStrOff[i])
		putU32(fx.lemmas[i].subcat & 0x1F)
		putU32(0) // reserved (low word)
		putU32(0) // reserved (high word)
	}
	for i := uint32(1); i < count; i++ {
		putPStr([]byte(fx.lemmas[i].lemma))
	}

	// --- meanings: pointer array + 24-byte padded records ---
	meaningsOff := uint32(len(buf))
	numMeanings := uint32(len(fx.meanings))
	recordsBase := meaningsOff + numMeanings*4
	for i := uint32(0); i < numMeanings; i++ {
		putU32(recordsBase + i*meaningRecordLen)
	}
	for _, m := range fx.meanings {
		rec := make([]byte, meaningRecordLen)
		copy(rec, []byte(m))
		buf = append(buf, rec...)
	}

	// --- alphabet ---
	alphabetOff := uint32(len(buf))
	putU32(uint32(len(fx.alphabet)))
	buf = append(buf, fx.alphabet...)

	// --- subcats: count + entries + name blob ---
	subcatsOff := uint32(len(buf))
	numSubcats := uint32(len(fx.subcats))
	subcatsEntriesBase := subcatsOff + 4
	subcatStrOff := make([]uint32, numSubcats)
	cursor = subcatsEntriesBase + numSubcats*4
	for i := uint32(0); i < numSubcats; i++ {
		subcatStrOff[i] = cursor
		cursor += 1 + uint32(len(fx.subcats[i]))
	}
	putU32(numSubcats)
	for i := uint32(0); i < numSubcats; i++ {
		putU32(subcatStrOff[i])
	}
	for _, s := range fx.subcats {
		putPStr([]byte(s))
	}

	// --- ksnid: pointer array + string blob ---
	ksnidOff := uint32(len(buf))
	numKsnid := uint32(len(fx.ksnidFields))
	ksnidStrBase := ksnidOff + numKsnid*4
	ksnidStrOff := make([]uint32, numKsnid)
	cursor = ksnidStrBase
	for i := uint32(1); i < numKsnid; i++ {
		ksnidStrOff[i] = cursor
		cursor += 1 + uint32(len(fx.ksnidFields[i]))
	}
	for i := uint32(0); i < numKsnid; i++ {
		putU32(ksnidStrOff[i])
	}
	for i := uint32(1); i < numKsnid; i++ {
		putPStr([]byte(fx.ksnidFields[i]))
	}

	// --- patch header ---
	putHeaderU32 := func(off, val uint32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], val)
	}
	h := uint32(signatureLen)
	for _, v := range []uint32{mappingsOff, rootOff, lemmasOff, templatesOff, meaningsOff, alphabetOff, subcatsOff, ksnidOff} {
		putHeaderU32(h, v)
		h += 4
	}

	return buf
}

func sortedKeys(m map[string][]meaningRef) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// trieBuildNode is the in-memory trie used only to build fixtures.
type trieBuildNode struct {
	value    uint32
	hasValue bool
	children map[byte]*trieBuildNode
}

func buildTrie(t *testing.T, words []string, wordStart map[string]uint32, base uint32, alphaIndex map[byte]int) ([]byte, uint32) {
	t.Helper()
	root := &trieBuildNode{children: map[byte]*trieBuildNode{}}
	for _, w := range words {
		n := root
		for i := 0; i < len(w); i++ {
			b := w[i]
			child, ok := n.children[b]
			if !ok {
				child = &trieBuildNode{children: map[byte]*trieBuildNode{}}
				n.children[b] = child
			}
			n = child
		}
		n.value = wordStart[w]
		n.hasValue = true
	}

	// collapseFragment walks a run of single-child, no-value nodes
	// starting at the edge b into n, merging them into one multi-byte
	// fragment, the same path compression the real trie format uses
	// instead of one node per byte. It stops at the first node that
	// has a value of its own or branches into more than one child.
	collapseFragment := func(b byte, n *trieBuildNode) ([]byte, *trieBuildNode) {
		frag := []byte{b}
		for !n.hasValue && len(n.children) == 1 {
			var nb byte
			var nn *trieBuildNode
			for k, v := range n.children {
				nb, nn = k, v
			}
			frag = append(frag, nb)
			n = nn
		}
		return frag, n
	}

	var buf []byte
	var serialize func(n *trieBuildNode, fragment []byte, isRoot bool) uint32
	serialize = func(n *trieBuildNode, fragment []byte, isRoot bool) uint32 {
		bytesKeys := make([]byte, 0, len(n.children))
		for b := range n.children {
			bytesKeys = append(bytesKeys, b)
		}
		sort.Slice(bytesKeys, func(i, j int) bool { return bytesKeys[i] < bytesKeys[j] })

		childOffsets := make([]uint32, 0, len(bytesKeys))
		for _, b := range bytesKeys {
			childFrag, childFinal := collapseFragment(b, n.children[b])
			off := serialize(childFinal, childFrag, false)
			childOffsets = append(childOffsets, off)
		}

		nodeOff := base + uint32(len(buf))
		childless := len(n.children) == 0
		singleChar := !isRoot && len(fragment) == 1

		value := uint32(trieNotFound)
		if n.hasValue {
			value = n.value
		}

		var header uint32
		if childless {
			header |= nodeFlagChildless
		}
		if singleChar {
			header |= nodeFlagSingleChar
			idx, ok := alphaIndex[fragment[0]]
			if !ok {
				t.Fatalf("byte %q not in fixture alphabet", fragment[0])
			}
			header |= uint32(idx+1) << nodeAlphaShift
		}
		header |= value & nodeValueMask

		var hb [4]byte
		binary.LittleEndian.PutUint32(hb[:], header)
		buf = append(buf, hb[:]...)

		// A childless single-character node needs no body at all: its
		// one byte is already recoverable from the header's alphabet
		// index. Every other case (it has children, or its fragment is
		// more than one byte and must be stored explicitly) writes a
		// child-count word, even when 0, and, for a multi-character
		// fragment, the zero-terminated fragment bytes that follow the
		// child-pointer array.
		if singleChar && childless {
			return nodeOff
		}

		var cb [4]byte
		binary.LittleEndian.PutUint32(cb[:], uint32(len(childOffsets)))
		buf = append(buf, cb[:]...)
		for _, co := range childOffsets {
			binary.LittleEndian.PutUint32(cb[:], co)
			buf = append(buf, cb[:]...)
		}
		if !singleChar {
			buf = append(buf, fragment...)
			buf = append(buf, 0) // zero-terminated fragment
		}
		return nodeOff
	}

	rootOff := serialize(root, nil, true)
	return buf, rootOff
}

// newTestAlphabet builds an alphabetTable over letters by round-tripping
// through the real {length:u32, bytes} section format loadAlphabet reads,
// so the fixture is exercised by the production decoder, not a shortcut.
func newTestAlphabet(letters []byte) *alphabetTable {
	buf := make([]byte, 4+len(letters))
	binary.LittleEndian.PutUint32(buf, uint32(len(letters)))
	copy(buf[4:], letters)
	img := &image{data: buf}
	return loadAlphabet(img, 0)
}

// writeTempFile writes data to a new temp file and returns its path.
func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

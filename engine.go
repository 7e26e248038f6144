// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import (
	"github.com/mideind/binbart/internal/dawg"
)

// Config carries the three mapped-file paths and the five option
// flags of spec §6.4/§9 — replacing the "process-wide default image
// path" design note §9 calls out for removal. Every Engine is built
// from an explicit Config; there is no package-level default.
type Config struct {
	MainImagePath  string
	PrefixDAWGPath string
	SuffixDAWGPath string

	// AddNegation and AddLegur are not implemented by the core (spec
	// §1): they name upstream collaborators that may augment results
	// above this engine. The core accepts and stores the flags so a
	// caller's Config can carry all five without the core needing to
	// know about the augmentation layers, but neither flag changes
	// this package's own behavior.
	AddNegation bool
	AddLegur    bool

	// AddCompounds enables the compound-word analyser fallback
	// (spec §4.G). If the DAWG files are missing or fail to open, the
	// compound path is silently disabled rather than failing
	// construction (spec §7); direct lookups are unaffected.
	AddCompounds bool

	// ReplaceZ applies tzt->st, then z->s, before every lookup
	// (spec §4.H step 1).
	ReplaceZ bool

	// OnlyBin disables AddNegation, AddLegur and AddCompounds,
	// regardless of how they were set (spec §6.4).
	OnlyBin bool

	// FormCacheSize and CompoundCacheSize override the default LRU
	// capacities (spec §4.H); 0 means "use the default", a negative
	// value disables that cache. A disabled cache must never change
	// what a lookup returns, only its cost (spec §3.3).
	FormCacheSize     int
	CompoundCacheSize int
}

// DefaultConfig returns a Config with every flag at the spec §6.4
// default (all on except OnlyBin) and no file paths set.
func DefaultConfig() Config {
	return Config{
		AddNegation:  true,
		AddLegur:     true,
		AddCompounds: true,
		ReplaceZ:     true,
		OnlyBin:      false,
	}
}

// Engine is the read-only, memory-resident BÍN lookup engine. It is
// safe for concurrent use by multiple goroutines (spec §5): the image
// and DAWGs are immutable after construction, and the only mutable
// state is the bounded LRU caches, each guarded by its own short-lived
// mutex.
type Engine struct {
	cfg Config

	img *image
	hdr header

	abc      *alphabetTable
	trie     *formTrie
	lemmas   *lemmaTable
	meanings *meaningTable
	ksnid    *ksnidTable
	subcats  *subcatsTable

	prefixDAWG *dawg.DAWG
	suffixDAWG *dawg.DAWG

	formCache     *formOffsetCache
	compoundCache *compoundSplitCache
}

// New constructs an Engine from cfg. A missing or malformed main image
// is a construction-time failure (spec §7); missing or malformed DAWGs
// are not, when AddCompounds is set — the compound path is simply
// disabled.
func New(cfg Config) (*Engine, error) {
	if cfg.OnlyBin {
		cfg.AddNegation = false
		cfg.AddLegur = false
		cfg.AddCompounds = false
	}

	img, err := openImage(cfg.MainImagePath)
	if err != nil {
		return nil, err
	}

	hdr := readHeader(img)
	subcats := loadSubcatsTable(img, hdr)
	abc := loadAlphabet(img, hdr.alphabet)

	e := &Engine{
		cfg:      cfg,
		img:      img,
		hdr:      hdr,
		abc:      abc,
		trie:     newFormTrie(img, abc, hdr.forms),
		lemmas:   loadLemmaTable(img, hdr, subcats),
		meanings: loadMeaningTable(img, hdr),
		ksnid:    loadKsnidTable(img, hdr),
		subcats:  subcats,
	}

	formCacheSize := cfg.FormCacheSize
	if formCacheSize == 0 {
		formCacheSize = defaultFormCacheSize
	}
	compoundCacheSize := cfg.CompoundCacheSize
	if compoundCacheSize == 0 {
		compoundCacheSize = defaultCompoundCacheSize
	}
	e.formCache = newFormOffsetCache(formCacheSize)
	e.compoundCache = newCompoundSplitCache(compoundCacheSize)

	if cfg.AddCompounds {
		if pd, err := dawg.Open(cfg.PrefixDAWGPath); err == nil {
			e.prefixDAWG = pd
		}
		if sd, err := dawg.Open(cfg.SuffixDAWGPath); err == nil {
			e.suffixDAWG = sd
		}
		if e.prefixDAWG == nil || e.suffixDAWG == nil {
			// Partial DAWG availability is not usable: a split needs
			// both graphs. Close whichever opened and disable the
			// fallback, per spec §7.
			if e.prefixDAWG != nil {
				e.prefixDAWG.Close()
				e.prefixDAWG = nil
			}
			if e.suffixDAWG != nil {
				e.suffixDAWG.Close()
				e.suffixDAWG = nil
			}
		}
	}

	return e, nil
}

// Close releases the memory mappings. The Engine must not be used
// afterwards.
func (e *Engine) Close() error {
	var err error
	if e.prefixDAWG != nil {
		err = e.prefixDAWG.Close()
	}
	if e.suffixDAWG != nil {
		if serr := e.suffixDAWG.Close(); err == nil {
			err = serr
		}
	}
	if cerr := e.img.close(); err == nil {
		err = cerr
	}
	return err
}

// normalize applies the tzt->st, z->s replacement of spec §4.H step 1,
// left to right and non-overlapping, when ReplaceZ is enabled.
func normalize(word []byte, replaceZ bool) []byte {
	if !replaceZ || len(word) == 0 {
		return word
	}
	out := make([]byte, 0, len(word))
	for i := 0; i < len(word); {
		if i+3 <= len(word) && word[i] == 't' && word[i+1] == 'z' && word[i+2] == 't' {
			out = append(out, 's', 't')
			i += 3
			continue
		}
		if word[i] == 'z' {
			out = append(out, 's')
			i++
			continue
		}
		out = append(out, word[i])
		i++
	}
	return out
}

// lowerFirstByte lowercases the first byte of word if it is an ASCII
// or Latin-1 upper-case letter, leaving the rest untouched. Only the
// first code point is ever touched by spec §4.H step 3.
func lowerFirstByte(word []byte) []byte {
	if len(word) == 0 {
		return word
	}
	b := word[0]
	lower := b
	switch {
	case b >= 'A' && b <= 'Z':
		lower = b + ('a' - 'A')
	case b >= 0xC0 && b <= 0xDE && b != 0xD7: // Latin-1 upper-case block, excluding ×
		lower = b + 0x20
	default:
		return word
	}
	out := append([]byte(nil), word...)
	out[0] = lower
	return out
}

func isUpperByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 0xC0 && b <= 0xDE && b != 0xD7)
}

func upperFirstByte(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	c := b[0]
	switch {
	case c >= 'a' && c <= 'z':
		b[0] = c - ('a' - 'A')
	case c >= 0xE0 && c <= 0xFE && c != 0xF7:
		b[0] = c - 0x20
	}
	return string(b)
}

// resolveOffset finds the mapping offset for word, going through the
// form-offset cache first.
func (e *Engine) resolveOffset(word []byte) (uint32, bool) {
	key := string(word)
	if off, ok := e.formCache.get(key); ok {
		if off == notFoundSentinel {
			return 0, false
		}
		return off, true
	}
	off, ok := e.trie.findOffset(word)
	if ok {
		e.formCache.put(key, off)
	} else {
		e.formCache.put(key, notFoundSentinel)
	}
	return off, ok
}

// notFoundSentinel is cached in place of a real offset to remember a
// miss without special-casing the cache's zero value, which is itself
// a valid offset.
const notFoundSentinel = ^uint32(0)

// lookupResult is the outcome of the front-end pipeline shared by
// Lookup and LookupKsnid before the caller's shape (basic/augmented)
// is decoded.
type lookupResult struct {
	searchKey []byte // source-encoding bytes, post-normalization
	offset    uint32
	found     bool
	compound  bool
}

func (e *Engine) resolve(word string, atSentenceStart bool) lookupResult {
	latin1, ok := utf8ToLatin1(word)
	if !ok || len(latin1) == 0 {
		return lookupResult{searchKey: latin1}
	}

	key := normalize(latin1, e.cfg.ReplaceZ)

	if off, ok := e.resolveOffset(key); ok {
		return lookupResult{searchKey: key, offset: off, found: true}
	}

	if atSentenceStart && len(key) > 0 && isUpperByte(key[0]) {
		lowered := lowerFirstByte(key)
		if off, ok := e.resolveOffset(lowered); ok {
			return lookupResult{searchKey: lowered, offset: off, found: true}
		}
		key = lowered
	}

	if e.cfg.AddCompounds {
		return lookupResult{searchKey: key, compound: true}
	}

	return lookupResult{searchKey: key}
}

// dedupeBasic removes duplicate entries per spec §8 invariant 1,
// preserving first-seen order.
func dedupeBasic(entries []Entry) []Entry {
	if len(entries) < 2 {
		return entries
	}
	seen := make(map[dedupeKey]struct{}, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		k := e.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

func dedupeAugmented(entries []AugmentedEntry) []AugmentedEntry {
	if len(entries) < 2 {
		return entries
	}
	seen := make(map[dedupeKey]struct{}, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		k := e.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Lookup answers an inflectional query for word, returning the
// normalized search key actually matched (spec §4.H) and the
// deduplicated list of basic entries, in mapping order.
func (e *Engine) Lookup(word string, atSentenceStart, autoUppercase bool) (string, []Entry) {
	r := e.resolve(word, atSentenceStart)
	var entries []Entry

	if r.found {
		entries = e.decodeAllBasic(r.offset, latin1ToUTF8(r.searchKey))
	} else if r.compound {
		entries = e.lookupCompound(r.searchKey)
	}

	entries = dedupeBasic(entries)
	searchKey := latin1ToUTF8(r.searchKey)

	if autoUppercase {
		for _, en := range entries {
			if en.Surface != "" && isUpperByte(en.Surface[0]) {
				searchKey = upperFirstByte(searchKey)
				break
			}
		}
	}

	return searchKey, entries
}

// LookupKsnid is Lookup's augmented-entry counterpart (spec §4.H).
func (e *Engine) LookupKsnid(word string, atSentenceStart, autoUppercase bool) (string, []AugmentedEntry) {
	r := e.resolve(word, atSentenceStart)
	var entries []AugmentedEntry

	if r.found {
		entries = e.decodeAllAugmented(r.offset, latin1ToUTF8(r.searchKey))
	} else if r.compound {
		entries = e.lookupCompoundAugmented(r.searchKey)
	}

	entries = dedupeAugmented(entries)
	searchKey := latin1ToUTF8(r.searchKey)

	if autoUppercase {
		for _, en := range entries {
			if en.Surface != "" && isUpperByte(en.Surface[0]) {
				searchKey = upperFirstByte(searchKey)
				break
			}
		}
	}

	return searchKey, entries
}

// lookupCompound runs the compound analyser with the split-position
// cache, returning basic entries.
func (e *Engine) lookupCompound(word []byte) []Entry {
	return e.compoundSplit(word)
}

// lookupCompoundAugmented mirrors lookupCompound but decodes augmented
// entries from the same cached split position.
func (e *Engine) lookupCompoundAugmented(word []byte) []AugmentedEntry {
	return e.compoundSplitAugmented(word)
}

// LookupID resolves lemmaID to its lemma string through the lemma
// table, looks that string up through the form-trie path, and returns
// the augmented entries whose LemmaID is lemmaID. Only entries reached
// through the lemma string itself are returned; other inflected forms
// of the lemma are not.
func (e *Engine) LookupID(lemmaID int) []AugmentedEntry {
	if lemmaID <= 0 {
		return nil
	}
	lemma, _, ok := e.lemmas.lookup(uint32(lemmaID))
	if !ok {
		return nil
	}
	_, all := e.LookupKsnid(lemma, false, false)
	out := make([]AugmentedEntry, 0, len(all))
	for _, en := range all {
		if en.LemmaID == lemmaID {
			out = append(out, en)
		}
	}
	return dedupeAugmented(out)
}

// LookupCats returns the set of word classes found for word.
func (e *Engine) LookupCats(word string, atSentenceStart bool) map[string]struct{} {
	_, entries := e.Lookup(word, atSentenceStart, false)
	out := make(map[string]struct{}, len(entries))
	for _, en := range entries {
		out[en.WordClass] = struct{}{}
	}
	return out
}

// LemmaClass is a (lemma, word_class) pair, the result shape of
// LookupLemmasAndCats.
type LemmaClass struct {
	Lemma     string
	WordClass string
}

// LookupLemmasAndCats returns the set of (lemma, word_class) pairs
// found for word.
func (e *Engine) LookupLemmasAndCats(word string, atSentenceStart bool) []LemmaClass {
	_, entries := e.Lookup(word, atSentenceStart, false)
	seen := make(map[LemmaClass]struct{}, len(entries))
	out := make([]LemmaClass, 0, len(entries))
	for _, en := range entries {
		lc := LemmaClass{en.Lemma, en.WordClass}
		if _, ok := seen[lc]; ok {
			continue
		}
		seen[lc] = struct{}{}
		out = append(out, lc)
	}
	return out
}

// LookupLemmas returns the entries whose surface equals lemma itself,
// i.e. the headword forms only.
func (e *Engine) LookupLemmas(lemma string) []Entry {
	_, entries := e.Lookup(lemma, false, false)
	out := make([]Entry, 0, len(entries))
	for _, en := range entries {
		if en.Surface == en.Lemma {
			out = append(out, en)
		}
	}
	return out
}

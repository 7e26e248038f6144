// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

// decodeBasic expands a packed meaning into a basic Entry for the
// given surface form, per spec §4.D. It returns ok=false if the
// meaning or lemma table lookup fails (an out-of-range index, which
// spec §7 treats as not-found rather than fatal).
func (e *Engine) decodeBasic(r packedMeaning, surface string) (Entry, bool) {
	wordClass, tag, ok := e.meanings.lookup(r.meaningIndex)
	if !ok {
		return Entry{}, false
	}
	lemma, domain, ok := e.lemmas.lookup(r.lemmaID)
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Lemma:     lemma,
		LemmaID:   int(r.lemmaID),
		WordClass: wordClass,
		Domain:    domain,
		Surface:   surface,
		Tag:       tag,
	}, true
}

// decodeAugmented expands a packed meaning into an AugmentedEntry,
// additionally resolving the ksnid record (or its defaults).
func (e *Engine) decodeAugmented(r packedMeaning, surface string) (AugmentedEntry, bool) {
	basic, ok := e.decodeBasic(r, surface)
	if !ok {
		return AugmentedEntry{}, false
	}
	f := e.ksnid.lookup(r.ksnidIndex)
	return AugmentedEntry{
		Entry:           basic,
		Correctness:     f.correctness,
		Register:        f.register,
		GrammarNote:     f.grammarNote,
		CrossRef:        f.crossRef,
		Publication:     f.publication,
		FormCorrectness: f.formCorrectness,
		FormRegister:    f.formRegister,
		FormBinding:     f.formBinding,
		AltLemma:        f.altLemma,
	}, true
}

// decodeAllBasic decodes every record at a mapping offset into basic
// entries, silently dropping any record whose table lookups fail.
func (e *Engine) decodeAllBasic(off uint32, surface string) []Entry {
	records := walkMeanings(e.img, e.hdr.mappings, off)
	if len(records) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(records))
	for _, r := range records {
		if entry, ok := e.decodeBasic(r, surface); ok {
			out = append(out, entry)
		}
	}
	return out
}

func (e *Engine) decodeAllAugmented(off uint32, surface string) []AugmentedEntry {
	records := walkMeanings(e.img, e.hdr.mappings, off)
	if len(records) == 0 {
		return nil
	}
	out := make([]AugmentedEntry, 0, len(records))
	for _, r := range records {
		if entry, ok := e.decodeAugmented(r, surface); ok {
			out = append(out, entry)
		}
	}
	return out
}

// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

// Entry is a basic BÍN entry: the six fields present for every
// inflectional form regardless of augmentation (spec §3.1).
type Entry struct {
	Lemma     string
	LemmaID   int
	WordClass string
	Domain    string
	Surface   string
	Tag       string
}

// AugmentedEntry is Entry plus the nine ksnid fields carried for
// entries that have augmented data in the image. When no ksnid record
// applies, the augmented fields take the defaults spec §3.1 specifies.
type AugmentedEntry struct {
	Entry

	Correctness     int
	Register        string
	GrammarNote     string
	CrossRef        string
	Publication     byte
	FormCorrectness int
	FormRegister    string
	FormBinding     string
	AltLemma        string
}

// dedupeKey identifies an entry for the deduplication spec §4.H and §8
// invariant 1 require.
type dedupeKey struct {
	surface, tag, lemma, wordClass string
}

func (e Entry) key() dedupeKey {
	return dedupeKey{e.Surface, e.Tag, e.Lemma, e.WordClass}
}

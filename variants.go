// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import "strings"

// genderGroup is the set of word classes spec §4.I treats as
// equivalent to the pseudo-class "no" (noun, any gender).
var genderGroup = map[string]bool{"kk": true, "kvk": true, "hk": true}

// noGrRequirement is the special requirement token meaning "the tag
// must not contain the substring 'gr'" (spec §4.I step 3).
const noGrRequirement = "nogr"

// VariantFilter is an optional user predicate over a candidate's tag
// string, applied after the requirement list (spec §4.I step 4).
type VariantFilter func(tag string) bool

// LookupVariants enumerates alternative inflected forms of the same
// lemma as word, matching cat and every requirement, per spec §4.I.
//
//   - cat == "no" matches any of the three grammatical genders.
//   - lemma/lemmaID, if non-empty/non-zero, further restrict the
//     candidate seed entries before enumeration.
//   - requirements are tag substrings that must all be present, except
//     the literal token "nogr", which instead requires the tag NOT
//     contain the substring "gr".
//   - filter, if non-nil, is applied last.
func (e *Engine) LookupVariants(word, cat string, requirements []string, lemma string, lemmaID int, filter VariantFilter) []Entry {
	_, seeds := e.LookupKsnid(word, false, false)

	candidates := make([]AugmentedEntry, 0, len(seeds))
	for _, s := range seeds {
		if !matchesCat(s.WordClass, cat) {
			continue
		}
		if lemma != "" && s.Lemma != lemma {
			continue
		}
		if lemmaID != 0 && s.LemmaID != lemmaID {
			continue
		}
		candidates = append(candidates, s)
	}

	var out []Entry
	seen := make(map[[2]string]struct{})

	for _, c := range candidates {
		_, forms := e.Lookup(c.Lemma, false, false)
		for _, f := range forms {
			if f.Lemma != c.Lemma || f.WordClass != c.WordClass {
				continue
			}
			if !matchesRequirements(f.Tag, requirements) {
				continue
			}
			if filter != nil && !filter(f.Tag) {
				continue
			}
			key := [2]string{f.Surface, f.Tag}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

func matchesCat(wordClass, cat string) bool {
	if cat == "" {
		return true
	}
	if cat == "no" {
		return genderGroup[wordClass]
	}
	return wordClass == cat
}

func matchesRequirements(tag string, requirements []string) bool {
	for _, req := range requirements {
		if req == noGrRequirement {
			if strings.Contains(tag, "gr") {
				return false
			}
			continue
		}
		if !strings.Contains(tag, req) {
			return false
		}
	}
	return true
}

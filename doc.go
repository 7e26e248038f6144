// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

// Package bin provides a read-only, memory-resident lookup engine for
// the Database of Icelandic Morphology (BÍN/DIM).
//
// The engine memory-maps a compact binary image (produced offline by a
// packer that is out of scope for this package) and answers
// inflectional queries against it: given a surface form, it returns
// the lemmas, word classes, domains and grammatical tags that form can
// carry, falling back to a compound-word analyser built on two
// Directed Acyclic Word Graphs when the form is not present verbatim.
//
// Everything the engine returns is decoded fresh from the mapping on
// every call; there is no write path, no incremental update, and no
// persisted state beyond the three files the caller supplies.
package bin

// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import "errors"

// Construction-time errors. An instance that fails to construct is
// unusable; there is no partial-success mode.
var (
	// ErrImageOpenFailed means the main image file could not be opened
	// or memory-mapped.
	ErrImageOpenFailed = errors.New("bin: image open failed")

	// ErrImageTooSmall means the image is shorter than the fixed
	// header, so the section offsets cannot be read at all.
	ErrImageTooSmall = errors.New("bin: image too small")

	// ErrImageBadSignature means the image does not begin with the
	// expected "Greynir " marker. The version tuple that follows the
	// marker is not checked.
	ErrImageBadSignature = errors.New("bin: image has bad signature")

	// ErrDAWGOpenFailed means a DAWG file could not be opened or
	// memory-mapped. With add_compounds disabled this is never
	// returned; with it enabled and the DAWG missing, the compound
	// path is silently disabled rather than failing construction (see
	// Config.AddCompounds).
	ErrDAWGOpenFailed = errors.New("bin: DAWG open failed")

	// ErrDAWGBadSignature means a DAWG file does not begin with the
	// expected "DAWG" signature or carries an unsupported version.
	ErrDAWGBadSignature = errors.New("bin: DAWG has bad signature")
)

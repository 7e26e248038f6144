// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import (
	"fmt"
	"os"
	"syscall"
)

// signaturePrefix is the fixed 8-byte ASCII marker every main image
// begins with; the remaining 8 bytes of the 16-byte signature carry a
// version tuple we do not otherwise interpret.
const signaturePrefix = "Greynir "

const signatureLen = 16

// headerLen is the byte length of the 16-byte signature plus the eight
// little-endian u32 section offsets that follow it (mappings, forms,
// lemmas, templates, meanings, alphabet, subcats, ksnid).
const headerLen = signatureLen + 8*4

// image is a memory-mapped, read-only byte buffer with bounds-checked
// little-endian accessors. It never faults: out-of-range reads return
// a zero value instead of panicking, so a corrupt offset degrades a
// single lookup instead of the process.
type image struct {
	data []byte
	file *os.File
}

// openImage memory-maps path read-only and validates the fixed header.
func openImage(path string) (*image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageOpenFailed, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrImageOpenFailed, err)
	}

	size := st.Size()
	if size < headerLen {
		f.Close()
		return nil, ErrImageTooSmall
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrImageOpenFailed, err)
	}

	img := &image{data: data, file: f}
	if !img.hasValidSignature() {
		img.close()
		return nil, ErrImageBadSignature
	}

	return img, nil
}

func (img *image) hasValidSignature() bool {
	if len(img.data) < signatureLen {
		return false
	}
	return string(img.data[:len(signaturePrefix)]) == signaturePrefix
}

// close unmaps the image and releases the file descriptor. Safe to
// call more than once.
func (img *image) close() error {
	if img == nil || img.data == nil {
		return nil
	}
	err := syscall.Munmap(img.data)
	img.data = nil
	if cerr := img.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// len returns the size of the mapping in bytes.
func (img *image) len() int {
	return len(img.data)
}

// u8 reads a single byte at off, or 0 if off is out of range.
func (img *image) u8(off uint32) byte {
	if uint64(off) >= uint64(len(img.data)) {
		return 0
	}
	return img.data[off]
}

// u16le reads a little-endian uint16 at off, or 0 if it would read
// past the end of the mapping.
func (img *image) u16le(off uint32) uint16 {
	if uint64(off)+2 > uint64(len(img.data)) {
		return 0
	}
	b := img.data[off : off+2]
	return uint16(b[0]) | uint16(b[1])<<8
}

// u32le reads a little-endian uint32 at off, or 0 if it would read
// past the end of the mapping.
func (img *image) u32le(off uint32) uint32 {
	if uint64(off)+4 > uint64(len(img.data)) {
		return 0
	}
	b := img.data[off : off+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// bytes returns a zero-copy slice of n bytes at off, or nil if the
// range is out of bounds.
func (img *image) bytes(off uint32, n int) []byte {
	if n < 0 || uint64(off)+uint64(n) > uint64(len(img.data)) {
		return nil
	}
	return img.data[off : uint64(off)+uint64(n)]
}

// cstr returns the zero-terminated byte slice starting at off,
// excluding the terminator, or nil if off is out of range or no
// terminator is found before the end of the mapping.
func (img *image) cstr(off uint32) []byte {
	if uint64(off) >= uint64(len(img.data)) {
		return nil
	}
	end := off
	for end < uint32(len(img.data)) && img.data[end] != 0 {
		end++
	}
	if end >= uint32(len(img.data)) {
		return nil
	}
	return img.data[off:end]
}

// pstr reads a length-prefixed byte string: a single length byte at
// off followed by that many bytes. Returns nil if out of range.
func (img *image) pstr(off uint32) []byte {
	n := int(img.u8(off))
	return img.bytes(off+1, n)
}

// header holds the eight section offsets decoded from the image's
// fixed header, in image order.
type header struct {
	mappings  uint32
	forms     uint32
	lemmas    uint32
	templates uint32
	meanings  uint32
	alphabet  uint32
	subcats   uint32
	ksnid     uint32
}

func readHeader(img *image) header {
	off := uint32(signatureLen)
	next := func() uint32 {
		v := img.u32le(off)
		off += 4
		return v
	}
	return header{
		mappings:  next(),
		forms:     next(),
		lemmas:    next(),
		templates: next(),
		meanings:  next(),
		alphabet:  next(),
		subcats:   next(),
		ksnid:     next(),
	}
}

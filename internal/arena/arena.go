/*
Copyright 2025 Trident Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package arena implements a growable byte stack holding length-prefixed
// measured strings, used by the Turtle/N-Triples parser to accumulate
// tokens without a heap allocation per token.
//
// Every record has the layout `[nBytes uint32][nChars uint32][data...][0x00]`.
// Callers push a record, append to it while it is the top of the stack, and
// pop it before returning. Pop is LIFO: in debug mode, popping anything but
// the current top panics, which is how callers catch a broken push/pop
// pairing in a parser production.
package arena

import "encoding/binary"

const headerSize = 8

// Ref is an opaque reference to a record's position in the arena. It is a
// cheap value; the record's bytes live in the arena until popped.
type Ref struct {
	offset int
}

// Arena is a LIFO byte stack of measured strings.
type Arena struct {
	buf    []byte
	stack  []int
	debug  bool
	pinned map[int]bool
}

// New creates an empty Arena. When debug is true, Pop asserts that its
// argument is the current top of the stack.
func New(debug bool) *Arena {
	return &Arena{debug: debug, pinned: make(map[int]bool)}
}

// Size returns the current size of the backing buffer, usable by callers to
// assert that a parsed construct left the arena exactly as it found it.
func (a *Arena) Size() int { return len(a.buf) }

// AssertBalanced panics if the arena's size does not match size recorded
// before parsing a construct. It is a no-op unless the arena was created
// with debug enabled.
func (a *Arena) AssertBalanced(before int, what string) {
	if a.debug && len(a.buf) != before {
		panic("arena: unbalanced push/pop in " + what)
	}
}

// PushEmpty reserves a new zero-length record and returns its reference. The
// record becomes the top of the stack.
func (a *Arena) PushEmpty() Ref {
	off := len(a.buf)
	a.buf = append(a.buf, make([]byte, headerSize+1)...) // header + NUL
	if a.debug {
		a.stack = append(a.stack, off)
	}
	return Ref{offset: off}
}

// PreRegister pushes a record for s and pins it so that Pop on its
// reference is a no-op. Used once at reader construction for the fixed
// rdf:first/rdf:rest/rdf:nil vocabulary strings, which may need to be
// "popped" by generic code paths that don't know they're constants.
func (a *Arena) PreRegister(s string) Ref {
	r := a.PushEmpty()
	a.Append(r, []byte(s))
	a.pinned[r.offset] = true
	if a.debug && len(a.stack) > 0 {
		a.stack = a.stack[:len(a.stack)-1]
	}
	return r
}

func (a *Arena) header(r Ref) (nBytes, nChars uint32) {
	nBytes = binary.LittleEndian.Uint32(a.buf[r.offset : r.offset+4])
	nChars = binary.LittleEndian.Uint32(a.buf[r.offset+4 : r.offset+8])
	return
}

func (a *Arena) setHeader(r Ref, nBytes, nChars uint32) {
	binary.LittleEndian.PutUint32(a.buf[r.offset:r.offset+4], nBytes)
	binary.LittleEndian.PutUint32(a.buf[r.offset+4:r.offset+8], nChars)
}

// PushByte appends one byte to r, which must be the current top-of-stack
// record. The character count only advances for bytes that are not UTF-8
// continuation bytes, so a record's character count tracks correctly even
// when built one raw byte at a time.
func (a *Arena) PushByte(r Ref, c byte) {
	nBytes, nChars := a.header(r)
	dataEnd := r.offset + headerSize + int(nBytes)
	a.buf[dataEnd] = c
	a.buf = append(a.buf, 0)
	nBytes++
	if c&0xC0 != 0x80 {
		nChars++
	}
	a.setHeader(r, nBytes, nChars)
}

// Append bulk-appends raw bytes to r. Both byte and character counts grow by
// len(p); callers are responsible for ensuring p is well-formed UTF-8 when
// that distinction matters downstream.
func (a *Arena) Append(r Ref, p []byte) {
	nBytes, nChars := a.header(r)
	dataEnd := r.offset + headerSize + int(nBytes)
	tail := append([]byte{}, a.buf[dataEnd:]...) // the trailing NUL (and nothing else, for a top record)
	a.buf = append(a.buf[:dataEnd], append(p, tail...)...)
	nBytes += uint32(len(p))
	nChars += uint32(len(p))
	a.setHeader(r, nBytes, nChars)
}

// Pop discards r's record. r must be the current top of the stack unless it
// was registered with PreRegister, in which case Pop is a no-op.
func (a *Arena) Pop(r Ref) {
	if a.pinned[r.offset] {
		return
	}
	if a.debug {
		if len(a.stack) == 0 || a.stack[len(a.stack)-1] != r.offset {
			panic("arena: pop target is not the top of the stack")
		}
		a.stack = a.stack[:len(a.stack)-1]
	}
	a.buf = a.buf[:r.offset]
}

// Bytes returns the record's raw bytes, valid until the record is popped.
func (a *Arena) Bytes(r Ref) []byte {
	nBytes, _ := a.header(r)
	start := r.offset + headerSize
	return a.buf[start : start+int(nBytes)]
}

// String returns a copy of the record's bytes as a string.
func (a *Arena) String(r Ref) string {
	return string(a.Bytes(r))
}

// NBytes returns the record's byte length.
func (a *Arena) NBytes(r Ref) int {
	n, _ := a.header(r)
	return int(n)
}

// NChars returns the record's character length, always <= NBytes: PushByte
// counts only bytes that are not UTF-8 continuation bytes, while Append
// counts every byte.
func (a *Arena) NChars(r Ref) int {
	_, n := a.header(r)
	return int(n)
}

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

// Package rbuf provides the streaming read buffer the parser pulls bytes
// from: a page-filling ByteSource abstraction plus a Buffer that gives the
// grammar up to several bytes of stable lookahead across page boundaries.
package rbuf

import "io"

// ByteSource is the single primitive the buffer needs from an input: fill at
// most len(p) bytes into p, reporting how many were read. A return of
// (0, nil) signals end of input.
type ByteSource interface {
	FillPage(p []byte) (n int, err error)
}

// streamSource adapts an io.Reader, which may return short reads for
// reasons unrelated to EOF, into a ByteSource that fills as much of the
// page as the reader will currently give up.
type streamSource struct {
	r io.Reader
}

// NewStreamSource wraps an io.Reader as a ByteSource.
func NewStreamSource(r io.Reader) ByteSource {
	return &streamSource{r: r}
}

func (s *streamSource) FillPage(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := s.r.Read(p[total:])
		total += n
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// memorySource serves a complete in-memory byte sequence.
type memorySource struct {
	data []byte
	pos  int
}

// NewMemorySource wraps a complete byte slice as a ByteSource.
func NewMemorySource(data []byte) ByteSource {
	return &memorySource{data: data}
}

func (s *memorySource) FillPage(p []byte) (int, error) {
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

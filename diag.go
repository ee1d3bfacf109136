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

package turtlestream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/corvid-labs/turtlestream/internal/rbuf"
)

// ErrBadSyntax is the sentinel every *SyntaxError wraps, for callers that
// want errors.Is(err, ErrBadSyntax) without caring about position/message.
var ErrBadSyntax = errors.New("turtlestream: bad syntax")

// ErrBadArg is the sentinel every *ArgError wraps.
var ErrBadArg = errors.New("turtlestream: bad argument")

// ErrUnknown wraps every fatal parse failure returned from a read: a Sink
// method returning its own error to request that the parse stop, and a
// *SyntaxError, which is reported and then returned wrapped in ErrUnknown.
var ErrUnknown = errors.New("turtlestream: aborted")

// SyntaxError reports a parse failure located by filename, line and
// column. The parser never recovers from one: it unwinds every arena push
// it made and returns.
type SyntaxError struct {
	Pos rbuf.Cursor
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrBadSyntax }

func newSyntaxError(pos rbuf.Cursor, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ArgError reports a bad call-site argument, such as ReadFile given a
// non-file: URI.
type ArgError struct {
	Msg string
}

func (e *ArgError) Error() string { return e.Msg }

func (e *ArgError) Unwrap() error { return ErrBadArg }

// report writes a *SyntaxError to the reader's configured diagnostic
// writer, one line, defaulting to os.Stderr. Every other error kind is
// returned to the caller without being written here: ArgError and sink
// refusals are the caller's own business, not a document diagnostic.
func report(w io.Writer, err *SyntaxError) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s\n", err.Error())
}

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
	"github.com/corvid-labs/turtlestream/internal/arena"
	"github.com/corvid-labs/turtlestream/internal/rbuf"
)

func isWSByte(c byte) bool {
	return c == 0x09 || c == 0x0A || c == 0x0D || c == 0x20
}

// isTerminatorByte reports whether c ends a bare token (an unquoted
// number, boolean or "a" verb) without being consumed by it.
func isTerminatorByte(c byte, ok bool) bool {
	if !ok {
		return true
	}
	switch c {
	case 0x09, 0x0A, 0x0D, 0x20, '.', ';', ',', '#', ')', ']':
		return true
	}
	return false
}

// skipWS consumes whitespace and "#" comments up to the next significant
// byte. It never fails: EOF simply ends the loop.
func skipWS(buf *rbuf.Buffer) {
	for {
		c, ok := buf.PeekByte()
		if !ok {
			return
		}
		if isWSByte(c) {
			buf.Advance()
			continue
		}
		if c == '#' {
			for {
				c, ok := buf.PeekByte()
				if !ok || c == 0x0A || c == 0x0D {
					break
				}
				buf.Advance()
			}
			continue
		}
		return
	}
}

func isASCIIHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) uint32 {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0')
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10
	default:
		return uint32(c-'A') + 10
	}
}

// scanHexDigits consumes exactly n hex digits and returns their value.
func scanHexDigits(buf *rbuf.Buffer, n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		c, ok := buf.PeekByte()
		if !ok || !isASCIIHexDigit(c) {
			return 0, newSyntaxError(buf.Cursor(), "expected hex digit in escape")
		}
		v = v<<4 | hexVal(c)
		buf.Advance()
	}
	return v, nil
}

// appendRune encodes r as UTF-8 and appends it to ref, per spec.md 4.4's
// hex-escape encoding table (1 byte below 0x80, 2 below 0x800, 3 below
// 0x10000, 4 below 0x200000; anything larger is rejected by
// scanBackslashEscape before this is reached).
func appendRune(a *arena.Arena, ref arena.Ref, r rune) {
	var buf [4]byte
	switch {
	case r < 0x80:
		a.PushByte(ref, byte(r))
		return
	case r < 0x800:
		buf[0] = byte(0xC0 | r>>6)
		buf[1] = byte(0x80 | r&0x3F)
		a.Append(ref, buf[:2])
	case r < 0x10000:
		buf[0] = byte(0xE0 | r>>12)
		buf[1] = byte(0x80 | (r>>6)&0x3F)
		buf[2] = byte(0x80 | r&0x3F)
		a.Append(ref, buf[:3])
	default:
		buf[0] = byte(0xF0 | r>>18)
		buf[1] = byte(0x80 | (r>>12)&0x3F)
		buf[2] = byte(0x80 | (r>>6)&0x3F)
		buf[3] = byte(0x80 | r&0x3F)
		a.Append(ref, buf[:4])
	}
}

// copyRawByteOrChar consumes one logical character at the read head
// (a single ASCII byte, or a whole multi-byte UTF-8 sequence inferred from
// the leading byte's high bits) and appends it verbatim to ref.
func copyRawByteOrChar(buf *rbuf.Buffer, a *arena.Arena, ref arena.Ref) error {
	c, ok := buf.PeekByte()
	if !ok {
		return newSyntaxError(buf.Cursor(), "unexpected end of input")
	}
	n := 1
	switch {
	case c&0x80 == 0x00:
		n = 1
	case c&0xE0 == 0xC0:
		n = 2
	case c&0xF0 == 0xE0:
		n = 3
	case c&0xF8 == 0xF0:
		n = 4
	default:
		return newSyntaxError(buf.Cursor(), "invalid UTF-8 lead byte 0x%02x", c)
	}
	for i := 0; i < n; i++ {
		c, ok := buf.PeekByte()
		if !ok {
			return newSyntaxError(buf.Cursor(), "truncated UTF-8 sequence")
		}
		a.PushByte(ref, c)
		buf.Advance()
	}
	return nil
}

// scanBackslashEscape handles the escapes common to every content context
// ("\\" and the two hex-codepoint forms), plus a context-specific table of
// single-byte substitutions (e.g. "\n"/"\t"/"\r" in e-character context,
// "\"" in s-character context, "\>" in u-character context). extra maps
// the escape byte to its literal substitution; an unmapped escape byte
// other than '\\', 'u' and 'U' is a syntax error.
func scanBackslashEscape(buf *rbuf.Buffer, a *arena.Arena, ref arena.Ref, extra map[byte]byte) error {
	buf.Advance() // consume '\\'
	c, ok := buf.PeekByte()
	if !ok {
		return newSyntaxError(buf.Cursor(), "unexpected end of input after '\\'")
	}
	switch c {
	case '\\':
		buf.Advance()
		a.PushByte(ref, '\\')
		return nil
	case 'u':
		buf.Advance()
		v, err := scanHexDigits(buf, 4)
		if err != nil {
			return err
		}
		appendRune(a, ref, rune(v))
		return nil
	case 'U':
		buf.Advance()
		v, err := scanHexDigits(buf, 8)
		if err != nil {
			return err
		}
		if v >= 0x200000 {
			return newSyntaxError(buf.Cursor(), "codepoint 0x%X out of range in escape", v)
		}
		appendRune(a, ref, rune(v))
		return nil
	default:
		if sub, ok := extra[c]; ok {
			buf.Advance()
			a.PushByte(ref, sub)
			return nil
		}
		return newSyntaxError(buf.Cursor(), "invalid escape '\\%c'", c)
	}
}

var eCharExtra = map[byte]byte{'t': '\t', 'n': '\n', 'r': '\r', '"': '"', '\'': '\''}
var uCharExtra = map[byte]byte{'>': '>'}

// isNameByte reports whether c may appear in a prefixName/name/nodeID
// token. Every byte >= 0x80 is accepted as part of a (separately
// reassembled) multi-byte UTF-8 character; '.' is deliberately excluded
// to avoid the ambiguity between a dotted local name and the statement
// terminator.
func isNameByte(c byte) bool {
	if c >= 0x80 {
		return true
	}
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}

// scanName appends a run of isNameByte characters to ref. An empty run is
// not an error here: prefixName and name may both be empty (default
// prefix ":", whole-prefix reference "prefix:").
func scanName(buf *rbuf.Buffer, a *arena.Arena, ref arena.Ref) error {
	for {
		c, ok := buf.PeekByte()
		if !ok || !isNameByte(c) {
			return nil
		}
		if c >= 0x80 {
			if err := copyRawByteOrChar(buf, a, ref); err != nil {
				return err
			}
			continue
		}
		a.PushByte(ref, c)
		buf.Advance()
	}
}

// scanURIRef consumes a "<...>" production, decoding u-character escapes,
// and returns the decoded (but not yet base-resolved) URI text.
func scanURIRef(buf *rbuf.Buffer, a *arena.Arena) (string, error) {
	if err := buf.EatByte('<'); err != nil {
		return "", newSyntaxError(buf.Cursor(), "expected '<'")
	}
	ref := a.PushEmpty()
	for {
		c, ok := buf.PeekByte()
		if !ok {
			a.Pop(ref)
			return "", newSyntaxError(buf.Cursor(), "unterminated uriref")
		}
		if c == '>' {
			buf.Advance()
			break
		}
		if c == '\\' {
			if err := scanBackslashEscape(buf, a, ref, uCharExtra); err != nil {
				a.Pop(ref)
				return "", err
			}
			continue
		}
		if c < 0x20 {
			a.Pop(ref)
			return "", newSyntaxError(buf.Cursor(), "control byte 0x%02x in uriref", c)
		}
		if c >= 0x80 {
			if err := copyRawByteOrChar(buf, a, ref); err != nil {
				a.Pop(ref)
				return "", err
			}
			continue
		}
		a.PushByte(ref, c)
		buf.Advance()
	}
	s := a.String(ref)
	a.Pop(ref)
	return s, nil
}

// scanQuotedString consumes either a short ("...") or long ("""...""")
// quoted string body, decoding e-character and s-character escapes, and
// returns the decoded value.
func scanQuotedString(buf *rbuf.Buffer, a *arena.Arena) (string, error) {
	var probe [3]byte
	n := buf.PeekN(probe[:])
	long := n == 3 && probe[0] == '"' && probe[1] == '"' && probe[2] == '"'
	if long {
		buf.Advance()
		buf.Advance()
		buf.Advance()
	} else if err := buf.EatByte('"'); err != nil {
		return "", newSyntaxError(buf.Cursor(), "expected '\"'")
	}

	ref := a.PushEmpty()
	for {
		if long {
			var closing [3]byte
			n := buf.PeekN(closing[:])
			if n == 3 && closing[0] == '"' && closing[1] == '"' && closing[2] == '"' {
				buf.Advance()
				buf.Advance()
				buf.Advance()
				break
			}
		}
		c, ok := buf.PeekByte()
		if !ok {
			a.Pop(ref)
			return "", newSyntaxError(buf.Cursor(), "unterminated string")
		}
		if !long && c == '"' {
			buf.Advance()
			break
		}
		if c == '\\' {
			if err := scanBackslashEscape(buf, a, ref, eCharExtra); err != nil {
				a.Pop(ref)
				return "", err
			}
			continue
		}
		if !long && (c == 0x0A || c == 0x0D) {
			a.Pop(ref)
			return "", newSyntaxError(buf.Cursor(), "newline in short string")
		}
		if c < 0x20 && c != 0x09 && c != 0x0A && c != 0x0D {
			a.Pop(ref)
			return "", newSyntaxError(buf.Cursor(), "control byte 0x%02x in string", c)
		}
		if c >= 0x80 {
			if err := copyRawByteOrChar(buf, a, ref); err != nil {
				a.Pop(ref)
				return "", err
			}
			continue
		}
		a.PushByte(ref, c)
		buf.Advance()
	}
	s := a.String(ref)
	a.Pop(ref)
	return s, nil
}

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
	"github.com/corvid-labs/turtlestream/iri"
)

const (
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	rdfType    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

// resolveURIText resolves a uriref's decoded text against the reader's
// current base (if any) and returns the serialised absolute form. Strict
// mode, when enabled, additionally rejects a result Validate flags.
func (r *Reader) resolveURIText(raw string) (string, error) {
	ref := iri.Parse(raw)
	target := ref
	if r.base.HasScheme {
		target = iri.Resolve(ref, r.base)
	}
	if r.cfg.strictIRIs {
		if err := iri.Validate(target); err != nil {
			return "", newSyntaxError(r.buf.Cursor(), "invalid IRI %q: %v", raw, err)
		}
	}
	return target.String(), nil
}

// parseURIRefNode scans a "<...>" production and resolves it into a URI
// Node.
func (r *Reader) parseURIRefNode() (Node, error) {
	raw, err := scanURIRef(r.buf, r.arena)
	if err != nil {
		return Node{}, err
	}
	resolved, err := r.resolveURIText(raw)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: KindURI, Value: resolved}, nil
}

// parseQNameNode scans a "[prefixName] ':' [name]" production into a raw,
// unexpanded CURIE Node: the reader never consults its own prefix
// declarations to expand one, leaving that to the consumer of the Prefix
// callback.
func (r *Reader) parseQNameNode() (Node, error) {
	ref := r.arena.PushEmpty()
	if err := scanName(r.buf, r.arena, ref); err != nil {
		r.arena.Pop(ref)
		return Node{}, err
	}
	if err := r.buf.EatByte(':'); err != nil {
		r.arena.Pop(ref)
		return Node{}, newSyntaxError(r.buf.Cursor(), "expected ':' in qname")
	}
	r.arena.PushByte(ref, ':')
	if err := scanName(r.buf, r.arena, ref); err != nil {
		r.arena.Pop(ref)
		return Node{}, err
	}
	s := r.arena.String(ref)
	r.arena.Pop(ref)
	return Node{Kind: KindCURIE, Value: s}, nil
}

// parseResourceNode parses the "uriref | qname" alternative shared by
// every grammar position that allows a resource.
func (r *Reader) parseResourceNode() (Node, error) {
	c, ok := r.buf.PeekByte()
	if !ok {
		return Node{}, newSyntaxError(r.buf.Cursor(), "unexpected end of input, expected a resource")
	}
	if c == '<' {
		return r.parseURIRefNode()
	}
	return r.parseQNameNode()
}

// parseNodeIDNode parses "_:" name into a blank Node, applying the
// Turtle-mode genid/docid collision guard.
func (r *Reader) parseNodeIDNode() (Node, error) {
	if err := r.buf.EatString("_:"); err != nil {
		return Node{}, newSyntaxError(r.buf.Cursor(), "expected '_:'")
	}
	ref := r.arena.PushEmpty()
	if err := scanName(r.buf, r.arena, ref); err != nil {
		r.arena.Pop(ref)
		return Node{}, err
	}
	label := r.arena.String(ref)
	r.arena.Pop(ref)
	if r.syntax == Turtle {
		label = rewriteReservedLabel(label)
	}
	return Node{Kind: KindBlank, Value: label}, nil
}

// parseLanguageTag scans a run of ASCII letters (either case), digits and
// '-' verbatim, without checking their order, then, on a
// best-effort basis, asks langtag to parse and normalise it. Per spec.md's
// "no validation beyond syntax" non-goal, a tag that fails BCP 47 parsing
// is not rejected: the raw lexed form is kept and the decoration step is
// simply skipped.
func (r *Reader) parseLanguageTag() (string, error) {
	ref := r.arena.PushEmpty()
	for {
		c, ok := r.buf.PeekByte()
		if !ok {
			break
		}
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || (c >= '0' && c <= '9') {
			r.arena.PushByte(ref, c)
			r.buf.Advance()
			continue
		}
		break
	}
	raw := r.arena.String(ref)
	r.arena.Pop(ref)
	if raw == "" {
		return "", newSyntaxError(r.buf.Cursor(), "expected language tag after '@'")
	}
	if r.langParser != nil {
		if tag, err := r.langParser.Parse(raw); err == nil {
			return tag.String(), nil
		}
	}
	return raw, nil
}

// parseLiteralNode parses the "literal" production: a quoted string with
// an optional language tag or datatype, or a bare number/boolean.
func (r *Reader) parseLiteralNode() (Node, error) {
	c, ok := r.buf.PeekByte()
	if !ok {
		return Node{}, newSyntaxError(r.buf.Cursor(), "unexpected end of input, expected a literal")
	}
	if c == '"' {
		value, err := scanQuotedString(r.buf, r.arena)
		if err != nil {
			return Node{}, err
		}
		node := Node{Kind: KindLiteral, Value: value}
		c, ok := r.buf.PeekByte()
		switch {
		case ok && c == '@':
			r.buf.Advance()
			lang, err := r.parseLanguageTag()
			if err != nil {
				return Node{}, err
			}
			node.Lang = lang
		case ok && c == '^':
			r.buf.Advance()
			if err := r.buf.EatByte('^'); err != nil {
				return Node{}, newSyntaxError(r.buf.Cursor(), "expected '^^' before datatype")
			}
			dt, err := r.parseResourceNode()
			if err != nil {
				return Node{}, err
			}
			node.Datatype = dt
		}
		return node, nil
	}
	return r.parseNumberOrBooleanOrQNameNode()
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

// parseNumberOrBooleanOrQNameNode resolves the lexical ambiguity spec.md
//4.5 describes: a token starting with a digit, sign or dot is a number; a
// bare "true"/"false" followed by an object terminator is a boolean;
// anything else starting with a letter is reinterpreted as a qname.
func (r *Reader) parseNumberOrBooleanOrQNameNode() (Node, error) {
	c, ok := r.buf.PeekByte()
	if ok && (isDigitByte(c) || c == '+' || c == '-' || c == '.') {
		return r.parseNumberNode()
	}
	return r.parseBooleanOrQNameNode()
}

func (r *Reader) parseNumberNode() (Node, error) {
	ref := r.arena.PushEmpty()
	sawDigit := false
	sawDot := false
	sawExp := false

	c, ok := r.buf.PeekByte()
	if ok && (c == '+' || c == '-') {
		r.arena.PushByte(ref, c)
		r.buf.Advance()
	}
	for {
		c, ok := r.buf.PeekByte()
		if !ok || !isDigitByte(c) {
			break
		}
		sawDigit = true
		r.arena.PushByte(ref, c)
		r.buf.Advance()
	}
	if c, ok := r.buf.PeekByte(); ok && c == '.' {
		// A trailing '.' that ends the enclosing statement must not be
		// consumed as a decimal point; only treat it as one if at least
		// one digit follows.
		var probe [2]byte
		n := r.buf.PeekN(probe[:])
		if n == 2 && isDigitByte(probe[1]) {
			sawDot = true
			r.arena.PushByte(ref, '.')
			r.buf.Advance()
			for {
				c, ok := r.buf.PeekByte()
				if !ok || !isDigitByte(c) {
					break
				}
				sawDigit = true
				r.arena.PushByte(ref, c)
				r.buf.Advance()
			}
		} else if !sawDigit {
			r.arena.Pop(ref)
			return Node{}, newSyntaxError(r.buf.Cursor(), "expected digit in numeric literal")
		}
	}
	if !sawDigit {
		r.arena.Pop(ref)
		return Node{}, newSyntaxError(r.buf.Cursor(), "expected digit in numeric literal")
	}
	if c, ok := r.buf.PeekByte(); ok && (c == 'e' || c == 'E') {
		var probe [3]byte
		n := r.buf.PeekN(probe[:])
		i := 1
		if n > i && (probe[i] == '+' || probe[i] == '-') {
			i++
		}
		if n > i && isDigitByte(probe[i]) {
			sawExp = true
			r.arena.PushByte(ref, c)
			r.buf.Advance()
			if c, ok := r.buf.PeekByte(); ok && (c == '+' || c == '-') {
				r.arena.PushByte(ref, c)
				r.buf.Advance()
			}
			for {
				c, ok := r.buf.PeekByte()
				if !ok || !isDigitByte(c) {
					break
				}
				r.arena.PushByte(ref, c)
				r.buf.Advance()
			}
		}
	}
	value := r.arena.String(ref)
	r.arena.Pop(ref)

	datatype := xsdInteger
	switch {
	case sawExp:
		datatype = xsdDouble
	case sawDot:
		datatype = xsdDecimal
	}
	return Node{
		Kind:     KindLiteral,
		Value:    value,
		Datatype: Node{Kind: KindURI, Value: datatype},
	}, nil
}

func (r *Reader) parseBooleanOrQNameNode() (Node, error) {
	var probe [6]byte
	n := r.buf.PeekN(probe[:])
	if n >= 4 && string(probe[:4]) == "true" && isTerminatorByte(peekAt(probe[:], n, 4)) {
		for i := 0; i < 4; i++ {
			r.buf.Advance()
		}
		return Node{Kind: KindLiteral, Value: "true", Datatype: Node{Kind: KindURI, Value: xsdBoolean}}, nil
	}
	if n >= 5 && string(probe[:5]) == "false" && isTerminatorByte(peekAt(probe[:], n, 5)) {
		for i := 0; i < 5; i++ {
			r.buf.Advance()
		}
		return Node{Kind: KindLiteral, Value: "false", Datatype: Node{Kind: KindURI, Value: xsdBoolean}}, nil
	}
	return r.parseQNameNode()
}

// peekAt returns (byte-at-index, present) from a fixed lookahead buffer
// already filled by PeekN, treating an index at or past the filled length
// as end-of-input.
func peekAt(buf []byte, filled, idx int) (byte, bool) {
	if idx >= filled {
		return 0, false
	}
	return buf[idx], true
}

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
	"fmt"

	"github.com/corvid-labs/turtlestream/iri"
)

// emit packages one triple into a Sink.Statement call and keeps Stats
// current. flags holds the one-shot flags for this statement only; the
// ANON_CONT bit of ctx is merged in, so every statement emitted inside an
// anonymous scope carries it. ctx is threaded by value down the recursion,
// so a nested anonymous scope's ANON_CONT bit never leaks back up into the
// caller's own ctx once that scope returns, and a scope that was itself
// nested inside another keeps carrying its outer ANON_CONT for exactly as
// long as it's in scope.
func (r *Reader) emit(ctx readContext, flags Flags, subject, predicate, object Node) error {
	flags |= ctx.flags & FlagAnonCont
	if err := r.sink.Statement(flags, ctx.graph, subject, predicate, object); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	r.stats.Statements++
	return nil
}

func wrapSinkErr(err error) error {
	return fmt.Errorf("%w: %v", ErrUnknown, err)
}

// runDocument drives the top-level "turtleDoc ::= { statement }" loop
// shared by Turtle and N-Triples: per spec.md's documented open question,
// N-Triples is read with the same grammar engine rather than a separately
// tightened subset.
func (r *Reader) runDocument() error {
	for {
		skipWS(r.buf)
		if r.buf.AtEOF() {
			return nil
		}
		if err := r.parseStatement(); err != nil {
			if se, ok := err.(*SyntaxError); ok {
				report(r.cfg.diagWriter, se)
				return fmt.Errorf("%w: %w", ErrUnknown, se)
			}
			return err
		}
	}
}

// parseStatement parses "statement ::= ws* ( directive | triples ) ws* '.'".
func (r *Reader) parseStatement() error {
	c, ok := r.buf.PeekByte()
	if !ok {
		return newSyntaxError(r.buf.Cursor(), "unexpected end of input, expected a statement")
	}
	if c == '@' {
		if err := r.parseDirective(); err != nil {
			return err
		}
	} else {
		if err := r.parseTriples(); err != nil {
			return err
		}
	}
	skipWS(r.buf)
	if err := r.buf.EatByte('.'); err != nil {
		return newSyntaxError(r.buf.Cursor(), "expected '.' to end statement")
	}
	return nil
}

// parseDirective parses "'@' ( 'base' | 'prefix' ) ...".
func (r *Reader) parseDirective() error {
	if err := r.buf.EatByte('@'); err != nil {
		return newSyntaxError(r.buf.Cursor(), "expected '@'")
	}
	var probe [6]byte
	n := r.buf.PeekN(probe[:])
	switch {
	case n >= 4 && string(probe[:4]) == "base":
		return r.parseBaseDirective()
	case n >= 6 && string(probe[:6]) == "prefix":
		return r.parsePrefixDirective()
	default:
		return newSyntaxError(r.buf.Cursor(), "expected 'base' or 'prefix' after '@'")
	}
}

func (r *Reader) parseBaseDirective() error {
	if err := r.buf.EatString("base"); err != nil {
		return newSyntaxError(r.buf.Cursor(), "expected 'base'")
	}
	skipWS(r.buf)
	uriNode, err := r.parseURIRefNode()
	if err != nil {
		return err
	}
	r.base = iri.Parse(uriNode.Value)
	if err := r.sink.Base(uriNode); err != nil {
		return wrapSinkErr(err)
	}
	r.stats.Directives++
	return nil
}

func (r *Reader) parsePrefixDirective() error {
	if err := r.buf.EatString("prefix"); err != nil {
		return newSyntaxError(r.buf.Cursor(), "expected 'prefix'")
	}
	skipWS(r.buf)
	ref := r.arena.PushEmpty()
	if err := scanName(r.buf, r.arena, ref); err != nil {
		r.arena.Pop(ref)
		return err
	}
	name := r.arena.String(ref)
	r.arena.Pop(ref)
	if err := r.buf.EatByte(':'); err != nil {
		return newSyntaxError(r.buf.Cursor(), "expected ':' in prefix directive")
	}
	skipWS(r.buf)
	uriNode, err := r.parseURIRefNode()
	if err != nil {
		return err
	}
	if err := r.sink.Prefix(name, uriNode); err != nil {
		return wrapSinkErr(err)
	}
	r.stats.Directives++
	return nil
}

// parseTriples parses "triples ::= subject ws+ predicateObjectList".
func (r *Reader) parseTriples() error {
	ctx := readContext{}
	subject, pending, err := r.parseSubjectNode(ctx)
	if err != nil {
		return err
	}
	skipWS(r.buf)
	ctx.subject = subject
	return r.parsePredicateObjectList(ctx, &pending)
}

// parsePredicateObjectList parses
// "verb ws+ objectList ( ws* ';' ws* ( verb ws+ objectList )? )*".
// pending, when non-nil, carries flags to merge into the very first
// statement emitted for this subject (EMPTY_S/ANON_S_BEGIN from a
// bracket-blank subject); it is consumed (zeroed) after that first use.
func (r *Reader) parsePredicateObjectList(ctx readContext, pending *Flags) error {
	verb, err := r.parseVerbNode()
	if err != nil {
		return err
	}
	ctx.predicate = verb
	if err := r.parseObjectList(ctx, pending); err != nil {
		return err
	}
	for {
		skipWS(r.buf)
		c, ok := r.buf.PeekByte()
		if !ok || c != ';' {
			return nil
		}
		r.buf.Advance()
		skipWS(r.buf)
		c, ok = r.buf.PeekByte()
		if !ok || c == '.' || c == ']' {
			return nil
		}
		verb, err := r.parseVerbNode()
		if err != nil {
			return err
		}
		ctx.predicate = verb
		if err := r.parseObjectList(ctx, pending); err != nil {
			return err
		}
	}
}

// parseObjectList parses "object ( ws* ',' ws* object )*". A bracket or
// collection object defers its own nested statements into a
// continuation returned alongside it, so that this glue statement
// "(ctx.subject, ctx.predicate, obj)" always reaches the sink first.
func (r *Reader) parseObjectList(ctx readContext, pending *Flags) error {
	for {
		skipWS(r.buf)
		obj, extra, cont, err := r.parseObjectWithFlags(ctx)
		if err != nil {
			return err
		}
		flags := extra
		if pending != nil {
			flags |= *pending
			*pending = 0
		}
		if err := r.emit(ctx, flags, ctx.subject, ctx.predicate, obj); err != nil {
			return err
		}
		if cont != nil {
			if err := cont(); err != nil {
				return err
			}
		}
		skipWS(r.buf)
		c, ok := r.buf.PeekByte()
		if !ok || c != ',' {
			return nil
		}
		r.buf.Advance()
	}
}

// parseVerbNode parses "verb ::= predicate | 'a' (followed by whitespace)".
func (r *Reader) parseVerbNode() (Node, error) {
	var probe [2]byte
	n := r.buf.PeekN(probe[:])
	if n >= 1 && probe[0] == 'a' && (n < 2 || isWSByte(probe[1])) {
		r.buf.Advance()
		return Node{Kind: KindURI, Value: rdfType}, nil
	}
	return r.parseResourceNode()
}

// parseSubjectNode parses "subject ::= resource | blank" and returns any
// pending flags a bracket-blank subject contributes to its first emitted
// statement.
func (r *Reader) parseSubjectNode(ctx readContext) (Node, Flags, error) {
	c, ok := r.buf.PeekByte()
	if !ok {
		return Node{}, 0, newSyntaxError(r.buf.Cursor(), "unexpected end of input, expected a subject")
	}
	switch {
	case c == '<':
		n, err := r.parseURIRefNode()
		return n, 0, err
	case c == '(':
		n, err := r.parseCollectionNode(ctx)
		return n, 0, err
	case c == '[':
		res, err := r.parseBlankBracket(ctx, true)
		if err != nil {
			return Node{}, 0, err
		}
		return res.node, res.extraFlags, nil
	case c == '_':
		n, err := r.parseNodeIDNode()
		return n, 0, err
	default:
		n, err := r.parseQNameNode()
		return n, 0, err
	}
}

// parseObjectWithFlags parses "object ::= resource | blank | literal" and
// returns any extra flags a bracket-blank object contributes to its own
// glue statement, plus a continuation. The glue statement that names this
// object (ctx.subject, ctx.predicate, node) must reach the sink before
// anything the continuation itself emits: a bracket or collection in
// object position mints its node up front but defers the nested
// predicateObjectList/rdf:first-rdf:rest work it still owes, so the
// caller can emit the glue statement first and only then invoke it. The
// continuation is nil whenever there is no deferred work (every object
// kind but a non-empty bracket or non-empty collection).
func (r *Reader) parseObjectWithFlags(ctx readContext) (Node, Flags, func() error, error) {
	c, ok := r.buf.PeekByte()
	if !ok {
		return Node{}, 0, nil, newSyntaxError(r.buf.Cursor(), "unexpected end of input, expected an object")
	}
	switch {
	case c == '<':
		n, err := r.parseURIRefNode()
		return n, 0, nil, err
	case c == '(':
		return r.beginCollectionObject(ctx)
	case c == '[':
		res, err := r.parseBlankBracket(ctx, false)
		if err != nil {
			return Node{}, 0, nil, err
		}
		return res.node, res.extraFlags, res.cont, nil
	case c == '_':
		n, err := r.parseNodeIDNode()
		return n, 0, nil, err
	default:
		n, err := r.parseLiteralNode()
		return n, 0, nil, err
	}
}

// blankResult is what parsing a "[...]" production yields: the fresh
// blank node itself, the flags that decorate whatever statement is about
// to use it (the enclosing glue statement in object position, or the
// first statement of the following predicateObjectList in subject
// position), and, for a non-empty bracket in object position, the
// deferred continuation that parses and emits its own
// predicateObjectList. cont is nil whenever the bracket's content (if
// any) has already been parsed and emitted synchronously, which is
// always true in subject position and for an empty bracket in either
// position.
type blankResult struct {
	node       Node
	extraFlags Flags
	cont       func() error
}

// parseBlankBracket parses "'[' ws* ']'" and "'[' ws* predicateObjectList
// ws* ']'". subjectPosition selects between the EMPTY_S/ANON_S_BEGIN and
// EMPTY_O/ANON_O_BEGIN flag pairs per spec.md 4.5. A subject-position
// bracket is fully resolved here, since the enclosing triple's own
// predicate and object don't exist yet for anything to be deferred to;
// an object-position bracket instead returns the fresh blank node
// immediately and defers its nested predicateObjectList into the
// returned continuation, so the caller can emit the glue statement
// before any of the bracket's own statements reach the sink.
func (r *Reader) parseBlankBracket(ctx readContext, subjectPosition bool) (blankResult, error) {
	if err := r.buf.EatByte('['); err != nil {
		return blankResult{}, newSyntaxError(r.buf.Cursor(), "expected '['")
	}
	skipWS(r.buf)
	fresh := Node{Kind: KindBlank, Value: r.blanks.mint()}
	r.stats.BlankNodes++

	c, ok := r.buf.PeekByte()
	if ok && c == ']' {
		r.buf.Advance()
		flag := FlagEmptyO
		if subjectPosition {
			flag = FlagEmptyS
		}
		return blankResult{node: fresh, extraFlags: flag}, nil
	}

	finish := func() error {
		nested := readContext{graph: ctx.graph, subject: fresh, flags: ctx.flags | FlagAnonCont}
		if err := r.parsePredicateObjectList(nested, nil); err != nil {
			return err
		}
		skipWS(r.buf)
		if err := r.buf.EatByte(']'); err != nil {
			return newSyntaxError(r.buf.Cursor(), "expected ']'")
		}
		if err := r.sink.End(fresh); err != nil {
			return wrapSinkErr(err)
		}
		return nil
	}

	if subjectPosition {
		if err := finish(); err != nil {
			return blankResult{}, err
		}
		return blankResult{node: fresh, extraFlags: FlagAnonSBegin}, nil
	}
	return blankResult{node: fresh, extraFlags: FlagAnonOBegin, cont: finish}, nil
}

// beginCollectionObject mints a collection's head node (or returns
// rdf:nil directly for an empty list) and defers the rdf:first/rdf:rest
// chain into the returned continuation, the object-position counterpart
// to parseBlankBracket's deferral: the caller emits the glue statement
// naming the head before the chain's own statements are built.
func (r *Reader) beginCollectionObject(ctx readContext) (Node, Flags, func() error, error) {
	if err := r.buf.EatByte('('); err != nil {
		return Node{}, 0, nil, newSyntaxError(r.buf.Cursor(), "expected '('")
	}
	skipWS(r.buf)
	if c, ok := r.buf.PeekByte(); ok && c == ')' {
		r.buf.Advance()
		return r.vocabNode(r.rdfNil), 0, nil, nil
	}

	head := Node{Kind: KindBlank, Value: r.blanks.mint()}
	r.stats.BlankNodes++

	cont := func() error {
		return r.continueCollectionChain(ctx, head)
	}
	return head, 0, cont, nil
}

// parseCollectionNode parses "'(' ws* [ object { ws+ object } ] ws* ')'"
// synchronously, for subject position: the whole collection, including
// its rdf:first/rdf:rest chain, must be resolved before the enclosing
// triple's predicate and object are even lexed, so there is nothing to
// defer here. It returns the head node (rdf:nil itself for an empty
// list, otherwise a fresh blank).
func (r *Reader) parseCollectionNode(ctx readContext) (Node, error) {
	head, _, cont, err := r.beginCollectionObject(ctx)
	if err != nil {
		return Node{}, err
	}
	if cont != nil {
		if err := cont(); err != nil {
			return Node{}, err
		}
	}
	return head, nil
}

// continueCollectionChain builds the rdf:first/rdf:rest chain for a
// collection whose head has already been minted (and, in object
// position, whose glue statement has already reached the sink). Each
// item's own glue statement "(current, rdf:first, item)" is emitted
// before that item's own deferred continuation runs, so a bracket or
// nested collection inside a collection gets the same glue-before-nested
// ordering as any other object-position value.
func (r *Reader) continueCollectionChain(ctx readContext, head Node) error {
	current := head
	for {
		item, itemFlags, itemCont, err := r.parseObjectWithFlags(ctx)
		if err != nil {
			return err
		}
		skipWS(r.buf)
		last := false
		if c, ok := r.buf.PeekByte(); ok && c == ')' {
			last = true
		}
		if err := r.emit(ctx, itemFlags, current, r.vocabNode(r.rdfFirst), item); err != nil {
			return err
		}
		if itemCont != nil {
			if err := itemCont(); err != nil {
				return err
			}
		}
		if last {
			if err := r.emit(ctx, ctx.flags.clearOneShot(), current, r.vocabNode(r.rdfRest), r.vocabNode(r.rdfNil)); err != nil {
				return err
			}
			r.buf.Advance()
			return nil
		}
		next := Node{Kind: KindBlank, Value: r.blanks.mint()}
		r.stats.BlankNodes++
		if err := r.emit(ctx, ctx.flags.clearOneShot(), current, r.vocabNode(r.rdfRest), next); err != nil {
			return err
		}
		current = next
	}
}

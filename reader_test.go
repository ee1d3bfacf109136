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
	"io"
	"testing"
)

type recordedStatement struct {
	flags                            Flags
	graph, subject, predicate, object Node
}

type recordingSink struct {
	bases      []Node
	prefixes   map[string]Node
	statements []recordedStatement
	ends       []Node
}

func newRecordingSink() *recordingSink {
	return &recordingSink{prefixes: map[string]Node{}}
}

func (s *recordingSink) Base(uri Node) error {
	s.bases = append(s.bases, uri)
	return nil
}

func (s *recordingSink) Prefix(name string, uri Node) error {
	s.prefixes[name] = uri
	return nil
}

func (s *recordingSink) Statement(flags Flags, graph, subject, predicate, object Node) error {
	s.statements = append(s.statements, recordedStatement{flags, graph, subject, predicate, object})
	return nil
}

func (s *recordingSink) End(node Node) error {
	s.ends = append(s.ends, node)
	return nil
}

func mustRead(t *testing.T, doc string) *recordingSink {
	t.Helper()
	sink := newRecordingSink()
	r := New(Turtle, sink)
	if err := r.ReadString("test.ttl", doc); err != nil {
		t.Fatalf("ReadString(%q) = %v", doc, err)
	}
	return sink
}

// TestEmptyList covers spec.md 8 scenario 1.
func TestEmptyList(t *testing.T) {
	sink := mustRead(t, "<a> <b> () .")
	if len(sink.statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(sink.statements))
	}
	st := sink.statements[0]
	if st.subject.Value != "a" || st.predicate.Value != "b" {
		t.Fatalf("unexpected s/p: %+v", st)
	}
	if st.object.Kind != KindURI || st.object.Value != "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil" {
		t.Fatalf("object = %+v, want rdf:nil", st.object)
	}
}

// TestTwoElementList covers spec.md 8 scenario 2. The list's head node is
// minted before anything else, so the glue statement that attaches it to
// <a> <b> is emitted first; the list's own rdf:first/rdf:rest chain
// follows.
func TestTwoElementList(t *testing.T) {
	sink := mustRead(t, "<a> <b> (<c> <d>) .")
	if len(sink.statements) != 5 {
		t.Fatalf("got %d statements, want 5: %+v", len(sink.statements), sink.statements)
	}
	glue := sink.statements[0]
	if glue.subject.Value != "a" || glue.predicate.Value != "b" || glue.object.Kind != KindBlank {
		t.Fatalf("statement 0 (glue) = %+v", glue)
	}
	head := glue.object
	s1 := sink.statements[1]
	if s1.subject != head || s1.predicate.Value != "http://www.w3.org/1999/02/22-rdf-syntax-ns#first" || s1.object.Value != "c" {
		t.Fatalf("statement 1 = %+v", s1)
	}
	s2 := sink.statements[2]
	if s2.subject != head || s2.predicate.Value != "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest" || s2.object.Kind != KindBlank {
		t.Fatalf("statement 2 = %+v", s2)
	}
	tail := s2.object
	s3 := sink.statements[3]
	if s3.subject != tail || s3.predicate.Value != "http://www.w3.org/1999/02/22-rdf-syntax-ns#first" || s3.object.Value != "d" {
		t.Fatalf("statement 3 = %+v", s3)
	}
	s4 := sink.statements[4]
	if s4.subject != tail || s4.predicate.Value != "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest" || s4.object.Value != "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil" {
		t.Fatalf("statement 4 = %+v", s4)
	}
}

// TestNumericDatatypeInference covers spec.md 8 scenario 3.
func TestNumericDatatypeInference(t *testing.T) {
	sink := mustRead(t, "<a> <b> 1, 1.0, 1e0 .")
	if len(sink.statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(sink.statements))
	}
	want := []string{xsdInteger, xsdDecimal, xsdDouble}
	for i, st := range sink.statements {
		if st.object.Datatype.Value != want[i] {
			t.Errorf("statement %d datatype = %q, want %q", i, st.object.Datatype.Value, want[i])
		}
	}
}

// TestAVerb covers spec.md 8 scenario 4.
func TestAVerb(t *testing.T) {
	sink := mustRead(t, "<x> a <T> .")
	if len(sink.statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(sink.statements))
	}
	st := sink.statements[0]
	if st.predicate.Value != rdfType {
		t.Fatalf("predicate = %q, want rdf:type", st.predicate.Value)
	}
	if st.object.Value != "T" {
		t.Fatalf("object = %q, want T", st.object.Value)
	}
}

// TestAnonymousBlank covers spec.md 8 scenario 5. The fresh blank is
// minted before its own predicateObjectList is parsed, so the glue
// statement that attaches it to <x> <p> is emitted first; the bracket's
// own nested statement, and the matching end_sink, follow.
func TestAnonymousBlank(t *testing.T) {
	sink := mustRead(t, "<x> <p> [ <q> <y> ] .")
	if len(sink.statements) != 2 {
		t.Fatalf("got %d statements, want 2: %+v", len(sink.statements), sink.statements)
	}
	glue := sink.statements[0]
	if glue.subject.Value != "x" || glue.predicate.Value != "p" || glue.object.Kind != KindBlank {
		t.Fatalf("glue statement = %+v", glue)
	}
	if glue.flags&FlagAnonOBegin == 0 {
		t.Fatalf("glue statement missing ANON_O_BEGIN: %+v", glue)
	}
	blank := glue.object
	nested := sink.statements[1]
	if nested.subject != blank || nested.predicate.Value != "q" || nested.object.Value != "y" {
		t.Fatalf("nested statement = %+v", nested)
	}
	if nested.flags&FlagAnonCont == 0 {
		t.Fatalf("nested statement missing ANON_CONT: %+v", nested)
	}
	if len(sink.ends) != 1 || sink.ends[0] != blank {
		t.Fatalf("ends = %+v, want [%+v]", sink.ends, blank)
	}
}

// TestLongStringEmbeddedQuote covers spec.md 8 scenario 7.
func TestLongStringEmbeddedQuote(t *testing.T) {
	sink := mustRead(t, `<x> <p> """a""b""" .`)
	if len(sink.statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(sink.statements))
	}
	if got := sink.statements[0].object.Value; got != `a""b` {
		t.Fatalf("object = %q, want %q", got, `a""b`)
	}
}

// TestUTF8Escape covers spec.md 8 scenario 8.
func TestUTF8Escape(t *testing.T) {
	sink := mustRead(t, `<x> <p> "\U000000E9" .`)
	if len(sink.statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(sink.statements))
	}
	got := sink.statements[0].object.Value
	want := string([]byte{0xC3, 0xA9})
	if got != want {
		t.Fatalf("object bytes = % x, want % x", []byte(got), []byte(want))
	}
}

func TestEmptyBracketFlags(t *testing.T) {
	sink := mustRead(t, "<x> <p> [] .")
	if len(sink.statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(sink.statements))
	}
	st := sink.statements[0]
	if st.flags&FlagEmptyO == 0 {
		t.Fatalf("missing EMPTY_O: %+v", st)
	}
	if st.object.Kind != KindBlank {
		t.Fatalf("object kind = %v, want blank", st.object.Kind)
	}
}

func TestPrefixAndBaseDirectives(t *testing.T) {
	sink := newRecordingSink()
	r := New(Turtle, sink)
	err := r.ReadString("test.ttl", "@base <http://example.com/> .\n@prefix ex: <http://example.com/ns#> .\n<a> ex:p <b> .")
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if len(sink.bases) != 1 || sink.bases[0].Value != "http://example.com/" {
		t.Fatalf("bases = %+v", sink.bases)
	}
	uri, ok := sink.prefixes["ex"]
	if !ok || uri.Value != "http://example.com/ns#" {
		t.Fatalf("prefixes = %+v", sink.prefixes)
	}
	if len(sink.statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(sink.statements))
	}
	st := sink.statements[0]
	if st.subject.Value != "http://example.com/a" || st.object.Value != "http://example.com/b" {
		t.Fatalf("statement = %+v", st)
	}
	if st.predicate.Kind != KindCURIE || st.predicate.Value != "ex:p" {
		t.Fatalf("predicate = %+v, want unexpanded CURIE ex:p", st.predicate)
	}
}

func TestBooleanLiteral(t *testing.T) {
	sink := mustRead(t, "<a> <b> true, false .")
	if len(sink.statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(sink.statements))
	}
	for i, want := range []string{"true", "false"} {
		st := sink.statements[i]
		if st.object.Value != want || st.object.Datatype.Value != xsdBoolean {
			t.Errorf("statement %d = %+v", i, st)
		}
	}
}

func TestLanguageTaggedLiteral(t *testing.T) {
	sink := mustRead(t, `<a> <b> "chat"@en .`)
	st := sink.statements[0]
	if st.object.Lang != "en" {
		t.Fatalf("lang = %q, want en", st.object.Lang)
	}
	if !st.object.Datatype.IsZero() {
		t.Fatalf("datatype = %+v, want zero", st.object.Datatype)
	}
}

func TestGenidRewrite(t *testing.T) {
	sink := mustRead(t, "_:genid7 <p> <o> .")
	if sink.statements[0].subject.Value != "docid7" {
		t.Fatalf("subject = %q, want docid7", sink.statements[0].subject.Value)
	}
}

func TestSyntaxErrorReported(t *testing.T) {
	sink := newRecordingSink()
	r := New(Turtle, sink, WithDiagnosticWriter(io.Discard))
	err := r.ReadString("bad.ttl", "<a> <b> .")
	if err == nil {
		t.Fatal("expected a syntax error for a missing object")
	}
}

func TestSemicolonContinuation(t *testing.T) {
	sink := mustRead(t, "<a> <p> <o1> ; <q> <o2> .")
	if len(sink.statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(sink.statements))
	}
	if sink.statements[0].predicate.Value != "p" || sink.statements[1].predicate.Value != "q" {
		t.Fatalf("statements = %+v", sink.statements)
	}
}

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

// Sink receives the parser's output as it streams through a document. No
// method is called concurrently with another: the reader is single
// threaded and calls synchronously on the goroutine that invoked it. A
// method must not call back into the Reader that is driving it.
//
// Returning a non-nil error from any method aborts the parse; the error is
// wrapped in ErrUnknown and returned from the Reader's entry point.
type Sink interface {
	// Base is called once per "@base" directive with the resolved
	// absolute base URI.
	Base(uri Node) error
	// Prefix is called once per "@prefix" directive with the
	// declared prefix name (without its trailing colon) and the resolved
	// absolute URI it maps to.
	Prefix(name string, uri Node) error
	// Statement is called exactly once per emitted triple.
	Statement(flags Flags, graph, subject, predicate, object Node) error
	// End is called when an anonymous "[ ... ]" scope closes, with the
	// minted blank node that scope introduced.
	End(node Node) error
}

// FuncSink adapts up to four functions into a Sink, leaving any unset
// field a no-op. Most callers only care about Statement; FuncSink avoids
// forcing them to implement the other three methods by hand.
type FuncSink struct {
	BaseFunc      func(uri Node) error
	PrefixFunc    func(name string, uri Node) error
	StatementFunc func(flags Flags, graph, subject, predicate, object Node) error
	EndFunc       func(node Node) error
}

func (f FuncSink) Base(uri Node) error {
	if f.BaseFunc == nil {
		return nil
	}
	return f.BaseFunc(uri)
}

func (f FuncSink) Prefix(name string, uri Node) error {
	if f.PrefixFunc == nil {
		return nil
	}
	return f.PrefixFunc(name, uri)
}

func (f FuncSink) Statement(flags Flags, graph, subject, predicate, object Node) error {
	if f.StatementFunc == nil {
		return nil
	}
	return f.StatementFunc(flags, graph, subject, predicate, object)
}

func (f FuncSink) End(node Node) error {
	if f.EndFunc == nil {
		return nil
	}
	return f.EndFunc(node)
}

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

// Package iri implements RFC 3986 reference parsing, resolution against a
// base, and dot-segment-normalising serialisation. Parsing never fails: the
// grammar that calls into this package has already confirmed the bytes
// between a "<" and ">" (or a relative-reference token) are syntactically
// clean before handing them here. An optional, off-by-default strict mode
// layers RFC 3987 authority/bidi/IDNA checks on top; see validate.go.
package iri

import (
	"io"
	"strings"
)

// Reference is a parsed URI reference: scheme, authority, path, query and
// fragment, each either present or not. Fragment, when present, retains its
// leading "#" so Serialise can write it back verbatim.
//
// PathBase is not populated by Parse. Resolve sets it when the target's path
// must be produced by merging the reference's path onto the base's path;
// Serialise is the only place that merge actually happens, which is what
// lets uri_parse/uri_serialise round-trip byte-for-byte whenever no merge
// was needed.
type Reference struct {
	Scheme       string
	HasScheme    bool
	Authority    string
	HasAuthority bool
	PathBase     string
	Path         string
	Query        string
	HasQuery     bool
	Fragment     string
	HasFragment  bool
}

// isSchemeChar reports whether c may appear after the first character of a
// scheme: ALPHA / DIGIT / "+" / "-" / ".".
func isSchemeChar(c rune) bool {
	return isASCIILetter(c) || isASCIIDigit(c) || c == '+' || c == '-' || c == '.'
}

// HasScheme reports whether s starts with an ALPHA followed by zero or more
// scheme characters followed by ":". It is the standalone scheme sniff Parse
// uses to tell an absolute reference from a relative one.
func HasScheme(s string) bool {
	if len(s) == 0 || !isASCIILetter(rune(s[0])) {
		return false
	}
	i := 1
	for i < len(s) && isSchemeChar(rune(s[i])) {
		i++
	}
	return i < len(s) && s[i] == ':'
}

// Parse follows RFC 3986 section 3: scheme, then an optional "//"-prefixed
// authority terminated by "/", "?", "#" or end of input, then path up to
// "?"/"#"/end, then query, then fragment running to the end.
func Parse(s string) Reference {
	var ref Reference
	n := len(s)
	i := 0

	if HasScheme(s) {
		colon := strings.IndexByte(s, ':')
		ref.Scheme = s[:colon]
		ref.HasScheme = true
		i = colon + 1
	}

	if i+1 < n && s[i] == '/' && s[i+1] == '/' {
		i += 2
		start := i
		for i < n && s[i] != '/' && s[i] != '?' && s[i] != '#' {
			i++
		}
		ref.Authority = s[start:i]
		ref.HasAuthority = true
	}

	pathStart := i
	for i < n && s[i] != '?' && s[i] != '#' {
		i++
	}
	ref.Path = s[pathStart:i]

	if i < n && s[i] == '?' {
		i++
		queryStart := i
		for i < n && s[i] != '#' {
			i++
		}
		ref.Query = s[queryStart:i]
		ref.HasQuery = true
	}

	if i < n && s[i] == '#' {
		ref.Fragment = s[i:]
		ref.HasFragment = true
	}

	return ref
}

// Resolve produces the target reference for ref taken against base, per
// RFC 3986 section 5.2.2, simplified: dot-segment removal is not performed
// here even when ref carries a scheme or an authority of its own, since in
// both of those cases ref's path is used verbatim rather than merged with
// base's. Only the fourth branch, where base's path must be merged with
// ref's, defers that normalisation to Serialise by way of PathBase.
func Resolve(ref, base Reference) Reference {
	if ref.HasScheme {
		return ref
	}

	var t Reference
	t.Scheme = base.Scheme
	t.HasScheme = base.HasScheme

	if ref.HasAuthority {
		t.Authority = ref.Authority
		t.HasAuthority = true
		t.Path = ref.Path
		t.Query, t.HasQuery = ref.Query, ref.HasQuery
		t.Fragment, t.HasFragment = ref.Fragment, ref.HasFragment
		return t
	}

	t.Authority = base.Authority
	t.HasAuthority = base.HasAuthority

	if ref.Path == "" {
		t.Path = base.Path
		if ref.HasQuery {
			t.Query, t.HasQuery = ref.Query, true
		} else {
			t.Query, t.HasQuery = base.Query, base.HasQuery
		}
		t.Fragment, t.HasFragment = ref.Fragment, ref.HasFragment
		return t
	}

	t.PathBase = base.Path
	t.Path = ref.Path
	t.Query, t.HasQuery = ref.Query, ref.HasQuery
	t.Fragment, t.HasFragment = ref.Fragment, ref.HasFragment
	return t
}

// mergePath implements the serialisation-time dot-segment merge: leading
// dot-segments in path are consumed, each ".." bumping up past the initial
// 1 (which accounts for dropping pathBase's own final segment); pathBase is
// then walked back from its end past up slashes, and what remains of path
// is appended after the slash that walk stops on. A "/" immediately on
// both sides of the join is collapsed to one.
func mergePath(path, pathBase string) string {
	up := 1
	rest := path
loop:
	for {
		switch {
		case strings.HasPrefix(rest, "../"):
			up++
			rest = rest[3:]
		case rest == "..":
			up++
			rest = ""
		case strings.HasPrefix(rest, "./"):
			rest = rest[2:]
		case rest == ".":
			rest = ""
		default:
			break loop
		}
	}

	cut := len(pathBase)
	skipped := 0
	for cut > 0 {
		cut--
		if pathBase[cut] == '/' {
			skipped++
			if skipped == up {
				break
			}
		}
	}
	prefix := pathBase[:cut+1]

	if strings.HasSuffix(prefix, "/") && strings.HasPrefix(rest, "/") {
		return prefix + rest[1:]
	}
	return prefix + rest
}

// Serialise writes ref to w per RFC 3986 section 5.3, resolving any pending
// path/pathBase merge along the way, and returns the number of bytes
// written.
func Serialise(w io.Writer, ref Reference) (int, error) {
	var b strings.Builder

	if ref.HasScheme {
		b.WriteString(ref.Scheme)
		b.WriteByte(':')
	}
	if ref.HasAuthority {
		b.WriteString("//")
		b.WriteString(ref.Authority)
	}

	switch {
	case ref.PathBase == "":
		b.WriteString(ref.Path)
	case ref.Path == "":
		b.WriteString(ref.PathBase)
	default:
		b.WriteString(mergePath(ref.Path, ref.PathBase))
	}

	if ref.HasQuery {
		b.WriteByte('?')
		b.WriteString(ref.Query)
	}
	if ref.HasFragment {
		b.WriteString(ref.Fragment)
	}

	return io.WriteString(w, b.String())
}

// String serialises ref to a plain string; it never returns an error since
// strings.Builder's Write never fails.
func (ref Reference) String() string {
	var b strings.Builder
	_, _ = Serialise(&b, ref)
	return b.String()
}

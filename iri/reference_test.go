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

package iri

import "testing"

func TestHasScheme(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"http://example.com", true},
		{"urn:isbn:0-486-27557-4", true},
		{"a+b-c.d:x", true},
		{"/relative", false},
		{"://missing-scheme", false},
		{"", false},
		{"1http://bad", false},
	}
	for _, c := range cases {
		if got := HasScheme(c.in); got != c.want {
			t.Errorf("HasScheme(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseComponents(t *testing.T) {
	ref := Parse("http://a/b/c/d;p?q#f")
	if !ref.HasScheme || ref.Scheme != "http" {
		t.Fatalf("scheme = %q,%v", ref.Scheme, ref.HasScheme)
	}
	if !ref.HasAuthority || ref.Authority != "a" {
		t.Fatalf("authority = %q,%v", ref.Authority, ref.HasAuthority)
	}
	if ref.Path != "/b/c/d;p" {
		t.Fatalf("path = %q", ref.Path)
	}
	if !ref.HasQuery || ref.Query != "q" {
		t.Fatalf("query = %q,%v", ref.Query, ref.HasQuery)
	}
	if !ref.HasFragment || ref.Fragment != "#f" {
		t.Fatalf("fragment = %q,%v", ref.Fragment, ref.HasFragment)
	}
}

// TestRoundTripNoBase checks the invariant that parsing then serialising an
// absolute reference, with no resolution against a base, returns the
// byte-identical original.
func TestRoundTripNoBase(t *testing.T) {
	inputs := []string{
		"http://a/b/c/d;p?q",
		"http://a/b/../c",
		"urn:isbn:0-486-27557-4",
		"mailto:user@example.com",
		"http://a",
		"http://a/",
		"//a/b",
		"/a/b?q#f",
		"g;x?y#s",
	}
	for _, in := range inputs {
		ref := Parse(in)
		if got := ref.String(); got != in {
			t.Errorf("round-trip %q = %q", in, got)
		}
	}
}

// TestResolveNormalExamples checks every pair from the RFC 3986 section 5.4.1
// "normal examples" table whose behaviour is determined by the simplified
// resolve/merge algorithm (i.e. reference has no scheme/authority of its
// own and a non-empty path, or is one of the documented degenerate cases).
func TestResolveNormalExamples(t *testing.T) {
	const baseStr = "http://a/b/c/d;p?q"
	base := Parse(baseStr)

	cases := []struct {
		ref  string
		want string
	}{
		{"g:h", "g:h"},
		{"g", "http://a/b/c/g"},
		{"./g", "http://a/b/c/g"},
		{"g/", "http://a/b/c/g/"},
		{"//g", "http://g"},
		{"?y", "http://a/b/c/d;p?y"},
		{"g?y", "http://a/b/c/g?y"},
		{"#s", "http://a/b/c/d;p?q#s"},
		{"g#s", "http://a/b/c/g#s"},
		{"g?y#s", "http://a/b/c/g?y#s"},
		{";x", "http://a/b/c/;x"},
		{"g;x", "http://a/b/c/g;x"},
		{"g;x?y#s", "http://a/b/c/g;x?y#s"},
		{"", "http://a/b/c/d;p?q"},
		{".", "http://a/b/c/"},
		{"./", "http://a/b/c/"},
		{"..", "http://a/b/"},
		{"../", "http://a/b/"},
		{"../g", "http://a/b/g"},
		{"../..", "http://a/"},
		{"../../", "http://a/"},
		{"../../g", "http://a/g"},
	}

	for _, c := range cases {
		r := Parse(c.ref)
		target := Resolve(r, base)
		if got := target.String(); got != c.want {
			t.Errorf("resolve(%q, %q) = %q, want %q", baseStr, c.ref, got, c.want)
		}
	}
}

func TestResolveScenario6(t *testing.T) {
	base := Parse("http://a/b/c/d;p?q")
	ref := Parse("../../g")
	target := Resolve(ref, base)
	if got := target.String(); got != "http://a/g" {
		t.Fatalf("scenario 6 resolve = %q, want http://a/g", got)
	}
}

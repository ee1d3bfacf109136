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

// Validate runs the optional RFC 3987 checks a reader may ask for on top of
// the grammar's ordinary syntax-only acceptance of an IRIREF: authority
// bidi/IP-literal/IDNA structure, and percent-encoding and bidi-formatting
// cleanliness of path, query and fragment. Called only when a reader is
// constructed with strict IRI validation enabled; by default this package
// never rejects anything Parse accepted.
func Validate(ref Reference) error {
	if ref.HasAuthority {
		if err := validateAuthority(ref.Authority); err != nil {
			return err
		}
	}
	for _, component := range [3]string{ref.Path, ref.Query, ref.Fragment} {
		if err := validateComponent(component); err != nil {
			return err
		}
	}
	return nil
}

// validateComponent checks a path/query/fragment for well-formed
// percent-encoding and for bytes RFC 3987 forbids once decoded.
func validateComponent(s string) error {
	i := 0
	for i < len(s) {
		if s[i] != '%' {
			i++
			continue
		}
		if i+2 >= len(s) || !isASCIIHexDigit(rune(s[i+1])) || !isASCIIHexDigit(rune(s[i+2])) {
			return &kindError{message: "invalid percent-encoding", details: s}
		}
		i += 3
	}
	if !validateDecodedBytes([]byte(s)) {
		return &kindError{message: "forbidden bidi formatting character", details: s}
	}
	return nil
}

// Equivalent reports whether two path/query/fragment strings denote the
// same value under RFC 3986 6.2.2.2 percent-encoding normalisation, e.g.
// "%7Euser" and "~user", without a full parse. Validate does not call it.
func Equivalent(a, b string) bool {
	return normalizePercentEncoding(a) == normalizePercentEncoding(b)
}

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

//nolint:testpackage // This is a white-box test file for an internal package. It needs to be in the same package to test unexported functions.
package langtag

import (
	"errors"
	"log/slog"
	"os"
	"testing"
)

//nolint:gochecknoglobals // p is a global parser instance, initialized once by TestMain to speed up tests.
var p *Parser

func TestMain(m *testing.M) {
	var err error
	p, err = NewParser()
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Error("FATAL: Failed to create new parser for tests", "error", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// TestLanguageTag_String tests the String() method.
// Based on RFC 5646, a language tag is a sequence of subtags. This test
// ensures the string representation is correct after parsing.
func TestLanguageTag_String(t *testing.T) {
	lt, err := p.Parse("en-US")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := lt.String(); got != "en-US" {
		t.Errorf("String() = %q, want %q", got, "en-US")
	}
}

// TestParser_Parse tests the non-validating Parse method.
// RFC 5646 Section 2.2.9 defines "well-formed" as conforming to the ABNF.
// This test checks for well-formedness and case normalization, not validity.
func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantTag string
		wantErr error
	}{
		// Well-formed cases from RFC Appendix A
		{name: "Simple tag", tag: "de", wantTag: "de"},
		{name: "Language-Region", tag: "en-US", wantTag: "en-US"},
		{name: "Language-Script-Region", tag: "sr-Latn-RS", wantTag: "sr-Latn-RS"},
		{name: "Case normalization", tag: "MN-cYRL-mn", wantTag: "mn-Cyrl-MN"}, // RFC 2.1.1
		{name: "Private use", tag: "de-CH-x-phonebk", wantTag: "de-CH-x-phonebk"},
		{name: "Private use only", tag: "x-whatever", wantTag: "x-whatever"},
		{name: "Grandfathered irregular", tag: "i-klingon", wantTag: "i-klingon"},
		{name: "Grandfathered regular", tag: "art-lojban", wantTag: "art-lojban"},
		{name: "Extension", tag: "en-a-myext-b-another", wantTag: "en-a-myext-b-another"},

		// Well-formed but not valid (should pass Parse)
		{name: "Unregistered language", tag: "zz-US", wantTag: "zz-US"},
		{name: "Unregistered script", tag: "en-Zzzz-US", wantTag: "en-Zzzz-US"},
		{name: "Duplicate variant", tag: "de-DE-1901-1901", wantTag: "de-DE-1901-1901"},
		{name: "Duplicate singleton", tag: "en-a-foo-a-bar", wantTag: "en-a-foo-a-bar"},

		// Not well-formed cases from RFC Appendix A and general syntax
		{name: "Forbidden character", tag: "en_US", wantErr: ErrForbiddenChar},
		{name: "Empty subtag", tag: "en--US", wantErr: ErrEmptySubtag},
		{name: "Subtag too long", tag: "verylongsubtag-en", wantErr: ErrSubtagTooLong},
		{name: "Empty private use", tag: "x-", wantErr: ErrEmptyPrivateUse},
		{name: "Empty extension", tag: "en-a-", wantErr: ErrEmptyExtension},
		{name: "Empty extension sequence", tag: "en-a-b-foo", wantErr: ErrEmptyExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.tag)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && got.String() != tt.wantTag {
				t.Errorf("Parse() got = %q, want %q", got.String(), tt.wantTag)
			}
		})
	}
}

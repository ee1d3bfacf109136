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

// Package langtag parses IETF BCP 47 / RFC 5646 language tags against an
// embedded IANA Language Subtag Registry, so a reader can accept a
// "..."@lang literal without a network or filesystem lookup.
//
// Parse checks well-formedness and normalizes subtag case; it does not
// reject a syntactically valid tag that the registry doesn't recognise
// (a caller parsing untrusted document text wants the raw tag decorated,
// not the document rejected, when a subtag is merely unregistered).
package langtag

import (
	"errors"
	"strings"
)

// Errors that can occur during language tag parsing.
var (
	ErrEmptyExtension     = errors.New("if an extension subtag is present, it must not be empty")
	ErrEmptyPrivateUse    = errors.New("if the 'x' subtag is present, it must not be empty")
	ErrForbiddenChar      = errors.New("the langtag contains a char not allowed")
	ErrInvalidSubtag      = errors.New("a subtag fails to parse or is not a valid IANA subtag")
	ErrInvalidLanguage    = errors.New("the given language subtag is invalid")
	ErrSubtagTooLong      = errors.New("a subtag may be eight characters in length at maximum")
	ErrEmptySubtag        = errors.New("a subtag should not be empty")
	ErrTooManyExtlangs    = errors.New("at maximum one extlang is allowed")
	ErrDuplicateVariant   = errors.New("the same variant subtag appears more than once")
	ErrDuplicateSingleton = errors.New("the same extension singleton appears more than once")
)

const typeExtlang = "extlang"

// Parser is a reusable BCP 47 parser. It contains the parsed IANA registry
// and should be created once and reused for efficiency.
type Parser struct {
	registry *Registry
}

// LanguageTag represents a well-formed RFC 5646 language tag.
type LanguageTag struct {
	tag        string
	positions  tagElementsPositions
	extensions []Extension
}

// Extension is a single extension sequence in a language tag, e.g. the
// `u-co-phonebk` in `en-u-co-phonebk`. Tracked on LanguageTag so the
// parser can detect a repeated singleton (ErrDuplicateSingleton), even
// though no accessor exposes it: this reader only ever needs
// LanguageTag.String.
type Extension struct {
	Singleton rune
	Value     string
}

// Parse checks if a tag is "well-formed" according to RFC 5646 syntax.
// It parses the tag into its components but does not validate individual
// language, script, region, or variant subtags against the IANA registry.
//
// A tag listed in the registry as grandfathered or redundant (e.g.,
// "i-klingon") is flagged as such, but still goes through the same
// subtag-by-subtag parse as any other tag; one that does not fit that parse
// (e.g., "zh-min-nan", which has two extlang-shaped subtags) returns its
// error.
//
// This method does not perform full canonicalization (such as replacing
// deprecated subtags). It does, however, normalize the case of the subtags
// for consistent output.
func (p *Parser) Parse(tag string) (LanguageTag, error) {
	for _, r := range tag {
		// As per RFC 5646 Sec 2.1, only US-ASCII alphanumeric chars and hyphens are allowed.
		if !isLangtagChar(r) {
			return LanguageTag{}, ErrForbiddenChar
		}
	}

	isGrandfathered := false
	lowerInput := strings.ToLower(tag)
	if record, ok := p.registry.Records[lowerInput]; ok && record.IsGrandfathered() {
		isGrandfathered = true
	}

	cpr := p.newCanonicalParseRun(tag, false)
	err := cpr.parse()
	if err != nil {
		return LanguageTag{}, err
	}

	var builder strings.Builder
	builder.Grow(len(tag))
	cpr.render(&builder)
	renderedTag := builder.String()

	positions := cpr.getPositions()
	positions.isGrandfathered = isGrandfathered

	return LanguageTag{tag: renderedTag, positions: positions, extensions: cpr.extensions}, nil
}

// String returns the underlying language tag string. It implements the fmt.Stringer interface.
func (lt *LanguageTag) String() string {
	return lt.tag
}

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

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// validateBidiComponent enforces RFC 3987 4.2's two bidi "SHOULD" rules as
// hard errors: no mixing left-to-right and right-to-left characters in one
// component, and a component using right-to-left characters must start and
// end with one.
func validateBidiComponent(component string) error {
	if component == "" {
		return nil
	}

	runes := []rune(component)
	var hasLTR, hasRTL bool

	for _, r := range runes {
		prop, _ := bidi.LookupRune(r)
		class := prop.Class()
		switch class {
		case bidi.R, bidi.AL:
			hasRTL = true
		case bidi.L:
			hasLTR = true
		case bidi.EN, bidi.ES, bidi.ET, bidi.AN, bidi.CS, bidi.B, bidi.S, bidi.WS, bidi.ON, bidi.BN, bidi.NSM,
			bidi.Control, bidi.LRO, bidi.RLO, bidi.LRE, bidi.RLE, bidi.PDF, bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
			// neutral, doesn't affect LTR/RTL detection
		}
	}

	if hasLTR && hasRTL {
		return &kindError{
			message: "Invalid IRI component: mixed left-to-right and right-to-left characters",
			details: component,
		}
	}

	if hasRTL {
		propFirst, _ := bidi.LookupRune(runes[0])
		classFirst := propFirst.Class()
		isFirstRTL := classFirst == bidi.R || classFirst == bidi.AL
		if !isFirstRTL {
			return &kindError{
				message: "Invalid IRI component: right-to-left parts must start and end with right-to-left characters",
				details: component,
			}
		}

		propLast, _ := bidi.LookupRune(runes[len(runes)-1])
		classLast := propLast.Class()
		isLastRTL := classLast == bidi.R || classLast == bidi.AL
		if !isLastRTL {
			return &kindError{
				message: "Invalid IRI component: right-to-left parts must start and end with right-to-left characters",
				details: component,
			}
		}
	}

	return nil
}

// validateBidiHost applies validateBidiComponent per dot-separated label,
// since RFC 3987 4.2 treats each host label as its own bidi component.
// IP literals ("[::1]") are exempt.
func validateBidiHost(host string) error {
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		return nil
	}
	labels := strings.Split(host, ".")
	for _, label := range labels {
		if err := validateBidiComponent(label); err != nil {
			var e *kindError
			if errors.As(err, &e) {
				e.message = "Invalid IRI host label"
				e.details = label + " in host '" + host + "'"
				return e
			}
		}
	}
	return nil
}

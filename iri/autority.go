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
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// ipvFutureParts is the number of parts expected in an IPvFuture literal
// (e.g., "v1.abc"), separated by a dot.
const ipvFutureParts = 2

// splitAuthority parses an authority string (without the leading "//") into
// its userinfo, host, and port components.
func splitAuthority(authority string) (userinfo, host, port string) {
	hostport := authority
	if i := strings.LastIndex(authority, "@"); i != -1 {
		userinfo = authority[:i]
		hostport = authority[i+1:]
	}

	if strings.HasPrefix(hostport, "[") {
		end := strings.LastIndex(hostport, "]")
		if end == -1 {
			return userinfo, hostport, ""
		}
		host = hostport[:end+1]
		if len(hostport) > end+1 && hostport[end+1] == ':' {
			port = hostport[end+2:]
		}
		return userinfo, host, port
	}

	if i := strings.LastIndex(hostport, ":"); i != -1 {
		return userinfo, hostport[:i], hostport[i+1:]
	}
	return userinfo, hostport, ""
}

// validateAuthority checks an authority component (userinfo@host:port,
// without the leading "//") against RFC 3987's bidi and IP-literal rules.
// It is the strict-mode counterpart to the syntax-only <...> parsing the
// grammar does by default.
func validateAuthority(authority string) error {
	userinfo, host, port := splitAuthority(authority)

	if userinfo != "" {
		if err := validateBidiComponent(userinfo); err != nil {
			return err
		}
	}
	if host != "" {
		if err := validateHost(host); err != nil {
			return err
		}
	}
	for _, r := range port {
		if !isASCIIDigit(r) {
			return &kindError{message: "invalid port character", char: r}
		}
	}
	return nil
}

// validateHost checks the host component for structural validity (IP
// literal format, Bidi rules, IDNA compatibility of the DNS name).
func validateHost(host string) error {
	if strings.HasPrefix(host, "[") {
		if !strings.HasSuffix(host, "]") {
			return &kindError{message: "unterminated IP literal", details: host}
		}
		return validateIPLiteral(host[1 : len(host)-1])
	}
	if err := validateBidiHost(host); err != nil {
		return err
	}
	if _, err := idna.ToASCII(strings.ToLower(host)); err != nil {
		return &kindError{message: "host is not IDNA-compatible", details: host}
	}
	return nil
}

// validateIPLiteral checks a string inside "[...]" is a valid IPv6 or
// IPvFuture address.
func validateIPLiteral(ipLiteral string) error {
	if strings.HasPrefix(ipLiteral, "v") || strings.HasPrefix(ipLiteral, "V") {
		return validateIPVFuture(ipLiteral)
	}
	if net.ParseIP(ipLiteral) == nil {
		return &kindError{message: "invalid host IP", details: ipLiteral}
	}
	return nil
}

// validateIPVFuture validates an IPvFuture literal (e.g., "v1.something").
func validateIPVFuture(ip string) error {
	parts := strings.SplitN(ip[1:], ".", ipvFutureParts)
	if len(parts) != ipvFutureParts {
		return &kindError{message: "invalid IPvFuture format: no dot separator", details: ip}
	}
	version, address := parts[0], parts[1]
	if version == "" {
		return &kindError{message: "invalid IPvFuture: missing version", details: ip}
	}
	for _, r := range version {
		if !isASCIIHexDigit(r) {
			return &kindError{message: "invalid IPvFuture version char", char: r}
		}
	}
	if address == "" {
		return &kindError{message: "invalid IPvFuture: empty address part", details: ip}
	}
	for _, r := range address {
		if !isUnreservedOrSubDelims(r) && r != ':' {
			return &kindError{message: "invalid IPvFuture address char", char: r}
		}
	}
	return nil
}

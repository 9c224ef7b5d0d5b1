// Utilities for importing a browser session from a copied cURL command.
//
// The platform's web app exposes "Copy as cURL" in browser dev tools; `inkwell
// auth import` accepts that command and extracts the headers needed to talk to
// the API directly.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// SessionHeaders represents headers and cookies parsed from a cURL command.
type SessionHeaders struct {
	Headers map[string]string
	Cookie  string
}

var (
	curlHeaderRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRe = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// ParseCurlFile reads a .sh file containing a cURL command and extracts session headers.
func ParseCurlFile(filepath string) (*SessionHeaders, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts session headers.
//
// Cookies are pulled from either -b or a Cookie header; every other header is
// kept verbatim so authorization schemes the client does not know about still
// round-trip.
func ParseCurlCommand(data []byte) (*SessionHeaders, error) {
	cmd := string(data)
	cmd = strings.ReplaceAll(cmd, "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	session := &SessionHeaders{Headers: make(map[string]string)}

	for _, match := range curlHeaderRe.FindAllStringSubmatch(cmd, -1) {
		line := match[1]
		if line == "" {
			line = match[2]
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if session.Cookie == "" {
				session.Cookie = value
			}
			continue
		}
		session.Headers[key] = value
	}

	if cookieMatch := curlCookieRe.FindStringSubmatch(cmd); len(cookieMatch) > 1 {
		if cookieMatch[1] != "" {
			session.Cookie = cookieMatch[1]
		} else if cookieMatch[2] != "" {
			session.Cookie = cookieMatch[2]
		}
	}

	if len(session.Headers) == 0 && session.Cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return session, nil
}

// Authorization returns the Authorization header value, if present.
func (s *SessionHeaders) Authorization() string {
	for key, value := range s.Headers {
		if strings.EqualFold(key, "authorization") {
			return value
		}
	}
	return ""
}

// Apply sets the parsed headers (and cookie) on an outgoing request header map.
func (s *SessionHeaders) Apply(set func(key, value string)) {
	for key, value := range s.Headers {
		set(key, value)
	}
	if s.Cookie != "" {
		set("Cookie", s.Cookie)
	}
}

/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"strings"
)

// splitSQLStatements splits a migration file on top-level semicolons. Trigger
// functions and DO blocks use dollar quoting, so semicolons inside $tag$ bodies,
// string literals, quoted identifiers, and comments are not statement breaks.
func splitSQLStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
		dollarTag  string
		quote      byte
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}

		current.Reset()
	}

	for i := 0; i < len(content); i++ {
		ch := content[i]

		switch {
		case dollarTag != "":
			if strings.HasPrefix(content[i:], dollarTag) {
				current.WriteString(dollarTag)
				i += len(dollarTag) - 1
				dollarTag = ""

				continue
			}

			current.WriteByte(ch)

		case quote != 0:
			current.WriteByte(ch)

			if ch == quote {
				quote = 0
			}

		case ch == '-' && strings.HasPrefix(content[i:], "--"):
			end := strings.IndexByte(content[i:], '\n')
			if end < 0 {
				i = len(content)
				continue
			}

			i += end
			current.WriteByte('\n')

		case ch == '/' && strings.HasPrefix(content[i:], "/*"):
			end := strings.Index(content[i+2:], "*/")
			if end < 0 {
				i = len(content)
				continue
			}

			i += end + 3

		case ch == '$':
			if tag := dollarQuoteTag(content[i:]); tag != "" {
				dollarTag = tag
				current.WriteString(tag)
				i += len(tag) - 1

				continue
			}

			current.WriteByte(ch)

		case ch == '\'' || ch == '"':
			quote = ch
			current.WriteByte(ch)

		case ch == ';':
			flush()

		default:
			current.WriteByte(ch)
		}
	}

	flush()

	return statements
}

// dollarQuoteTag returns the opening $tag$ at the start of s, or "" if s does
// not begin one. Positional parameters such as $1 are not tags.
func dollarQuoteTag(s string) string {
	if len(s) < 2 || s[0] != '$' {
		return ""
	}

	for i := 1; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '$':
			return s[:i+1]
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case c >= '0' && c <= '9' && i > 1:
		default:
			return ""
		}
	}

	return ""
}

// migrationVersion returns the numeric prefix of a migration filename.
func migrationVersion(filename string) string {
	version, _, found := strings.Cut(filename, "_")
	if !found {
		return filename
	}

	return version
}

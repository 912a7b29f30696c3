// Copyright (C) 2025 NTT Communications Corporation
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package normalize

import (
	"strings"
)

// Tristate is the result of a version comparison. Incomparable is a
// first-class outcome - it must never be coerced to false, because treating
// "could not compare" as "not vulnerable" is exactly the false negative the
// auto-close path has to avoid.
type Tristate int

const (
	TristateFalse Tristate = iota
	TristateTrue
	TristateIncomparable
)

func (t Tristate) String() string {
	switch t {
	case TristateTrue:
		return "true"
	case TristateFalse:
		return "false"
	default:
		return "incomparable"
	}
}

// Version is the parsed form of a version string. Deployed versions and
// constraint bounds are both tokenized through ParseVersion; raw strings do
// not cross the comparison boundary.
type Version struct {
	raw    string
	tokens []versionToken
}

type versionToken struct {
	numeric bool
	// digits holds the numeric run with leading zeros stripped ("0" if all
	// zeros). Kept as a string so arbitrarily long runs cannot overflow.
	digits string
	text   string
}

func isSeparator(r rune) bool {
	switch r {
	case '.', '-', '+', '_', '~', ':':
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// ParseVersion tokenizes a version string into numeric and non-numeric runs.
// It is tolerant: any string parses, common ecosystem schemes (semver-like,
// debian-like suffixes) produce the expected token sequence.
func ParseVersion(raw string) Version {
	trimmed := strings.TrimSpace(raw)
	// a leading "v" is convention, not content
	body := strings.TrimPrefix(trimmed, "v")

	tokens := make([]versionToken, 0, 4)
	i := 0
	for i < len(body) {
		r := rune(body[i])
		if isSeparator(r) {
			i++
			continue
		}
		j := i
		if isDigit(r) {
			for j < len(body) && isDigit(rune(body[j])) {
				j++
			}
			tokens = append(tokens, versionToken{numeric: true, digits: stripLeadingZeros(body[i:j])})
		} else {
			for j < len(body) && !isDigit(rune(body[j])) && !isSeparator(rune(body[j])) {
				j++
			}
			tokens = append(tokens, versionToken{numeric: false, text: body[i:j]})
		}
		i = j
	}

	return Version{raw: trimmed, tokens: tokens}
}

func stripLeadingZeros(s string) string {
	stripped := strings.TrimLeft(s, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

func (v Version) String() string {
	return v.raw
}

func (v Version) IsEmpty() bool {
	return len(v.tokens) == 0
}

var zeroToken = versionToken{numeric: true, digits: "0"}

// IsComparable reports whether two versions share a reconcilable structure:
// every aligned token pair agrees in kind (numeric vs. non-numeric) through
// the shorter token sequence, and the longer sequence only carries extra
// numeric tokens (missing trailing numerics are treated as zero, so "1.2" is
// comparable to "1.2.0"). An extra non-numeric token - a pre-release suffix
// the other side lacks - makes the pair incomparable. An empty version carries
// no tokens at all and is incomparable to everything, itself included; it
// would otherwise collapse to "0.0.0" and match every upper bound.
func IsComparable(a, b Version) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	short := min(len(a.tokens), len(b.tokens))
	for i := 0; i < short; i++ {
		if a.tokens[i].numeric != b.tokens[i].numeric {
			return false
		}
	}
	for _, t := range a.tokens[short:] {
		if !t.numeric {
			return false
		}
	}
	for _, t := range b.tokens[short:] {
		if !t.numeric {
			return false
		}
	}
	return true
}

// Compare orders two versions. ok is false iff the versions are incomparable;
// in that case the int result is meaningless and must not be used.
func Compare(a, b Version) (int, bool) {
	if !IsComparable(a, b) {
		return 0, false
	}

	longest := max(len(a.tokens), len(b.tokens))
	for i := 0; i < longest; i++ {
		at, bt := zeroToken, zeroToken
		if i < len(a.tokens) {
			at = a.tokens[i]
		}
		if i < len(b.tokens) {
			bt = b.tokens[i]
		}
		if c := compareTokens(at, bt); c != 0 {
			return c, true
		}
	}
	return 0, true
}

func compareTokens(a, b versionToken) int {
	if a.numeric {
		// leading zeros are stripped, so a longer digit run is larger
		if len(a.digits) != len(b.digits) {
			if len(a.digits) < len(b.digits) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.digits, b.digits)
	}
	return strings.Compare(a.text, b.text)
}

// CompareBound evaluates a single bound of a constraint clause against the
// deployed version.
func CompareBound(deployed Version, kind BoundKind, bound Version) Tristate {
	c, ok := Compare(deployed, bound)
	if !ok {
		return TristateIncomparable
	}

	var matches bool
	switch kind {
	case BoundGe:
		matches = c >= 0
	case BoundGt:
		matches = c > 0
	case BoundLe:
		matches = c <= 0
	case BoundLt:
		matches = c < 0
	case BoundEq:
		matches = c == 0
	}

	if matches {
		return TristateTrue
	}
	return TristateFalse
}

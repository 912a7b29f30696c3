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
	"fmt"
	"strings"
)

type BoundKind string

const (
	BoundGe BoundKind = ">="
	BoundGt BoundKind = ">"
	BoundLe BoundKind = "<="
	BoundLt BoundKind = "<"
	BoundEq BoundKind = "="
)

// ParseError signals a malformed constraint expression. It is the action
// author's data that is broken, so the error carries enough context to be
// surfaced verbatim in the UI.
type ParseError struct {
	Expr   string
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid constraint %q: %s", e.Expr, e.Reason)
	}
	return fmt.Sprintf("invalid constraint %q: %s (at %q)", e.Expr, e.Reason, e.Token)
}

// Bound is a single comparator within a clause.
type Bound struct {
	Kind    BoundKind
	Version Version
}

func (b Bound) String() string {
	return string(b.Kind) + b.Version.String()
}

// Clause is a conjunction of bounds, at most one per bound kind.
type Clause struct {
	Bounds []Bound
}

// Match evaluates the conjunction. Every bound has to hold for the clause to
// match; a single incomparable bound poisons the whole clause (fail closed,
// no partial matching).
func (c Clause) Match(deployed Version) Tristate {
	sawIncomparable := false
	allTrue := true
	for _, bound := range c.Bounds {
		switch CompareBound(deployed, bound.Kind, bound.Version) {
		case TristateIncomparable:
			sawIncomparable = true
			allTrue = false
		case TristateFalse:
			allTrue = false
		}
	}

	if sawIncomparable {
		return TristateIncomparable
	}
	if allTrue {
		return TristateTrue
	}
	return TristateFalse
}

func (c Clause) String() string {
	parts := make([]string, len(c.Bounds))
	for i, b := range c.Bounds {
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}

// ConstraintSet is the parsed, immutable form of one raw range expression: a
// disjunction of clauses. Clause order is preserved for reproducible
// evaluation but carries no meaning.
type ConstraintSet struct {
	Clauses []Clause
}

// Empty reports whether the set carries no clauses at all. An empty set means
// the action author declared no version gate - the caller treats it as
// unconstrained.
func (s ConstraintSet) Empty() bool {
	return len(s.Clauses) == 0
}

// Matches evaluates the disjunction: true if any clause matches, incomparable
// if none matches but at least one could not be compared, false otherwise.
// An empty set matches everything.
func (s ConstraintSet) Matches(deployed Version) Tristate {
	if s.Empty() {
		return TristateTrue
	}

	sawIncomparable := false
	for _, clause := range s.Clauses {
		switch clause.Match(deployed) {
		case TristateTrue:
			return TristateTrue
		case TristateIncomparable:
			sawIncomparable = true
		}
	}

	if sawIncomparable {
		return TristateIncomparable
	}
	return TristateFalse
}

func (s ConstraintSet) String() string {
	parts := make([]string, len(s.Clauses))
	for i, c := range s.Clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " || ")
}

// ParseConstraint parses a raw range expression like
// ">=1.0.0 <2.0.0 || >=3.0.0" into a ConstraintSet. Clauses are separated by
// "||", bounds within a clause by whitespace or commas. A bare version means
// equality. Empty input parses to an empty (unconstrained) set.
func ParseConstraint(expr string) (ConstraintSet, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return ConstraintSet{}, nil
	}

	rawClauses := strings.Split(trimmed, "||")
	clauses := make([]Clause, 0, len(rawClauses))
	for _, rawClause := range rawClauses {
		clause, err := parseClause(expr, rawClause)
		if err != nil {
			return ConstraintSet{}, err
		}
		clauses = append(clauses, clause)
	}

	return ConstraintSet{Clauses: clauses}, nil
}

func parseClause(expr, rawClause string) (Clause, error) {
	tokens := strings.FieldsFunc(rawClause, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(tokens) == 0 {
		return Clause{}, &ParseError{Expr: expr, Reason: "empty clause"}
	}

	seen := make(map[BoundKind]bool, len(tokens))
	bounds := make([]Bound, 0, len(tokens))
	for _, token := range tokens {
		bound, err := parseBound(expr, token)
		if err != nil {
			return Clause{}, err
		}
		if seen[bound.Kind] {
			return Clause{}, &ParseError{Expr: expr, Token: token, Reason: fmt.Sprintf("duplicate %q bound in clause", bound.Kind)}
		}
		seen[bound.Kind] = true
		bounds = append(bounds, bound)
	}

	return Clause{Bounds: bounds}, nil
}

func parseBound(expr, token string) (Bound, error) {
	kind, rest := splitOperator(token)
	if kind == "" {
		return Bound{}, &ParseError{Expr: expr, Token: token, Reason: "unknown operator"}
	}
	if rest == "" {
		return Bound{}, &ParseError{Expr: expr, Token: token, Reason: "missing version after operator"}
	}

	version := ParseVersion(rest)
	if version.IsEmpty() {
		return Bound{}, &ParseError{Expr: expr, Token: token, Reason: "empty version"}
	}

	return Bound{Kind: kind, Version: version}, nil
}

// splitOperator returns the bound kind and the remaining version text. A
// token without a leading operator character is an equality bound. Returns an
// empty kind for operator characters outside the supported set.
func splitOperator(token string) (BoundKind, string) {
	switch {
	case strings.HasPrefix(token, ">="):
		return BoundGe, token[2:]
	case strings.HasPrefix(token, "<="):
		return BoundLe, token[2:]
	case strings.HasPrefix(token, ">"):
		return BoundGt, token[1:]
	case strings.HasPrefix(token, "<"):
		return BoundLt, token[1:]
	case strings.HasPrefix(token, "="):
		return BoundEq, token[1:]
	}

	// reject tokens that look like an operator we do not support (e.g. the
	// npm range sugar "^1.2.3" or "~1.2.3")
	if strings.ContainsRune("~^!*", rune(token[0])) {
		return "", token
	}

	return BoundEq, token
}

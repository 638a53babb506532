package dsl

import "github.com/bdwalton/spritec/model"

// ColumnSpec is the registered shape of a dynamically-declared user
// -table keyword (spec.md 4.1, 9 "Dynamic keywords from user tables").
// Entries accumulate as attribute/flag/actionpoint directives are
// parsed; cel-block lines that don't match a built-in keyword are
// looked up here.
type ColumnSpec struct {
	Keyword string
	Kind    model.TableValueKind
	Table   string
	// Table2 is the optional secondary table an actionpoint also
	// records into (its grammar allows up to two table names).
	Table2 string
	// Bitmask is the fixed bit pattern a "flag" keyword records for a
	// cel that uses it, fixed at registration time.
	Bitmask uint8
}

// KeywordRegistry tracks the dynamically-registered user-table
// keywords seen so far in a parse. It is consulted only after every
// built-in cel keyword has failed to match, so a user table can never
// shadow a built-in directive.
type KeywordRegistry struct {
	specs map[string]ColumnSpec
}

func newKeywordRegistry() *KeywordRegistry {
	return &KeywordRegistry{specs: make(map[string]ColumnSpec)}
}

func (r *KeywordRegistry) register(spec ColumnSpec) {
	r.specs[spec.Keyword] = spec
}

func (r *KeywordRegistry) lookup(kw string) (ColumnSpec, bool) {
	s, ok := r.specs[kw]
	return s, ok
}

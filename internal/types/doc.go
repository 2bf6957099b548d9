// Package types implements the symbolic type algebra used by action
// signatures.
//
// This package contains the type expression variants and the operations the
// signature layer consumes: membership testing, union normalization, free
// variable selection with polarity, concreteness checks, and per-call
// variable unification (Match). All other internal packages import types;
// types imports nothing internal. This keeps the algebra the foundational
// layer with no circular dependencies.
//
// Type expressions are immutable once constructed. A built expression is
// safely shared across any number of concurrent calls.
package types

package stratum

import "errors"

// ErrMissingOverrideTarget is returned when a defaults directive (or the
// entry reference itself) names a document that does not exist.
var ErrMissingOverrideTarget = errors.New("override target document not found")

// ErrMergeConflict is returned when two sibling directives in one defaults
// list target the same path with incompatible semantics, one deep-merging
// and the other replacing.
var ErrMergeConflict = errors.New("conflicting merge semantics for override path")

// ErrNestedDefaults is returned when a document referenced from a defaults
// list carries a defaults list of its own; only the entry document composes.
var ErrNestedDefaults = errors.New("defaults list outside the entry document")

// ErrBadOverride is returned for a runtime override that is not a
// "dotted.path=value" or "dotted.path+=value" expression.
var ErrBadOverride = errors.New("bad override expression")

// ErrDeferred is returned when a consumer reads a value that is still the
// explicit ??? marker. Supply it via a runtime override or a more specific
// document.
var ErrDeferred = errors.New("required value not supplied")

// ErrPathNotFound is returned when a read addresses a path that does not
// exist in the resolved configuration.
var ErrPathNotFound = errors.New("path not found")

// Package interp resolves ${dotted.path} interpolation references inside a
// composed configuration tree.
//
// References are resolved against the fully merged tree, to a fixed point:
// a resolved value may itself have been an interpolation. A scalar that is
// exactly one reference adopts the referenced subtree of any kind; a
// reference embedded in a larger string requires a scalar target, which is
// stringified in place. Resolution chains carry an in-progress path set, so
// reference cycles fail deterministically instead of recursing forever.
// A reference to a deferred (???) value makes the referencing node deferred
// as well; the failure surfaces when that path is read, never here.
package interp

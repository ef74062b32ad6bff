// Package node defines the value tree that composed configurations are
// built from.
//
// A tree is made of scalar leaves (null, bool, int, float, string), the
// explicit Deferred leaf (a value that must be supplied externally before
// it may be read), sequences, and mappings. Mappings remember insertion
// order so that a composed tree renders deterministically, but order never
// affects merge semantics or equality.
//
// Nodes are mutable while a tree is being assembled; packages that hand
// trees across API boundaries clone first. Dotted paths ("a.b.0.c") address
// nested values, with numeric segments indexing sequences.
package node

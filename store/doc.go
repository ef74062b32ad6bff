// Package store resolves (group, name) references to parsed configuration
// documents.
//
// The Dir store reads a fixed directory layout known at startup: group
// "env" document "ffsp" lives at <root>/env/ffsp.yaml (or .yml), and the
// empty group addresses files in the root directory itself. Documents are
// parsed once and cached, so repeated compositions within a process see a
// consistent file set. The Map store serves documents from memory and is
// meant for tests and embedding.
package store

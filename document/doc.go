// Package document parses YAML configuration documents into value trees.
//
// A document has two parts: an optional ordered "defaults" list of override
// directives, and a body (every other top-level key). A directive names
// another document by (group path, name) and says whether its content should
// be deep-merged at the group's tree path or should replace the subtree
// there outright:
//
//	defaults:
//	  - model: attention          # deep-merge model/attention.yaml at "model"
//	  - env: ffsp                 # deep-merge env/ffsp.yaml at "env"
//	  - override /trainer: quick  # replace the "trainer" subtree wholesale
//
// Scalars equal to "???" parse into explicit deferred nodes; see the node
// package. Parsing preserves mapping key order so composed output renders
// deterministically.
package document

// Package stratum composes layered YAML configuration documents into a
// single immutable resolved configuration.
//
// An entry document lists override directives in its "defaults" key; each
// directive pulls a named document out of an override group and merges (or
// replaces) it at the group's path. The entry document's own keys win over
// everything the defaults contributed, runtime "dotted.path=value"
// overrides win over the entry document, and ${dotted.path} references are
// then resolved against the fully merged tree. Values spelled "???" stay
// explicitly deferred through all of this: composition never fails on them,
// but any consumer read of a deferred value does.
//
// A minimal run:
//
//	st, err := store.NewDir("configs")
//	if err != nil { ... }
//
//	cfg, err := stratum.New(st, stratum.WithOverrides("trainer.max_epochs=5")).Compose("ffsp_base")
//	if err != nil { ... }
//
//	epochs, err := cfg.Int("trainer.max_epochs")
//
// Composition is pure: identical inputs produce byte-identical Dump output.
package stratum

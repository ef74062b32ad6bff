// Package trainer is the consuming side of the configuration contract: it
// reads a resolved configuration, instantiates the model and environment
// components named by their _target_ keys, and hands a fully described Run
// to an injected training function. Required (???) values that were never
// supplied fail here, at read time, with the offending path.
//
// The actual training loop is external; this package only materializes and
// supervises a run.
package trainer

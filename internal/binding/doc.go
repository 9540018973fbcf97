// Package binding synthesizes structured binding specs for operations.
//
// Given an ods.Operation, the package decides how every named operand and
// result is located at access time, which attribute properties to expose, and
// what the default builder's parameters and population statements are. The
// output is data (AccessorSpec, Param, Statement), never source text; a
// renderer for a specific host language turns it into code.
//
// # Slot-shape policies
//
// Operand and result sequences are handled identically, parameterized by
// ods.Kind. With at most one variable-length slot, lengths are inferred from
// the runtime count. With more, the operation must declare either the
// equal-size trait (every variable group has the same length) or the
// segment-size-attribute trait (a runtime attribute records each slot's
// length). Anything else is an UnsupportedSlotShape error.
//
// # Concurrency
//
// Every function is pure over its read-only ods.Operation input and safe to
// call from multiple goroutines.
package binding

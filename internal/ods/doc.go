// Package ods provides the slot model for operation definitions.
//
// This package contains type definitions only, plus the canonical encoding used
// to fingerprint an operation. All other internal packages import ods; ods
// imports nothing internal.
//
// Key design constraints:
//   - Slot order is semantically significant (positional index)
//   - Operations are immutable once loaded; synthesis only reads them
//   - Traits are a closed enumeration held in a bit-set value
//   - All JSON tags use snake_case
package ods

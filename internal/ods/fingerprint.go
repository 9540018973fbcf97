package ods

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainOperation separates operation fingerprints from any other hash use.
const DomainOperation = "odsgen/operation/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a stable content hash of the operation's structure.
// Two operations with the same fingerprint synthesize identical bindings.
func Fingerprint(op *Operation) (string, error) {
	canonical, err := MarshalCanonical(canonicalForm(op))
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", op.Name, err)
	}
	return hashWithDomain(DomainOperation, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests.
func MustFingerprint(op *Operation) string {
	fp, err := Fingerprint(op)
	if err != nil {
		panic(err)
	}
	return fp
}

func canonicalForm(op *Operation) map[string]any {
	slots := func(ss []Slot) []any {
		out := make([]any, len(ss))
		for i, s := range ss {
			out[i] = map[string]any{"name": s.Name, "multiplicity": s.Multiplicity.String()}
		}
		return out
	}

	attrs := make([]any, len(op.Attributes))
	for i, a := range op.Attributes {
		attrs[i] = map[string]any{
			"name":      a.Name,
			"kind":      a.Kind.String(),
			"type_name": a.TypeName,
			"derived":   a.Derived,
		}
	}

	args := op.Args()
	arguments := make([]any, len(args))
	for i, a := range args {
		arguments[i] = map[string]any{"attribute": a.Attribute, "index": a.Index}
	}

	regions := make([]any, len(op.Regions))
	for i, r := range op.Regions {
		regions[i] = map[string]any{"name": r.Name, "variadic": r.Variadic}
	}

	successors := make([]any, len(op.Successors))
	for i, s := range op.Successors {
		successors[i] = map[string]any{"name": s.Name, "variadic": s.Variadic}
	}

	return map[string]any{
		"model_version": ModelVersion,
		"name":          op.Name,
		"class_name":    op.ClassName,
		"dialect":       op.Dialect,
		"operands":      slots(op.Operands),
		"results":       slots(op.Results),
		"attributes":    attrs,
		"arguments":     arguments,
		"regions":       regions,
		"successors":    successors,
		"traits":        op.Traits.Names(),
	}
}

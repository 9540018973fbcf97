package binding

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/odsgen/internal/ods"
)

// GetterKind selects the attribute getter behavior.
type GetterKind int

const (
	// RequiredGetter returns the attribute; absence is a prior invariant violation.
	RequiredGetter GetterKind = iota
	// OptionalGetter returns the attribute or absent.
	OptionalGetter
	// PresenceGetter returns whether the attribute is present.
	PresenceGetter
)

// SetterKind selects the attribute setter behavior.
type SetterKind int

const (
	// RequiredSetter stores the value and rejects absent.
	RequiredSetter SetterKind = iota
	// OptionalSetter stores a value, or removes the key when given absent.
	OptionalSetter
	// UnitSetter inserts a unit attribute when truthy, removes it otherwise.
	UnitSetter
)

var getterNames = map[GetterKind]string{RequiredGetter: "required", OptionalGetter: "optional", PresenceGetter: "presence"}
var setterNames = map[SetterKind]string{RequiredSetter: "required", OptionalSetter: "optional", UnitSetter: "unit"}

func (g GetterKind) String() string {
	if s, ok := getterNames[g]; ok {
		return s
	}
	return fmt.Sprintf("GetterKind(%d)", int(g))
}

func (g GetterKind) MarshalJSON() ([]byte, error) { return json.Marshal(g.String()) }

func (s SetterKind) String() string {
	if n, ok := setterNames[s]; ok {
		return n
	}
	return fmt.Sprintf("SetterKind(%d)", int(s))
}

func (s SetterKind) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// AttributeAccessorSpec describes the property exposed for one attribute.
type AttributeAccessorSpec struct {
	Name      string       `json:"name"`      // resolved identifier
	AttrName  string       `json:"attr_name"` // attribute dictionary key
	Kind      ods.AttrKind `json:"kind"`
	Getter    GetterKind   `json:"getter"`
	Setter    SetterKind   `json:"setter"`
	Deletable bool         `json:"deletable"`
}

// SynthesizeAttributes returns property specs for every named, non-derived
// attribute in declaration order.
func SynthesizeAttributes(op *ods.Operation, r Resolver) []AttributeAccessorSpec {
	var out []AttributeAccessorSpec
	for _, attr := range op.Attributes {
		if attr.Derived || attr.Name == "" {
			continue
		}
		spec := AttributeAccessorSpec{
			Name:     r.Resolve(attr.Name),
			AttrName: attr.Name,
			Kind:     attr.Kind,
		}
		switch attr.Kind {
		case ods.Unit:
			spec.Getter, spec.Setter, spec.Deletable = PresenceGetter, UnitSetter, true
		case ods.OptionalAttr, ods.DefaultValued:
			spec.Getter, spec.Setter, spec.Deletable = OptionalGetter, OptionalSetter, true
		default:
			// Removing a mandatory attribute would violate the op's invariants.
			spec.Getter, spec.Setter, spec.Deletable = RequiredGetter, RequiredSetter, false
		}
		out = append(out, spec)
	}
	return out
}

// RegionLayout is the region count contract published on the op class.
type RegionLayout struct {
	MinCount   int  `json:"min_count"`
	NoVariadic bool `json:"no_variadic"`
}

// RegionAccessorSpec exposes one named region, or the variadic tail of regions.
type RegionAccessorSpec struct {
	Name     string `json:"name"`
	Index    int    `json:"index"`
	Variadic bool   `json:"variadic"`
}

// CheckRegions asserts at most one variadic region, and only in last position.
// Loaders enforce this; synthesis refuses to misgenerate if they did not.
func CheckRegions(op *ods.Operation) error {
	if n := op.NumVariadicRegions(); n > 1 {
		return newMalformedRegions(op, fmt.Sprintf("%d variadic regions, at most one allowed", n))
	}
	for i, region := range op.Regions {
		if region.Variadic && i != len(op.Regions)-1 {
			return newMalformedRegions(op, fmt.Sprintf("variadic region %q at position %d is not last", region.Name, i))
		}
	}
	return nil
}

// SynthesizeRegions returns the region layout and accessors for named regions.
func SynthesizeRegions(op *ods.Operation, r Resolver) (RegionLayout, []RegionAccessorSpec, error) {
	if err := CheckRegions(op); err != nil {
		return RegionLayout{}, nil, err
	}
	layout := RegionLayout{
		MinCount:   len(op.Regions) - op.NumVariadicRegions(),
		NoVariadic: op.HasNoVariadicRegions(),
	}
	var accessors []RegionAccessorSpec
	for i, region := range op.Regions {
		if region.Name == "" {
			continue
		}
		accessors = append(accessors, RegionAccessorSpec{
			Name:     r.Resolve(region.Name),
			Index:    i,
			Variadic: region.Variadic,
		})
	}
	return layout, accessors, nil
}

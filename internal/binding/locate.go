package binding

import "fmt"

// Runtime is the observed shape of one kind's runtime sequence.
type Runtime struct {
	Count        int   `json:"count" yaml:"count"`
	SegmentSizes []int `json:"segment_sizes,omitempty" yaml:"segment_sizes"`
}

// Selection is the half-open range [Start, End) an accessor reads.
// Absent means the accessor yields no value. Unwrap means the accessor yields
// the single element at Start rather than a slice.
type Selection struct {
	Start  int  `json:"start"`
	End    int  `json:"end"`
	Absent bool `json:"absent,omitempty"`
	Unwrap bool `json:"unwrap,omitempty"`
}

// Len is the number of elements selected.
func (s Selection) Len() int { return s.End - s.Start }

func element(i int) Selection { return Selection{Start: i, End: i + 1, Unwrap: true} }

func absentAt(i int) Selection { return Selection{Start: i, End: i, Absent: true} }

// Locate evaluates the accessor against a runtime shape, computing exactly what
// the generated accessor reads.
func (a AccessorSpec) Locate(rt Runtime) (Selection, error) {
	if rt.Count < a.NumSimple {
		return Selection{}, a.locateErr("runtime count %d is smaller than the %d fixed slots", rt.Count, a.NumSimple)
	}
	switch a.Policy {
	case PolicyEqualSize:
		return a.locateEqual(rt)
	case PolicySegmentAttr:
		return a.locateSegment(rt)
	}
	return a.locateInferred(rt)
}

func (a AccessorSpec) locateInferred(rt Runtime) (Selection, error) {
	if a.NumVariable == 0 && rt.Count != a.NumDeclared {
		return Selection{}, a.locateErr("runtime count %d does not match %d declared slots", rt.Count, a.NumDeclared)
	}
	groupLength := rt.Count - a.NumDeclared + 1

	switch a.Shape {
	case ShapeFixed:
		return element(a.Index), nil
	case ShapeAfterVariable:
		return element(a.Index + groupLength - 1), nil
	case ShapeOptionalInferred:
		if rt.Count > a.NumDeclared {
			return Selection{}, a.locateErr("optional group would hold %d elements", groupLength)
		}
		if rt.Count < a.NumDeclared {
			return absentAt(a.Index), nil
		}
		return element(a.Index), nil
	case ShapeVariadicInferred:
		return Selection{Start: a.Index, End: a.Index + groupLength}, nil
	}
	return Selection{}, a.locateErr("shape %s is not valid under %s", a.Shape, a.Policy)
}

func (a AccessorSpec) locateEqual(rt Runtime) (Selection, error) {
	if a.NumVariable == 0 {
		return Selection{}, a.locateErr("equal-size policy without variable groups")
	}
	remaining := rt.Count - a.NumSimple
	if remaining%a.NumVariable != 0 {
		return Selection{}, a.locateErr("%d variable elements cannot be split into %d equal groups", remaining, a.NumVariable)
	}
	perGroup := remaining / a.NumVariable
	start := a.PrecedingSimple + a.PrecedingVariadic*perGroup

	switch a.Shape {
	case ShapeEqualSimple:
		return element(start), nil
	case ShapeEqualVariadic:
		return Selection{Start: start, End: start + perGroup}, nil
	}
	return Selection{}, a.locateErr("shape %s is not valid under %s", a.Shape, a.Policy)
}

func (a AccessorSpec) locateSegment(rt Runtime) (Selection, error) {
	sizes := rt.SegmentSizes
	if len(sizes) != a.NumDeclared {
		return Selection{}, a.locateErr("%s has %d entries, want %d", a.Kind.SegmentAttrName(), len(sizes), a.NumDeclared)
	}
	total, start := 0, 0
	for i, n := range sizes {
		if n < 0 {
			return Selection{}, a.locateErr("%s[%d] is negative", a.Kind.SegmentAttrName(), i)
		}
		if i == a.Index {
			start = total
		}
		total += n
	}
	if total != rt.Count {
		return Selection{}, a.locateErr("%s sums to %d, runtime count is %d", a.Kind.SegmentAttrName(), total, rt.Count)
	}

	size := sizes[a.Index]
	switch a.Shape {
	case ShapeSegmentSingle:
		if size != 1 {
			return Selection{}, a.locateErr("single slot has segment size %d", size)
		}
		return element(start), nil
	case ShapeSegmentOptional:
		switch size {
		case 0:
			return absentAt(start), nil
		case 1:
			return element(start), nil
		}
		return Selection{}, a.locateErr("optional slot has segment size %d", size)
	case ShapeSegmentVariadic:
		return Selection{Start: start, End: start + size}, nil
	}
	return Selection{}, a.locateErr("shape %s is not valid under %s", a.Shape, a.Policy)
}

func (a AccessorSpec) locateErr(format string, args ...any) *LocateError {
	return &LocateError{Slot: a.Kind.String() + " " + a.SlotName, Message: fmt.Sprintf(format, args...)}
}

package binding

import (
	"github.com/roach88/odsgen/internal/ods"
)

// OpBinding is every emission unit for one operation.
type OpBinding struct {
	Name      string `json:"name"`       // operation name
	ClassName string `json:"class_name"` // binding class name

	// Static segment descriptions, set only under the segment-attribute trait.
	OperandSegments []int `json:"operand_segments,omitempty"`
	ResultSegments  []int `json:"result_segments,omitempty"`

	Regions         RegionLayout            `json:"regions"`
	Builder         *BuilderPlan            `json:"builder,omitempty"` // nil when SkipDefaultBuilders
	Operands        ElementAccessors        `json:"operands"`
	Attributes      []AttributeAccessorSpec `json:"attributes"`
	Results         ElementAccessors        `json:"results"`
	RegionAccessors []RegionAccessorSpec    `json:"region_accessors"`
}

// Synthesize runs every synthesis step for one operation. Any error is a
// *SynthesisError naming the operation; no partial binding is returned.
func Synthesize(op *ods.Operation, r Resolver) (*OpBinding, error) {
	b := &OpBinding{
		Name:      op.Name,
		ClassName: op.ClassName,
	}

	if op.Traits.Has(ods.AttrSizedOperandSegments) {
		b.OperandSegments = SegmentSpec(op, ods.Operand)
	}
	if op.Traits.Has(ods.AttrSizedResultSegments) {
		b.ResultSegments = SegmentSpec(op, ods.Result)
	}

	var err error
	b.Regions, b.RegionAccessors, err = SynthesizeRegions(op, r)
	if err != nil {
		return nil, err
	}

	if b.Builder, err = PlanBuilder(op, r); err != nil {
		return nil, err
	}

	if b.Operands, err = SynthesizeElements(op, ods.Operand, r); err != nil {
		return nil, err
	}
	b.Attributes = SynthesizeAttributes(op, r)
	if b.Results, err = SynthesizeElements(op, ods.Result, r); err != nil {
		return nil, err
	}
	return b, nil
}

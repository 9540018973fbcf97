package binding

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/odsgen/internal/ods"
)

// ContextParams are the trailing keyword-only builder parameters:
// source location and insertion point.
var ContextParams = []string{"loc", "ip"}

// ParamRole says which slot a builder parameter feeds.
type ParamRole int

const (
	RoleResult ParamRole = iota
	RoleOperand
	RoleAttribute
	RoleSuccessor
	RoleRegionCount
)

var roleNames = map[ParamRole]string{
	RoleResult:      "result",
	RoleOperand:     "operand",
	RoleAttribute:   "attribute",
	RoleSuccessor:   "successor",
	RoleRegionCount: "region_count",
}

func (r ParamRole) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("ParamRole(%d)", int(r))
}

func (r ParamRole) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// Param is one default-builder parameter.
type Param struct {
	Name    string    `json:"name"`
	Role    ParamRole `json:"role"`
	Slot    int       `json:"slot"`    // index into the role's slot sequence
	Keyword bool      `json:"keyword"` // keyword-only, defaulting to absent
}

// ResultMode is how the builder obtains result types.
type ResultMode int

const (
	// ResultsExplicit takes one parameter per result slot.
	ResultsExplicit ResultMode = iota
	// ResultsFromOperand copies operand 0's type into every result.
	ResultsFromOperand
	// ResultsFromFirstAttr derives the shared result type from the first attribute.
	ResultsFromFirstAttr
	// ResultsInferred leaves result types to the host's inference facility.
	ResultsInferred
)

var resultModeNames = map[ResultMode]string{
	ResultsExplicit:      "explicit",
	ResultsFromOperand:   "from_operand",
	ResultsFromFirstAttr: "from_first_attr",
	ResultsInferred:      "inferred",
}

func (m ResultMode) String() string {
	if s, ok := resultModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ResultMode(%d)", int(m))
}

func (m ResultMode) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

// CanInferTypes reports whether the builder omits result parameters.
func (m ResultMode) CanInferTypes() bool { return m != ResultsExplicit }

// BuilderPlan is the default builder of one operation.
type BuilderPlan struct {
	Params      []Param     `json:"params"` // declaration layout: results, arguments, successors, region count
	Statements  []Statement `json:"statements"`
	ResultMode  ResultMode  `json:"result_mode"`
	PassResults bool        `json:"pass_results"` // whether the generic builder receives the result list
}

// Signature is the emitted parameter order.
type Signature struct {
	Positional []Param  `json:"positional"`
	Keyword    []Param  `json:"keyword"`
	Context    []string `json:"context"`
}

// Signature orders positional parameters first, then keyword parameters, then
// the context parameters, keeping declaration order inside each group.
func (p *BuilderPlan) Signature() Signature {
	sig := Signature{Context: ContextParams}
	for _, param := range p.Params {
		if param.Keyword {
			sig.Keyword = append(sig.Keyword, param)
		} else {
			sig.Positional = append(sig.Positional, param)
		}
	}
	return sig
}

// ResultModeFor applies the inference precedence: operand-type copy, first
// attribute type, inference interface, explicit.
func ResultModeFor(op *ods.Operation) ResultMode {
	noVariableResults := op.NumVariableLength(ods.Result) == 0
	switch {
	case op.Traits.Has(ods.SameOperandsAndResultType) && noVariableResults:
		return ResultsFromOperand
	case op.Traits.Has(ods.FirstAttrDerivedResultType) && noVariableResults:
		return ResultsFromFirstAttr
	case op.Traits.Has(ods.InferTypeInterface) && len(op.Regions) == 0:
		return ResultsInferred
	}
	return ResultsExplicit
}

// PlanBuilder derives the default builder. It returns (nil, nil) when the
// operation opts out with SkipDefaultBuilders.
func PlanBuilder(op *ods.Operation, r Resolver) (*BuilderPlan, error) {
	if op.Traits.Has(ods.SkipDefaultBuilders) {
		return nil, nil
	}
	if err := CheckRegions(op); err != nil {
		return nil, err
	}

	mode := ResultModeFor(op)
	if mode == ResultsFromFirstAttr && (len(op.Attributes) == 0 || op.Attributes[0].Name == "") {
		return nil, &SynthesisError{
			Code:      ErrCodeMissingTypeSource,
			Operation: op.Name,
			Kind:      ods.Result.String(),
			Message:   "FirstAttrDerivedResultType requires a named first attribute",
		}
	}

	plan := &BuilderPlan{
		ResultMode:  mode,
		PassResults: mode != ResultsInferred,
	}
	plan.Params = planParams(op, r, mode)
	plan.Statements = synthesizeStatements(op, plan.Params, mode)
	return plan, nil
}

func planParams(op *ods.Operation, r Resolver, mode ResultMode) []Param {
	var params []Param

	if !mode.CanInferTypes() {
		for i, res := range op.Results {
			name := res.Name
			if name == "" {
				if len(op.Results) == 1 {
					name = "result"
				} else {
					name = fmt.Sprintf("_gen_res_%d", i)
				}
			}
			params = append(params, Param{Name: r.Resolve(name), Role: RoleResult, Slot: i})
		}
	}

	for i, arg := range op.Args() {
		if arg.Attribute {
			attr := op.Attributes[arg.Index]
			if attr.Derived {
				continue
			}
			params = append(params, Param{
				Name:    r.Resolve(argName(attr.Name, i)),
				Role:    RoleAttribute,
				Slot:    arg.Index,
				Keyword: attr.Kind.MayBeAbsent(),
			})
			continue
		}
		operand := op.Operands[arg.Index]
		params = append(params, Param{
			Name:    r.Resolve(argName(operand.Name, i)),
			Role:    RoleOperand,
			Slot:    arg.Index,
			Keyword: operand.Multiplicity == ods.Optional,
		})
	}

	for i, succ := range op.Successors {
		name := succ.Name
		if name == "" {
			name = fmt.Sprintf("_gen_successor_%d", i)
		}
		params = append(params, Param{Name: r.Resolve(name), Role: RoleSuccessor, Slot: i})
	}

	if !op.HasNoVariadicRegions() {
		last := len(op.Regions) - 1
		params = append(params, Param{
			Name: regionCountName(op.Regions[last].Name),
			Role: RoleRegionCount,
			Slot: last,
		})
	}
	return params
}

func argName(name string, i int) string {
	if name == "" {
		return fmt.Sprintf("_gen_arg_%d", i)
	}
	return name
}

// regionCountName is "num_" plus the region name with its first letter lowered.
func regionCountName(region string) string {
	if region == "" {
		return "num_regions"
	}
	_, size := utf8.DecodeRuneInString(region)
	// A Caser is stateful; one per call keeps synthesis goroutine-safe.
	return "num_" + cases.Lower(language.Und).String(region[:size]) + region[size:]
}

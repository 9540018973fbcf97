package binding

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/odsgen/internal/ods"
)

// StmtOp is the kind of one builder population statement.
type StmtOp int

const (
	// StmtDeriveContext derives the host context from the location parameter.
	StmtDeriveContext StmtOp = iota

	StmtAppendOperand         // operands += [Param]
	StmtAppendOptionalOperand // operands += [Param] if Param present
	StmtExtendOperands        // operands += Param...
	// Segment-size operands keep one nested entry per slot.
	StmtAppendOptionalOperandGroup // operands += [Param or absent]
	StmtAppendOperandGroup         // operands += [Param as a list]

	StmtCoerceAttribute         // attributes[AttrName] = convert(Param, TypeName)
	StmtCoerceOptionalAttribute // same, only when Param is present
	StmtSetUnitAttribute        // attributes[AttrName] = unit if Param is truthy

	StmtCopyOperandType     // results = [operands[0].type] * Count
	StmtDeriveAttributeType // results = [type of attributes[AttrName]] * Count
	StmtAppendResult        // results += [Param]
	StmtAppendOptionalResult
	StmtExtendResults

	StmtNoSuccessors    // successors = absent
	StmtInitSuccessors  // successors = []
	StmtAppendSuccessor // successors += [Param]
	StmtExtendSuccessors

	// StmtCountRegions sets the region count to Count + Param.
	StmtCountRegions
)

var stmtNames = map[StmtOp]string{
	StmtDeriveContext:              "derive_context",
	StmtAppendOperand:              "append_operand",
	StmtAppendOptionalOperand:      "append_optional_operand",
	StmtExtendOperands:             "extend_operands",
	StmtAppendOptionalOperandGroup: "append_optional_operand_group",
	StmtAppendOperandGroup:         "append_operand_group",
	StmtCoerceAttribute:            "coerce_attribute",
	StmtCoerceOptionalAttribute:    "coerce_optional_attribute",
	StmtSetUnitAttribute:           "set_unit_attribute",
	StmtCopyOperandType:            "copy_operand_type",
	StmtDeriveAttributeType:        "derive_attribute_type",
	StmtAppendResult:               "append_result",
	StmtAppendOptionalResult:       "append_optional_result",
	StmtExtendResults:              "extend_results",
	StmtNoSuccessors:               "no_successors",
	StmtInitSuccessors:             "init_successors",
	StmtAppendSuccessor:            "append_successor",
	StmtExtendSuccessors:           "extend_successors",
	StmtCountRegions:               "count_regions",
}

func (s StmtOp) String() string {
	if n, ok := stmtNames[s]; ok {
		return n
	}
	return fmt.Sprintf("StmtOp(%d)", int(s))
}

func (s StmtOp) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Statement is one step of the builder body.
type Statement struct {
	Op       StmtOp `json:"op"`
	Param    string `json:"param,omitempty"`     // builder parameter read
	AttrName string `json:"attr_name,omitempty"` // attribute key written or read
	TypeName string `json:"type_name,omitempty"` // attribute converter key
	Count    int    `json:"count,omitempty"`     // result copies, or fixed region count
}

// synthesizeStatements emits the builder body in fixed order: context,
// operands, attributes, results, successors, region count.
func synthesizeStatements(op *ods.Operation, params []Param, mode ResultMode) []Statement {
	names := indexParams(params)
	stmts := []Statement{{Op: StmtDeriveContext}}

	stmts = append(stmts, operandStatements(op, names[RoleOperand])...)
	stmts = append(stmts, attributeStatements(op, names[RoleAttribute])...)
	stmts = append(stmts, resultStatements(op, names[RoleResult], mode)...)
	stmts = append(stmts, successorStatements(op, names[RoleSuccessor])...)

	if name, ok := names[RoleRegionCount][len(op.Regions)-1]; ok {
		stmts = append(stmts, Statement{Op: StmtCountRegions, Param: name, Count: len(op.Regions) - 1})
	}
	return stmts
}

// indexParams maps role -> slot index -> parameter name.
func indexParams(params []Param) map[ParamRole]map[int]string {
	out := make(map[ParamRole]map[int]string)
	for _, p := range params {
		if out[p.Role] == nil {
			out[p.Role] = make(map[int]string)
		}
		out[p.Role][p.Slot] = p.Name
	}
	return out
}

func operandStatements(op *ods.Operation, names map[int]string) []Statement {
	sized := op.Traits.Has(ods.AttrSizedOperandSegments)
	stmts := make([]Statement, 0, len(op.Operands))
	for i, operand := range op.Operands {
		stmt := Statement{Param: names[i]}
		switch operand.Multiplicity {
		case ods.Optional:
			stmt.Op = StmtAppendOptionalOperand
			if sized {
				stmt.Op = StmtAppendOptionalOperandGroup
			}
		case ods.Variadic:
			stmt.Op = StmtExtendOperands
			if sized {
				stmt.Op = StmtAppendOperandGroup
			}
		default:
			stmt.Op = StmtAppendOperand
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func attributeStatements(op *ods.Operation, names map[int]string) []Statement {
	var stmts []Statement
	for _, arg := range op.Args() {
		if !arg.Attribute {
			continue
		}
		attr := op.Attributes[arg.Index]
		if attr.Derived {
			continue
		}
		stmt := Statement{Param: names[arg.Index], AttrName: attr.Name}
		switch attr.Kind {
		case ods.Unit:
			stmt.Op = StmtSetUnitAttribute
		case ods.OptionalAttr, ods.DefaultValued:
			stmt.Op = StmtCoerceOptionalAttribute
			stmt.TypeName = attr.TypeName
		default:
			stmt.Op = StmtCoerceAttribute
			stmt.TypeName = attr.TypeName
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func resultStatements(op *ods.Operation, names map[int]string, mode ResultMode) []Statement {
	switch mode {
	case ResultsFromOperand:
		return []Statement{{Op: StmtCopyOperandType, Count: len(op.Results)}}
	case ResultsFromFirstAttr:
		return []Statement{{Op: StmtDeriveAttributeType, AttrName: op.Attributes[0].Name, Count: len(op.Results)}}
	case ResultsInferred:
		return nil
	}

	sized := op.Traits.Has(ods.AttrSizedResultSegments)
	stmts := make([]Statement, 0, len(op.Results))
	for i, res := range op.Results {
		stmt := Statement{Param: names[i]}
		switch res.Multiplicity {
		case ods.Optional:
			stmt.Op = StmtAppendOptionalResult
		case ods.Variadic:
			stmt.Op = StmtExtendResults
			if sized {
				stmt.Op = StmtAppendResult
			}
		default:
			stmt.Op = StmtAppendResult
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func successorStatements(op *ods.Operation, names map[int]string) []Statement {
	if len(op.Successors) == 0 {
		return []Statement{{Op: StmtNoSuccessors}}
	}
	stmts := []Statement{{Op: StmtInitSuccessors}}
	for i, succ := range op.Successors {
		stmt := Statement{Op: StmtAppendSuccessor, Param: names[i]}
		if succ.Variadic {
			stmt.Op = StmtExtendSuccessors
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

package python

import (
	"fmt"

	"github.com/roach88/odsgen/internal/binding"
)

// statementLines renders one builder statement. Continuation lines carry their
// own indentation relative to the statement.
func statementLines(s binding.Statement) []string {
	switch s.Op {
	case binding.StmtDeriveContext:
		return []string{"_ods_context = _ods_get_default_loc_context(loc)"}

	case binding.StmtAppendOperand:
		return []string{fmt.Sprintf("operands.append(_get_op_result_or_value(%s))", s.Param)}
	case binding.StmtAppendOptionalOperand:
		return []string{fmt.Sprintf("if %[1]s is not None: operands.append(_get_op_result_or_value(%[1]s))", s.Param)}
	case binding.StmtExtendOperands:
		return []string{fmt.Sprintf("operands.extend(_get_op_results_or_values(%s))", s.Param)}
	case binding.StmtAppendOptionalOperandGroup:
		return []string{fmt.Sprintf("operands.append(_get_op_result_or_value(%[1]s) if %[1]s is not None else None)", s.Param)}
	case binding.StmtAppendOperandGroup:
		return []string{fmt.Sprintf("operands.append(_get_op_results_or_values(%s))", s.Param)}

	case binding.StmtCoerceAttribute:
		return coerceLines("", s)
	case binding.StmtCoerceOptionalAttribute:
		return coerceLines(fmt.Sprintf("if %s is not None: ", s.Param), s)
	case binding.StmtSetUnitAttribute:
		return []string{fmt.Sprintf("if bool(%s): attributes[%q] = _ods_ir.UnitAttr.get(_ods_context)", s.Param, s.AttrName)}

	case binding.StmtCopyOperandType:
		return []string{fmt.Sprintf("results.extend([operands[0].type] * %d)", s.Count)}
	case binding.StmtDeriveAttributeType:
		return []string{
			fmt.Sprintf("_ods_result_type_source_attr = attributes[%q]", s.AttrName),
			"_ods_derived_result_type = (",
			"    _ods_ir.TypeAttr(_ods_result_type_source_attr).value",
			"    if _ods_ir.TypeAttr.isinstance(_ods_result_type_source_attr) else",
			"    _ods_result_type_source_attr.type)",
			fmt.Sprintf("results.extend([_ods_derived_result_type] * %d)", s.Count),
		}
	case binding.StmtAppendResult:
		return []string{fmt.Sprintf("results.append(%s)", s.Param)}
	case binding.StmtAppendOptionalResult:
		return []string{fmt.Sprintf("if %[1]s is not None: results.append(%[1]s)", s.Param)}
	case binding.StmtExtendResults:
		return []string{fmt.Sprintf("results.extend(%s)", s.Param)}

	case binding.StmtNoSuccessors:
		return []string{"_ods_successors = None"}
	case binding.StmtInitSuccessors:
		return []string{"_ods_successors = []"}
	case binding.StmtAppendSuccessor:
		return []string{fmt.Sprintf("_ods_successors.append(%s)", s.Param)}
	case binding.StmtExtendSuccessors:
		return []string{fmt.Sprintf("_ods_successors.extend(%s)", s.Param)}

	case binding.StmtCountRegions:
		return []string{fmt.Sprintf("regions = %d + %s", s.Count, s.Param)}
	}
	return []string{fmt.Sprintf("# unhandled statement %s", s.Op)}
}

// coerceLines converts a raw builder argument through the registered
// attribute builder unless it already is an attribute.
func coerceLines(guard string, s binding.Statement) []string {
	return []string{
		fmt.Sprintf("%sattributes[%q] = (%s if (", guard, s.AttrName, s.Param),
		fmt.Sprintf("    issubclass(type(%s), _ods_ir.Attribute) or", s.Param),
		fmt.Sprintf("    not _ods_ir.AttrBuilder.contains('%s')) else", s.TypeName),
		fmt.Sprintf("      _ods_ir.AttrBuilder.get('%s')(%s, context=_ods_context))", s.TypeName, s.Param),
	}
}

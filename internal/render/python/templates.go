package python

const fileHeader = `
# Autogenerated by odsgen; don't manually edit.

from ._ods_common import _cext as _ods_cext
from ._ods_common import extend_opview_class as _ods_extend_opview_class, segmented_accessor as _ods_segmented_accessor, equally_sized_accessor as _ods_equally_sized_accessor, get_default_loc_context as _ods_get_default_loc_context, get_op_result_or_value as _get_op_result_or_value, get_op_results_or_values as _get_op_results_or_values
_ods_ir = _ods_cext.ir

try:
  from . import _%s_ops_ext as _ods_ext_module
except ImportError:
  _ods_ext_module = None

import builtins

`

const dialectClass = `
@_ods_cext.register_dialect
class _Dialect(_ods_ir.Dialect):
  DIALECT_NAMESPACE = "%s"
  pass

`

const dialectExtension = `
from ._%s_ops_gen import _Dialect
`

const opClass = `
@_ods_cext.register_operation(_Dialect)
@_ods_extend_opview_class(_ods_ext_module)
class %s(_ods_ir.OpView):
  OPERATION_NAME = "%s"
`

const sizedSegments = `
  _ODS_%s_SEGMENTS = %s
`

const regionSpec = `
  _ODS_REGIONS = (%d, %s)
`

const initTemplate = `
  def __init__(self, %s):
    operands = []
    results = []
    attributes = {}
    regions = None
%s    super().__init__(self.build_generic(%s))
`

const property = `
  @builtins.property
  def %s(self):
`

// Element accessor bodies. %[1]s is the kind ("operand" or "result").
const (
	fixedBody = `    return self.operation.%[1]ss[%[2]d]
`
	afterVariableBody = `    _ods_variadic_group_length = len(self.operation.%[1]ss) - %[2]d + 1
    return self.operation.%[1]ss[%[3]d + _ods_variadic_group_length - 1]
`
	optionalBody = `    return None if len(self.operation.%[1]ss) < %[2]d else self.operation.%[1]ss[%[3]d]
`
	variadicBody = `    _ods_variadic_group_length = len(self.operation.%[1]ss) - %[2]d + 1
    return self.operation.%[1]ss[%[3]d:%[3]d + _ods_variadic_group_length]
`
	equalPrefix = `    start, pg = _ods_equally_sized_accessor(self.operation.%[1]ss, %[2]d, %[3]d, %[4]d, %[5]d)
`
	equalSimpleBody = `    return self.operation.%[1]ss[start]
`
	equalVariadicBody = `    return self.operation.%[1]ss[start:start + pg]
`
	segmentBody = `    %[1]s_range = _ods_segmented_accessor(
         self.operation.%[1]ss,
         self.operation.attributes["%[1]sSegmentSizes"], %[2]d)
    return %[1]s_range%[3]s
`
)

// Attribute property bodies. %[1]s is the property name, %[2]s the attribute key.
const (
	requiredGetterBody = `    return self.operation.attributes["%[2]s"]
`
	optionalGetterBody = `    if "%[2]s" not in self.operation.attributes:
      return None
    return self.operation.attributes["%[2]s"]
`
	presenceGetterBody = `    return "%[2]s" in self.operation.attributes
`
	requiredSetter = `
  @%[1]s.setter
  def %[1]s(self, value):
    if value is None:
      raise ValueError("'None' not allowed as value for mandatory attributes")
    self.operation.attributes["%[2]s"] = value
`
	optionalSetter = `
  @%[1]s.setter
  def %[1]s(self, value):
    if value is not None:
      self.operation.attributes["%[2]s"] = value
    elif "%[2]s" in self.operation.attributes:
      del self.operation.attributes["%[2]s"]
`
	unitSetter = `
  @%[1]s.setter
  def %[1]s(self, value):
    if bool(value):
      self.operation.attributes["%[2]s"] = _ods_ir.UnitAttr.get()
    elif "%[2]s" in self.operation.attributes:
      del self.operation.attributes["%[2]s"]
`
	deleter = `
  @%[1]s.deleter
  def %[1]s(self):
    del self.operation.attributes["%[2]s"]
`
)

const regionBody = `    return self.regions[%s]
`

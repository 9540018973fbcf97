package python

import "strings"

// pythonReserved are keywords plus builtins a generated member must not shadow.
var pythonReserved = map[string]bool{
	"and": true, "as": true, "assert": true, "break": true, "callable": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "issubclass": true, "try": true, "type": true,
	"while": true, "with": true, "yield": true,
}

// surfaceReserved are members of the generated OpView surface.
var surfaceReserved = map[string]bool{
	"attributes": true, "create": true, "context": true, "ip": true,
	"operands": true, "print": true, "get_asm": true, "loc": true,
	"verify": true, "regions": true, "results": true, "self": true,
	"operation": true, "DIALECT_NAMESPACE": true, "OPERATION_NAME": true,
}

// IsReserved reports whether name would collide with a Python keyword, a
// shadowed builtin, or a member of the generated class surface. Names using
// the generator's private "_ods_" prefix or "_ods" suffix are reserved too.
func IsReserved(name string) bool {
	if pythonReserved[name] || surfaceReserved[name] {
		return true
	}
	return strings.HasPrefix(name, "_ods_") || strings.HasSuffix(name, "_ods")
}

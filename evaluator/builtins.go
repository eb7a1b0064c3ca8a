package evaluator

import (
	"github.com/duskfall/gibbon/object"
)

var builtins = map[string]*object.Builtin{
	"len":          object.GetBuiltinByName("len"),
	"puts":         object.GetBuiltinByName("puts"),
	"first":        object.GetBuiltinByName("first"),
	"last":         object.GetBuiltinByName("last"),
	"rest":         object.GetBuiltinByName("rest"),
	"push":         object.GetBuiltinByName("push"),
	"magic_number": object.GetBuiltinByName("magic_number"),
}

// Package object defines the runtime value representation shared by the
// tree-walking evaluator and the bytecode VM: integers, booleans, strings,
// arrays, hashes, errors, and the two flavors of callable (interpreted
// Function, compiled CompiledFunction/Closure) plus Builtin.
package object

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/duskfall/gibbon/ast"
	"github.com/duskfall/gibbon/code"
)

// Type names an Object's runtime kind.
type Type string

//nolint:revive
const (
	INTEGER_OBJ           Type = "INTEGER"
	BOOLEAN_OBJ           Type = "BOOLEAN"
	STRING_OBJ            Type = "STRING"
	NULL_OBJ              Type = "NULL"
	RETURN_VALUE_OBJ      Type = "RETURN_VALUE"
	ERROR_OBJ             Type = "ERROR"
	FUNCTION_OBJ          Type = "FUNCTION"
	BUILTIN_OBJ           Type = "BUILTIN"
	ARRAY_OBJ             Type = "ARRAY"
	HASH_OBJ              Type = "HASH"
	COMPILED_FUNCTION_OBJ Type = "COMPILED_FUNCTION_OBJ"
	CLOSURE_OBJ           Type = "CLOSURE"
)

// Object is anything a Monke program can hold: a variable's value, a
// function argument, an array element, a hash key or value.
type Object interface {
	Type() Type
	// Inspect renders the value the way the REPL prints it.
	Inspect() string
}

// Hashable is implemented by Objects usable as Hash keys: Integer, Boolean,
// String. HashKey must be stable and collision-free for distinct values of
// the same dynamic type.
type Hashable interface {
	HashKey() HashKey
}

// HashKey is the comparable key a Hashable object reduces to, so two
// Objects with equal HashKey are treated as the same hash key regardless of
// pointer identity.
type HashKey struct {
	Type  Type
	Value uint64
}

// Integer is a Monke integer value.
type Integer struct{ Value int64 }

func (i *Integer) Type() Type      { return INTEGER_OBJ }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

func (i *Integer) HashKey() HashKey {
	//nolint:gosec
	return HashKey{Type: i.Type(), Value: uint64(i.Value)}
}

// Boolean is a Monke boolean value.
type Boolean struct{ Value bool }

func (b *Boolean) Type() Type      { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

func (b *Boolean) HashKey() HashKey {
	var v uint64
	if b.Value {
		v = 1
	}
	return HashKey{Type: b.Type(), Value: v}
}

// String is a Monke string value. Its hash key is computed lazily and
// cached, since a string used repeatedly as a hash key would otherwise
// re-hash its bytes on every lookup.
type String struct {
	Value string

	hashKey *HashKey
}

func (s *String) Type() Type      { return STRING_OBJ }
func (s *String) Inspect() string { return s.Value }

func (s *String) HashKey() HashKey {
	if s.hashKey != nil {
		return *s.hashKey
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(s.Value)) // fnv64a's Write never errors

	key := HashKey{Type: s.Type(), Value: h.Sum64()}
	s.hashKey = &key
	return key
}

// Null is Monke's absent-value object. The evaluator and the vm each keep
// one shared instance of it (evaluator.NULL and vm.Null).
type Null struct{}

func (n *Null) Type() Type      { return NULL_OBJ }
func (n *Null) Inspect() string { return "null" }

// ReturnValue wraps the value a return statement produced so the evaluator
// can unwind enclosing blocks without evaluating their remaining statements.
type ReturnValue struct{ Value Object }

func (rv *ReturnValue) Type() Type      { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string { return rv.Value.Inspect() }

// Error carries a runtime error message. It is a value like any other,
// which is what lets the evaluator propagate it up through arbitrarily
// nested expressions just by returning it.
type Error struct{ Message string }

func (e *Error) Type() Type      { return ERROR_OBJ }
func (e *Error) Inspect() string { return "ERROR: " + e.Message }

// Function is a closure over an *Environment, as produced by the
// tree-walking evaluator: it keeps the AST of the function body and
// re-evaluates it on every call.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() Type { return FUNCTION_OBJ }

func (f *Function) Inspect() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.String()
	}

	var out strings.Builder
	out.WriteString("fn(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") {\n")
	out.WriteString(f.Body.String())
	out.WriteString("\n}")
	return out.String()
}

// BuiltinFunction is the Go implementation behind a Builtin.
type BuiltinFunction func(args ...Object) Object

// Builtin wraps a native Go function so it can be passed around and called
// like any user-defined function.
type Builtin struct{ Fn BuiltinFunction }

func (b *Builtin) Type() Type      { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string { return "builtin function" }

// Array is an ordered, heterogeneous sequence of Objects.
type Array struct{ Elements []Object }

func (a *Array) Type() Type { return ARRAY_OBJ }

func (a *Array) Inspect() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.Inspect()
	}

	var out strings.Builder
	out.WriteString("[")
	out.WriteString(strings.Join(elems, ", "))
	out.WriteString("]")
	return out.String()
}

// HashPair keeps the original key Object alongside its value, since the
// HashKey alone loses enough information to re-Inspect the key.
type HashPair struct {
	Key   Object
	Value Object
}

// Hash is a Monke hash map, keyed by HashKey rather than by the Objects
// themselves so it can use Go's native map equality.
type Hash struct{ Pairs map[HashKey]HashPair }

func (h *Hash) Type() Type { return HASH_OBJ }

func (h *Hash) Inspect() string {
	pairs := make([]string, 0, len(h.Pairs))
	for _, p := range h.Pairs {
		pairs = append(pairs, fmt.Sprintf("%s: %s", p.Key.Inspect(), p.Value.Inspect()))
	}

	var out strings.Builder
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// CompiledFunction is a function body compiled to bytecode, stored in the
// compiler's constant pool and wrapped into a Closure when OpClosure runs.
type CompiledFunction struct {
	Instructions  code.Instructions
	NumLocals     int
	NumParameters int
}

func (c *CompiledFunction) Type() Type      { return COMPILED_FUNCTION_OBJ }
func (c *CompiledFunction) Inspect() string { return fmt.Sprintf("CompiledFunction[%p]", c) }

// Closure pairs a CompiledFunction with the values it captured from
// enclosing scopes at the point it was created (OpClosure).
type Closure struct {
	Fn   *CompiledFunction
	Free []Object
}

func (c *Closure) Type() Type      { return CLOSURE_OBJ }
func (c *Closure) Inspect() string { return fmt.Sprintf("Closure[%p]", c) }

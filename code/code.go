// Package code defines the bytecode instruction format shared by the
// compiler and the vm: the opcode set, how operands are encoded into and
// decoded out of a byte stream, and a disassembler for debugging.
//
// An instruction is one Opcode byte followed by zero or more big-endian
// operands, each either one or two bytes wide per its Definition. Multi-byte
// widths are intentionally small (an instruction set, not a wire protocol)
// so Make can size and fill the buffer in one pass.
package code

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instructions is a flat, already-encoded stream of bytecode instructions.
type Instructions []byte

// Opcode identifies a single bytecode operation.
type Opcode byte

const (
	OpConstant Opcode = iota // operands: constant index (2)
	OpPop                    // operands: none; stack: [v] -> []

	OpAdd // stack: [a, b] -> [a+b]
	OpSub // stack: [a, b] -> [a-b]
	OpMul // stack: [a, b] -> [a*b]
	OpDiv // stack: [a, b] -> [a/b]
	OpMinus
	OpBang

	OpTrue
	OpFalse
	OpNull

	OpEqual
	OpNotEqual
	OpGreaterThan // also used for `<` with swapped operands

	OpJump          // operands: absolute target (2)
	OpJumpNotTruthy // operands: absolute target (2); pops condition

	OpGetGlobal // operands: global slot (2)
	OpSetGlobal
	OpGetLocal // operands: local slot (1)
	OpSetLocal
	OpGetBuiltin // operands: builtin index (1)
	OpGetFree    // operands: free-variable index (1)

	OpArray // operands: element count (2)
	OpHash  // operands: pair count * 2 (2)
	OpIndex // stack: [collection, index] -> [value]

	OpCall           // operands: argument count (1)
	OpReturnValue    // stack: [v] -> [], returns v from the current frame
	OpReturn         // returns implicit null from the current frame
	OpClosure        // operands: constant index (2), free-variable count (1)
	OpCurrentClosure // pushes the executing closure, for self-recursion
)

// Definition documents one Opcode: its mnemonic and the byte width of each
// operand it expects, in order.
type Definition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*Definition{
	OpConstant: {"OpConstant", []int{2}},
	OpPop:      {"OpPop", nil},

	OpAdd:   {"OpAdd", nil},
	OpSub:   {"OpSub", nil},
	OpMul:   {"OpMul", nil},
	OpDiv:   {"OpDiv", nil},
	OpMinus: {"OpMinus", nil},
	OpBang:  {"OpBang", nil},

	OpTrue:  {"OpTrue", nil},
	OpFalse: {"OpFalse", nil},
	OpNull:  {"OpNull", nil},

	OpEqual:       {"OpEqual", nil},
	OpNotEqual:    {"OpNotEqual", nil},
	OpGreaterThan: {"OpGreaterThan", nil},

	OpJump:          {"OpJump", []int{2}},
	OpJumpNotTruthy: {"OpJumpNotTruthy", []int{2}},

	OpGetGlobal:  {"OpGetGlobal", []int{2}},
	OpSetGlobal:  {"OpSetGlobal", []int{2}},
	OpGetLocal:   {"OpGetLocal", []int{1}},
	OpSetLocal:   {"OpSetLocal", []int{1}},
	OpGetBuiltin: {"OpGetBuiltin", []int{1}},
	OpGetFree:    {"OpGetFree", []int{1}},

	OpArray: {"OpArray", []int{2}},
	OpHash:  {"OpHash", []int{2}},
	OpIndex: {"OpIndex", nil},

	OpCall:           {"OpCall", []int{1}},
	OpReturnValue:    {"OpReturnValue", nil},
	OpReturn:         {"OpReturn", nil},
	OpClosure:        {"OpClosure", []int{2, 1}},
	OpCurrentClosure: {"OpCurrentClosure", nil},
}

// Lookup returns op's Definition, or an error if op is not a known opcode.
func Lookup(op byte) (*Definition, error) {
	def, ok := definitions[Opcode(op)]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// Make encodes op and its operands into a single instruction. An unknown
// opcode or operand count mismatched to the definition produces an empty
// slice (caller is expected to only call Make with opcodes it defines itself).
func Make(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok || len(operands) != len(def.OperandWidths) {
		return []byte{}
	}

	width := 1
	for _, w := range def.OperandWidths {
		width += w
	}

	ins := make([]byte, width)
	ins[0] = byte(op)

	offset := 1
	for i, operand := range operands {
		switch def.OperandWidths[i] {
		case 1:
			ins[offset] = byte(operand)
		case 2:
			binary.BigEndian.PutUint16(ins[offset:], uint16(operand))
		}
		offset += def.OperandWidths[i]
	}
	return ins
}

// ReadOperands decodes the operands for def from the front of ins and
// reports how many bytes it consumed.
func ReadOperands(def *Definition, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0

	for i, width := range def.OperandWidths {
		switch width {
		case 1:
			operands[i] = int(ReadUint8(ins[offset:]))
		case 2:
			operands[i] = int(ReadUint16(ins[offset:]))
		}
		offset += width
	}
	return operands, offset
}

// ReadUint16 decodes a big-endian uint16 from the front of ins.
func ReadUint16(ins Instructions) uint16 { return binary.BigEndian.Uint16(ins) }

// ReadUint8 returns the first byte of ins as a uint8.
func ReadUint8(ins Instructions) uint8 { return ins[0] }

// String disassembles ins into one "OFFSET OpName operand..." line per
// instruction, for debugging and the compiler's own tests.
func (ins Instructions) String() string {
	var out strings.Builder

	for i := 0; i < len(ins); {
		def, err := Lookup(ins[i])
		if err != nil {
			fmt.Fprintf(&out, "ERROR: %s\n", err)
			i++
			continue
		}

		operands, read := ReadOperands(def, ins[i+1:])
		fmt.Fprintf(&out, "%04d %s\n", i, formatInstruction(def, operands))
		i += 1 + read
	}
	return out.String()
}

func formatInstruction(def *Definition, operands []int) string {
	if len(operands) != len(def.OperandWidths) {
		return fmt.Sprintf("ERROR: operand len %d does not match defined %d", len(operands), len(def.OperandWidths))
	}

	switch len(operands) {
	case 0:
		return def.Name
	case 1:
		return fmt.Sprintf("%s %d", def.Name, operands[0])
	case 2:
		return fmt.Sprintf("%s %d %d", def.Name, operands[0], operands[1])
	default:
		return fmt.Sprintf("ERROR: unhandled operand count for %s", def.Name)
	}
}

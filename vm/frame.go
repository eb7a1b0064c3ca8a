package vm

import (
	"github.com/duskfall/gibbon/code"
	"github.com/duskfall/gibbon/object"
)

// Frame is one activation record on the VM's call stack: a closure paired
// with its own instruction pointer and the stack slot where its locals begin.
// The VM never unwinds a frame's instructions in place — calling and
// returning just push and pop Frame values.
type Frame struct {
	closure     *object.Closure
	ip          int
	basePointer int
}

// NewFrame starts a frame for closure whose locals begin at stack slot base.
// ip starts at -1 so the VM's fetch step (which increments first) lands on
// instruction 0.
func NewFrame(closure *object.Closure, base int) *Frame {
	return &Frame{closure: closure, ip: -1, basePointer: base}
}

// Instructions returns the bytecode this frame is executing.
func (f *Frame) Instructions() code.Instructions {
	return f.closure.Fn.Instructions
}

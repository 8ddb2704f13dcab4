// Package frame implements the JEXL lexical symbol table: a fixed-size
// slot array per activation, with a bitset per slot and closure capture
// semantics (spec.md §4.3). Grounded on the teacher's scope-chaining
// Environment (internal/interp/runtime/environment.go), generalized from a
// name-keyed map per scope into a parse-time-sized slot array per frame,
// since spec.md's Frame contract is explicitly slot-indexed rather than
// name-indexed (name lookups that escape the frame go to the context
// bridge instead, see internal/jexlcontext).
package frame

import (
	"fmt"

	"github.com/jexl-go/jexl/internal/value"
)

// slotBit is a per-slot bitset, tracking the four booleans spec.md §3
// requires a Frame to record per slot.
type slotBit uint8

const (
	bitDeclared slotBit = 1 << iota
	bitAssigned
	bitCaptured
	bitConst
)

// cell is one slot: its current value, and its bitset.
type cell struct {
	val   value.Value
	bits  slotBit
}

// Frame is a fixed-size array of slots for one activation of a script or
// lambda (spec.md §3 Frame, §4.3).
type Frame struct {
	slots []cell
	names []string // slot index -> declared name, for diagnostics only

	// captured holds, for a closure frame, the snapshot cells captured from
	// enclosing frames at lambda-creation time. With ConstCapture off these
	// are shared *cell pointers (an "arena" indirection per spec.md §9);
	// with it on they are by-value copies.
	captured []*sharedCell

	// redirects lists local slots whose storage has been handed off to a
	// shared cell via Capture(constCapture=false); Get/Set consult this
	// list first so both the defining frame and the closure observe the
	// same mutations.
	redirects []redirect
}

// sharedCell is an arena-held indirection cell used when ConstCapture is
// disabled, so mutating a captured variable through the closure is visible
// to the defining frame and vice versa (spec.md §9 "arena so cycles ...
// do not require garbage collection").
type sharedCell struct {
	val  value.Value
	bits slotBit
}

// New creates a frame with the given number of declared slots.
func New(size int) *Frame {
	return &Frame{slots: make([]cell, size), names: make([]string, size)}
}

// ErrConstViolation is returned by Set when writing to a const-declared or
// const-captured slot.
var ErrConstViolation = fmt.Errorf("assignment to const slot")

// Declare marks slot as declared-here, optionally const, with the given
// name for diagnostics. `lexical` redefinition-in-block checks happen at
// parse time (the parser refuses to hand the interpreter two Declare calls
// for the same block-local name); Frame itself does not re-validate.
func (f *Frame) Declare(slot int, name string, isConst bool) {
	f.slots[slot].bits |= bitDeclared
	if isConst {
		f.slots[slot].bits |= bitConst
	}
	f.names[slot] = name
}

// Get reads a slot's current value, following a redirect to a shared cell
// if the slot was captured with ConstCapture off.
func (f *Frame) Get(slot int) value.Value {
	if c := f.findRedirect(slot); c != nil {
		return c.val
	}
	return f.slots[slot].val
}

func (f *Frame) findRedirect(slot int) *sharedCell {
	for _, r := range f.redirects {
		if r.slot == slot {
			return r.cell
		}
	}
	return nil
}

// IsAssigned reports whether slot has ever been written.
func (f *Frame) IsAssigned(slot int) bool {
	return f.slots[slot].bits&bitAssigned != 0
}

// IsDeclaredConst reports whether slot was declared const.
func (f *Frame) IsDeclaredConst(slot int) bool {
	return f.slots[slot].bits&bitConst != 0
}

// Name returns the declared name of a slot, for diagnostics.
func (f *Frame) Name(slot int) string { return f.names[slot] }

// Set writes slot, honoring const semantics. Returns ErrConstViolation if
// the slot is const and already assigned once (parameters may be
// initialized once by binding, then never reassigned).
func (f *Frame) Set(slot int, v value.Value) error {
	if sc := f.findRedirect(slot); sc != nil {
		if sc.bits&bitConst != 0 && sc.bits&bitAssigned != 0 {
			return ErrConstViolation
		}
		sc.val = v
		sc.bits |= bitAssigned
		return nil
	}
	c := &f.slots[slot]
	if c.bits&bitConst != 0 && c.bits&bitAssigned != 0 {
		return ErrConstViolation
	}
	c.val = v
	c.bits |= bitAssigned
	return nil
}

// MarkCaptured records that slot is captured by an inner lambda, set by the
// parser/resolver at lambda-creation analysis time.
func (f *Frame) MarkCaptured(slot int) {
	f.slots[slot].bits |= bitCaptured
}

// IsCaptured reports whether slot is captured by an inner lambda.
func (f *Frame) IsCaptured(slot int) bool {
	return f.slots[slot].bits&bitCaptured != 0
}

// Capture builds a closure capture snapshot for the given outer slots, per
// spec.md §4.3: "capture is by-value-of-slot at closure creation" when
// ConstCapture is on; with it off, captures become shared cells so later
// mutations through either the closure or the outer frame are mutually
// visible (spec.md Testable Property 6).
func (f *Frame) Capture(slots []int, constCapture bool) []*sharedCell {
	out := make([]*sharedCell, len(slots))
	for i, s := range slots {
		f.MarkCaptured(s)
		if constCapture {
			out[i] = &sharedCell{val: f.slots[s].val, bits: bitConst | bitAssigned}
		} else {
			// Share the cell itself: this frame and the closure both see
			// writes through this *sharedCell from now on, and the frame's
			// own slot is redirected to read/write through it too.
			shared := &sharedCell{val: f.slots[s].val, bits: f.slots[s].bits &^ bitConst}
			out[i] = shared
			f.redirects = append(f.redirects, redirect{slot: s, cell: shared})
		}
	}
	return out
}

// redirect maps a local slot index to the shared cell now backing it.
type redirect struct {
	slot int
	cell *sharedCell
}

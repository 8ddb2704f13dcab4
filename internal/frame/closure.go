package frame

import "github.com/jexl-go/jexl/internal/value"

// Closure is the capture snapshot owned by a lambda value: a flat vector of
// shared or by-value cells taken from enclosing frames at creation time
// (spec.md §3 "A closure frame additionally carries a snapshot of captured
// slots", §9 "Closure capture by value").
type Closure struct {
	cells []*sharedCell
	// outerSlotOf[i] is the slot in THIS lambda's own frame that cell i
	// binds into — the slot number jexlparser assigned to every reference
	// to that free variable inside the lambda body (jexlast.LambdaExpr.
	// CaptureSlots).
	outerSlotOf []int
}

// NewClosure packages a capture snapshot taken via Frame.Capture, paired
// with the lambda-local slot each cell binds into.
func NewClosure(cells []*sharedCell, localSlots []int) *Closure {
	return &Closure{cells: cells, outerSlotOf: localSlots}
}

// BindInto installs this closure's captured cells into the lambda frame
// slots recorded at construction time (jexlast.LambdaExpr.CaptureSlots),
// the local slot every reference to each free variable inside the lambda
// body was compiled against.
func (c *Closure) BindInto(f *Frame) {
	for i, cell := range c.cells {
		slot := c.outerSlotOf[i]
		f.redirects = append(f.redirects, redirect{slot: slot, cell: cell})
		f.slots[slot].bits |= bitDeclared | bitCaptured
		if cell.bits&bitAssigned != 0 {
			f.slots[slot].bits |= bitAssigned
		}
	}
}

// Len returns the number of captured cells.
func (c *Closure) Len() int { return len(c.cells) }

// valueOrNull is a small helper so callers don't need to import value
// directly just to build a Null default.
func valueOrNull(v value.Value) value.Value {
	if v == nil {
		return value.Var
	}
	return v
}

// Package jexlinterp implements the JEXL tree-walking interpreter: antish
// variable resolution, safe navigation, slot-bound identifier read/write,
// method/function/namespace dispatch, operator-overload consultation,
// annotation dispatch, cooperative cancellation and stack-depth limiting
// (spec.md §4.5). Grounded on the teacher's evaluator.Evaluator — a single
// walker type holding the shared services (environment, method registry,
// output) that every visit method consults — generalized from DWScript's
// statically-typed AST to JEXL's dynamically-typed one, and from the
// teacher's environment-chain lookup to frame+context dual resolution.
package jexlinterp

import "github.com/jexl-go/jexl/internal/value"

// ctrlKind tags the non-local control-flow outcome of executing a
// statement, the idiomatic-Go rendering of spec.md §9's suggested sum type
// `Normal(Value) | Return(Value) | Break | Continue | Cancel | Error(...)`:
// Cancel and Error both travel as a plain Go error (a KindCancel error from
// pollCancel in interp.go), while Return/Break/Continue are cheap enough to carry as an
// extra return value alongside the usual (value, error) pair.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// result is what executing one statement produces: a control signal, and
// (for ctrlReturn) the value being returned.
type result struct {
	kind ctrlKind
	val  value.Value
}

package jexlparser

// symbol is one declared local within a scope.
type symbol struct {
	slot int
}

// scope tracks the locals declared directly within one lexical block,
// function, or lambda body, chained to its lexically enclosing scope.
// It is the parse-time mirror of internal/frame.Frame: scope assigns the
// slot indices that the Frame allocates at runtime (spec.md §3 "At parse
// time each lexical block ... records declared symbols").
type scope struct {
	parent   *scope
	lambda   bool // true at a lambda/function boundary: captures cross here
	names    map[string]symbol
	nextSlot *int // shared counter across the whole lambda/top-level frame
	captures map[string]int // captured name -> local slot, populated lazily
	captureOrder []string
	declOrder []string // names declared directly in this scope, in declaration order
	lexical  bool // spec.md "lexical": redefinition in the same block fails
	lexicalShade bool
}

func newRootScope(lexical, lexicalShade bool) *scope {
	n := 0
	return &scope{
		names:    map[string]symbol{},
		nextSlot: &n,
		lambda:   true,
		lexical:  lexical,
		lexicalShade: lexicalShade,
	}
}

func (s *scope) pushBlock() *scope {
	return &scope{
		parent:   s,
		names:    map[string]symbol{},
		nextSlot: s.nextSlot,
		lexical:  s.lexical,
		lexicalShade: s.lexicalShade,
	}
}

func (s *scope) pushLambda() *scope {
	n := 0
	return &scope{
		parent:   s,
		names:    map[string]symbol{},
		nextSlot: &n,
		lambda:   true,
		captures: map[string]int{},
		lexical:  s.lexical,
		lexicalShade: s.lexicalShade,
	}
}

// declare allocates a new slot for name in this scope. ok is false if
// `lexical` is set and name is already declared in this same block.
func (s *scope) declare(name string) (slot int, ok bool) {
	if s.lexical {
		if _, exists := s.names[name]; exists {
			return 0, false
		}
	}
	slot = *s.nextSlot
	*s.nextSlot++
	s.names[name] = symbol{slot: slot}
	s.declOrder = append(s.declOrder, name)
	return slot, true
}

// declaredNames returns the names declared directly in this scope (not
// its children), in declaration order — the root scope's view of this is
// `Script.getParameters()`/`Script.getLocalVariables()`'s source of truth.
func (s *scope) declaredNames() []string {
	return append([]string(nil), s.declOrder...)
}

// resolveLocal looks up name in this scope and its ancestor blocks up to
// (and including) the nearest lambda boundary, without crossing it.
func (s *scope) resolveLocal(name string) (symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.names[name]; ok {
			return sym, true
		}
		if cur.lambda {
			return symbol{}, false
		}
	}
	return symbol{}, false
}

// resolve looks up name anywhere in the enclosing scope chain. Each
// lambda boundary crossed on the way out gets its own capture slot
// registered, chained outermost-to-innermost, so the parser can compute
// every crossed LambdaExpr's Captures slice (spec.md §4.3
// "captured-from-outer symbols").
func (s *scope) resolve(name string) (slot int, crossedLambda bool, found bool) {
	var boundaries []*scope // innermost lambda boundary first
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.names[name]; ok {
			outSlot := sym.slot
			for i := len(boundaries) - 1; i >= 0; i-- {
				outSlot = boundaries[i].captureSlotFor(name, outSlot)
			}
			return outSlot, len(boundaries) > 0, true
		}
		if cur.lambda && cur.parent != nil {
			boundaries = append(boundaries, cur)
		}
	}
	return 0, false, false
}

// captureSlotFor allocates (or reuses) a local slot in this lambda scope
// that mirrors outerSlot from an enclosing frame, recording the mapping
// for the LambdaExpr builder to read back as Captures.
func (s *scope) captureSlotFor(name string, outerSlot int) int {
	if slot, ok := s.captures[name]; ok {
		return slot
	}
	slot := *s.nextSlot
	*s.nextSlot++
	s.captures[name] = slot
	s.captureOrder = append(s.captureOrder, name)
	return slot
}

// isCapturedHere reports whether name is a captured binding in the
// innermost enclosing lambda (i.e. it came from an outer frame, not a
// parameter or local declared directly in this lambda).
func (s *scope) isCapturedHere(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.lambda {
			_, ok := cur.captures[name]
			return ok
		}
	}
	return false
}

func (s *scope) frameSize() int { return *s.nextSlot }

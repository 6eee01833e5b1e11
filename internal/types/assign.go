package types

// AssignableTo implements the structural assignability relation of spec
// §4.3: can a value of type s be used where a value of type t is expected.
func AssignableTo(s, t Type) bool {
	if s == nil || t == nil {
		return true
	}
	if IsAny(s) || IsAny(t) {
		return true
	}
	if t.Kind() == KindUnknown {
		return true
	}
	if IsNever(s) {
		return true
	}
	if IsNullOrUndefined(s) {
		if p, ok := t.(*Primitive); ok {
			sp := s.(*Primitive)
			return p.Prim == sp.Prim
		}
		return t.Kind() == KindUnknown
	}

	// A union source is assignable to t iff every one of its arms is; this
	// must be checked before t's own union case below, otherwise a union s
	// is never decomposed against a union t (each arm of t is tried against
	// the whole of s, which fails unless s collapses to a single arm).
	if su, ok := s.(*Union); ok {
		for _, arm := range su.Arms {
			if !AssignableTo(arm, t) {
				return false
			}
		}
		return true
	}

	switch tt := t.(type) {
	case *Union:
		for _, arm := range tt.Arms {
			if AssignableTo(s, arm) {
				return true
			}
		}
		// String -> union of string literals relaxation (spec §9 note 3).
		if sp, ok := s.(*Primitive); ok && sp.Prim == String && allStringLiterals(tt.Arms) {
			return true
		}
		return false
	case *Intersection:
		// t requires every arm's constraints to hold. This must run
		// against the whole, undecomposed s (not a single arm of it),
		// otherwise Intersection(A, B) fails to be assignable to itself:
		// no single arm of s carries both A's and B's members alone.
		for _, arm := range tt.Arms {
			if !AssignableTo(s, arm) {
				return false
			}
		}
		return true
	}

	// A value of an intersection type has all arms' members at once, so
	// (now that t is known not to be a union or intersection) it is
	// assignable to t as soon as any single arm already satisfies t.
	if si, ok := s.(*Intersection); ok {
		for _, arm := range si.Arms {
			if AssignableTo(arm, t) {
				return true
			}
		}
		return false
	}

	switch st := s.(type) {
	case *Primitive:
		tp, ok := t.(*Primitive)
		return ok && tp.Prim == st.Prim
	case *Literal:
		if tl, ok := t.(*Literal); ok {
			return st.Prim == tl.Prim && literalEqual(st.Value, tl.Value)
		}
		if tp, ok := t.(*Primitive); ok {
			return tp.Prim == st.Prim
		}
		return false
	case *Array:
		ta, ok := t.(*Array)
		return ok && AssignableTo(st.Element, ta.Element)
	case *Tuple:
		tt, ok := t.(*Tuple)
		if !ok || len(tt.Elements) != len(st.Elements) {
			return false
		}
		for i := range st.Elements {
			if !AssignableTo(st.Elements[i], tt.Elements[i]) {
				return false
			}
		}
		return true
	case *Function:
		tf, ok := t.(*Function)
		if !ok {
			return false
		}
		return functionAssignable(st, tf)
	case *Interface:
		return interfaceAssignable(st, t)
	case *Class:
		return interfaceAssignable(st.Instance, t)
	case *Enumerated:
		if te, ok := t.(*Enumerated); ok {
			return st.Name == te.Name
		}
		return false
	}

	return false
}

func allStringLiterals(arms []Type) bool {
	if len(arms) == 0 {
		return false
	}
	for _, a := range arms {
		l, ok := a.(*Literal)
		if !ok || l.Prim != String {
			return false
		}
	}
	return true
}

func literalEqual(a, b interface{}) bool {
	return a == b
}

// functionAssignable checks return covariance and parameter contravariance;
// s (the source) may declare more parameters than t (unused extras are fine).
func functionAssignable(s, t *Function) bool {
	sRet := s.Return
	if sRet == nil {
		sRet = VoidType
	}
	tRet := t.Return
	if tRet == nil {
		tRet = VoidType
	}
	if !AssignableTo(sRet, tRet) {
		return false
	}
	for i, tp := range t.Params {
		if i >= len(s.Params) {
			// t requires more parameters than s declares; only acceptable
			// if the missing ones are optional or rest on t's side too.
			if !tp.Optional && !tp.Rest {
				return false
			}
			continue
		}
		sp := s.Params[i]
		// Parameters are contravariant: t's param type must be assignable
		// to s's param type (callers of s may pass anything t's callers
		// would, and s must accept it).
		if !AssignableTo(tp.Type, sp.Type) {
			return false
		}
	}
	return true
}

// interfaceAssignable checks that every required member of t is present in
// the source's member set (looked up either on an *Interface or a *Class's
// instance interface) with an assignable type.
func interfaceAssignable(source *Interface, t Type) bool {
	var target *Interface
	switch tt := t.(type) {
	case *Interface:
		target = tt
	case *Class:
		target = tt.Instance
	default:
		return false
	}
	if source == nil || target == nil {
		return false
	}
	for _, want := range target.Members {
		if want.Optional {
			continue
		}
		have, ok := source.Get(want.Name)
		if !ok {
			return false
		}
		if !AssignableTo(have.Type, want.Type) {
			return false
		}
	}
	return true
}

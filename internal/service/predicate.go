package service

// PredicateOp identifies a predicate node's operation.
type PredicateOp string

// Predicate operations supported by the catalog store.
const (
	OpEq       PredicateOp = "eq"
	OpContains PredicateOp = "contains"
	OpAnd      PredicateOp = "and"
	OpOr       PredicateOp = "or"
)

// Predicate is a structured catalog query filter: a field comparison or
// a boolean composition of other predicates. The zero value matches
// nothing and is rejected by the store.
type Predicate struct {
	Value any
	Field string
	Op    PredicateOp
	Subs  []Predicate
}

// IsZero reports whether the predicate is empty.
func (p Predicate) IsZero() bool {
	return p.Op == ""
}

// Eq matches records whose field equals value exactly.
func Eq(field string, value any) Predicate {
	return Predicate{Op: OpEq, Field: field, Value: value}
}

// Contains matches records whose field contains substring,
// case-insensitively.
func Contains(field, substring string) Predicate {
	return Predicate{Op: OpContains, Field: field, Value: substring}
}

// And composes predicates conjunctively. Empty sub-predicates are
// dropped; a single survivor is returned unwrapped.
func And(preds ...Predicate) Predicate {
	return compose(OpAnd, preds)
}

// Or composes predicates disjunctively. Empty sub-predicates are
// dropped; a single survivor is returned unwrapped.
func Or(preds ...Predicate) Predicate {
	return compose(OpOr, preds)
}

func compose(op PredicateOp, preds []Predicate) Predicate {
	kept := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if !p.IsZero() {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return Predicate{}
	case 1:
		return kept[0]
	default:
		return Predicate{Op: op, Subs: kept}
	}
}

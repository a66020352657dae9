package finance

import (
	"sort"
)

// IDSet is an immutable set of record ids. The zero value is empty.
type IDSet struct {
	ids map[uint]struct{}
}

// NewIDSet builds a set from ids. Duplicates collapse.
func NewIDSet(ids ...uint) IDSet {
	s := IDSet{ids: make(map[uint]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s IDSet) Has(id uint) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s.ids)
}

// Toggle returns a copy of s with id's membership flipped. s is unchanged.
func (s IDSet) Toggle(id uint) IDSet {
	next := IDSet{ids: make(map[uint]struct{}, len(s.ids)+1)}
	for k := range s.ids {
		next.ids[k] = struct{}{}
	}
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// Slice returns the members in ascending order.
func (s IDSet) Slice() []uint {
	out := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Exclusions is the what-if overlay applied to an aggregation.
// It is a request parameter and is never persisted.
type Exclusions struct {
	Payments IDSet
	Expenses IDSet
}

// NewExclusions builds an overlay from id lists, e.g. parsed query parameters.
func NewExclusions(payments, expenses []uint) Exclusions {
	return Exclusions{Payments: NewIDSet(payments...), Expenses: NewIDSet(expenses...)}
}

// TogglePayment returns a copy with the payment's membership flipped.
func (e Exclusions) TogglePayment(id uint) Exclusions {
	return Exclusions{Payments: e.Payments.Toggle(id), Expenses: e.Expenses}
}

// ToggleExpense returns a copy with the expense's membership flipped.
func (e Exclusions) ToggleExpense(id uint) Exclusions {
	return Exclusions{Payments: e.Payments, Expenses: e.Expenses.Toggle(id)}
}

// IsEmpty reports whether nothing is excluded.
func (e Exclusions) IsEmpty() bool {
	return e.Payments.Len() == 0 && e.Expenses.Len() == 0
}

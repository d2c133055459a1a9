package query

import "sort"

// Kind is the resource a filter targets.
type Kind string

const (
	KindTicket  Kind = "ticket"
	KindProject Kind = "project"
	KindCompany Kind = "company"
)

// Op is a constraint operator.
type Op int

const (
	// OpEq matches when the attribute equals one of the values.
	OpEq Op = iota
	// OpContains matches when the set-valued attribute holds one of the values.
	OpContains
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpContains:
		return "contains"
	default:
		return "unknown"
	}
}

// Attribute paths with special compilation rules.
const (
	FieldCompany        = "company"
	FieldServices       = "services"
	FieldProjectCompany = "project.company"
	FieldProjectService = "project.services"
)

type Constraint struct {
	Field  string
	Op     Op
	Values []string
}

func Eq(field string, values ...string) Constraint {
	return Constraint{Field: field, Op: OpEq, Values: values}
}

func Contains(field string, values ...string) Constraint {
	return Constraint{Field: field, Op: OpContains, Values: values}
}

// Filter is a compiled predicate. The zero value matches everything.
// Filters are values: With and Without return modified copies.
type Filter struct {
	Kind        Kind
	constraints []Constraint
}

func NewFilter(kind Kind, cs ...Constraint) Filter {
	f := Filter{Kind: kind}
	for _, c := range cs {
		f = f.With(c)
	}
	return f
}

// Constraints returns the constraints ordered by field.
func (f Filter) Constraints() []Constraint {
	out := make([]Constraint, len(f.constraints))
	copy(out, f.constraints)
	return out
}

func (f Filter) Len() int { return len(f.constraints) }

func (f Filter) Lookup(field string) (Constraint, bool) {
	for _, c := range f.constraints {
		if c.Field == field {
			return c, true
		}
	}
	return Constraint{}, false
}

func (f Filter) Has(field string) bool {
	_, ok := f.Lookup(field)
	return ok
}

// With returns a copy of f where c replaces any constraint on the same field.
func (f Filter) With(c Constraint) Filter {
	out := Filter{Kind: f.Kind, constraints: make([]Constraint, 0, len(f.constraints)+1)}
	for _, existing := range f.constraints {
		if existing.Field != c.Field {
			out.constraints = append(out.constraints, existing)
		}
	}
	vals := make([]string, len(c.Values))
	copy(vals, c.Values)
	c.Values = vals
	out.constraints = append(out.constraints, c)
	sort.SliceStable(out.constraints, func(i, j int) bool {
		return out.constraints[i].Field < out.constraints[j].Field
	})
	return out
}

// Without returns a copy of f with no constraint on field.
func (f Filter) Without(field string) Filter {
	out := Filter{Kind: f.Kind}
	for _, c := range f.constraints {
		if c.Field != field {
			out.constraints = append(out.constraints, c)
		}
	}
	return out
}

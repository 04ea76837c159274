// Package quantity implements a runtime tag-checked physical-quantity
// wrapper: float64 data (scalar or vector) tagged with a unit, convertible
// within its physical type and validated against the type a consumer
// requires.
package quantity

import "fmt"

// Quantity is a scalar or vector of values carried in a unit. The zero
// Quantity is untyped and fails every validation.
type Quantity struct {
	vals   []float64
	unit   Unit
	scalar bool
}

func Scalar(v float64, u Unit) Quantity {
	return Quantity{
		vals:   []float64{v},
		unit:   u,
		scalar: true,
	}
}

func Vector(vs []float64, u Unit) Quantity {
	cp := make([]float64, len(vs))
	copy(cp, vs)

	return Quantity{
		vals: cp,
		unit: u,
	}
}

func (q Quantity) Unit() Unit {
	return q.unit
}

func (q Quantity) IsScalar() bool {
	return q.scalar
}

func (q Quantity) IsZero() bool {
	return q.vals == nil && q.unit == (Unit{})
}

func (q Quantity) Len() int {
	return len(q.vals)
}

// Value returns the first element. Meant for scalar quantities.
func (q Quantity) Value() float64 {
	return q.vals[0]
}

func (q Quantity) Values() []float64 {
	cp := make([]float64, len(q.vals))
	copy(cp, q.vals)

	return cp
}

func (q Quantity) String() string {
	if q.scalar {
		return fmt.Sprintf("%v %s", q.vals[0], q.unit.Name)
	}

	return fmt.Sprintf("%v %s", q.vals, q.unit.Name)
}

// Validate checks that the quantity carries the required physical type.
// name labels the offending argument in the returned error.
func (q Quantity) Validate(name string, pt PhysType) error {
	if q.unit.Phys == pt {
		return nil
	}

	return fmt.Errorf("%s: %w: want %s, got %s", name, ErrTypeMismatch, pt, q.unit.Phys)
}

// To converts the quantity to another unit of the same physical type.
func (q Quantity) To(u Unit) (Quantity, error) {
	if q.unit.Phys != u.Phys || q.unit.Phys == 0 {
		return Quantity{}, fmt.Errorf("convert: %w: %s to %s", ErrTypeMismatch, q.unit.Phys, u.Phys)
	}

	factor := q.unit.Scale / u.Scale

	vals := make([]float64, len(q.vals))
	for i, v := range q.vals {
		vals[i] = v * factor
	}

	return Quantity{vals: vals, unit: u, scalar: q.scalar}, nil
}

// Broadcast pairs two quantities element-wise: a scalar is repeated to the
// other argument's length, two vectors must agree in length. The returned
// slices alias fresh storage and scalar reports whether both inputs were
// scalars.
func Broadcast(a, b Quantity) (as, bs []float64, scalar bool, err error) {
	switch {
	case a.scalar && b.scalar:
		return []float64{a.vals[0]}, []float64{b.vals[0]}, true, nil
	case a.scalar:
		as = make([]float64, len(b.vals))
		for i := range as {
			as[i] = a.vals[0]
		}

		return as, b.Values(), false, nil
	case b.scalar:
		bs = make([]float64, len(a.vals))
		for i := range bs {
			bs[i] = b.vals[0]
		}

		return a.Values(), bs, false, nil
	default:
		if len(a.vals) != len(b.vals) {
			return nil, nil, false, fmt.Errorf("broadcast: %w: %d vs %d", ErrDimensionMismatch, len(a.vals), len(b.vals))
		}

		return a.Values(), b.Values(), false, nil
	}
}

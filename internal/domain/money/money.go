// Package money provides integer currency arithmetic for prices and amounts.
//
// All monetary values are whole currency units stored as int64. Price
// calculations never touch floating point; percentage math truncates via
// integer division.
package money

// Money is an amount of whole currency units.
type Money int64

// Mul returns the amount multiplied by a quantity.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// PercentOff returns floor(m * percent / 100). With non-negative inputs Go's
// integer division is exactly the floor the pricing rules require.
func (m Money) PercentOff(percent int64) Money {
	return m * Money(percent) / 100
}

// Ptr returns a pointer to m. Convenient for optional price fields.
func Ptr(m Money) *Money {
	return &m
}

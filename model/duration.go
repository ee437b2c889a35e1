package model

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Duration is an exact rational amount of musical time measured in whole
// notes, so a quarter note is 1/4. It is always stored reduced, with the
// zero value meaning no time at all, which makes == safe to use.
type Duration struct {
	num int64
	den int64
}

// D builds the reduced duration num/den. It panics on a zero denominator.
func D(num, den int64) Duration {
	if den == 0 {
		panic("model: zero denominator")
	}
	if num == 0 {
		return Duration{}
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	return Duration{num: num / g, den: den / g}
}

// Whole returns a duration of n whole notes.
func Whole(n int64) Duration {
	return D(n, 1)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func (d Duration) Num() int64 { return d.num }

func (d Duration) Den() int64 {
	if d.den == 0 {
		return 1
	}
	return d.den
}

func (d Duration) Add(o Duration) Duration {
	den := lcm(d.Den(), o.Den())
	return D(d.num*(den/d.Den())+o.num*(den/o.Den()), den)
}

func (d Duration) Sub(o Duration) Duration {
	return d.Add(o.Neg())
}

func (d Duration) Neg() Duration {
	return Duration{num: -d.num, den: d.den}
}

func (d Duration) Mul(o Duration) Duration {
	return D(d.num*o.num, d.Den()*o.Den())
}

// Div panics when o is zero.
func (d Duration) Div(o Duration) Duration {
	if o.IsZero() {
		panic("model: division by zero duration")
	}
	return D(d.num*o.Den(), d.Den()*o.num)
}

func (d Duration) MulInt(n int64) Duration {
	return D(d.num*n, d.Den())
}

// Cmp returns -1, 0 or +1 depending on whether d is less than, equal to or
// greater than o.
func (d Duration) Cmp(o Duration) int {
	l := d.num * o.Den()
	r := o.num * d.Den()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func (d Duration) Less(o Duration) bool        { return d.Cmp(o) < 0 }
func (d Duration) LessEq(o Duration) bool      { return d.Cmp(o) <= 0 }
func (d Duration) Greater(o Duration) bool     { return d.Cmp(o) > 0 }
func (d Duration) Equal(o Duration) bool       { return d.Cmp(o) == 0 }
func (d Duration) IsZero() bool                { return d.num == 0 }
func (d Duration) Float64() float64            { return float64(d.num) / float64(d.Den()) }
func (d Duration) Sign() int                   { return d.Cmp(Duration{}) }
func (d Duration) Positive() bool              { return d.num > 0 }
func (d Duration) IsInteger() bool             { return d.Den() == 1 }
func (d Duration) Min(o Duration) Duration     { return pick(d.Cmp(o) <= 0, d, o) }
func (d Duration) Max(o Duration) Duration     { return pick(d.Cmp(o) >= 0, d, o) }
func (d Duration) Ceil() int64                 { return -floorDiv(-d.num, d.Den()) }
func (d Duration) Floor() int64                { return floorDiv(d.num, d.Den()) }
func (d Duration) Mod(o Duration) Duration     { return d.Sub(o.MulInt(d.Div(o).Floor())) }
func (d Duration) DivisibleBy(o Duration) bool { return d.Mod(o).IsZero() }

func pick(cond bool, a, b Duration) Duration {
	if cond {
		return a
	}
	return b
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// IsAssignable reports whether d can be written as a single undotted or
// dotted note value no longer than a breve.
func (d Duration) IsAssignable() bool {
	if !d.Positive() || !isPowerOfTwo(d.Den()) {
		return false
	}
	if d.Cmp(Whole(2)) > 0 {
		return false
	}
	odd, _ := splitOdd(d.num)
	return isPowerOfTwo(odd + 1)
}

// splitOdd factors n into its odd part and a power of two.
func splitOdd(n int64) (int64, int64) {
	pow := int64(1)
	for n > 0 && n%2 == 0 {
		n /= 2
		pow *= 2
	}
	return n, pow
}

// Dots returns the number of augmentation dots needed to write an
// assignable duration.
func (d Duration) Dots() int {
	if !d.IsAssignable() {
		return 0
	}
	odd, _ := splitOdd(d.num)
	return bits.Len64(uint64(odd)) - 1
}

// Base returns the undotted note value of an assignable duration, for
// instance 1/4 for 3/8.
func (d Duration) Base() Duration {
	_, pow := splitOdd(d.num)
	return D(pow<<d.Dots(), d.Den())
}

func (d Duration) String() string {
	if d.Den() == 1 {
		return fmt.Sprintf("%d", d.num)
	}
	return fmt.Sprintf("%d/%d", d.num, d.Den())
}

// Sum adds up durations.
func Sum(ds ...Duration) Duration {
	var total Duration
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

// ParseDuration reads "3/16" or a whole number such as "2".
func ParseDuration(s string) (Duration, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		den = "1"
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return Duration{}, fmt.Errorf("%w: bad duration %q", ErrConfig, s)
	}
	d, err := strconv.ParseInt(den, 10, 64)
	if err != nil || d <= 0 {
		return Duration{}, fmt.Errorf("%w: bad duration %q", ErrConfig, s)
	}
	return D(n, d), nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeSignature is a meter as written. It is deliberately not reduced:
// 4/8 and 2/4 are different time signatures with the same duration. The
// zero value means no time signature.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

var CommonTime = TimeSignature{4, 4}

func (ts TimeSignature) IsZero() bool {
	return ts.Numerator == 0 && ts.Denominator == 0
}

// Duration returns the length of one measure.
func (ts TimeSignature) Duration() Duration {
	if ts.Denominator == 0 {
		return Duration{}
	}
	return D(int64(ts.Numerator), int64(ts.Denominator))
}

// Valid reports a positive numerator over a power-of-two denominator.
func (ts TimeSignature) Valid() bool {
	return ts.Numerator > 0 && isPowerOfTwo(int64(ts.Denominator))
}

// Beat returns the duration the meter is felt in: the denominator unit
// for simple meters and three of them for compound ones such as 6/8.
func (ts TimeSignature) Beat() Duration {
	unit := D(1, int64(ts.Denominator))
	if ts.Denominator >= 8 && ts.Numerator > 3 && ts.Numerator%3 == 0 {
		return unit.MulInt(3)
	}
	return unit
}

// Simplified doubles the ratio until the denominator reaches
// minDenominator and then halves it while both terms stay even and the
// denominator stays at least twice minDenominator. 4/8 becomes 2/4 and
// 1/2 becomes 2/4.
func (ts TimeSignature) Simplified(minDenominator int) TimeSignature {
	num, den := ts.Numerator, ts.Denominator
	if num <= 0 || den <= 0 {
		return ts
	}
	for den < minDenominator {
		num *= 2
		den *= 2
	}
	for num%2 == 0 && den%2 == 0 && den >= 2*minDenominator {
		num /= 2
		den /= 2
	}
	return TimeSignature{num, den}
}

// TimeSignatureFor returns the reduced ratio of d as a time signature,
// simplified against a minimum denominator of 4.
func TimeSignatureFor(d Duration) TimeSignature {
	return TimeSignature{int(d.Num()), int(d.Den())}.Simplified(4)
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// ParseTimeSignature reads "3/4". The result is not checked for validity.
func ParseTimeSignature(s string) (TimeSignature, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return TimeSignature{}, fmt.Errorf("%w: bad time signature %q", ErrConfig, s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return TimeSignature{}, fmt.Errorf("%w: bad time signature %q", ErrConfig, s)
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return TimeSignature{}, fmt.Errorf("%w: bad time signature %q", ErrConfig, s)
	}
	return TimeSignature{n, d}, nil
}

func (ts TimeSignature) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

func (ts *TimeSignature) UnmarshalText(text []byte) error {
	v, err := ParseTimeSignature(string(text))
	if err != nil {
		return err
	}
	*ts = v
	return nil
}

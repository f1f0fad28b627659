package audio

// Rational is an exact fraction, used to express time-bases and durations
// without rounding errors. The zero value means "no time-base set".
type Rational struct {
	Num int64
	Den int64
}

// NewRational returns the fraction num/den.
func NewRational(num, den int64) Rational {
	return Rational{Num: num, Den: den}
}

// IsZero reports whether the rational is unset.
func (r Rational) IsZero() bool {
	return r.Num == 0 && r.Den == 0
}

// Div divides r by o. The result is not normalized; callers converting to
// an integer afterwards do not need it to be.
func (r Rational) Div(o Rational) Rational {
	return Rational{Num: r.Num * o.Den, Den: r.Den * o.Num}
}

// Int truncates the rational towards zero.
func (r Rational) Int() int64 {
	if r.Den == 0 {
		return 0
	}
	return r.Num / r.Den
}

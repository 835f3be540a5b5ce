package voicefx

import "math"

// biquadCoeffs holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
type biquadCoeffs struct {
	b0, b1, b2 float64 // feedforward (numerator)
	a1, a2     float64 // feedback (denominator)
}

// biquadSection is a single biquad filter with coefficients and internal
// delay-line state, implemented in Direct Form II Transposed.
type biquadSection struct {
	biquadCoeffs

	d0, d1 float64
}

// processBlock filters a block of samples in-place. Zero-alloc.
func (s *biquadSection) processBlock(buf []float64) {
	b0, b1, b2 := s.b0, s.b1, s.b2
	a1, a2 := s.a1, s.a2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

func (s *biquadSection) reset() {
	s.d0 = 0
	s.d1 = 0
}

// highpassRBJ designs a highpass biquad at freq (Hz) with quality factor q
// per the RBJ audio EQ cookbook.
func highpassRBJ(freq, q, sampleRate float64) biquadCoeffs {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := (1 + cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return biquadCoeffs{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// butterworthQ returns the quality factor for section index of an
// even-order Butterworth cascade.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))
	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}
	return 1 / (2 * s)
}

// HighPassFilter is a Butterworth highpass cascade applied in streaming
// fashion. The delay-line state persists across blocks: resetting it per
// block would put a transient at every block edge and click audibly.
type HighPassFilter struct {
	sections []biquadSection
}

// NewHighPassFilter designs an order-N Butterworth highpass with -3 dB at
// cutoff Hz. order must be even; odd orders are rounded up.
func NewHighPassFilter(cutoff, sampleRate float64, order int) *HighPassFilter {
	if order%2 != 0 {
		order++
	}
	n2 := order / 2
	sections := make([]biquadSection, 0, n2)
	for i := n2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		sections = append(sections, biquadSection{biquadCoeffs: highpassRBJ(cutoff, q, sampleRate)})
	}
	return &HighPassFilter{sections: sections}
}

// ProcessBlock filters buf in place, carrying state to the next call.
func (f *HighPassFilter) ProcessBlock(buf []float64) {
	for i := range f.sections {
		f.sections[i].processBlock(buf)
	}
}

// Reset clears all delay lines. Only call between streams, never between
// blocks of a running stream.
func (f *HighPassFilter) Reset() {
	for i := range f.sections {
		f.sections[i].reset()
	}
}

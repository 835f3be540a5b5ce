package voicefx

import "math"

// SignalChain applies the per-block voice transformation: high-pass
// filtering, pitch shift, peak normalization with power-law compression,
// and an instantaneous noise gate, in that order. Process never fails for
// a well-formed block; numerical anomalies are scrubbed before the block
// leaves the chain so bad samples can never reach the output device.
//
// The chain owns streaming state (filter delay lines, vocoder phases) and
// is exclusively owned by the engine's processing context.
type SignalChain struct {
	highPass *HighPassFilter
	shifter  *PitchShifter

	gateThreshold float64
	work          []float64
}

// compressorGamma is the exponent of the power-law compressor
// sign(x)*|x|^gamma, raising quiet components and limiting loud ones
// without hard clipping.
const compressorGamma = 0.5

func NewSignalChain(cfg *EngineConfig) (*SignalChain, error) {
	shifter, err := NewPitchShifter(cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	return &SignalChain{
		highPass:      NewHighPassFilter(cfg.HighPassCutoff, float64(cfg.SampleRate), cfg.HighPassOrder),
		shifter:       shifter,
		gateThreshold: cfg.GateThreshold,
		work:          make([]float64, cfg.BlockSize),
	}, nil
}

// Process transforms block in place by semitones. The block length must
// stay constant for the lifetime of a stream; a differently sized block
// grows the scratch buffer but is otherwise handled.
func (c *SignalChain) Process(block []float32, semitones int) {
	if len(block) == 0 {
		return
	}
	if len(c.work) < len(block) {
		c.work = make([]float64, len(block))
	}
	work := c.work[:len(block)]
	for i, s := range block {
		work[i] = float64(s)
	}

	c.highPass.ProcessBlock(work)
	c.shifter.ProcessBlock(work, semitones)
	c.compress(work)
	c.gate(work)

	for i, s := range work {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			s = 0
		}
		block[i] = float32(s)
	}
}

// compress scales the block so its peak magnitude is 1, then applies the
// power-law compressor. A silent block is left untouched to avoid a
// division by zero.
func (c *SignalChain) compress(buf []float64) {
	peak := 0.0
	for _, s := range buf {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return
	}
	for i, s := range buf {
		x := s / peak
		buf[i] = math.Copysign(math.Pow(math.Abs(x), compressorGamma), x)
	}
}

// gate zeroes every sample below the threshold. This is a per-sample
// instantaneous gate with no hysteresis; signals hovering near the
// threshold will chatter.
func (c *SignalChain) gate(buf []float64) {
	for i, s := range buf {
		if math.Abs(s) < c.gateThreshold {
			buf[i] = 0
		}
	}
}

// Reset clears all streaming state. Only call between streams.
func (c *SignalChain) Reset() {
	c.highPass.Reset()
	c.shifter.Reset()
}

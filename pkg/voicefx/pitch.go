package voicefx

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

const (
	vocoderFrameSize = 1024
	vocoderHop       = 256
	vocoderNormFloor = 1e-12
)

// PitchShifter shifts pitch by whole semitones while preserving block
// duration, using phase-vocoder spectral bin shifting: each STFT frame is
// analyzed for per-bin instantaneous frequency, the bins are remapped by
// the pitch ratio with linear interpolation, and synthesis phases are
// accumulated per bin. Phase state persists across blocks, so the amount
// can change between consecutive blocks without discontinuities beyond
// the method's inherent artifact floor.
//
// A shift of 0 semitones is an exact identity. Not safe for concurrent use;
// the engine owns one instance per stream.
type PitchShifter struct {
	plan *algofft.Plan[complex128]

	window []float64
	omega  []float64

	prevPhase []float64
	sumPhase  []float64

	spectrum  []complex128
	synthesis []complex128
	timeFrame []complex128

	magnitudes  []float64
	instFreqs   []float64
	shiftedMag  []float64
	shiftedFreq []float64

	ola  []float64
	norm []float64
}

// NewPitchShifter creates a shifter with scratch buffers sized for
// blockSize-sample blocks. All per-block work is allocation-free.
func NewPitchShifter(blockSize int) (*PitchShifter, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("pitch shifter block size must be positive: %d", blockSize)
	}

	plan, err := algofft.NewPlan64(vocoderFrameSize)
	if err != nil {
		return nil, fmt.Errorf("pitch shifter: failed to create FFT plan: %w", err)
	}

	bins := vocoderFrameSize/2 + 1

	p := &PitchShifter{
		plan:        plan,
		window:      make([]float64, vocoderFrameSize),
		omega:       make([]float64, bins),
		prevPhase:   make([]float64, bins),
		sumPhase:    make([]float64, bins),
		spectrum:    make([]complex128, vocoderFrameSize),
		synthesis:   make([]complex128, vocoderFrameSize),
		timeFrame:   make([]complex128, vocoderFrameSize),
		magnitudes:  make([]float64, bins),
		instFreqs:   make([]float64, bins),
		shiftedMag:  make([]float64, bins),
		shiftedFreq: make([]float64, bins),
	}

	// Periodic Hann window.
	for i := range p.window {
		p.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(vocoderFrameSize)))
	}
	for k := range p.omega {
		p.omega[k] = 2 * math.Pi * float64(k) / float64(vocoderFrameSize)
	}

	p.growScratch(blockSize)

	return p, nil
}

func (p *PitchShifter) growScratch(blockSize int) {
	frameCount := 1 + (blockSize-1)/vocoderHop
	outLen := (frameCount-1)*vocoderHop + vocoderFrameSize
	if len(p.ola) < outLen {
		p.ola = make([]float64, outLen)
		p.norm = make([]float64, outLen)
	}
}

// Reset clears phase tracking state. Only call between streams.
func (p *PitchShifter) Reset() {
	for i := range p.prevPhase {
		p.prevPhase[i] = 0
		p.sumPhase[i] = 0
	}
}

// ProcessBlock shifts buf by semitones in place. The output always has
// the same length as the input. Zero semitones leaves buf untouched.
// Internal FFT failures fall back to passing the block through unchanged;
// the audio callback must never see an error.
func (p *PitchShifter) ProcessBlock(buf []float64, semitones int) {
	if len(buf) == 0 || semitones == 0 {
		return
	}

	p.growScratch(len(buf))

	ratio := math.Pow(2, float64(semitones)/12.0)
	hopF := float64(vocoderHop)
	half := vocoderFrameSize / 2
	frameCount := 1 + (len(buf)-1)/vocoderHop
	outLen := (frameCount-1)*vocoderHop + vocoderFrameSize

	ola := p.ola[:outLen]
	norm := p.norm[:outLen]
	for i := range ola {
		ola[i] = 0
		norm[i] = 0
	}

	for frame := 0; frame < frameCount; frame++ {
		pos := frame * vocoderHop

		for i := 0; i < vocoderFrameSize; i++ {
			x := 0.0
			if idx := pos + i; idx < len(buf) {
				x = buf[idx]
			}
			p.spectrum[i] = complex(x*p.window[i], 0)
		}

		if err := p.plan.Forward(p.spectrum, p.spectrum); err != nil {
			return
		}

		// Magnitudes and instantaneous frequencies.
		for k := 0; k <= half; k++ {
			re := real(p.spectrum[k])
			im := imag(p.spectrum[k])
			p.magnitudes[k] = math.Hypot(re, im)
			phase := math.Atan2(im, re)

			delta := wrapPhase(phase - p.prevPhase[k] - p.omega[k]*hopF)
			p.instFreqs[k] = p.omega[k] + delta/hopF
			p.prevPhase[k] = phase
		}

		// Bin shifting with linear interpolation.
		for k := 0; k <= half; k++ {
			srcK := float64(k) / ratio
			if srcK >= float64(half) {
				p.shiftedMag[k] = 0
				p.shiftedFreq[k] = p.omega[k]
				continue
			}

			lo := int(srcK)
			frac := srcK - float64(lo)
			hi := lo + 1
			if hi > half {
				hi = half
			}
			p.shiftedMag[k] = p.magnitudes[lo]*(1-frac) + p.magnitudes[hi]*frac
			interpFreq := p.instFreqs[lo]*(1-frac) + p.instFreqs[hi]*frac
			p.shiftedFreq[k] = interpFreq * ratio
		}

		// Per-bin phase accumulation.
		for k := 0; k <= half; k++ {
			p.sumPhase[k] += p.shiftedFreq[k] * hopF
			p.synthesis[k] = complex(
				p.shiftedMag[k]*math.Cos(p.sumPhase[k]),
				p.shiftedMag[k]*math.Sin(p.sumPhase[k]),
			)
		}

		// Mirror for real-valued IFFT.
		p.synthesis[0] = complex(real(p.synthesis[0]), 0)
		p.synthesis[half] = complex(real(p.synthesis[half]), 0)
		for k := 1; k < half; k++ {
			v := p.synthesis[k]
			p.synthesis[vocoderFrameSize-k] = complex(real(v), -imag(v))
		}

		if err := p.plan.Inverse(p.timeFrame, p.synthesis); err != nil {
			return
		}

		for i := 0; i < vocoderFrameSize; i++ {
			w := p.window[i]
			ola[pos+i] += real(p.timeFrame[i]) * w
			norm[pos+i] += w * w
		}
	}

	for i := range buf {
		if norm[i] > vocoderNormFloor {
			buf[i] = ola[i] / norm[i]
		} else {
			buf[i] = ola[i]
		}
	}
}

func wrapPhase(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x - math.Pi
}

package voicefx

import "sync"

// OverlayMixer holds at most one pending overlay clip and mixes it
// additively into processed voice blocks. The buffer and its cursor are
// the only state shared between the control path (which swaps in whole
// buffers) and the audio callback (which consumes block-sized slices), so
// both operations keep the lock for a single bounded critical section:
// a reference swap on Set, a copy-and-advance on MixInto.
type OverlayMixer struct {
	mu     sync.Mutex
	buf    []float32
	cursor int
}

func NewOverlayMixer() *OverlayMixer {
	return &OverlayMixer{}
}

// Set replaces any in-progress overlay with buf and resets the cursor.
// A clip triggered while another is still playing wins immediately; there
// is no queue. Empty buffers clear the overlay.
func (om *OverlayMixer) Set(buf []float32) {
	om.mu.Lock()
	if len(buf) == 0 {
		om.buf = nil
	} else {
		om.buf = buf
	}
	om.cursor = 0
	om.mu.Unlock()
}

// Clear drops the active overlay, if any.
func (om *OverlayMixer) Clear() {
	om.mu.Lock()
	om.buf = nil
	om.cursor = 0
	om.mu.Unlock()
}

// Active reports whether an overlay is mid-playback.
func (om *OverlayMixer) Active() bool {
	om.mu.Lock()
	active := om.buf != nil
	om.mu.Unlock()
	return active
}

// MixInto adds up to len(out) unconsumed overlay samples into out and
// advances the cursor. When the clip runs out mid-block, only the
// available samples are added and the overlay is dropped; the remaining
// output samples are left untouched. Sums are clamped to [-1, 1] so the
// combined signal cannot exceed the device range. Returns the number of
// samples mixed.
func (om *OverlayMixer) MixInto(out []float32) int {
	om.mu.Lock()
	defer om.mu.Unlock()

	if om.buf == nil {
		return 0
	}

	n := len(om.buf) - om.cursor
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		s := out[i] + om.buf[om.cursor+i]
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = s
	}
	om.cursor += n
	if om.cursor >= len(om.buf) {
		om.buf = nil
		om.cursor = 0
	}
	return n
}

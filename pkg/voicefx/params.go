package voicefx

import "sync/atomic"

// ParameterStore holds the pitch-shift amount shared between the control
// path and the audio callback. The value lives in a single atomic word so
// the callback's read is wait-free and can never observe a torn update.
type ParameterStore struct {
	semitones atomic.Int32
	min, max  int32
}

// NewParameterStore creates a store bounded to [min, max] semitones,
// holding initial. initial must already be within bounds.
func NewParameterStore(min, max, initial int) *ParameterStore {
	ps := &ParameterStore{min: int32(min), max: int32(max)}
	ps.semitones.Store(int32(initial))
	return ps
}

// Set updates the pitch-shift amount. Out-of-range values are refused,
// never clamped, so a bad control request cannot silently change the voice.
func (ps *ParameterStore) Set(semitones int) error {
	v := int32(semitones)
	if v < ps.min || v > ps.max {
		return NewPitchRangeError(semitones, int(ps.min), int(ps.max))
	}
	ps.semitones.Store(v)
	return nil
}

// Get returns the current pitch-shift amount. Called once per block from
// the audio callback.
func (ps *ParameterStore) Get() int {
	return int(ps.semitones.Load())
}

// Bounds returns the configured [min, max] semitone range.
func (ps *ParameterStore) Bounds() (min, max int) {
	return int(ps.min), int(ps.max)
}

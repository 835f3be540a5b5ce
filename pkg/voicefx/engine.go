package voicefx

import (
	"strings"
	"sync"
	"sync/atomic"
)

// AudioEngine owns the duplex device stream and wires the signal chain,
// overlay mixer, and parameter store into the per-block callback. The
// callback path does no allocation, no file I/O, and takes no lock that
// the control path can hold for long: the parameter read is a single
// atomic load and the overlay mix is one bounded critical section.
type AudioEngine struct {
	cfg     *EngineConfig
	backend AudioBackend
	chain   *SignalChain
	overlay *OverlayMixer
	params  *ParameterStore

	mu     sync.Mutex
	stream Stream
	state  EngineState

	blocks atomic.Uint64
	logger *FXLogger
}

// NewAudioEngine validates cfg and assembles an engine on the given
// backend. The stream itself is not opened until Start.
func NewAudioEngine(cfg *EngineConfig, backend AudioBackend) (*AudioEngine, error) {
	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, NewConfigError("invalid engine config: " + strings.Join(issues, "; "))
	}

	chain, err := NewSignalChain(cfg)
	if err != nil {
		return nil, WrapError(err, ErrCodeConfigInvalid)
	}

	return &AudioEngine{
		cfg:     cfg,
		backend: backend,
		chain:   chain,
		overlay: NewOverlayMixer(),
		params:  NewParameterStore(cfg.PitchMin, cfg.PitchMax, cfg.InitialPitch),
		state:   EngineIdle,
		logger:  GetGlobalLogger().WithComponent("AudioEngine"),
	}, nil
}

// Params returns the shared parameter store for the control path.
func (e *AudioEngine) Params() *ParameterStore {
	return e.params
}

// Overlay returns the shared overlay mixer for the control path.
func (e *AudioEngine) Overlay() *OverlayMixer {
	return e.overlay
}

// Config returns the engine configuration. It must not be mutated after
// Start.
func (e *AudioEngine) Config() *EngineConfig {
	return e.cfg
}

// State returns the current lifecycle state.
func (e *AudioEngine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// BlocksProcessed returns the number of callback invocations completed.
func (e *AudioEngine) BlocksProcessed() uint64 {
	return e.blocks.Load()
}

// Start opens and starts the duplex stream. Open or start failure is
// fatal to the engine and surfaced to the caller; there is no retry.
func (e *AudioEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == EngineRunning {
		return NewFXError("engine already running", ErrCodeEngineState)
	}

	if err := e.backend.Initialize(); err != nil {
		e.state = EngineError
		return WrapError(err, ErrCodeBackendInit)
	}

	stream, err := e.backend.OpenDuplexStream(
		float64(e.cfg.SampleRate),
		e.cfg.Channels,
		e.cfg.BlockSize,
		e.cfg.DeviceID,
		e.processBlock,
	)
	if err != nil {
		e.state = EngineError
		return WrapError(err, ErrCodeStreamOpen)
	}
	e.stream = stream

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		e.stream = nil
		e.state = EngineError
		return WrapError(err, ErrCodeStreamStart)
	}

	e.state = EngineRunning
	e.logger.WithFields(map[string]interface{}{
		"sample_rate":  e.cfg.SampleRate,
		"block_size":   e.cfg.BlockSize,
		"block_period": e.cfg.BlockPeriodSeconds(),
	}).Info("Audio engine started")
	return nil
}

// processBlock is the real-time callback. It must complete well within
// one block period; the backend reports a dropout otherwise and there is
// no retry path for a missed deadline.
func (e *AudioEngine) processBlock(in, out []float32) {
	n := copy(out, in)
	for i := n; i < len(out); i++ {
		out[i] = 0
	}

	e.chain.Process(out, e.params.Get())
	e.overlay.MixInto(out)
	e.blocks.Add(1)
}

// Stop stops and closes the stream and terminates the backend.
func (e *AudioEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stream != nil {
		if err := e.stream.Stop(); err != nil {
			e.logger.WithError(err).Error("Failed to stop stream")
		}
		if err := e.stream.Close(); err != nil {
			e.logger.WithError(err).Error("Failed to close stream")
		}
		e.stream = nil
	}
	if err := e.backend.Terminate(); err != nil {
		e.logger.WithError(err).Error("Failed to terminate audio backend")
	}

	e.state = EngineStopped
	e.logger.WithField("blocks_processed", e.blocks.Load()).Info("Audio engine stopped")
	return nil
}

package voicefx

import (
	"fmt"
	"sync"
)

// MockAudioBackend implements AudioBackend without touching hardware,
// enabling deterministic engine tests: the test drives the callback by
// calling Tick on the opened stream.
type MockAudioBackend struct {
	mu          sync.Mutex
	initialized bool
	stream      *MockStream
	deviceID    *int

	// Failure injection hooks.
	FailInitialize bool
	FailOpen       bool
	FailStart      bool
}

// NewMockAudioBackend creates a new mock backend
func NewMockAudioBackend() *MockAudioBackend {
	return &MockAudioBackend{}
}

func (m *MockAudioBackend) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInitialize {
		return fmt.Errorf("mock backend: initialize failed")
	}
	m.initialized = true
	return nil
}

func (m *MockAudioBackend) Terminate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
	return nil
}

func (m *MockAudioBackend) OpenDuplexStream(sampleRate float64, channels, blockSize int, deviceID *int, callback ProcessCallback) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil, fmt.Errorf("mock backend not initialized")
	}
	if m.FailOpen {
		return nil, fmt.Errorf("mock backend: open failed")
	}
	m.deviceID = deviceID
	m.stream = &MockStream{
		callback:  callback,
		blockSize: blockSize,
		failStart: m.FailStart,
	}
	return m.stream, nil
}

// Stream returns the most recently opened stream for test inspection.
func (m *MockAudioBackend) Stream() *MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream
}

// RequestedDevice returns the device ID passed to the last open, nil for
// the default device.
func (m *MockAudioBackend) RequestedDevice() *int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deviceID
}

// MockStream simulates a duplex audio stream driven manually by tests.
type MockStream struct {
	mu        sync.Mutex
	callback  ProcessCallback
	blockSize int
	started   bool
	closed    bool
	failStart bool
}

func (s *MockStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStart {
		return fmt.Errorf("mock stream: start failed")
	}
	if s.closed {
		return fmt.Errorf("mock stream: already closed")
	}
	s.started = true
	return nil
}

func (s *MockStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	return nil
}

func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.started = false
	return nil
}

// Started reports whether the stream is running.
func (s *MockStream) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Tick invokes the stream callback once, as the real backend would at the
// block cadence. Returns an error if the stream is not running.
func (s *MockStream) Tick(in, out []float32) error {
	s.mu.Lock()
	started := s.started
	cb := s.callback
	s.mu.Unlock()
	if !started {
		return fmt.Errorf("mock stream: not started")
	}
	cb(in, out)
	return nil
}

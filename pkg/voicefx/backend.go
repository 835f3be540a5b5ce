package voicefx

// ProcessCallback is invoked by the audio backend once per block with the
// raw input block and the output block to fill. It runs on the backend's
// real-time thread and must complete well within one block period.
type ProcessCallback func(in, out []float32)

// AudioBackend abstracts the audio subsystem so the engine can run against
// real hardware in production and a mock in tests.
type AudioBackend interface {
	// Initialize the audio subsystem
	Initialize() error

	// Terminate the audio subsystem
	Terminate() error

	// OpenDuplexStream opens a combined input/output stream that drives
	// callback at a fixed cadence of blockSize/sampleRate seconds. A nil
	// deviceID selects the system default device; otherwise the requested
	// device is validated for duplex use before the stream is opened.
	OpenDuplexStream(sampleRate float64, channels, blockSize int, deviceID *int, callback ProcessCallback) (Stream, error)
}

// Stream abstracts a running audio stream.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

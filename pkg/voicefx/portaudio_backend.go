package voicefx

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioBackend implements AudioBackend using the real PortAudio library
type PortAudioBackend struct {
	initialized bool
}

// NewPortAudioBackend creates a new PortAudio backend
func NewPortAudioBackend() *PortAudioBackend {
	return &PortAudioBackend{}
}

// Initialize initializes the PortAudio subsystem
func (p *PortAudioBackend) Initialize() error {
	if p.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	p.initialized = true
	return nil
}

// Terminate terminates the PortAudio subsystem
func (p *PortAudioBackend) Terminate() error {
	if !p.initialized {
		return nil
	}
	err := portaudio.Terminate()
	p.initialized = false
	return err
}

// OpenDuplexStream opens a duplex stream, on the default device when
// deviceID is nil and on the requested device otherwise. PortAudio invokes
// the callback on its own high-priority thread once per block.
func (p *PortAudioBackend) OpenDuplexStream(sampleRate float64, channels, blockSize int, deviceID *int, callback ProcessCallback) (Stream, error) {
	if !p.initialized {
		return nil, fmt.Errorf("PortAudio not initialized")
	}

	paCallback := func(in, out []float32) {
		callback(in, out)
	}

	var (
		stream *portaudio.Stream
		err    error
	)
	if deviceID == nil {
		stream, err = portaudio.OpenDefaultStream(
			channels, // input channels
			channels, // output channels
			sampleRate,
			blockSize,
			paCallback,
		)
	} else {
		stream, err = p.openOnDevice(sampleRate, channels, blockSize, *deviceID, paCallback)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open duplex stream: %w", err)
	}

	return &portAudioStream{stream: stream}, nil
}

// openOnDevice validates the requested device for duplex use and opens the
// stream on it for both capture and playback.
func (p *PortAudioBackend) openOnDevice(sampleRate float64, channels, blockSize, deviceID int, callback func(in, out []float32)) (*portaudio.Stream, error) {
	dm := NewDeviceManager()
	if err := dm.Initialize(); err != nil {
		return nil, err
	}
	defer dm.Cleanup()

	if err := dm.ValidateDuplexDevice(deviceID, channels, sampleRate); err != nil {
		return nil, err
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	dev := devices[deviceID]

	params := portaudio.LowLatencyParameters(dev, dev)
	params.Input.Channels = channels
	params.Output.Channels = channels
	params.SampleRate = sampleRate
	params.FramesPerBuffer = blockSize

	return portaudio.OpenStream(params, callback)
}

type portAudioStream struct {
	stream *portaudio.Stream
}

func (s *portAudioStream) Start() error {
	if s.stream == nil {
		return fmt.Errorf("stream is nil")
	}
	return s.stream.Start()
}

func (s *portAudioStream) Stop() error {
	if s.stream == nil {
		return fmt.Errorf("stream is nil")
	}
	return s.stream.Stop()
}

func (s *portAudioStream) Close() error {
	if s.stream == nil {
		return fmt.Errorf("stream is nil")
	}
	return s.stream.Close()
}

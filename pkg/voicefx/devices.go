package voicefx

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Device describes one audio device visible to PortAudio.
type Device struct {
	ID                int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	IsDefault         bool
	HostAPI           string
}

// IsDuplex reports whether the device can both capture and play back.
func (d Device) IsDuplex() bool {
	return d.MaxInputChannels > 0 && d.MaxOutputChannels > 0
}

// DeviceManager enumerates and validates audio devices.
type DeviceManager struct {
	mu      sync.RWMutex
	devices []Device
	logger  *FXLogger
}

func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		logger: GetGlobalLogger().WithComponent("DeviceManager"),
	}
}

// Initialize brings up PortAudio and snapshots the device list.
func (dm *DeviceManager) Initialize() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return WrapError(err, ErrCodeBackendInit)
	}
	if err := dm.refreshDevices(); err != nil {
		return WrapError(err, ErrCodeDevice)
	}
	dm.logger.WithField("device_count", len(dm.devices)).Debug("Device list refreshed")
	return nil
}

// Cleanup tears down PortAudio.
func (dm *DeviceManager) Cleanup() {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := portaudio.Terminate(); err != nil {
		dm.logger.WithError(err).Error("Failed to terminate PortAudio")
	}
}

func (dm *DeviceManager) refreshDevices() error {
	dm.devices = dm.devices[:0]

	defaultInput, err := portaudio.DefaultInputDevice()
	if err != nil {
		dm.logger.WithError(err).Warn("No default input device")
	}
	defaultOutput, err := portaudio.DefaultOutputDevice()
	if err != nil {
		dm.logger.WithError(err).Warn("No default output device")
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return err
	}

	for i, dev := range devices {
		hostAPIName := "Unknown"
		if dev.HostApi != nil {
			hostAPIName = dev.HostApi.Name
		}
		device := Device{
			ID:                i,
			Name:              dev.Name,
			MaxInputChannels:  dev.MaxInputChannels,
			MaxOutputChannels: dev.MaxOutputChannels,
			DefaultSampleRate: dev.DefaultSampleRate,
			HostAPI:           hostAPIName,
		}
		if (defaultInput != nil && dev == defaultInput) || (defaultOutput != nil && dev == defaultOutput) {
			device.IsDefault = true
		}
		dm.devices = append(dm.devices, device)
	}
	return nil
}

// Devices returns a copy of the device list.
func (dm *DeviceManager) Devices() []Device {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	devices := make([]Device, len(dm.devices))
	copy(devices, dm.devices)
	return devices
}

// DeviceByID returns a device by its ID.
func (dm *DeviceManager) DeviceByID(id int) (*Device, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	for _, device := range dm.devices {
		if device.ID == id {
			return &device, nil
		}
	}
	return nil, NewDeviceError(fmt.Sprintf("device with ID %d not found", id))
}

// ValidateDuplexDevice checks that the device can run the engine's duplex
// stream: at least `channels` channels in each direction.
func (dm *DeviceManager) ValidateDuplexDevice(deviceID, channels int, sampleRate float64) error {
	device, err := dm.DeviceByID(deviceID)
	if err != nil {
		return err
	}

	if device.MaxInputChannels < channels {
		return NewDeviceError(fmt.Sprintf("device %q supports max %d input channels, need %d",
			device.Name, device.MaxInputChannels, channels))
	}
	if device.MaxOutputChannels < channels {
		return NewDeviceError(fmt.Sprintf("device %q supports max %d output channels, need %d",
			device.Name, device.MaxOutputChannels, channels))
	}

	if sampleRate > 0 && device.DefaultSampleRate > 0 {
		ratio := sampleRate / device.DefaultSampleRate
		if ratio < 0.5 || ratio > 2.0 {
			dm.logger.WithFields(map[string]interface{}{
				"device_name":           device.Name,
				"device_sample_rate":    device.DefaultSampleRate,
				"requested_sample_rate": sampleRate,
			}).Warn("Sample rate significantly different from device default")
		}
	}
	return nil
}

// ListDevices is a convenience that initializes, lists, and cleans up.
func ListDevices() ([]Device, error) {
	dm := NewDeviceManager()
	if err := dm.Initialize(); err != nil {
		return nil, err
	}
	defer dm.Cleanup()
	return dm.Devices(), nil
}

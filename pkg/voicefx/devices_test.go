package voicefx

import "testing"

func testDeviceManager() *DeviceManager {
	return &DeviceManager{
		devices: []Device{
			{ID: 0, Name: "Built-in Microphone", MaxInputChannels: 2, MaxOutputChannels: 0, DefaultSampleRate: 44100},
			{ID: 1, Name: "Built-in Output", MaxInputChannels: 0, MaxOutputChannels: 2, DefaultSampleRate: 44100},
			{ID: 2, Name: "USB Headset", MaxInputChannels: 1, MaxOutputChannels: 2, DefaultSampleRate: 48000, IsDefault: true},
		},
		logger: GetGlobalLogger().WithComponent("DeviceManager"),
	}
}

func TestDevice_IsDuplex(t *testing.T) {
	tests := []struct {
		name   string
		device Device
		want   bool
	}{
		{"input only", Device{MaxInputChannels: 2}, false},
		{"output only", Device{MaxOutputChannels: 2}, false},
		{"both", Device{MaxInputChannels: 1, MaxOutputChannels: 2}, true},
		{"neither", Device{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.IsDuplex(); got != tt.want {
				t.Errorf("IsDuplex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeviceManager_DeviceByID(t *testing.T) {
	dm := testDeviceManager()

	device, err := dm.DeviceByID(2)
	if err != nil {
		t.Fatalf("DeviceByID(2) failed: %v", err)
	}
	if device.Name != "USB Headset" {
		t.Errorf("DeviceByID(2) = %q, want USB Headset", device.Name)
	}

	_, err = dm.DeviceByID(99)
	if err == nil {
		t.Fatal("DeviceByID(99) succeeded, want error")
	}
	if !IsErrorCode(err, ErrCodeDevice) {
		t.Errorf("error = %v, want code %s", err, ErrCodeDevice)
	}
}

func TestDeviceManager_ValidateDuplexDevice(t *testing.T) {
	dm := testDeviceManager()

	tests := []struct {
		name     string
		deviceID int
		wantErr  bool
	}{
		{"duplex headset", 2, false},
		{"capture-only device", 0, true},
		{"playback-only device", 1, true},
		{"unknown device", 99, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dm.ValidateDuplexDevice(tt.deviceID, 1, 44100)
			if tt.wantErr {
				if err == nil {
					t.Fatal("validation succeeded, want error")
				}
				if !IsErrorCode(err, ErrCodeDevice) {
					t.Errorf("error = %v, want code %s", err, ErrCodeDevice)
				}
				return
			}
			if err != nil {
				t.Fatalf("validation failed: %v", err)
			}
		})
	}
}

func TestDeviceManager_ValidateChannelCount(t *testing.T) {
	dm := testDeviceManager()

	// The headset has one input channel; asking for two must fail.
	err := dm.ValidateDuplexDevice(2, 2, 44100)
	if err == nil {
		t.Fatal("validation with too many channels succeeded")
	}
	if !IsErrorCode(err, ErrCodeDevice) {
		t.Errorf("error = %v, want code %s", err, ErrCodeDevice)
	}
}

package voicefx

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EngineConfig holds the fixed stream and processing parameters. Sample
// rate, channel count, and block size are negotiated once at engine start
// and never change for the lifetime of a stream.
type EngineConfig struct {
	SampleRate     int     `json:"sample_rate"`
	Channels       int     `json:"channels"`
	BlockSize      int     `json:"block_size"`
	HighPassCutoff float64 `json:"high_pass_cutoff"`
	HighPassOrder  int     `json:"high_pass_order"`
	GateThreshold  float64 `json:"gate_threshold"`
	PitchMin       int     `json:"pitch_min"`
	PitchMax       int     `json:"pitch_max"`
	InitialPitch   int     `json:"initial_pitch"`
	DeviceID       *int    `json:"audio_device_id,omitempty"`
	DebugAudio     bool    `json:"debug_audio"`
}

func NewEngineConfig() *EngineConfig {
	c := &EngineConfig{
		SampleRate:     44100,
		Channels:       1,
		BlockSize:      2048,
		HighPassCutoff: 80.0,
		HighPassOrder:  4,
		GateThreshold:  0.01,
		PitchMin:       -12,
		PitchMax:       0,
		InitialPitch:   -7,
	}
	c.loadFromEnv()
	return c
}

func (c *EngineConfig) loadFromEnv() {
	// Load .env if exists
	_ = godotenv.Load()

	if v := os.Getenv("VOICEFX_SAMPLE_RATE"); v != "" {
		if rate, err := strconv.Atoi(v); err == nil {
			c.SampleRate = rate
		}
	}
	if v := os.Getenv("VOICEFX_BLOCK_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.BlockSize = size
		}
	}
	if v := os.Getenv("VOICEFX_GATE_THRESHOLD"); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.GateThreshold = threshold
		}
	}
	if v := os.Getenv("VOICEFX_INITIAL_PITCH"); v != "" {
		if pitch, err := strconv.Atoi(v); err == nil {
			c.InitialPitch = pitch
		}
	}
	if v := os.Getenv("VOICEFX_AUDIO_DEVICE_ID"); v != "" {
		if deviceID, err := strconv.Atoi(v); err == nil {
			c.DeviceID = &deviceID
		}
	}
	c.DebugAudio = os.Getenv("VOICEFX_DEBUG_AUDIO") == "true"
}

// BlockPeriodSeconds returns the hard deadline for one callback invocation.
func (c *EngineConfig) BlockPeriodSeconds() float64 {
	return float64(c.BlockSize) / float64(c.SampleRate)
}

// Validate returns list of issues
func (c *EngineConfig) Validate() []string {
	issues := []string{}

	if c.SampleRate <= 0 {
		issues = append(issues, fmt.Sprintf("invalid sample rate: %d", c.SampleRate))
	}
	if c.Channels != 1 {
		issues = append(issues, fmt.Sprintf("only mono processing is supported, got %d channels", c.Channels))
	}
	if c.BlockSize <= 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		issues = append(issues, fmt.Sprintf("block size must be a positive power of two: %d", c.BlockSize))
	}
	if c.HighPassCutoff <= 0 || c.HighPassCutoff >= float64(c.SampleRate)/2 {
		issues = append(issues, fmt.Sprintf("high-pass cutoff %.1f Hz outside (0, nyquist)", c.HighPassCutoff))
	}
	if c.HighPassOrder <= 0 {
		issues = append(issues, fmt.Sprintf("invalid high-pass order: %d", c.HighPassOrder))
	}
	if c.GateThreshold < 0 || c.GateThreshold >= 1 {
		issues = append(issues, fmt.Sprintf("gate threshold %.3f outside [0, 1)", c.GateThreshold))
	}
	if c.PitchMin > c.PitchMax {
		issues = append(issues, fmt.Sprintf("pitch bounds inverted: [%d, %d]", c.PitchMin, c.PitchMax))
	}
	if c.InitialPitch < c.PitchMin || c.InitialPitch > c.PitchMax {
		issues = append(issues, fmt.Sprintf("initial pitch %d outside [%d, %d]", c.InitialPitch, c.PitchMin, c.PitchMax))
	}

	return issues
}

// ControlConfig holds the control server settings.
type ControlConfig struct {
	ListenAddr   string `json:"listen_addr"`
	UseTokenAuth bool   `json:"use_token_auth"`
	AuthSecret   string `json:"-"`
	DebugControl bool   `json:"debug_control"`
}

func NewControlConfig() *ControlConfig {
	c := &ControlConfig{
		ListenAddr: "127.0.0.1:8790",
	}
	c.loadFromEnv()
	return c
}

func (c *ControlConfig) loadFromEnv() {
	_ = godotenv.Load()

	if addr := os.Getenv("VOICEFX_CONTROL_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if secret := os.Getenv("VOICEFX_CONTROL_SECRET"); secret != "" {
		c.AuthSecret = secret
		c.UseTokenAuth = true
	}
	c.DebugControl = os.Getenv("VOICEFX_DEBUG_CONTROL") == "true"
}

// Validate returns list of issues
func (c *ControlConfig) Validate() []string {
	issues := []string{}

	if c.ListenAddr == "" {
		issues = append(issues, "control listen address not set")
	}
	if c.UseTokenAuth && c.AuthSecret == "" {
		issues = append(issues, "token auth enabled but VOICEFX_CONTROL_SECRET not set")
	}

	return issues
}

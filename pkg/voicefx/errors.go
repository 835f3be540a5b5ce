package voicefx

import (
	"fmt"
	"strings"
	"time"
)

// Error codes as constants
const (
	ErrCodeBackendInit       = "BACKEND_INIT_ERROR"
	ErrCodeStreamOpen        = "STREAM_OPEN_ERROR"
	ErrCodeStreamStart       = "STREAM_START_ERROR"
	ErrCodeStreamStop        = "STREAM_STOP_ERROR"
	ErrCodeEngineState       = "ENGINE_STATE_ERROR"
	ErrCodePitchRange        = "PITCH_RANGE_ERROR"
	ErrCodeDecode            = "DECODE_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeSoundboard        = "SOUNDBOARD_ERROR"
	ErrCodeClipNotFound      = "CLIP_NOT_FOUND"
	ErrCodeControl           = "CONTROL_ERROR"
	ErrCodeAuthFailed        = "AUTH_FAILED"
	ErrCodeConfigInvalid     = "CONFIG_INVALID"
	ErrCodeDevice            = "AUDIO_DEVICE_ERROR"
	ErrCodeUnknown           = "UNKNOWN_ERROR"
)

// FXError represents an error with an attached code and context details
type FXError struct {
	Message   string
	Code      string
	Details   map[string]interface{}
	Timestamp time.Time
}

func NewFXError(message, code string) *FXError {
	return &FXError{
		Message:   message,
		Code:      code,
		Details:   make(map[string]interface{}),
		Timestamp: time.Now(),
	}
}

func (e *FXError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)", e.Message, e.Code))
	if len(e.Details) > 0 {
		sb.WriteString(": ")
		for k, v := range e.Details {
			sb.WriteString(fmt.Sprintf("%s=%v; ", k, v))
		}
	}
	return strings.TrimSuffix(sb.String(), "; ")
}

// AddDetail attaches a key/value pair to the error and returns it for chaining.
func (e *FXError) AddDetail(key string, value interface{}) *FXError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetDetail returns a previously attached detail value.
func (e *FXError) GetDetail(key string) (interface{}, bool) {
	if e.Details == nil {
		return nil, false
	}
	value, exists := e.Details[key]
	return value, exists
}

// Specific error creators with common codes
func NewStreamError(message string) *FXError {
	return NewFXError(message, ErrCodeStreamOpen)
}

func NewPitchRangeError(value, min, max int) *FXError {
	return NewFXError(fmt.Sprintf("pitch shift %d semitones out of range", value), ErrCodePitchRange).
		AddDetail("value", value).
		AddDetail("min", min).
		AddDetail("max", max)
}

func NewDecodeError(message, path string) *FXError {
	return NewFXError(message, ErrCodeDecode).AddDetail("path", path)
}

func NewUnsupportedFormatError(ext string) *FXError {
	return NewFXError(fmt.Sprintf("unsupported audio format %q", ext), ErrCodeUnsupportedFormat).
		AddDetail("extension", ext)
}

func NewSoundboardError(message string) *FXError {
	return NewFXError(message, ErrCodeSoundboard)
}

func NewClipNotFoundError(name string) *FXError {
	return NewFXError(fmt.Sprintf("clip %q not found", name), ErrCodeClipNotFound).
		AddDetail("clip", name)
}

func NewControlError(message string) *FXError {
	return NewFXError(message, ErrCodeControl)
}

func NewAuthError(message string) *FXError {
	return NewFXError(message, ErrCodeAuthFailed)
}

func NewConfigError(message string) *FXError {
	return NewFXError(message, ErrCodeConfigInvalid)
}

func NewDeviceError(message string) *FXError {
	return NewFXError(message, ErrCodeDevice)
}

// WrapError wraps any error as an FXError with the given code.
func WrapError(err error, code string) *FXError {
	if err == nil {
		return nil
	}
	if fxErr, ok := err.(*FXError); ok {
		return fxErr
	}
	return NewFXError(err.Error(), code)
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code string) bool {
	fxErr, ok := err.(*FXError)
	if !ok {
		return false
	}
	return fxErr.Code == code
}

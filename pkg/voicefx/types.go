package voicefx

// EngineState enum
type EngineState string

const (
	EngineIdle    EngineState = "idle"
	EngineRunning EngineState = "running"
	EngineStopped EngineState = "stopped"
	EngineError   EngineState = "error"
)

// ClipInfo describes one soundboard clip on disk.
type ClipInfo struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

// ControlRequest is the JSON command frame accepted by the control server.
type ControlRequest struct {
	Command string `json:"command"`
	Value   *int   `json:"value,omitempty"`
	Clip    string `json:"clip,omitempty"`
}

// ControlResponse is the JSON reply frame sent by the control server.
type ControlResponse struct {
	OK      bool       `json:"ok"`
	Error   string     `json:"error,omitempty"`
	Code    string     `json:"code,omitempty"`
	Pitch   *int       `json:"pitch,omitempty"`
	Overlay *bool      `json:"overlay_active,omitempty"`
	Clips   []ClipInfo `json:"clips,omitempty"`
}

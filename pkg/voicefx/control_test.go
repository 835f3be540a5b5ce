package voicefx

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

type controlFixture struct {
	engine *AudioEngine
	board  *Soundboard
	server *httptest.Server
	conn   *websocket.Conn
}

func newControlFixture(t *testing.T, cfg *ControlConfig) *controlFixture {
	t.Helper()

	engine, err := NewAudioEngine(NewEngineConfig(), NewMockAudioBackend())
	if err != nil {
		t.Fatalf("NewAudioEngine failed: %v", err)
	}
	board, err := NewSoundboard(t.TempDir())
	if err != nil {
		t.Fatalf("NewSoundboard failed: %v", err)
	}
	if cfg == nil {
		cfg = NewControlConfig()
	}

	server := httptest.NewServer(NewControlServer(cfg, engine, board).Handler())
	t.Cleanup(server.Close)

	return &controlFixture{engine: engine, board: board, server: server}
}

func (fx *controlFixture) wsURL(query string) string {
	return "ws" + strings.TrimPrefix(fx.server.URL, "http") + "/control" + query
}

func (fx *controlFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(fx.wsURL(""), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	fx.conn = conn
	return conn
}

func (fx *controlFixture) roundTrip(t *testing.T, req ControlRequest) ControlResponse {
	t.Helper()
	if err := fx.conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var resp ControlResponse
	if err := fx.conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return resp
}

func intPtr(v int) *int { return &v }

func TestControlServer_SetPitch(t *testing.T) {
	fx := newControlFixture(t, nil)
	fx.dial(t)

	resp := fx.roundTrip(t, ControlRequest{Command: "set_pitch", Value: intPtr(-5)})
	if !resp.OK {
		t.Fatalf("set_pitch failed: %s (%s)", resp.Error, resp.Code)
	}
	if resp.Pitch == nil || *resp.Pitch != -5 {
		t.Errorf("response pitch = %v, want -5", resp.Pitch)
	}
	if got := fx.engine.Params().Get(); got != -5 {
		t.Errorf("engine pitch = %d, want -5", got)
	}
}

func TestControlServer_SetPitchOutOfRange(t *testing.T) {
	fx := newControlFixture(t, nil)
	fx.dial(t)

	before := fx.engine.Params().Get()
	resp := fx.roundTrip(t, ControlRequest{Command: "set_pitch", Value: intPtr(-20)})
	if resp.OK {
		t.Fatal("out-of-range set_pitch succeeded")
	}
	if resp.Code != ErrCodePitchRange {
		t.Errorf("response code = %s, want %s", resp.Code, ErrCodePitchRange)
	}
	if got := fx.engine.Params().Get(); got != before {
		t.Errorf("engine pitch changed to %d by rejected request", got)
	}
}

func TestControlServer_SetPitchMissingValue(t *testing.T) {
	fx := newControlFixture(t, nil)
	fx.dial(t)

	resp := fx.roundTrip(t, ControlRequest{Command: "set_pitch"})
	if resp.OK || resp.Code != ErrCodeControl {
		t.Errorf("response = %+v, want control error", resp)
	}
}

func TestControlServer_PlayAndStop(t *testing.T) {
	fx := newControlFixture(t, nil)

	path := filepath.Join(t.TempDir(), "horn.wav")
	writeWAV(t, path, 44100, sineBlock(440, 44100, 4410, 0, 0.5))
	if _, err := fx.board.Add(path); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	fx.dial(t)

	resp := fx.roundTrip(t, ControlRequest{Command: "play", Clip: "horn.wav"})
	if !resp.OK {
		t.Fatalf("play failed: %s (%s)", resp.Error, resp.Code)
	}
	if resp.Overlay == nil || !*resp.Overlay {
		t.Error("play response did not report overlay active")
	}
	if !fx.engine.Overlay().Active() {
		t.Error("overlay not active after play")
	}

	resp = fx.roundTrip(t, ControlRequest{Command: "stop"})
	if !resp.OK {
		t.Fatalf("stop failed: %s (%s)", resp.Error, resp.Code)
	}
	if fx.engine.Overlay().Active() {
		t.Error("overlay still active after stop")
	}
}

func TestControlServer_PlayMissingClip(t *testing.T) {
	fx := newControlFixture(t, nil)
	fx.dial(t)

	resp := fx.roundTrip(t, ControlRequest{Command: "play", Clip: "nope.wav"})
	if resp.OK {
		t.Fatal("play of missing clip succeeded")
	}
	if resp.Code != ErrCodeClipNotFound {
		t.Errorf("response code = %s, want %s", resp.Code, ErrCodeClipNotFound)
	}
}

func TestControlServer_ListAndStatus(t *testing.T) {
	fx := newControlFixture(t, nil)

	path := filepath.Join(t.TempDir(), "horn.wav")
	writeWAV(t, path, 44100, sineBlock(440, 44100, 2205, 0, 0.5))
	if _, err := fx.board.Add(path); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	fx.dial(t)

	resp := fx.roundTrip(t, ControlRequest{Command: "list"})
	if !resp.OK {
		t.Fatalf("list failed: %s (%s)", resp.Error, resp.Code)
	}
	if len(resp.Clips) != 1 || resp.Clips[0].Name != "horn.wav" {
		t.Errorf("list returned %+v, want horn.wav", resp.Clips)
	}

	resp = fx.roundTrip(t, ControlRequest{Command: "status"})
	if !resp.OK {
		t.Fatalf("status failed: %s (%s)", resp.Error, resp.Code)
	}
	if resp.Pitch == nil || *resp.Pitch != fx.engine.Params().Get() {
		t.Errorf("status pitch = %v, want %d", resp.Pitch, fx.engine.Params().Get())
	}
	if resp.Overlay == nil || *resp.Overlay {
		t.Errorf("status overlay = %v, want inactive", resp.Overlay)
	}
}

func TestControlServer_UnknownCommand(t *testing.T) {
	fx := newControlFixture(t, nil)
	fx.dial(t)

	resp := fx.roundTrip(t, ControlRequest{Command: "self_destruct"})
	if resp.OK || resp.Code != ErrCodeControl {
		t.Errorf("response = %+v, want control error", resp)
	}
}

func TestControlServer_TokenAuth(t *testing.T) {
	cfg := NewControlConfig()
	cfg.UseTokenAuth = true
	cfg.AuthSecret = "a-test-secret-of-adequate-length"
	fx := newControlFixture(t, cfg)

	// No token: the handshake itself must be refused.
	_, _, err := websocket.DefaultDialer.Dial(fx.wsURL(""), nil)
	if err == nil {
		t.Fatal("dial without token succeeded")
	}

	// Garbage token: refused as well.
	_, _, err = websocket.DefaultDialer.Dial(fx.wsURL("?token=garbage"), nil)
	if err == nil {
		t.Fatal("dial with garbage token succeeded")
	}

	token, err := GenerateControlToken(cfg.AuthSecret)
	if err != nil {
		t.Fatalf("GenerateControlToken failed: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(fx.wsURL("?token="+token), nil)
	if err != nil {
		t.Fatalf("dial with valid token failed: %v", err)
	}
	defer conn.Close()
	fx.conn = conn

	resp := fx.roundTrip(t, ControlRequest{Command: "status"})
	if !resp.OK {
		t.Errorf("status over authenticated connection failed: %s", resp.Error)
	}
}

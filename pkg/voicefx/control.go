package voicefx

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// ControlServer exposes the engine's control path over a WebSocket: pitch
// changes, clip playback, and status queries arrive as JSON command
// frames. It talks to the engine only through ParameterStore and
// OverlayMixer, the same thin seams the callback path uses, so nothing
// here can stall the real-time context.
type ControlServer struct {
	cfg    *ControlConfig
	engine *AudioEngine
	board  *Soundboard

	upgrader websocket.Upgrader
	server   *http.Server
	logger   *FXLogger
}

func NewControlServer(cfg *ControlConfig, engine *AudioEngine, board *Soundboard) *ControlServer {
	return &ControlServer{
		cfg:    cfg,
		engine: engine,
		board:  board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: GetGlobalLogger().WithComponent("ControlServer"),
	}
}

// Handler returns the HTTP handler serving the control endpoint, exposed
// separately so tests can mount it on an httptest server.
func (cs *ControlServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/control", cs.handleControl)
	return mux
}

// Start begins listening on the configured address. The returned error
// covers the listen itself; serve errors after that are logged.
func (cs *ControlServer) Start() error {
	ln, err := net.Listen("tcp", cs.cfg.ListenAddr)
	if err != nil {
		return NewControlError("listen on " + cs.cfg.ListenAddr + " failed: " + err.Error())
	}

	cs.server = &http.Server{Handler: cs.Handler()}
	go func() {
		if err := cs.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			cs.logger.WithError(err).Error("Control server stopped")
		}
	}()

	cs.logger.WithField("addr", ln.Addr().String()).Info("Control server listening")
	return nil
}

// Shutdown stops accepting connections and closes the listener.
func (cs *ControlServer) Shutdown(ctx context.Context) error {
	if cs.server == nil {
		return nil
	}
	return cs.server.Shutdown(ctx)
}

func (cs *ControlServer) handleControl(w http.ResponseWriter, r *http.Request) {
	if err := cs.authorize(r); err != nil {
		cs.logger.WithError(err).Warn("Rejected control connection")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := cs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cs.logger.WithError(err).Error("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	if cs.cfg.DebugControl {
		cs.logger.WithField("remote", conn.RemoteAddr().String()).Debug("Control client connected")
	}

	for {
		var req ControlRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cs.logger.WithError(err).Warn("Control connection dropped")
			}
			return
		}

		resp := cs.dispatch(&req)
		if err := conn.WriteJSON(resp); err != nil {
			cs.logger.WithError(err).Warn("Failed to write control response")
			return
		}
	}
}

func (cs *ControlServer) authorize(r *http.Request) error {
	if !cs.cfg.UseTokenAuth {
		return nil
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		auth := r.Header.Get("Authorization")
		token = strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			token = ""
		}
	}
	if token == "" {
		return NewAuthError("missing control token")
	}
	return ValidateControlToken(cs.cfg.AuthSecret, token)
}

func (cs *ControlServer) dispatch(req *ControlRequest) ControlResponse {
	switch req.Command {
	case "set_pitch":
		if req.Value == nil {
			return errorResponse(NewControlError("set_pitch requires a value"))
		}
		if err := cs.engine.Params().Set(*req.Value); err != nil {
			return errorResponse(err)
		}
		pitch := cs.engine.Params().Get()
		return ControlResponse{OK: true, Pitch: &pitch}

	case "play":
		if req.Clip == "" {
			return errorResponse(NewControlError("play requires a clip name"))
		}
		buf, err := cs.board.Load(req.Clip, cs.engine.Config().SampleRate)
		if err != nil {
			return errorResponse(err)
		}
		cs.engine.Overlay().Set(buf)
		active := true
		return ControlResponse{OK: true, Overlay: &active}

	case "stop":
		cs.engine.Overlay().Clear()
		active := false
		return ControlResponse{OK: true, Overlay: &active}

	case "list":
		clips, err := cs.board.List()
		if err != nil {
			return errorResponse(err)
		}
		return ControlResponse{OK: true, Clips: clips}

	case "status":
		pitch := cs.engine.Params().Get()
		active := cs.engine.Overlay().Active()
		return ControlResponse{OK: true, Pitch: &pitch, Overlay: &active}

	default:
		return errorResponse(NewControlError("unknown command: " + req.Command))
	}
}

func errorResponse(err error) ControlResponse {
	resp := ControlResponse{OK: false, Error: err.Error(), Code: ErrCodeUnknown}
	if fxErr, ok := err.(*FXError); ok {
		resp.Error = fxErr.Message
		resp.Code = fxErr.Code
	}
	return resp
}

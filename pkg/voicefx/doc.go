// Package voicefx is a real-time voice changer with a soundboard overlay.
//
// # Overview
//
// The engine captures a live microphone signal, runs each fixed-size
// block through a DSP chain (high-pass filter, phase-vocoder pitch shift,
// peak-normalized power-law compression, noise gate), mixes in at most
// one pending soundboard clip, and writes the result to the output device
// with bounded per-block latency.
//
// Two execution contexts exist. The audio callback runs on the backend's
// real-time thread once per block and must finish well within one block
// period. The control path (WebSocket server, CLI) runs on ordinary
// goroutines and touches the callback's world through exactly two seams:
// ParameterStore (an atomic word holding the pitch-shift amount) and
// OverlayMixer (a mutex with reference-swap / copy-and-advance critical
// sections).
//
// # Quick Start
//
//	cfg := voicefx.NewEngineConfig()
//	engine, err := voicefx.NewAudioEngine(cfg, voicefx.NewPortAudioBackend())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := engine.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Stop()
//
//	engine.Params().Set(-7) // deepen the voice
//
//	board, _ := voicefx.NewSoundboard("")
//	if buf, err := board.Load("horn.wav", cfg.SampleRate); err == nil {
//		engine.Overlay().Set(buf)
//	}
//
// # Configuration
//
// EngineConfig fixes the stream parameters (sample rate, mono channel,
// block size) at start; they are never renegotiated mid-stream.
// ControlConfig configures the WebSocket control server, including
// optional JWT bearer-token auth. Both load overrides from VOICEFX_*
// environment variables and a .env file.
package voicefx

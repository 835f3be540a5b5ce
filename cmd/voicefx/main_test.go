package main

import (
	"testing"

	"github.com/rojolang/voicefx-go/pkg/voicefx"
)

func TestApplyPitchFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"flag absent keeps default", []string{}, -7},
		{"explicit zero selects unshifted voice", []string{"--pitch", "0"}, 0},
		{"short flag", []string{"-p", "-5"}, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initialPitch = 0
			cmd := runCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags(%v) failed: %v", tt.args, err)
			}

			cfg := &voicefx.EngineConfig{InitialPitch: -7}
			applyPitchFlag(cmd, cfg)
			if cfg.InitialPitch != tt.want {
				t.Errorf("InitialPitch = %d, want %d", cfg.InitialPitch, tt.want)
			}
		})
	}
}

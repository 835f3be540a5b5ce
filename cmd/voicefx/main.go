package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rojolang/voicefx-go/pkg/voicefx"
)

var (
	verbose       bool
	soundboardDir string
	controlAddr   string
	initialPitch  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "voicefx",
		Short: "VoiceFX real-time voice changer",
		Long:  "A real-time voice changer with a soundboard overlay and a WebSocket control surface",
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&soundboardDir, "soundboard-dir", "", "Soundboard clip directory (default ~/.voicefx_soundboard)")

	// Add subcommands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		voicefx.GetGlobalLogger().WithError(err).Fatal("CLI execution failed")
	}
}

func setupLogger() {
	level := "info"
	if verbose {
		level = "debug"
	}
	voicefx.SetGlobalLogger(voicefx.NewFXLogger(&voicefx.LogConfig{
		Level:  level,
		Pretty: true,
		Output: os.Stdout,
	}))
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the voice changer",
		Long:  "Start the audio engine and the control server, and run until interrupted",
		Run: func(cmd *cobra.Command, args []string) {
			setupLogger()
			logger := voicefx.GetGlobalLogger()

			engineCfg := voicefx.NewEngineConfig()
			applyPitchFlag(cmd, engineCfg)
			controlCfg := voicefx.NewControlConfig()
			if controlAddr != "" {
				controlCfg.ListenAddr = controlAddr
			}
			if issues := controlCfg.Validate(); len(issues) > 0 {
				for _, issue := range issues {
					logger.Warn(issue)
				}
			}

			board, err := voicefx.NewSoundboard(soundboardDir)
			if err != nil {
				logger.WithError(err).Fatal("Failed to open soundboard")
			}

			engine, err := voicefx.NewAudioEngine(engineCfg, voicefx.NewPortAudioBackend())
			if err != nil {
				logger.WithError(err).Fatal("Failed to create audio engine")
			}
			if err := engine.Start(); err != nil {
				logger.WithError(err).Fatal("Failed to start audio engine")
			}
			defer engine.Stop()

			control := voicefx.NewControlServer(controlCfg, engine, board)
			if err := control.Start(); err != nil {
				logger.WithError(err).Fatal("Failed to start control server")
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				control.Shutdown(ctx)
			}()

			fmt.Printf("VoiceFX running: pitch %d semitones, control on %s\n",
				engine.Params().Get(), controlCfg.ListenAddr)
			fmt.Println("Press Ctrl+C to stop.")

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			fmt.Println("\nShutting down...")
		},
	}

	cmd.Flags().StringVar(&controlAddr, "control-addr", "", "Control server listen address")
	cmd.Flags().IntVarP(&initialPitch, "pitch", "p", 0, "Initial pitch shift in semitones (negative deepens)")
	return cmd
}

// applyPitchFlag overrides the configured initial pitch only when the flag
// was given on the command line, so `-p 0` selects an unshifted voice
// rather than falling back to the default.
func applyPitchFlag(cmd *cobra.Command, cfg *voicefx.EngineConfig) {
	if cmd.Flags().Changed("pitch") {
		cfg.InitialPitch = initialPitch
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [audio-file]",
		Short: "Add a clip to the soundboard",
		Long:  "Validate and copy an audio file (.wav, .mp3, .ogg, .flac) into the soundboard directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setupLogger()

			board, err := voicefx.NewSoundboard(soundboardDir)
			if err != nil {
				voicefx.GetGlobalLogger().WithError(err).Fatal("Failed to open soundboard")
			}

			name, err := board.Add(args[0])
			if err != nil {
				voicefx.GetGlobalLogger().WithError(err).Fatal("Failed to add clip")
			}
			fmt.Printf("Added %s to soundboard as %s\n", args[0], name)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List soundboard clips",
		Run: func(cmd *cobra.Command, args []string) {
			setupLogger()

			board, err := voicefx.NewSoundboard(soundboardDir)
			if err != nil {
				voicefx.GetGlobalLogger().WithError(err).Fatal("Failed to open soundboard")
			}

			clips, err := board.List()
			if err != nil {
				voicefx.GetGlobalLogger().WithError(err).Fatal("Failed to list clips")
			}
			if len(clips) == 0 {
				fmt.Println("Soundboard is empty. Add clips with: voicefx add <file>")
				return
			}
			fmt.Printf("Soundboard clips in %s:\n", board.Dir())
			for _, clip := range clips {
				fmt.Printf("  %s (%d bytes)\n", clip.Name, clip.SizeBytes)
			}
		},
	}
}

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio devices",
		Run: func(cmd *cobra.Command, args []string) {
			setupLogger()

			devices, err := voicefx.ListDevices()
			if err != nil {
				voicefx.GetGlobalLogger().WithError(err).Fatal("Failed to list audio devices")
			}

			fmt.Println("Available Audio Devices:")
			for _, device := range devices {
				marker := ""
				if device.IsDefault {
					marker = " (Default)"
				}
				duplex := ""
				if device.IsDuplex() {
					duplex = ", duplex"
				}
				fmt.Printf("  %d: %s%s - %din/%dout (%.0f Hz%s)\n",
					device.ID, device.Name, marker,
					device.MaxInputChannels, device.MaxOutputChannels,
					device.DefaultSampleRate, duplex)
			}
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()

			engineCfg := voicefx.NewEngineConfig()
			controlCfg := voicefx.NewControlConfig()

			fmt.Println("Engine Config:")
			fmt.Printf("  Sample Rate: %d Hz\n", engineCfg.SampleRate)
			fmt.Printf("  Block Size: %d samples (%.1f ms)\n",
				engineCfg.BlockSize, engineCfg.BlockPeriodSeconds()*1000)
			fmt.Printf("  High-Pass: order %d at %.0f Hz\n", engineCfg.HighPassOrder, engineCfg.HighPassCutoff)
			fmt.Printf("  Gate Threshold: %.3f\n", engineCfg.GateThreshold)
			fmt.Printf("  Pitch Range: [%d, %d] semitones, initial %d\n",
				engineCfg.PitchMin, engineCfg.PitchMax, engineCfg.InitialPitch)

			fmt.Println("\nControl Config:")
			fmt.Printf("  Listen Addr: %s\n", controlCfg.ListenAddr)
			fmt.Printf("  Token Auth: %v\n", controlCfg.UseTokenAuth)

			for _, issue := range append(engineCfg.Validate(), controlCfg.Validate()...) {
				fmt.Printf("  WARNING: %s\n", issue)
			}
		},
	}
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Generate a control server bearer token",
		Long:  "Mint a short-lived JWT for connecting to the control server (requires VOICEFX_CONTROL_SECRET)",
		Run: func(cmd *cobra.Command, args []string) {
			controlCfg := voicefx.NewControlConfig()
			if controlCfg.AuthSecret == "" {
				fmt.Println("VOICEFX_CONTROL_SECRET is not set")
				os.Exit(1)
			}

			token, err := voicefx.GenerateControlToken(controlCfg.AuthSecret)
			if err != nil {
				voicefx.GetGlobalLogger().WithError(err).Fatal("Failed to generate token")
			}
			fmt.Println(token)
		},
	}
}

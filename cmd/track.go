package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var (
	trackDuration time.Duration
	trackInterval time.Duration
	trackPrivacy  bool
	trackAudio    string
)

// newAudioScorer picks the audio scorer named by --audio
func newAudioScorer(name string, seed int64) (internal.Scorer, error) {
	switch name {
	case "features":
		return internal.NewAudioFeatureScorer(), nil
	case "random":
		return internal.NewRandomAudioScorer(seed), nil
	default:
		return nil, &internal.ValidationError{Field: "audio", Message: fmt.Sprintf("unknown audio scorer %q (valid: features, random)", name)}
	}
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run a detection session",
	Long: `Run a detection session against the simulated camera and microphone.

Every tick an audio record and a combined record are appended to the
emotion log under a new session id. The session ends after --duration,
or on Ctrl+C when no duration is given.

Audio is scored from simulated microphone features by default; --audio random
draws audio confidences at random like the video scorer.`,
	Example: `  teampulse track --duration 30s
  teampulse track --privacy --interval 250ms
  teampulse track --audio random -d 10s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}

		interval := app.Config.TickInterval()
		if cmd.Flags().Changed("interval") {
			interval = trackInterval
		}
		privacy := app.Config.Tracker.Privacy
		if cmd.Flags().Changed("privacy") {
			privacy = trackPrivacy
		}

		seed := time.Now().UnixNano()
		audio, err := newAudioScorer(trackAudio, seed+1)
		if err != nil {
			return err
		}
		tracker := internal.NewTracker(app.Log, internal.TrackerOptions{
			Interval: interval,
			Video:    internal.NewPrivacyFilter(internal.NewRandomVideoScorer(seed), privacy, seed+2),
			Audio:    internal.NewPrivacyFilter(audio, privacy, seed+3),
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if trackDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, trackDuration)
			defer cancel()
		}

		sessionID, err := tracker.Start(ctx)
		if err != nil {
			return fmt.Errorf("failed to start detection: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Recording %s (privacy %s)\n", internal.FormatSessionID(sessionID), onOff(privacy))

		started := time.Now()
		internal.ShowTrackerStatus(ctx, out, func() internal.TrackerStatus {
			return internal.TrackerStatus{
				SessionID: sessionID,
				Elapsed:   time.Since(started),
				Buffered:  app.Log.Pending(),
			}
		})

		result, err := tracker.Stop()
		if err != nil {
			return fmt.Errorf("failed to stop detection: %w", err)
		}

		fmt.Fprintf(out, "Stopped %s after %s: %d record(s) logged\n",
			internal.FormatSessionID(result.SessionID),
			result.Duration.Truncate(time.Millisecond),
			result.Records)
		return nil
	},
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().DurationVarP(&trackDuration, "duration", "d", 0, "Stop after this long (default: until interrupted)")
	trackCmd.Flags().DurationVar(&trackInterval, "interval", internal.DefaultTickInterval, "Detection tick interval")
	trackCmd.Flags().BoolVar(&trackPrivacy, "privacy", false, "Add Laplace noise to every score")
	trackCmd.Flags().StringVar(&trackAudio, "audio", "features", "Audio scorer: features, random")
}

package internal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTickInterval is the detection tick period
const DefaultTickInterval = 100 * time.Millisecond

// Capture is an open capture device yielding one input per tick
type Capture interface {
	Read(ctx context.Context) (Input, error)
	Close() error
}

// CaptureOpener acquires a capture device. Opening may block, for example
// while waiting for a permission prompt.
type CaptureOpener interface {
	Open(ctx context.Context) (Capture, error)
}

// SimulatedCapture yields random audio features and an empty frame. It stands
// in for a camera and microphone.
type SimulatedCapture struct {
	rng *lockedRand
}

// SimulatedCaptureOpener opens SimulatedCapture devices
type SimulatedCaptureOpener struct {
	Seed int64
}

func (o SimulatedCaptureOpener) Open(ctx context.Context) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &SimulatedCapture{rng: newLockedRand(o.Seed)}, nil
}

func (c *SimulatedCapture) Read(ctx context.Context) (Input, error) {
	if err := ctx.Err(); err != nil {
		return Input{}, err
	}
	return Input{
		Features: &AudioFeatures{
			Energy:           c.rng.Float64(),
			Loudness:         c.rng.uniform(0, 10),
			ZCR:              c.rng.uniform(0, 200),
			SpectralFlatness: c.rng.Float64(),
		},
	}, nil
}

func (c *SimulatedCapture) Close() error {
	return nil
}

// TrackerState is the detection session state
type TrackerState int

const (
	TrackerIdle TrackerState = iota
	TrackerRunning
)

func (s TrackerState) String() string {
	if s == TrackerRunning {
		return "running"
	}
	return "idle"
}

// TrackerOptions configures a Tracker. Zero fields get defaults.
type TrackerOptions struct {
	Interval time.Duration
	Video    Scorer
	Audio    Scorer
	Opener   CaptureOpener
	Now      func() time.Time
}

// StopResult describes a finished detection session
type StopResult struct {
	SessionID string
	Records   int
	Duration  time.Duration
}

// Tracker runs detection sessions: idle -> running -> idle. While running, a
// ticker goroutine reads the capture device, scores audio and video, and
// appends an audio record and a combined record to the emotion log per tick.
type Tracker struct {
	mu    sync.Mutex
	log   *EmotionLog
	opts  TrackerOptions
	state TrackerState
	gen   uint64

	sessionID string
	startedAt time.Time
	capture   Capture
	cancel    context.CancelFunc
	done      chan struct{}
	records   int
}

// NewTracker creates an idle tracker writing to log
func NewTracker(log *EmotionLog, opts TrackerOptions) *Tracker {
	if opts.Interval <= 0 {
		opts.Interval = DefaultTickInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seed := opts.Now().UnixNano()
	if opts.Video == nil {
		opts.Video = NewRandomVideoScorer(seed)
	}
	if opts.Audio == nil {
		opts.Audio = NewAudioFeatureScorer()
	}
	if opts.Opener == nil {
		opts.Opener = SimulatedCaptureOpener{Seed: seed + 1}
	}
	return &Tracker{log: log, opts: opts}
}

// State returns the current state
func (t *Tracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SessionID returns the id of the running session, or "" when idle
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TrackerRunning {
		return ""
	}
	return t.sessionID
}

// Start allocates a session id, opens capture and starts ticking. It returns
// ErrTrackerRunning when a session is active, a *CaptureError when the device
// cannot be opened, and ErrTrackerStopped when Stop was called while the
// device was still opening.
func (t *Tracker) Start(ctx context.Context) (string, error) {
	t.mu.Lock()
	if t.state == TrackerRunning {
		t.mu.Unlock()
		return "", ErrTrackerRunning
	}
	t.gen++
	gen := t.gen
	now := t.opts.Now()
	t.state = TrackerRunning
	t.sessionID = NewSessionID(now)
	t.startedAt = now
	t.records = 0
	sessionID := t.sessionID
	t.mu.Unlock()

	if r, ok := t.opts.Audio.(interface{ Reset() }); ok {
		r.Reset()
	}

	capture, err := t.opts.Opener.Open(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gen != gen || t.state != TrackerRunning {
		if capture != nil {
			_ = capture.Close()
		}
		LogDebug("Discarding capture for %s: stopped while opening", sessionID)
		return "", ErrTrackerStopped
	}
	if err != nil {
		t.state = TrackerIdle
		t.sessionID = ""
		return "", &CaptureError{Device: "camera/microphone", Err: err}
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	t.capture = capture
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(loopCtx, sessionID, capture, t.done)

	LogInfo("Detection started: %s", sessionID)
	return sessionID, nil
}

func (t *Tracker) run(ctx context.Context, sessionID string, capture Capture, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.opts.Interval)
	defer ticker.Stop()

	var lastAudio Emotions
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lastAudio = t.tick(ctx, sessionID, capture, lastAudio)
		}
	}
}

func (t *Tracker) tick(ctx context.Context, sessionID string, capture Capture, lastAudio Emotions) Emotions {
	in, err := capture.Read(ctx)
	if err != nil {
		if ctx.Err() == nil {
			LogWarn("Capture read failed: %v", err)
		}
		return lastAudio
	}

	if in.Features != nil {
		audio, err := t.opts.Audio.Score(ctx, in)
		if err != nil {
			LogDebug("Audio scoring failed: %v", err)
		} else {
			lastAudio = audio
			t.append(sessionID, SourceAudio, audio)
		}
	}

	visual, err := t.opts.Video.Score(ctx, in)
	if err != nil {
		LogDebug("Video scoring failed: %v", err)
		return lastAudio
	}
	combined := visual
	if lastAudio != nil {
		combined = Blend(visual, lastAudio)
	}
	t.append(sessionID, SourceCombined, combined)
	return lastAudio
}

func (t *Tracker) append(sessionID, source string, e Emotions) {
	rec := EmotionLogRecord{
		Timestamp: FormatTimestamp(t.opts.Now()),
		Source:    source,
		SessionID: sessionID,
		Emotions:  e,
	}
	if err := t.log.Append(rec); err != nil {
		LogError("Failed to log %s emotions: %v", source, err)
		return
	}
	t.mu.Lock()
	if t.sessionID == sessionID {
		t.records++
	}
	t.mu.Unlock()
}

// Stop ends the running session: it stops the ticker, releases capture and
// flushes the emotion log. Stop on an idle tracker is a no-op.
func (t *Tracker) Stop() (StopResult, error) {
	t.mu.Lock()
	if t.state != TrackerRunning {
		t.mu.Unlock()
		return StopResult{}, nil
	}
	t.gen++
	t.state = TrackerIdle
	cancel, done, capture := t.cancel, t.done, t.capture
	t.cancel, t.done, t.capture = nil, nil, nil
	sessionID, startedAt := t.sessionID, t.startedAt
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	var firstErr error
	if capture != nil {
		if err := capture.Close(); err != nil {
			firstErr = &CaptureError{Device: "camera/microphone", Err: err}
		}
	}
	if err := t.log.Flush(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to flush emotion log: %w", err)
	}

	t.mu.Lock()
	result := StopResult{
		SessionID: sessionID,
		Records:   t.records,
		Duration:  t.opts.Now().Sub(startedAt),
	}
	t.mu.Unlock()

	LogInfo("Detection stopped: %s (%d records)", sessionID, result.Records)
	return result, firstErr
}

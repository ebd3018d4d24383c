package internal

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
)

// The scorers in this file are simulations. None of them runs a model: the
// video and audio scorers draw random numbers, the feature scorer applies a
// fixed rule table and the text scorer counts keywords.

// AudioFeatures are the per-buffer features a microphone analyser reports
type AudioFeatures struct {
	Energy           float64 // 0..1
	Loudness         float64 // total loudness, roughly 0..10
	ZCR              float64 // zero crossings per buffer
	SpectralFlatness float64 // 0..1
}

// Input is what a Scorer consumes. Each scorer reads the field for its modality.
type Input struct {
	Frame    []byte
	Features *AudioFeatures
	Text     string
}

// Scorer turns one input into an emotion confidence vector
type Scorer interface {
	Score(ctx context.Context, in Input) (Emotions, error)
}

// ErrMissingInput is returned when a scorer's modality field is empty
var ErrMissingInput = errors.New("scorer input missing")

// lockedRand is a math/rand source safe for use from the tracker goroutine and callers
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// uniform returns a value in [low, low+span)
func (r *lockedRand) uniform(low, span float64) float64 {
	return r.Float64()*span + low
}

// RandomVideoScorer simulates a facial-expression model with random confidences
type RandomVideoScorer struct {
	rng *lockedRand
}

// NewRandomVideoScorer creates a video simulator seeded with seed
func NewRandomVideoScorer(seed int64) *RandomVideoScorer {
	return &RandomVideoScorer{rng: newLockedRand(seed)}
}

func (s *RandomVideoScorer) Score(ctx context.Context, _ Input) (Emotions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Emotions{
		EmotionHappy:   s.rng.uniform(0.2, 0.8),
		EmotionSad:     s.rng.uniform(0, 0.3),
		EmotionAngry:   s.rng.uniform(0, 0.2),
		EmotionNeutral: s.rng.uniform(0.3, 0.4),
	}, nil
}

// RandomAudioScorer simulates a voice emotion model with random confidences
type RandomAudioScorer struct {
	rng *lockedRand
}

// NewRandomAudioScorer creates an audio simulator seeded with seed
func NewRandomAudioScorer(seed int64) *RandomAudioScorer {
	return &RandomAudioScorer{rng: newLockedRand(seed)}
}

func (s *RandomAudioScorer) Score(ctx context.Context, _ Input) (Emotions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Emotions{
		EmotionHappy:   s.rng.uniform(0.1, 0.7),
		EmotionSad:     s.rng.uniform(0, 0.4),
		EmotionAngry:   s.rng.uniform(0, 0.3),
		EmotionNeutral: s.rng.uniform(0.2, 0.5),
	}, nil
}

// speechRateWindow is the number of zero-crossing deltas averaged into a speech rate
const speechRateWindow = 20

// AudioFeatureScorer classifies audio features with a fixed rule table. It
// keeps a rolling window of zero-crossing deltas as a speech rate estimate,
// so one instance belongs to one audio stream.
type AudioFeatureScorer struct {
	mu       sync.Mutex
	lastZCR  float64
	zcrDiffs []float64
}

// NewAudioFeatureScorer creates a rule-based audio scorer
func NewAudioFeatureScorer() *AudioFeatureScorer {
	return &AudioFeatureScorer{}
}

// Reset clears the speech rate window
func (s *AudioFeatureScorer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastZCR = 0
	s.zcrDiffs = nil
}

func (s *AudioFeatureScorer) speechRate(zcr float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.zcrDiffs = append(s.zcrDiffs, math.Abs(zcr-s.lastZCR))
	s.lastZCR = zcr
	if len(s.zcrDiffs) > speechRateWindow {
		s.zcrDiffs = s.zcrDiffs[1:]
	}

	sum := 0.0
	for _, d := range s.zcrDiffs {
		sum += d
	}
	return sum / float64(len(s.zcrDiffs))
}

func (s *AudioFeatureScorer) Score(ctx context.Context, in Input) (Emotions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Features == nil {
		return nil, ErrMissingInput
	}
	f := in.Features
	rate := s.speechRate(f.ZCR)

	e := Emotions{
		EmotionHappy:     0,
		EmotionSad:       0,
		EmotionAngry:     0,
		EmotionSurprised: 0,
		EmotionFearful:   0,
		EmotionDisgusted: 0,
		EmotionNeutral:   0.2,
	}

	switch {
	case f.Energy > 0.6:
		e[EmotionHappy] += 0.3
		e[EmotionAngry] += 0.2
		e[EmotionSurprised] += 0.2
	case f.Energy < 0.2:
		e[EmotionSad] += 0.3
		e[EmotionFearful] += 0.1
		e[EmotionNeutral] += 0.2
	}

	loudness := f.Loudness / 10
	switch {
	case loudness > 0.7:
		e[EmotionAngry] += 0.4
		e[EmotionSurprised] += 0.3
	case loudness < 0.3:
		e[EmotionSad] += 0.2
		e[EmotionFearful] += 0.2
		e[EmotionNeutral] += 0.1
	}

	switch {
	case rate > 100:
		e[EmotionHappy] += 0.3
		e[EmotionSurprised] += 0.3
	case rate < 50:
		e[EmotionSad] += 0.3
		e[EmotionNeutral] += 0.2
	}

	if f.SpectralFlatness > 0.5 {
		e[EmotionNeutral] += 0.3
	} else {
		e[EmotionHappy] += 0.1
		e[EmotionSad] += 0.1
	}

	return e.Normalize(), nil
}

var textKeywords = map[string][]string{
	EmotionHappy:   {"happy", "great", "excellent", "good", "wonderful"},
	EmotionSad:     {"sad", "disappointed", "unhappy", "bad", "terrible"},
	EmotionAngry:   {"angry", "frustrated", "annoyed", "mad", "furious"},
	EmotionNeutral: {"okay", "fine", "normal", "average", "standard"},
}

// KeywordTextScorer scores text by counting emotion keywords
type KeywordTextScorer struct{}

func (KeywordTextScorer) Score(ctx context.Context, in Input) (Emotions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e := Emotions{
		EmotionHappy:   0.25,
		EmotionSad:     0.25,
		EmotionAngry:   0.25,
		EmotionNeutral: 0.25,
	}
	for _, word := range strings.Split(strings.ToLower(in.Text), " ") {
		for emotion, keywords := range textKeywords {
			for _, kw := range keywords {
				if word == kw {
					e[emotion] += 0.2
				}
			}
		}
	}
	return e.Normalize(), nil
}

// Blend weights visual 0.7 and audio 0.3 for every emotion both report.
// Emotions only the visual vector reports are kept as they are.
func Blend(visual, audio Emotions) Emotions {
	out := visual.Clone()
	for name, v := range visual {
		if a, ok := audio[name]; ok {
			out[name] = v*0.7 + a*0.3
		}
	}
	return out
}

// DefaultPrivacyEpsilon is the Laplace privacy parameter
const DefaultPrivacyEpsilon = 0.1

// PrivacyFilter wraps a Scorer and, when Enabled, adds Laplace noise to every
// confidence and clamps it to [0,1]. The noise is illustrative only.
type PrivacyFilter struct {
	Scorer  Scorer
	Enabled bool
	Epsilon float64
	rng     *lockedRand
}

// NewPrivacyFilter wraps scorer with a privacy filter seeded with seed
func NewPrivacyFilter(scorer Scorer, enabled bool, seed int64) *PrivacyFilter {
	return &PrivacyFilter{
		Scorer:  scorer,
		Enabled: enabled,
		Epsilon: DefaultPrivacyEpsilon,
		rng:     newLockedRand(seed),
	}
}

func (p *PrivacyFilter) Score(ctx context.Context, in Input) (Emotions, error) {
	e, err := p.Scorer.Score(ctx, in)
	if err != nil || !p.Enabled {
		return e, err
	}
	return p.Anonymize(e), nil
}

// Reset forwards to the wrapped scorer when it keeps per-stream state
func (p *PrivacyFilter) Reset() {
	if r, ok := p.Scorer.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// Anonymize returns a noisy copy of e
func (p *PrivacyFilter) Anonymize(e Emotions) Emotions {
	out := make(Emotions, len(e))
	for name, v := range e {
		out[name] = math.Max(0, math.Min(1, v+p.laplaceNoise()))
	}
	return out
}

func (p *PrivacyFilter) laplaceNoise() float64 {
	eps := p.Epsilon
	if eps <= 0 {
		eps = DefaultPrivacyEpsilon
	}
	u := p.rng.Float64() - 0.5
	sign := 1.0
	if u < 0 {
		sign = -1
	} else if u == 0 {
		sign = 0
	}
	return -(1 / eps) * sign * math.Log(1-2*math.Abs(u))
}

package internal

import (
	"strconv"
	"time"
)

// Mood bucket thresholds
const (
	HappyThreshold   = 4.0
	NeutralThreshold = 2.5
)

// ComputeTeamStats derives TeamStats from the full entry sequence. Entries
// without a mood count towards TotalEntries, so they lower every percentage.
func ComputeTeamStats(entries []MoodEntry, now time.Time) TeamStats {
	if len(entries) == 0 {
		return TeamStats{}
	}

	stats := TeamStats{TotalEntries: len(entries)}
	updated := FormatTimestamp(now)
	stats.LastUpdated = &updated

	var sum, present, happy, neutral, sad int
	for _, entry := range entries {
		if entry.Mood == nil {
			continue
		}
		mood := *entry.Mood
		sum += mood
		present++

		switch {
		case float64(mood) >= HappyThreshold:
			happy++
		case float64(mood) >= NeutralThreshold:
			neutral++
		default:
			sad++
		}
	}

	if present > 0 {
		stats.AvgMood = roundHalfUp(float64(sum) / float64(present))
	}

	total := float64(stats.TotalEntries)
	stats.MoodDistribution = MoodDistribution{
		Happy:   roundHalfUp(float64(happy) / total * 100),
		Neutral: roundHalfUp(float64(neutral) / total * 100),
		Sad:     roundHalfUp(float64(sad) / total * 100),
	}
	return stats
}

// MoodLabel names the bucket a mood falls into
func MoodLabel(mood *int) string {
	if mood == nil {
		return "No mood data"
	}
	switch {
	case float64(*mood) >= HappyThreshold:
		return "Happy"
	case float64(*mood) >= NeutralThreshold:
		return "Neutral"
	default:
		return "Sad"
	}
}

// DailyMood is the mean mood of one local calendar day
type DailyMood struct {
	Day     string  `json:"day" yaml:"day"`
	Average float64 `json:"average" yaml:"average"`
	Count   int     `json:"count" yaml:"count"`
}

// DailyMoodTrend averages present moods per local day, in order of first appearance
func DailyMoodTrend(entries []MoodEntry) []DailyMood {
	var trend []DailyMood
	index := make(map[string]int)
	sums := make(map[string]int)
	for _, entry := range entries {
		created := entry.GetCreatedAt()
		if entry.Mood == nil || created.IsZero() {
			continue
		}
		day := created.Local().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			i = len(trend)
			index[day] = i
			trend = append(trend, DailyMood{Day: day})
		}
		sums[day] += *entry.Mood
		trend[i].Count++
		trend[i].Average = float64(sums[day]) / float64(trend[i].Count)
	}
	return trend
}

// FormatMood renders a mood value, or N/A when absent
func FormatMood(mood *int) string {
	if mood == nil {
		return "N/A"
	}
	return strconv.Itoa(*mood)
}

package pipeline

import (
	"strings"
	"time"
)

// Animation timing constants. Phrase rotation and the trailing dots run on
// independent periods so the display never looks locked in step.
const (
	// PhrasePeriod is how long each rotating phrase is shown.
	PhrasePeriod = 1500 * time.Millisecond
	// DotPeriod is how often the trailing dots animation advances.
	DotPeriod = 500 * time.Millisecond
	// phraseCount is the fixed number of rotating phrases per stage.
	phraseCount = 4
	// maxDots is the longest trailing dots run before wrapping to none.
	maxDots = 3
)

// stagePhrases holds the rotating subtitles shown while a stage is running.
var stagePhrases = [StageCount][phraseCount]string{
	StageInput: {
		"Validating property details",
		"Normalizing acreage and location",
		"Checking county records",
		"Preparing valuation request",
	},
	StageVector: {
		"Searching comparable sales",
		"Scoring parcel similarity",
		"Ranking nearby auction results",
		"Gathering regional benchmarks",
	},
	StageAnalysis: {
		"Weighing soil productivity",
		"Applying CSR2 adjustments",
		"Modeling per-acre value",
		"Reconciling comparable prices",
	},
	StageResearch: {
		"Scanning recent market activity",
		"Reviewing closed auctions",
		"Checking commodity trends",
		"Summarizing local conditions",
	},
	StageReport: {
		"Drafting valuation summary",
		"Compiling supporting data",
		"Formatting the final report",
		"Finishing up",
	},
}

// staticSubtitles are shown when a stage is not actively running.
var staticSubtitles = map[StageStatus]string{
	StagePending:   "Waiting",
	StageCompleted: "Done",
	StageFailed:    "Failed",
}

// PhraseIndex returns which rotating phrase to show given how long the
// active stage has been running. It cycles back to the first phrase after
// the last one.
func PhraseIndex(sinceStageStart time.Duration) int {
	if sinceStageStart < 0 {
		return 0
	}
	return int(sinceStageStart/PhrasePeriod) % phraseCount
}

// Phrase returns the rotating subtitle for a running stage.
func Phrase(stage Stage, sinceStageStart time.Duration) string {
	if stage < 0 || int(stage) >= StageCount {
		stage = StageInput
	}
	return stagePhrases[stage][PhraseIndex(sinceStageStart)]
}

// Dots returns the trailing animation suffix, cycling through zero to three
// dots.
func Dots(sinceMount time.Duration) string {
	if sinceMount < 0 {
		return ""
	}
	n := int(sinceMount/DotPeriod) % (maxDots + 1)
	return strings.Repeat(".", n)
}

// StaticSubtitle returns the fixed subtitle for a stage that is not running.
func StaticSubtitle(status StageStatus) string {
	return staticSubtitles[status]
}

// Package pipeline derives the five-stage valuation progress view from the
// coarse status reported by the valuation API. The backend only says
// pending/processing/completed/failed plus which step it is on; everything
// shown to the user is computed here.
package pipeline

// Status is the overall status of a valuation resource.
type Status int

const (
	// StatusPending means the valuation has been accepted but not started.
	StatusPending Status = iota
	// StatusProcessing means the valuation pipeline is running.
	StatusProcessing
	// StatusCompleted means the valuation finished successfully.
	StatusCompleted
	// StatusFailed means the valuation terminated with an error.
	StatusFailed
)

// ParseStatus maps an API status string to a Status. Unknown values are
// treated as pending so a misbehaving backend can never break the display.
func ParseStatus(s string) Status {
	switch s {
	case "processing":
		return StatusProcessing
	case "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	default:
		return StatusPending
	}
}

// String returns the wire representation of the status.
func (s Status) String() string {
	switch s {
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Terminal reports whether no further status changes are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Stage identifies one of the five fixed valuation pipeline stages. The
// ordinal value is the stage's position in the pipeline.
type Stage int

const (
	// StageInput is property input collection.
	StageInput Stage = iota
	// StageVector is the comparable-sales vector lookup.
	StageVector
	// StageAnalysis is the AI valuation analysis.
	StageAnalysis
	// StageResearch is supplementary market research.
	StageResearch
	// StageReport is final report assembly.
	StageReport
)

// StageCount is the number of pipeline stages.
const StageCount = 5

// Stages lists all stages in pipeline order.
func Stages() [StageCount]Stage {
	return [StageCount]Stage{StageInput, StageVector, StageAnalysis, StageResearch, StageReport}
}

// ParseStage maps an API step string to a Stage. Unknown values default to
// the first stage.
func ParseStage(s string) Stage {
	switch s {
	case "vector":
		return StageVector
	case "analysis":
		return StageAnalysis
	case "research":
		return StageResearch
	case "report":
		return StageReport
	default:
		return StageInput
	}
}

// String returns the wire representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageVector:
		return "vector"
	case StageAnalysis:
		return "analysis"
	case StageResearch:
		return "research"
	case StageReport:
		return "report"
	default:
		return "input"
	}
}

// Title returns the human-readable stage name.
func (s Stage) Title() string {
	switch s {
	case StageVector:
		return "Comparable Lookup"
	case StageAnalysis:
		return "AI Analysis"
	case StageResearch:
		return "Market Research"
	case StageReport:
		return "Valuation Report"
	default:
		return "Property Details"
	}
}

// StageStatus is the derived status of a single stage.
type StageStatus int

const (
	// StagePending means the stage has not started.
	StagePending StageStatus = iota
	// StageProcessing means the stage is the one currently running.
	StageProcessing
	// StageCompleted means the stage finished.
	StageCompleted
	// StageFailed means the pipeline failed while this stage was active.
	StageFailed
)

// String returns a lower-case name for the stage status.
func (s StageStatus) String() string {
	switch s {
	case StageProcessing:
		return "processing"
	case StageCompleted:
		return "completed"
	case StageFailed:
		return "failed"
	default:
		return "pending"
	}
}

// DeriveStageStatus computes the status of a single stage from its position
// relative to the backend's current step and the overall resource status.
//
// Rules, in priority order:
//   - an overall completed resource completes every stage
//   - the input stage is completed the moment any later stage is reached; it
//     only ever shows as processing while it is itself the current step
//   - stages before the current step are completed, stages after it are
//     pending, and the current step mirrors the overall status
func DeriveStageStatus(stage, current Stage, overall Status) StageStatus {
	if overall == StatusCompleted {
		return StageCompleted
	}
	if stage == StageInput {
		if overall == StatusProcessing && current == StageInput {
			return StageProcessing
		}
		return StageCompleted
	}
	switch {
	case stage < current:
		return StageCompleted
	case stage > current:
		return StagePending
	}
	// stage == current
	switch overall {
	case StatusProcessing:
		return StageProcessing
	case StatusFailed:
		return StageFailed
	default:
		return StagePending
	}
}

// StageView is the derived display state of one stage.
type StageView struct {
	Title    string
	Subtitle string
	Stage    Stage
	Status   StageStatus
}

// DeriveStages computes the status of all five stages. Exactly one stage is
// processing while the resource is processing; none are once it goes
// terminal or while it is still queued.
func DeriveStages(current Stage, overall Status) [StageCount]StageView {
	var views [StageCount]StageView
	for i, st := range Stages() {
		views[i] = StageView{
			Stage:  st,
			Title:  st.Title(),
			Status: DeriveStageStatus(st, current, overall),
		}
	}
	return views
}

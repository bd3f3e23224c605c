package contract

import (
	"time"

	"github.com/earthmind-network/earthmind-go/contract/config"
)

// Stage is one of the six time-windowed phases of a request's lifecycle.
type Stage string

func (s Stage) String() string {
	return string(s)
}

const (
	StageNonStarted       = Stage("NonStarted")
	StageCommitMiners     = Stage("CommitMiners")
	StageRevealMiners     = Stage("RevealMiners")
	StageCommitValidators = Stage("CommitValidators")
	StageRevealValidators = Stage("RevealValidators")
	StageEnded            = Stage("Ended")
)

// StageAt derives the request stage from elapsed time. Windows are summed
// left to right with strict upper bounds: an elapsed time exactly on a
// boundary already belongs to the next stage. Callers must evaluate this
// fresh on every gated operation; the result is never cached.
func StageAt(startTime int64, now time.Time) Stage {
	if startTime == 0 {
		return StageNonStarted
	}

	elapsed := time.Duration(now.UnixNano() - startTime)

	switch {
	case elapsed < config.CommitMinerDuration:
		return StageCommitMiners
	case elapsed < config.CommitMinerDuration+config.RevealMinerDuration:
		return StageRevealMiners
	case elapsed < config.CommitMinerDuration+config.RevealMinerDuration+config.CommitValidatorDuration:
		return StageCommitValidators
	case elapsed < config.CommitMinerDuration+config.RevealMinerDuration+config.CommitValidatorDuration+config.RevealValidatorDuration:
		return StageRevealValidators
	default:
		return StageEnded
	}
}

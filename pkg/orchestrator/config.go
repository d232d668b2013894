package orchestrator

import "time"

// Config is the immutable record every phase driver and the pool consume
// (spec.md §9 "replace process-wide singletons with an immutable config
// record constructed at pass start"). Loading it from the environment is
// an external collaborator's job, out of this package's scope.
type Config struct {
	DrainPollInterval time.Duration
	DrainTimeout      time.Duration

	MaintPollInitial time.Duration
	MaintPollCeiling time.Duration

	WorkRequestPollInterval time.Duration

	ScheduleLeadSec time.Duration
	ProcessedTag    string

	CallTimeout time.Duration

	MaxWorkers int
}

// DefaultConfig returns the defaults named in spec.md §6.
func DefaultConfig() Config {
	return Config{
		DrainPollInterval:       30 * time.Second,
		DrainTimeout:            30 * time.Minute,
		MaintPollInitial:        30 * time.Second,
		MaintPollCeiling:        300 * time.Second,
		WorkRequestPollInterval: 2 * time.Second,
		ScheduleLeadSec:         300 * time.Second,
		ProcessedTag:            "felix",
		CallTimeout:             30 * time.Second,
		MaxWorkers:              8,
	}
}

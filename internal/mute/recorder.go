package mute

import "time"

// Recorder receives metrics about mute activity.
type Recorder interface {
	// ObserveAction counts one platform action; cause is zero on success.
	ObserveAction(action string, cause Cause)
	// ObserveOutcome counts one request outcome by category name.
	ObserveOutcome(category string)
	// ObserveSweep records one expiry sweep.
	ObserveSweep(result string, elapsed time.Duration, restored int)
	// LoopStarted and LoopStopped track running expiry loops.
	LoopStarted()
	LoopStopped()
}

// NopRecorder discards all metrics.
type NopRecorder struct{}

func (NopRecorder) ObserveAction(string, Cause)             {}
func (NopRecorder) ObserveOutcome(string)                   {}
func (NopRecorder) ObserveSweep(string, time.Duration, int) {}
func (NopRecorder) LoopStarted()                            {}
func (NopRecorder) LoopStopped()                            {}

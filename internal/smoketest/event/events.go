// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package event

import "time"

// CancelListenerFunc is the interface that provides a method to cancel
// a listener.
type CancelListenerFunc func()

// Step is the event that is sent when a smoke test step starts.
type Step struct {
	// Number is the 1 based position of the step in the fixed sequence.
	Number int

	// Name is the short machine friendly name of the step.
	Name string

	// At holds the time when the step started.
	At time.Time
}

// StepListener is the interface that must be implemented by types that
// want to receive Step notifications.
type StepListener interface {
	OnStep(Step)
}

// StepListenerFunc is a function type that implements StepListener.
// It can be used as an adapter for functions that need to implement the
// StepListener interface.
type StepListenerFunc func(Step)

func (f StepListenerFunc) OnStep(e Step) {
	f(e)
}

// Outcome is the event that is sent when a smoke test step finishes.
type Outcome struct {
	// Step identifies the step this outcome belongs to.
	Step Step

	// Duration is how long the step took.
	Duration time.Duration

	// Details are human readable result lines, in the order they should
	// be shown.
	Details []string

	// Err is set when the step failed.  A failed step never stops the
	// run.
	Err error

	// Skipped is true when the step did not run at all, for example when
	// there is no project to exercise.
	Skipped bool
}

// OutcomeListener is the interface that must be implemented by types that
// want to receive Outcome notifications.
type OutcomeListener interface {
	OnOutcome(Outcome)
}

// OutcomeListenerFunc is a function type that implements OutcomeListener.
// It can be used as an adapter for functions that need to implement the
// OutcomeListener interface.
type OutcomeListenerFunc func(Outcome)

func (f OutcomeListenerFunc) OnOutcome(e Outcome) {
	f(e)
}

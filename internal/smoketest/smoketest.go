// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

// Package smoketest runs a fixed sequence of read only calls against the
// fast-tag service and reports every step to registered listeners.  A
// failing step is reported and the run moves on; only a canceled context
// ends the run early.
package smoketest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fasttag-org/fasttag-cli/internal/fasttag"
	"github.com/fasttag-org/fasttag-cli/internal/smoketest/event"
	"github.com/xmidt-org/eventor"
)

var (
	ErrInvalidInput = fmt.Errorf("invalid input")
)

const (
	DefaultPresignKey    = "test.jpg"
	DefaultPresignExpiry = 3600 * time.Second
	DefaultMaxProbes     = 5

	// StepCount is the length of the fixed sequence.
	StepCount = 7
)

// Runner drives the smoke test sequence:
//
//	1. health            service health, no credentials
//	2. me                the account the token belongs to
//	3. projects          project listing, remembers the first project
//	4. storage-list      storage object listing for the project
//	5. presign           presigned download URL for a known key
//	6. tasks             task listing for the project
//	7. task-probes       fetchability of task resource URLs
//
// Steps 4 through 7 are skipped when the account has no projects.
type Runner struct {
	client           *fasttag.Client
	presignKey       string
	presignExpiry    time.Duration
	maxProbes        int
	storagePrefix    string
	stepListeners    eventor.Eventor[event.StepListener]
	outcomeListeners eventor.Eventor[event.OutcomeListener]
}

// Summary is the aggregate result of a run.
type Summary struct {
	// Ran is the number of steps that executed.
	Ran int

	// Failed is the number of executed steps that reported an error.
	Failed int

	// Skipped is the number of steps that did not execute.
	Skipped int

	// ProjectID and ProjectName identify the project the project scoped
	// steps used, when there was one.
	ProjectID   string
	ProjectName string
}

// Option is the interface implemented by types that can be used to
// configure the runner.
type Option interface {
	apply(*Runner) error
}

// New creates a new smoke test runner.
func New(opts ...Option) (*Runner, error) {
	required := []Option{
		clientVador(),
	}

	r := Runner{
		presignKey:    DefaultPresignKey,
		presignExpiry: DefaultPresignExpiry,
		maxProbes:     DefaultMaxProbes,
	}

	opts = append(opts, required...)

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt.apply(&r)
		if err != nil {
			return nil, err
		}
	}

	return &r, nil
}

// Run executes the sequence and returns the aggregate result.  The error
// is only non-nil when the context ended the run early.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	r.step(ctx, &sum, 1, "health", r.health)
	r.step(ctx, &sum, 2, "me", r.me)

	var project *fasttag.Project
	r.step(ctx, &sum, 3, "projects", func(ctx context.Context) ([]string, error) {
		projects, err := r.client.Projects(ctx)
		if err != nil {
			return nil, err
		}

		lines := []string{fmt.Sprintf("found %d project(s)", len(projects))}
		if len(projects) == 0 {
			return lines, nil
		}

		project = &projects[0]
		sum.ProjectID = project.ID
		sum.ProjectName = project.Name
		lines = append(lines, fmt.Sprintf("using project %q (%s)", project.Name, project.ID))
		return lines, nil
	})

	if err := ctx.Err(); err != nil {
		return sum, err
	}

	if project == nil {
		r.skip(&sum, 4, "storage-list", "no project to exercise")
		r.skip(&sum, 5, "presign", "no project to exercise")
		r.skip(&sum, 6, "tasks", "no project to exercise")
		r.skip(&sum, 7, "task-probes", "no project to exercise")
		return sum, nil
	}

	r.step(ctx, &sum, 4, "storage-list", func(ctx context.Context) ([]string, error) {
		objects, err := r.client.StorageObjects(ctx, project.ID, r.storagePrefix)
		if err != nil {
			return nil, err
		}

		lines := []string{fmt.Sprintf("found %d object(s)", len(objects))}
		for i, key := range objects {
			if i == 5 {
				lines = append(lines, fmt.Sprintf("and %d more", len(objects)-i))
				break
			}
			lines = append(lines, key)
		}
		return lines, nil
	})

	r.step(ctx, &sum, 5, "presign", func(ctx context.Context) ([]string, error) {
		downloadURL, err := r.client.PresignedURL(ctx, project.ID, r.presignKey, r.presignExpiry)
		if err == nil {
			return []string{
				fmt.Sprintf("presigned URL issued for %q, expires in %s", r.presignKey, r.presignExpiry),
				downloadURL,
			}, nil
		}

		// The key is usually absent, which the service reports as an
		// error status without a download_url.  That is an expected
		// answer, not a failure.
		var se *fasttag.StatusError
		if errors.As(err, &se) || errors.Is(err, fasttag.ErrNoDownloadURL) {
			return []string{
				fmt.Sprintf("no download URL for %q (expected when the object does not exist)", r.presignKey),
			}, nil
		}

		return nil, err
	})

	var tasks []fasttag.Task
	r.step(ctx, &sum, 6, "tasks", func(ctx context.Context) ([]string, error) {
		var err error
		tasks, err = r.client.Tasks(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("found %d task(s)", len(tasks))}, nil
	})

	r.step(ctx, &sum, 7, "task-probes", func(ctx context.Context) ([]string, error) {
		var lines []string

		probed := 0
		for _, task := range tasks {
			if task.ResourceURL == "" {
				continue
			}
			if probed == r.maxProbes {
				break
			}
			probed++

			lines = append(lines, fmt.Sprintf("task %q resource %s", task.Name, task.ResourceURL))

			if task.ResolvedResourceURL == "" {
				lines = append(lines, "no resolved URL to probe")
				continue
			}

			code, err := r.client.Probe(ctx, task.ResolvedResourceURL)
			switch {
			case err != nil:
				lines = append(lines, fmt.Sprintf("resource not accessible: %v", err))
			case code == http.StatusOK:
				lines = append(lines, "resource accessible (HTTP 200)")
			default:
				lines = append(lines, fmt.Sprintf("resource not accessible (HTTP %d)", code))
			}
		}

		if probed == 0 {
			lines = append(lines, "no tasks with resources to probe")
		}
		return lines, nil
	})

	return sum, ctx.Err()
}

// step runs one step, accounting and reporting as it goes.
func (r *Runner) step(ctx context.Context, sum *Summary, number int, name string,
	fn func(context.Context) ([]string, error)) {
	if ctx.Err() != nil {
		return
	}

	se := event.Step{
		Number: number,
		Name:   name,
		At:     time.Now(),
	}
	r.dispatch(se)

	details, err := fn(ctx)

	sum.Ran++
	if err != nil {
		sum.Failed++
	}

	r.dispatch(event.Outcome{
		Step:     se,
		Duration: time.Since(se.At),
		Details:  details,
		Err:      err,
	})
}

// skip reports a step that will not run.
func (r *Runner) skip(sum *Summary, number int, name, reason string) {
	se := event.Step{
		Number: number,
		Name:   name,
		At:     time.Now(),
	}
	r.dispatch(se)

	sum.Skipped++

	r.dispatch(event.Outcome{
		Step:    se,
		Details: []string{reason},
		Skipped: true,
	})
}

// dispatch dispatches the event to the listeners.
func (r *Runner) dispatch(evnt any) {
	switch evnt := evnt.(type) {
	case event.Step:
		r.stepListeners.Visit(func(listener event.StepListener) {
			listener.OnStep(evnt)
		})
	case event.Outcome:
		r.outcomeListeners.Visit(func(listener event.OutcomeListener) {
			listener.OnOutcome(evnt)
		})
	default:
		panic("unknown event type")
	}
}

func (r *Runner) health(ctx context.Context) ([]string, error) {
	health, err := r.client.Health(ctx)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("service %q reports %q, database %q",
		health.Service, health.Status, health.Database)}, nil
}

func (r *Runner) me(ctx context.Context) ([]string, error) {
	user, err := r.client.Me(ctx)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("authenticated as %s (%s via %s)",
		user.Email, user.Name, user.Provider)}, nil
}

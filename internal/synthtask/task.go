/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\synthtask\task.go
 * @Description: periodic synthetic task release loop
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package synthtask

import (
	"context"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/syncx"

	"github.com/MatheusPinto/robotstone/internal/pubsub"
	"github.com/MatheusPinto/robotstone/internal/rtclock"
	"github.com/MatheusPinto/robotstone/internal/whetstone"
)

// Priority carries the fixed-priority rank a real preemptive
// scheduler would assign this task. Go's goroutine scheduler has no
// fixed-priority preemption, so this value is metadata only: it is
// carried on the Descriptor, but nothing in this repository schedules,
// orders or reports tasks by it.
type Priority int

const (
	PriorityGatekeeper Priority = 90
	PriorityManagement Priority = 50
)

// Descriptor configures one synthetic task. Exactly one of Publisher
// or Subscriber may be set; both nil means a pure compute task.
type Descriptor struct {
	ID         int
	Priority   Priority
	Frequency  float64 // Hz
	Period     int64   // ticks, round(TicksPerSecond/Frequency)
	WorkloadKW int64    // KWIPP

	Publisher  *pubsub.Publisher
	Subscriber *pubsub.Subscriber
}

// NewPeriod computes period = round(ticks_per_second / frequency).
func NewPeriod(clock rtclock.Clock, frequency float64) int64 {
	return int64(float64(clock.TicksPerSecond())/frequency + 0.5)
}

// Measurements accumulates the per-step counters spec.md §3 assigns
// to a Task descriptor. JobsCompleted counts every job whose job loop
// body ran, including the final interrupted one, which is never
// recorded; the response/jitter averages divide by JobsCompleted-1.
type Measurements struct {
	JobsCompleted int64
	Met           int64
	Missed        int64
	Skipped       int64

	sumResponse int64
	sumJitter   int64

	WCRT int64
	BCRT int64

	AvgResponse float64
	AvgJitter   float64

	prevResponse  int64
	havePrevious  bool
}

// Clear resets all counters, matching the "clear_measurements" call
// at every step boundary. Calling it twice in sequence is equivalent
// to calling it once.
func (m *Measurements) Clear() {
	*m = Measurements{}
}

// Task runs one synthetic task's periodic release loop in its own
// goroutine.
type Task struct {
	Descriptor
	clock   rtclock.Clock
	stop    *syncx.Bool
	initial int64

	Measurements Measurements
}

// NewTask builds a Task bound to clock for timing and stop as its
// stop flag, which Stop raises.
func NewTask(d Descriptor, clock rtclock.Clock, stop *syncx.Bool) *Task {
	return &Task{Descriptor: d, clock: clock, stop: stop}
}

// Stop raises this task's stop flag, observed at the next job
// boundary or subscriber wakeup.
func (t *Task) Stop() {
	t.stop.Store(true)
}

// Run executes the release loop described in spec.md §4.2 until the
// stop flag is observed, starting from initialTime as the common
// epoch every task in the set shares. done is closed when the loop
// has finished finalizing its averages, so a controller's
// WaitTasksFinish can join deterministically.
func (t *Task) Run(ctx context.Context, initialTime int64, done chan<- struct{}) {
	defer close(done)
	t.initial = initialTime
	activation := initialTime

	for {
		t.Measurements.JobsCompleted++

		if t.Subscriber != nil {
			if _, err := t.Subscriber.Receive(ctx); err != nil {
				if t.stop.Load() {
					t.finalize()
					return
				}
				continue
			}
		}

		if t.WorkloadKW > 0 {
			whetstone.Execute(t.WorkloadKW)
		}

		if t.Publisher != nil {
			payload := make([]byte, t.Publisher.MsgSize())
			_ = t.Publisher.Send(payload)
		}

		if t.stop.Load() {
			t.finalize()
			return
		}

		completion := t.clock.Now()
		response := rtclock.Sub(activation, completion)
		t.recordJob(response)

		k := rtclock.Ceil(response, t.Period)
		if k == 1 {
			t.Measurements.Met++
		} else {
			t.Measurements.Missed++
			t.Measurements.Skipped += k - 1
		}

		activation += k * t.Period
		t.sleepUntil(ctx, activation)
	}
}

func (t *Task) recordJob(response int64) {
	first := t.Measurements.Met+t.Measurements.Missed == 0
	t.Measurements.sumResponse += response
	if first || response > t.Measurements.WCRT {
		t.Measurements.WCRT = response
	}
	if first || response < t.Measurements.BCRT {
		t.Measurements.BCRT = response
	}
	if t.Measurements.havePrevious {
		diff := response - t.Measurements.prevResponse
		if diff < 0 {
			diff = -diff
		}
		t.Measurements.sumJitter += diff
	}
	t.Measurements.prevResponse = response
	t.Measurements.havePrevious = true
}

// finalize divides the accumulated response and jitter sums by
// jobs_completed-1, the number of completed jobs: the last,
// interrupted job is in neither sum. The response sum includes the
// first job; the jitter sum has one term per pair of consecutive
// completed jobs, so the first job adds no jitter term of its own.
func (t *Task) finalize() {
	denom := t.Measurements.JobsCompleted - 1
	if denom <= 0 {
		return
	}
	t.Measurements.AvgResponse = float64(t.Measurements.sumResponse) / float64(denom)
	t.Measurements.AvgJitter = float64(t.Measurements.sumJitter) / float64(denom)
}

func (t *Task) sleepUntil(ctx context.Context, activation int64) {
	now := t.clock.Now()
	if now >= activation {
		return
	}
	delta := rtclock.Sub(now, activation)
	timer := time.NewTimer(time.Duration(delta))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

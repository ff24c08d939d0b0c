/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\scenario.go
 * @Description: worst-case scenario tracking across steps
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// WorstCaseScenario is spec.md §3's cumulative record: updated at
// each step, never reset for the lifetime of the process.
type WorstCaseScenario struct {
	Step           int
	TaskID         int
	WCRT           int64
	AverageResponse float64
	ratio          float64
}

// ScenarioTracker guards WorstCaseScenario updates the way the
// teacher's collector accumulates a running "current worst" record
// under a lock instead of aggregating HTTP latencies.
type ScenarioTracker struct {
	mu   *syncx.RWLock
	best WorstCaseScenario
	set  bool
}

func NewScenarioTracker() *ScenarioTracker {
	return &ScenarioTracker{mu: syncx.NewRWLock()}
}

// Consider updates the tracked worst-case scenario if wcrt/avg at
// (step, taskID) exceeds the best ratio seen so far across the whole
// experiment.
func (s *ScenarioTracker) Consider(step, taskID int, wcrt int64, avg float64) {
	if avg <= 0 {
		return
	}
	ratio := float64(wcrt) / avg
	syncx.WithLock(s.mu, func() {
		if !s.set || ratio > s.best.ratio {
			s.best = WorstCaseScenario{Step: step, TaskID: taskID, WCRT: wcrt, AverageResponse: avg, ratio: ratio}
			s.set = true
		}
	})
}

// Snapshot returns the current worst-case scenario record.
func (s *ScenarioTracker) Snapshot() WorstCaseScenario {
	return syncx.WithRLockReturnValue(s.mu, func() WorstCaseScenario {
		return s.best
	})
}

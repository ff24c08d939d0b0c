/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\updaters.go
 * @Description: per-experiment baseline escalation rules
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"math"

	"github.com/MatheusPinto/robotstone/internal/rtclock"
	"github.com/MatheusPinto/robotstone/internal/synthtask"
)

// WorkloadScalingStep implements experiments 1 and 4: every task's
// workload grows to workload*(1+0.1*step) of the baseline value, the
// baseline itself never mutated in place.
func WorkloadScalingStep(baseline []BaselineSpec, step int) []BaselineSpec {
	factor := 1 + 0.1*float64(step)
	out := make([]BaselineSpec, len(baseline))
	for i, s := range baseline {
		s.Workload = int64(math.Round(float64(s.Workload) * factor))
		out[i] = s
	}
	return out
}

// FrequencyScalingStep implements experiments 2 and 6: every task's
// frequency grows to frequency*(1+0.1*step), with the period
// recomputed against clock for the new frequency.
func FrequencyScalingStep(baseline []BaselineSpec, step int, clock rtclock.Clock) []BaselineSpec {
	factor := 1 + 0.1*float64(step)
	out := make([]BaselineSpec, len(baseline))
	for i, s := range baseline {
		s.Frequency = s.Frequency * factor
		s.Period = synthtask.NewPeriod(clock, s.Frequency)
		out[i] = s
	}
	return out
}

// TaskCountScalingStep implements experiment 3: step extra tasks are
// appended, each a mirror of baseline task index 2 (the PD set's
// third task), one more per step than the last.
func TaskCountScalingStep(baseline []BaselineSpec, step int) []BaselineSpec {
	mirror := baseline[2]
	out := make([]BaselineSpec, len(baseline)+step)
	copy(out, baseline)
	for i := 0; i < step; i++ {
		extra := mirror
		extra.Index = len(baseline) + i
		out[len(baseline)+i] = extra
	}
	return out
}

// MsgSizeForStep implements experiment 5's escalating payload size:
// 2^(step+1) bytes, doubling every step starting at 2 bytes.
func MsgSizeForStep(step int) int {
	return 1 << uint(step+1)
}

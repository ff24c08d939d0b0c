/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\baseline.go
 * @Description: baseline task-set parameters for PD and PCD experiments
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"math"

	"github.com/MatheusPinto/robotstone/internal/rtclock"
	"github.com/MatheusPinto/robotstone/internal/synthtask"
)

// BaselinePriority is shared by PD and PCD baselines; priorities
// count down from BaselinePriority+len(freqs)-1 to BaselinePriority.
const BaselinePriority = 2

var pdFrequencies = []float64{63, 30, 14, 10, 6}
var pcdFrequencies = []float64{7, 5, 3}

// BaselineSpec is one row of a baseline task table before a
// Publisher/Subscriber handle is attached by the controller.
type BaselineSpec struct {
	Index     int
	Frequency float64
	Priority  synthtask.Priority
	Period    int64
	Workload  int64
}

// PDBaseline builds the 5-task PD baseline set: workload_i =
// floor((0.15 * raw_speed / 5) / frequency_i) KWIPP.
func PDBaseline(clock rtclock.Clock, rawSpeed int64) []BaselineSpec {
	return baselineSet(clock, rawSpeed, pdFrequencies)
}

// PCDBaseline builds the 3-task PCD baseline set, workloads sized for
// 0.15 * raw_speed / 3.
func PCDBaseline(clock rtclock.Clock, rawSpeed int64) []BaselineSpec {
	return baselineSet(clock, rawSpeed, pcdFrequencies)
}

func baselineSet(clock rtclock.Clock, rawSpeed int64, freqs []float64) []BaselineSpec {
	n := len(freqs)
	budget := 0.15 * float64(rawSpeed) / float64(n)
	specs := make([]BaselineSpec, n)
	for i, f := range freqs {
		specs[i] = BaselineSpec{
			Index:     i,
			Frequency: f,
			Priority:  synthtask.Priority(BaselinePriority + n - 1 - i),
			Period:    synthtask.NewPeriod(clock, f),
			Workload:  int64(math.Floor(budget / f)),
		}
	}
	return specs
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\updaters_test.go
 * @Description: per-experiment escalation rule tests
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MatheusPinto/robotstone/internal/rtclock"
)

func TestWorkloadScalingStepGrowsFromBaseline(t *testing.T) {
	clock := rtclock.NewReal()
	baseline := PDBaseline(clock, 100000)

	step1 := WorkloadScalingStep(baseline, 1)
	step2 := WorkloadScalingStep(baseline, 2)

	for i := range baseline {
		assert.Greater(t, step1[i].Workload, baseline[i].Workload)
		assert.Greater(t, step2[i].Workload, step1[i].Workload)
	}
}

func TestFrequencyScalingStepRecomputesPeriod(t *testing.T) {
	clock := rtclock.NewReal()
	baseline := PDBaseline(clock, 100000)
	step1 := FrequencyScalingStep(baseline, 1, clock)

	for i := range baseline {
		assert.Greater(t, step1[i].Frequency, baseline[i].Frequency)
		assert.Less(t, step1[i].Period, baseline[i].Period)
	}
}

func TestTaskCountScalingStepAppendsMirrors(t *testing.T) {
	clock := rtclock.NewReal()
	baseline := PDBaseline(clock, 100000)
	step2 := TaskCountScalingStep(baseline, 2)

	assert.Len(t, step2, len(baseline)+2)
	mirror := baseline[2]
	for _, extra := range step2[len(baseline):] {
		assert.Equal(t, mirror.Frequency, extra.Frequency)
		assert.Equal(t, mirror.Workload, extra.Workload)
	}
}

func TestMsgSizeForStepDoublesEachStep(t *testing.T) {
	assert.Equal(t, 2, MsgSizeForStep(0))
	assert.Equal(t, 16, MsgSizeForStep(3))
}

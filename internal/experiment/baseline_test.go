/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\baseline_test.go
 * @Description: baseline task-set parameter tests
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MatheusPinto/robotstone/internal/rtclock"
)

func TestPDBaselineHasFiveDescendingPriorities(t *testing.T) {
	clock := rtclock.NewReal()
	specs := PDBaseline(clock, 100000)
	assert.Len(t, specs, 5)
	for i := 1; i < len(specs); i++ {
		assert.Greater(t, specs[i-1].Priority, specs[i].Priority)
	}
	assert.EqualValues(t, BaselinePriority, specs[len(specs)-1].Priority)
}

func TestPCDBaselineHasThreeTasks(t *testing.T) {
	clock := rtclock.NewReal()
	specs := PCDBaseline(clock, 100000)
	assert.Len(t, specs, 3)
}

func TestBaselineWorkloadNeverNegative(t *testing.T) {
	clock := rtclock.NewReal()
	specs := PDBaseline(clock, 1)
	for _, s := range specs {
		assert.GreaterOrEqual(t, s.Workload, int64(0))
	}
}

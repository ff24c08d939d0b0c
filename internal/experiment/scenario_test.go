/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\scenario_test.go
 * @Description: worst-case scenario tracker tests
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsiderKeepsHighestRatio(t *testing.T) {
	tracker := NewScenarioTracker()
	tracker.Consider(1, 0, 100, 50)
	tracker.Consider(2, 1, 120, 80)
	tracker.Consider(3, 2, 90, 85)

	got := tracker.Snapshot()
	assert.Equal(t, 1, got.Step)
	assert.Equal(t, 0, got.TaskID)
}

func TestConsiderIgnoresNonPositiveAverage(t *testing.T) {
	tracker := NewScenarioTracker()
	tracker.Consider(1, 0, 100, 0)
	got := tracker.Snapshot()
	assert.Zero(t, got.TaskID)
	assert.Zero(t, got.WCRT)
}

func TestConsiderUpdatesWhenRatioImproves(t *testing.T) {
	tracker := NewScenarioTracker()
	tracker.Consider(1, 0, 50, 50)
	tracker.Consider(2, 1, 200, 50)

	got := tracker.Snapshot()
	assert.Equal(t, 2, got.Step)
	assert.Equal(t, 1, got.TaskID)
}

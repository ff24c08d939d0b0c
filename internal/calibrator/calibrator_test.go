/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\calibrator\calibrator_test.go
 * @Description: raw-speed calibrator tests
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package calibrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MatheusPinto/robotstone/internal/rtclock"
)

type fastClock struct {
	ticks int64
}

func (c *fastClock) Now() int64 {
	c.ticks += rtclock.TicksPerSecond / 100
	return c.ticks
}

func (c *fastClock) TicksPerSecond() int64 { return rtclock.TicksPerSecond }

func TestMeasureReturnsPositiveIterationCount(t *testing.T) {
	clock := &fastClock{}
	n := Measure(clock)
	assert.Greater(t, n, int64(0))
}

func TestMeasureStopsOnceBudgetElapses(t *testing.T) {
	clock := &fastClock{}
	before := clock.ticks
	Measure(clock)
	elapsed := rtclock.Sub(before, clock.ticks)
	assert.GreaterOrEqual(t, elapsed, RawSingleLoad*rtclock.TicksPerSecond)
}

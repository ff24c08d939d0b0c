/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\rtclock\clock_test.go
 * @Description: wrap-safe tick arithmetic tests
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package rtclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubWrap(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{10, 20, 10},
		{20, 10, TickMax - 20 + 10},
		{5, 5, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Sub(c.a, c.b))
	}
}

func TestCeil(t *testing.T) {
	cases := []struct {
		x, y, want int64
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{20, 10, 2},
		{21, 10, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Ceil(c.x, c.y))
	}
}

func TestRealMonotonic(t *testing.T) {
	c := NewReal()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, b, a)
	assert.Equal(t, TicksPerSecond, c.TicksPerSecond())
}

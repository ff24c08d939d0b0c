/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\rtclock\clock.go
 * @Description: monotonic tick source with wrap-safe arithmetic
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package rtclock

import (
	"math"
	"time"
)

// TickMax bounds the tick space used for wrap-safe subtraction. Ticks
// never actually reach this value on a real clock within a benchmark
// run; it exists so Sub has a defined wraparound contract.
const TickMax int64 = math.MaxInt64

// TicksPerSecond is the resolution of Now, one tick per nanosecond.
const TicksPerSecond int64 = 1e9

// Clock is the monotonic tick source every timed component in this
// repository depends on. It is substitutable so tests can drive it
// deterministically instead of racing the wall clock.
type Clock interface {
	Now() int64
	TicksPerSecond() int64
}

// Real is a Clock backed by the process's monotonic time source.
type Real struct {
	start time.Time
}

// NewReal returns a Clock whose Now() is nanoseconds since its own
// construction, kept well clear of TickMax for the lifetime of any
// realistic run.
func NewReal() *Real {
	return &Real{start: time.Now()}
}

func (r *Real) Now() int64 {
	return int64(time.Since(r.start))
}

func (r *Real) TicksPerSecond() int64 {
	return TicksPerSecond
}

// Sub computes b-a in tick space, wrap-safe: if b < a the interval is
// treated as having wrapped through TickMax.
func Sub(a, b int64) int64 {
	if b >= a {
		return b - a
	}
	return (TickMax - a) + b
}

// Ceil divides x by y, ceiling, with the convention ceil(0, y) == 1 as
// required by the response/period-to-k conversion: a response of
// exactly zero still counts as one period consumed, never zero.
func Ceil(x, y int64) int64 {
	if x == 0 {
		return 1
	}
	return 1 + (x-1)/y
}

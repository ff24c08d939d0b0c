/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\calibrator\calibrator.go
 * @Description: raw-speed KWIPS measurement
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package calibrator

import (
	"github.com/MatheusPinto/robotstone/internal/rtclock"
	"github.com/MatheusPinto/robotstone/internal/whetstone"
)

// RawSingleLoad is the KWI burned per calibration iteration.
const RawSingleLoad int64 = 30

// Measure repeatedly burns RawSingleLoad KWI, counting iterations,
// until accumulated wall time reaches rawInterval =
// RawSingleLoad * ticks_per_second. The final counter value is the
// platform's raw_speed in KWIPS.
func Measure(clock rtclock.Clock) int64 {
	rawInterval := RawSingleLoad * clock.TicksPerSecond()
	start := clock.Now()
	var iterations int64
	for rtclock.Sub(start, clock.Now()) < rawInterval {
		whetstone.Execute(RawSingleLoad)
		iterations++
	}
	return iterations
}

// CompileTimeDefault is the original's compile-time RAW_SPEED
// constant. Nothing in this repository reads it: the Master measures
// raw speed at startup unless an explicit override is given.
const CompileTimeDefault int64 = 413500

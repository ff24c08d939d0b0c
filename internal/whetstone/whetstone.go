/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\whetstone\whetstone.go
 * @Description: calibrated floating-point burn kernel
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package whetstone

import "math"

// instructionsPerKWI is the number of floating-point loop iterations
// one KWI (1000 Whetstone "instructions") is calibrated to on this
// implementation. It has no claim to match any reference Whetstone
// MFLOPS rating; it only needs to be stable across a single run so
// that KWIPS measured by the calibrator and workload requested by a
// task are comparable.
const instructionsPerKWI = 1000

// Execute burns kwi KWI units of floating-point work. It is the one
// substitutable external collaborator named for the periodic task
// engine and the raw-speed calibrator; both call it with no knowledge
// of its internals beyond "takes calibrated time proportional to kwi".
func Execute(kwi int64) {
	if kwi <= 0 {
		return
	}
	x := 0.999
	y := 1.001
	n := kwi * instructionsPerKWI
	for i := int64(0); i < n; i++ {
		x = x*y + math.Sin(x) - math.Cos(y)
		y = y*x + math.Sqrt(math.Abs(x)+1)
	}
	sink = x + y
}

// sink defeats dead-code elimination of the burn loop above.
var sink float64

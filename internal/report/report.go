/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\report\report.go
 * @Description: step report table for a synthetic task set
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package report

import (
	"fmt"
	"time"

	"github.com/MatheusPinto/robotstone/internal/experiment"
	"github.com/MatheusPinto/robotstone/internal/synthtask"
	"github.com/MatheusPinto/robotstone/logger"
)

// taskRow builds the table row of one synthetic task's step counters.
func taskRow(t *synthtask.Task) map[string]interface{} {
	return map[string]interface{}{
		"task":     t.ID,
		"freq_hz":  fmt.Sprintf("%.1f", t.Frequency),
		"kwipp":    t.WorkloadKW,
		"met":      t.Measurements.Met,
		"missed":   t.Measurements.Missed,
		"skipped":  t.Measurements.Skipped,
		"wcrt":     time.Duration(t.Measurements.WCRT),
		"bcrt":     time.Duration(t.Measurements.BCRT),
		"avg_resp": time.Duration(int64(t.Measurements.AvgResponse)),
		"avg_jit":  time.Duration(int64(t.Measurements.AvgJitter)),
	}
}

// Step prints the counters of every task in a set at the end of one
// experiment step, and the cumulative worst-case scenario record.
func Step(log logger.ILogger, exp int, step int, tasks []*synthtask.Task, scenario experiment.WorstCaseScenario) {
	log.InfoKV("experiment step complete", "experiment", exp, "step", step)
	rows := make([]map[string]interface{}, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, taskRow(t))
	}
	log.ConsoleTable(rows)
	log.InfoKV("worst case scenario so far",
		"step", scenario.Step,
		"task", scenario.TaskID,
		"wcrt", time.Duration(scenario.WCRT),
		"avg_response", time.Duration(int64(scenario.AverageResponse)),
	)
}

// RawSpeed prints the calibrator's measured raw speed.
func RawSpeed(log logger.ILogger, rawSpeed int64) {
	log.InfoKV("raw speed measured", "kwips", rawSpeed)
}

// DeadlineMisses prints the deadline-miss count a PCD Slave signalled
// back over the management handshake for one step.
func DeadlineMisses(log logger.ILogger, exp int, step int, misses uint16) {
	log.InfoKV("slave deadline miss count", "experiment", exp, "step", step, "misses", misses)
}

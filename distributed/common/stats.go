/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-23 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-24 00:05:00
 * @FilePath: \go-stress\distributed\common\stats.go
 * @Description: heartbeat resource sample
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package common

import (
	"time"
)

// ResourceUsage is a point-in-time sample of a peer's host resources,
// piggybacked on its heartbeat so the other side can log it but never
// acts on it as scheduling input.
type ResourceUsage struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	MemoryUsed    int64     `json:"memory_used"`
	MemoryTotal   int64     `json:"memory_total"`
	Timestamp     time.Time `json:"timestamp"`
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-23 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-23 10:00:00
 * @FilePath: \go-stress\distributed\common\models.go
 * @Description: control-plane data models
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package common

import (
	"time"
)

// PeerInfo describes the other process in a two-node run, as seen over
// the gRPC control plane. It carries no scored benchmark data; the
// health checker uses it to mark and log a lost peer, and the
// experiment handshake does not consult it.
type PeerInfo struct {
	ID            string         `json:"id"`
	Role          NodeRole       `json:"role"`
	Hostname      string         `json:"hostname"`
	IP            string         `json:"ip"`
	GRPCPort      int32          `json:"grpc_port"`
	State         PeerState      `json:"state"`
	LastHeartbeat time.Time      `json:"last_heartbeat"`
	RegisteredAt  time.Time      `json:"registered_at"`
	HealthFailCount int          `json:"health_fail_count"`
	ResourceUsage *ResourceUsage `json:"resource_usage"`
}

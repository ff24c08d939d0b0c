/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\messages.go
 * @Description: SessionService request/reply payloads
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"time"

	"github.com/MatheusPinto/robotstone/distributed/common"
)

// RegisterRequest is sent once by the Slave at startup, before any
// experiment handshake is attempted.
type RegisterRequest struct {
	Peer *common.PeerInfo `json:"peer"`
}

type RegisterReply struct {
	Accepted          bool          `json:"accepted"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval"`
	Reason            string        `json:"reason,omitempty"`
}

// HeartbeatRequest carries the Slave's current liveness state and a
// gopsutil-sampled resource snapshot. It never carries scheduling
// input; the Master only uses it to log disconnects.
type HeartbeatRequest struct {
	PeerID   string                `json:"peer_id"`
	State    common.PeerState      `json:"state"`
	Resource *common.ResourceUsage `json:"resource"`
}

type HeartbeatReply struct {
	OK bool `json:"ok"`
}

// TopicRefRequest adjusts the Master's authoritative cross-process
// reference count for one topic by delta, per spec.md §9's
// message-passed equivalent of a named shared-heap counter.
type TopicRefRequest struct {
	TopicID uint16 `json:"topic_id"`
	Delta   int32  `json:"delta"`
}

type TopicRefReply struct {
	Total int32 `json:"total"`
}

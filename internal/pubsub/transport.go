/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\pubsub\transport.go
 * @Description: cross-process mirroring for topic gatekeepers
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pubsub

import "sync"

// Transport lets a Topic's gatekeeper mirror a locally published
// message onto the peer process, and accept messages the peer
// publishes into this process's copy of the topic. A Fabric built
// with a nil Transport (PD experiments, single-process tests) never
// leaves the local broadcast queue.
type Transport interface {
	Publish(topicID uint16, payload []byte) error
	Subscribe(topicID uint16, handler func(payload []byte)) error
	Unsubscribe(topicID uint16) error
}

// PeerRefReporter tracks the cross-process reference count for a
// topic. The Master's Fabric is the authoritative holder; the
// Slave's Fabric reports deltas to the Master over the control plane
// and receives back the resulting total. A Fabric with a nil
// PeerRefReporter treats the local count as authoritative, which is
// correct for single-process tests and for the Master's own view.
type PeerRefReporter interface {
	ReportTopicRef(topicID uint16, delta int32) (total int32, err error)
}

// LocalPeerRef is the Master-side PeerRefReporter: it holds the
// authoritative cross-process count itself, in-process, since the
// Master always touches a topic first in every experiment variant.
type LocalPeerRef struct {
	mu     sync.Mutex
	counts map[uint16]int32
}

// NewLocalPeerRef returns a PeerRefReporter backed by a map guarded
// by its own mutex, since both the Master's Fabric and the control
// plane's TopicRef handler update it without any common lock.
func NewLocalPeerRef() *LocalPeerRef {
	return &LocalPeerRef{counts: make(map[uint16]int32)}
}

func (l *LocalPeerRef) ReportTopicRef(topicID uint16, delta int32) (int32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[topicID] += delta
	return l.counts[topicID], nil
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\pubsub\fabric.go
 * @Description: topic table and publish/subscribe request handling
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pubsub

import (
	"fmt"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/idgen"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// ManagementTopicMaster and ManagementTopicSlave are the two reserved
// topic ids used by the handshake protocol; synthetic tasks must
// never request them.
const (
	ManagementTopicMaster uint16 = 0
	ManagementTopicSlave  uint16 = 1
	firstDataTopic        uint16 = 2
)

// Fabric is the process-wide pub/sub table. Topic creation and topic
// destruction, the only mutations of the table itself, go through
// fabric.mu; adding or removing a handle on an existing topic and the
// cross-process ref-count reports do not take that lock.
type Fabric struct {
	mu     *syncx.RWLock
	topics *syncx.Map[uint16, *Topic]

	idGen     *idgen.SnowflakeGenerator
	transport Transport
	peerRef   PeerRefReporter
	remote    bool

	log logger.ILogger
}

// NewFabric builds a Fabric. transport may be nil (PD experiments,
// single-process tests); when non-nil, every topic this Fabric
// creates mirrors its traffic across the process boundary. peerRef
// may be nil, in which case the local reference count is treated as
// authoritative (correct for the Master and for single-process use).
func NewFabric(transport Transport, peerRef PeerRefReporter, log logger.ILogger) *Fabric {
	return &Fabric{
		mu:        syncx.NewRWLock(),
		topics:    syncx.NewMap[uint16, *Topic](),
		idGen:     idgen.NewSnowflakeGenerator(1, 1),
		transport: transport,
		peerRef:   peerRef,
		remote:    transport != nil,
		log:       log,
	}
}

func (f *Fabric) lookupTopic(id uint16) (*Topic, bool) {
	return f.topics.Load(id)
}

func (f *Fabric) getOrCreateTopic(id uint16, msgSize int) (*Topic, error) {
	if t, ok := f.topics.Load(id); ok {
		if t.msgSize != msgSize {
			return nil, ErrMessageSizeMismatch
		}
		return t, nil
	}
	return syncx.WithLockReturnWithE(f.mu, func() (*Topic, bool) {
		if t, ok := f.topics.Load(id); ok {
			return t, t.msgSize == msgSize
		}
		t := newTopic(id, msgSize, f.transport, f.remote, f.log)
		f.topics.Store(id, t)
		return t, true
	})
}

func (f *Fabric) newHandleID(t *Topic) string {
	for {
		id := f.idGen.GenerateRequestID()
		if _, taken := t.subscribers.Load(id); taken {
			continue
		}
		if _, taken := t.publishers.Load(id); taken {
			continue
		}
		return id
	}
}

// Subscribe is the "subscribing request" of spec.md §4.3: it
// idempotently creates the topic on first use and returns a handle
// whose Receive blocks until a message of exactly msgSize bytes
// arrives.
func (f *Fabric) Subscribe(topicID uint16, msgSize int) (*Subscriber, error) {
	t, err := f.getOrCreateTopic(topicID, msgSize)
	if err != nil {
		return nil, ErrTopicCreationFailed
	}
	handleID := f.newHandleID(t)
	t.addSubscriber(handleID)
	if err := f.reportRef(topicID, 1); err != nil {
		t.removeSubscriber(handleID)
		return nil, err
	}
	return &Subscriber{fabric: f, topicID: topicID, handleID: handleID, msgSize: msgSize}, nil
}

// Publish is the "publishing request" of spec.md §4.3.
func (f *Fabric) Publish(topicID uint16, msgSize int) (*Publisher, error) {
	t, err := f.getOrCreateTopic(topicID, msgSize)
	if err != nil {
		return nil, ErrTopicCreationFailed
	}
	handleID := f.newHandleID(t)
	t.addPublisher(handleID)
	if err := f.reportRef(topicID, 1); err != nil {
		t.removePublisher(handleID)
		return nil, err
	}
	return &Publisher{fabric: f, topicID: topicID, handleID: handleID, msgSize: msgSize}, nil
}

func (f *Fabric) reportRef(topicID uint16, delta int32) error {
	if f.peerRef == nil {
		return nil
	}
	if _, err := f.peerRef.ReportTopicRef(topicID, delta); err != nil {
		return errorx.WrapError(fmt.Sprintf("report ref delta %d for topic %d", delta, topicID), err)
	}
	return nil
}

// leave removes a handle from its topic's publisher or subscriber
// set and destroys the topic once the local set is empty and the
// cross-process counter also reads zero.
func (f *Fabric) leave(topicID uint16, handleID string, publisher bool) error {
	t, ok := f.lookupTopic(topicID)
	if !ok {
		return ErrUnknownHandle
	}
	if publisher {
		t.removePublisher(handleID)
	} else {
		t.removeSubscriber(handleID)
	}

	crossTotal := int32(0)
	if f.peerRef != nil {
		total, err := f.peerRef.ReportTopicRef(topicID, -1)
		if err != nil {
			return errorx.WrapError(fmt.Sprintf("report leave for topic %d", topicID), err)
		}
		crossTotal = total
	}

	if t.localHandleCount() == 0 && (f.peerRef == nil || crossTotal <= 0) {
		return syncx.WithLockReturnValue(f.mu, func() error {
			if cur, ok := f.topics.Load(topicID); ok && cur == t {
				f.topics.Delete(topicID)
				t.destroy()
			}
			return nil
		})
	}
	return nil
}

// TopicCount reports how many topics currently exist, for tests and
// diagnostics.
func (f *Fabric) TopicCount() int {
	n := 0
	f.topics.Range(func(uint16, *Topic) bool { n++; return true })
	return n
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\pubsub\handle.go
 * @Description: arena-indexed publisher/subscriber handles
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pubsub

import (
	"context"
	"errors"
	"sync"
)

// ErrUnblocked is returned by Subscriber.Receive when the block was
// broken by an explicit Unblock call rather than by a delivered
// message.
var ErrUnblocked = errors.New("pubsub: subscriber unblocked")

// Publisher is a handle into a topic's publisher set. It carries no
// pointer back into the Topic; every call looks the topic up through
// the owning Fabric's table, matching the arena-indexed handle design
// that avoids a Publisher<->Topic reference cycle.
type Publisher struct {
	fabric   *Fabric
	topicID  uint16
	handleID string
	msgSize  int
}

// Send copies buf into a broadcast queue slot and wakes the topic's
// gatekeeper. It never blocks; on a full queue it returns
// ErrQueueFull and the caller (the periodic task engine) drops the
// message without aborting, per the QueueFull error policy.
func (p *Publisher) Send(buf []byte) error {
	if len(buf) != p.msgSize {
		return ErrMessageSizeMismatch
	}
	topic, ok := p.fabric.lookupTopic(p.topicID)
	if !ok {
		return ErrUnknownHandle
	}
	if err := topic.enqueue(buf); err != nil {
		return err
	}
	topic.signalWake()
	return nil
}

// Leave removes this publisher from its topic and destroys the topic
// if that drops both the local and cross-process reference counts to
// zero.
func (p *Publisher) Leave() error {
	return p.fabric.leave(p.topicID, p.handleID, true)
}

// MsgSize reports the fixed payload size this handle was created
// with, equal to the owning topic's message size.
func (p *Publisher) MsgSize() int { return p.msgSize }

// TopicID reports the topic this handle belongs to.
func (p *Publisher) TopicID() uint16 { return p.topicID }

// Subscriber is a handle into a topic's subscriber set.
type Subscriber struct {
	fabric   *Fabric
	topicID  uint16
	handleID string
	msgSize  int

	unblockOnce sync.Once
}

// Receive blocks until a message arrives, the handle is explicitly
// unblocked, or ctx is cancelled, then copies exactly msgSize bytes
// into the returned slice.
func (s *Subscriber) Receive(ctx context.Context) ([]byte, error) {
	topic, ok := s.fabric.lookupTopic(s.topicID)
	if !ok {
		return nil, ErrUnknownHandle
	}
	slot, ok := topic.subscribers.Load(s.handleID)
	if !ok {
		return nil, ErrUnknownHandle
	}
	select {
	case msg := <-slot.ch:
		return msg, nil
	case <-slot.unblock:
		return nil, ErrUnblocked
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unblock breaks a pending Receive without delivering a message. The
// unblock latches: once called, every later Receive on this handle
// returns ErrUnblocked at once, so a task that reaches Receive only
// after the call still gets out. Repeated calls are no-ops and never
// panic or double-close a channel.
func (s *Subscriber) Unblock() {
	topic, ok := s.fabric.lookupTopic(s.topicID)
	if !ok {
		return
	}
	slot, ok := topic.subscribers.Load(s.handleID)
	if !ok {
		return
	}
	s.unblockOnce.Do(func() {
		close(slot.unblock)
	})
}

// Leave removes this subscriber from its topic and destroys the
// topic if that drops both reference counts to zero.
func (s *Subscriber) Leave() error {
	return s.fabric.leave(s.topicID, s.handleID, false)
}

// MsgSize reports the fixed payload size this handle was created
// with, equal to the owning topic's message size.
func (s *Subscriber) MsgSize() int { return s.msgSize }

// TopicID reports the topic this handle belongs to.
func (s *Subscriber) TopicID() uint16 { return s.topicID }

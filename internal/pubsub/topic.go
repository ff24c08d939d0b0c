/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\pubsub\topic.go
 * @Description: per-topic broadcast queue and gatekeeper fan-out
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pubsub

import (
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// SubBufferSize is the depth of each subscriber's private FIFO.
const SubBufferSize = 30

// broadcastQueueCapacity bounds the topic's single shared queue that
// every publisher enqueues into before the gatekeeper fans it out.
const broadcastQueueCapacity = 64

// Topic owns one bounded broadcast queue and the gatekeeper goroutine
// that drains it into every subscriber's private FIFO. The ring
// buffer fields mirror a circular task queue's head/tail/len/cap
// bookkeeping, generalized here to carry opaque fixed-size payloads
// instead of task records.
type Topic struct {
	id      uint16
	msgSize int

	mu                            *syncx.RWLock
	queue                         [][]byte
	head, tail, length, capacity  int

	wake chan struct{}
	done chan struct{}
	exit chan struct{}

	subscribers *syncx.Map[string, *subscriberSlot]
	publishers  *syncx.Map[string, struct{}]

	transport Transport
	remote    bool

	log logger.ILogger
}

type subscriberSlot struct {
	ch      chan []byte
	unblock chan struct{}
}

func newTopic(id uint16, msgSize int, transport Transport, remote bool, log logger.ILogger) *Topic {
	t := &Topic{
		id:          id,
		msgSize:     msgSize,
		mu:          syncx.NewRWLock(),
		queue:       make([][]byte, broadcastQueueCapacity),
		capacity:    broadcastQueueCapacity,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		exit:        make(chan struct{}),
		subscribers: syncx.NewMap[string, *subscriberSlot](),
		publishers:  syncx.NewMap[string, struct{}](),
		transport:   transport,
		remote:      remote,
		log:         log,
	}
	if remote && transport != nil {
		_ = transport.Subscribe(id, t.ingestRemote)
	}
	go t.gatekeeper()
	return t
}

// ingestRemote is the transport's delivery callback for a message the
// peer process published on this topic; it is injected straight into
// the local fan-out path without re-publishing, so it never echoes
// back out over the transport.
func (t *Topic) ingestRemote(payload []byte) {
	t.fanout(payload)
}

func (t *Topic) enqueue(payload []byte) error {
	return syncx.WithLockReturnValue(t.mu, func() error {
		if t.length >= t.capacity {
			return ErrQueueFull
		}
		cp := make([]byte, len(payload))
		copy(cp, payload)
		t.queue[t.tail] = cp
		t.tail = (t.tail + 1) % t.capacity
		t.length++
		return nil
	})
}

func (t *Topic) dequeue() ([]byte, bool) {
	return syncx.WithLockReturnWithE(t.mu, func() ([]byte, bool) {
		if t.length == 0 {
			return nil, false
		}
		msg := t.queue[t.head]
		t.queue[t.head] = nil
		t.head = (t.head + 1) % t.capacity
		t.length--
		return msg, true
	})
}

// gatekeeper runs at a logically higher priority than any synthetic
// task: it is the sole writer into every subscriber's private FIFO,
// so it is never itself blocked waiting on a synthetic task's
// progress. It exits when the topic is destroyed.
func (t *Topic) gatekeeper() {
	defer close(t.exit)
	for {
		select {
		case <-t.wake:
			for {
				msg, ok := t.dequeue()
				if !ok {
					break
				}
				t.fanout(msg)
				if t.remote && t.transport != nil {
					if err := t.transport.Publish(t.id, msg); err != nil && t.log != nil {
						t.log.WarnKV("transport publish failed", "topic", t.id, "error", err)
					}
				}
			}
		case <-t.done:
			return
		}
	}
}

func (t *Topic) fanout(msg []byte) {
	t.subscribers.Range(func(_ string, slot *subscriberSlot) bool {
		select {
		case slot.ch <- msg:
		default:
			if t.log != nil {
				t.log.WarnKV("subscriber FIFO full, message dropped", "topic", t.id)
			}
		}
		return true
	})
}

func (t *Topic) signalWake() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Topic) addSubscriber(handleID string) *subscriberSlot {
	slot := &subscriberSlot{
		ch:      make(chan []byte, SubBufferSize),
		unblock: make(chan struct{}),
	}
	t.subscribers.Store(handleID, slot)
	return slot
}

func (t *Topic) removeSubscriber(handleID string) {
	t.subscribers.Delete(handleID)
}

func (t *Topic) addPublisher(handleID string) {
	t.publishers.Store(handleID, struct{}{})
}

func (t *Topic) removePublisher(handleID string) {
	t.publishers.Delete(handleID)
}

func (t *Topic) localHandleCount() int {
	n := 0
	t.subscribers.Range(func(string, *subscriberSlot) bool { n++; return true })
	t.publishers.Range(func(string, struct{}) bool { n++; return true })
	return n
}

// destroy signals the gatekeeper to exit and joins it, per spec.md's
// "destruction waits for the gatekeeper to exit (unblock + join)".
func (t *Topic) destroy() {
	close(t.done)
	<-t.exit
	if t.remote && t.transport != nil {
		_ = t.transport.Unsubscribe(t.id)
	}
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\handshake\handshake.go
 * @Description: two-step management handshake protocol
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package handshake

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/MatheusPinto/robotstone/internal/pubsub"
)

// Reserved wire values, little-endian 16-bit, per the management wire
// format.
const (
	Step1                     uint16 = 666
	Step2                     uint16 = 667
	IsStarted                 uint16 = 0
	IsFinished                uint16 = 1
	IsRun                     uint16 = 2
	DeadlineHandshakeSentinel uint16 = 777
)

// ErrDesync is returned whenever a received value does not match the
// protocol's expectation at that step. It is fatal: the benchmark is
// invalid past a protocol desync and both sides must abort.
type ErrDesync struct {
	Step     int
	Expected uint16
	Got      uint16
}

func (e *ErrDesync) Error() string {
	return fmt.Sprintf("handshake desync in step %d: expected %d, got %d", e.Step, e.Expected, e.Got)
}

// Link is the pair of management handles one peer uses to run the
// handshake: pub sends out, sub receives in.
type Link struct {
	pub    *pubsub.Publisher
	sub    *pubsub.Subscriber
	period time.Duration
}

// NewLink builds a Link from a peer's management publisher/subscriber
// pair and the period used to pace the protocol's settling delays.
func NewLink(pub *pubsub.Publisher, sub *pubsub.Subscriber, period time.Duration) *Link {
	return &Link{pub: pub, sub: sub, period: period}
}

func encode(v uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return buf
}

func decode(buf []byte) uint16 {
	return binary.LittleEndian.Uint16(buf)
}

func (l *Link) publish(v uint16) error {
	return l.pub.Send(encode(v))
}

func (l *Link) receive(ctx context.Context) (uint16, error) {
	buf, err := l.sub.Receive(ctx)
	if err != nil {
		return 0, err
	}
	return decode(buf), nil
}

// Send runs the initiating side of the two-step protocol: publish
// Step1, wait for the peer's Receive to echo it back, then publish
// msg, then wait for the peer's Step2 acknowledgement.
//
// The original's trailing sleep(one period) after a completed Send
// — a workaround for the underlying broadcast queue not waking every
// waiter atomically — is dropped here: this fabric's gatekeeper fans
// out to subscriber channels as a single atomic send/receive pair,
// so there is no freelist-settling window to wait out. This is the
// one behavior change invited for an implementation that already
// gives the stronger guarantee.
func (l *Link) Send(ctx context.Context, msg uint16) error {
	time.Sleep(l.period / 5)
	if err := l.publish(Step1); err != nil {
		return err
	}
	got, err := l.receive(ctx)
	if err != nil {
		return err
	}
	if got != Step1 {
		return &ErrDesync{Step: 1, Expected: Step1, Got: got}
	}

	time.Sleep(l.period / 5)
	if err := l.publish(msg); err != nil {
		return err
	}
	got, err = l.receive(ctx)
	if err != nil {
		return err
	}
	if got != Step2 {
		return &ErrDesync{Step: 2, Expected: Step2, Got: got}
	}
	return nil
}

// Receive runs the responding side of the two-step protocol: wait for
// Step1, echo it, wait for the peer's message, echo Step2.
func (l *Link) Receive(ctx context.Context) (uint16, error) {
	got, err := l.receive(ctx)
	if err != nil {
		return 0, err
	}
	if got != Step1 {
		return 0, &ErrDesync{Step: 1, Expected: Step1, Got: got}
	}

	time.Sleep(l.period / 5)
	if err := l.publish(Step1); err != nil {
		return 0, err
	}

	msg, err := l.receive(ctx)
	if err != nil {
		return 0, err
	}

	time.Sleep(l.period / 5)
	if err := l.publish(Step2); err != nil {
		return 0, err
	}
	return msg, nil
}

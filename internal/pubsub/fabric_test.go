/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\pubsub\fabric_test.go
 * @Description: topic table and handle round-trip tests
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundTripSameProcess(t *testing.T) {
	f := NewFabric(nil, nil, nil)

	sub, err := f.Subscribe(5, 4)
	assert.NoError(t, err)
	pub, err := f.Publish(5, 4)
	assert.NoError(t, err)

	msg := []byte{1, 2, 3, 4}
	assert.NoError(t, pub.Send(msg))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := sub.Receive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestSubscribeLeaveSubscribeIsIdempotent(t *testing.T) {
	f := NewFabric(nil, nil, nil)

	sub1, err := f.Subscribe(9, 2)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.TopicCount())
	assert.NoError(t, sub1.Leave())
	assert.Equal(t, 0, f.TopicCount())

	sub2, err := f.Subscribe(9, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, sub2.msgSize)
	assert.Equal(t, 1, f.TopicCount())
}

func TestMessageSizeMismatchRejected(t *testing.T) {
	f := NewFabric(nil, nil, nil)
	_, err := f.Publish(3, 8)
	assert.NoError(t, err)
	_, err = f.Subscribe(3, 4)
	assert.Equal(t, ErrTopicCreationFailed, err)
}

func TestRepeatedUnblockOnIdleSubscriberLatches(t *testing.T) {
	f := NewFabric(nil, nil, nil)
	sub, err := f.Subscribe(7, 2)
	assert.NoError(t, err)
	sub.Unblock()
	sub.Unblock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = sub.Receive(ctx)
	assert.Equal(t, ErrUnblocked, err)
}

func TestUnblockBreaksPendingReceive(t *testing.T) {
	f := NewFabric(nil, nil, nil)
	sub, err := f.Subscribe(13, 2)
	assert.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err := sub.Receive(ctx)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	sub.Unblock()
	assert.Equal(t, ErrUnblocked, <-errCh)
}

func TestQueueFullReturnsErrorWithoutPanicking(t *testing.T) {
	topic := newTopic(11, 1, nil, false, nil)
	defer topic.destroy()

	var last error
	for i := 0; i < broadcastQueueCapacity+8; i++ {
		last = topic.enqueue([]byte{byte(i)})
	}
	assert.Equal(t, ErrQueueFull, last)
}

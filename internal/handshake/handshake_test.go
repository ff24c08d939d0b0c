/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\handshake\handshake_test.go
 * @Description: two-step management handshake tests
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package handshake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MatheusPinto/robotstone/internal/pubsub"
)

func newLinkPair(t *testing.T) (*Link, *Link) {
	t.Helper()
	fabric := pubsub.NewFabric(nil, nil, nil)

	masterOut, err := fabric.Publish(0, 2)
	assert.NoError(t, err)
	slaveInOn0, err := fabric.Subscribe(0, 2)
	assert.NoError(t, err)
	slaveOut, err := fabric.Publish(1, 2)
	assert.NoError(t, err)
	masterInOn1, err := fabric.Subscribe(1, 2)
	assert.NoError(t, err)

	master := NewLink(masterOut, masterInOn1, time.Millisecond)
	slave := NewLink(slaveOut, slaveInOn0, time.Millisecond)
	return master, slave
}

func TestSendReceiveRoundTrip(t *testing.T) {
	master, slave := newLinkPair(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- master.Send(ctx, IsRun) }()

	got, err := slave.Receive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, IsRun, got)
	assert.NoError(t, <-errCh)
}

func TestDesyncInjectionFailsFast(t *testing.T) {
	master, slave := newLinkPair(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- master.Send(ctx, IsRun) }()

	_, err := slave.receive(ctx)
	assert.NoError(t, err)
	assert.NoError(t, slave.publish(665))

	err = <-errCh
	desync, ok := err.(*ErrDesync)
	assert.True(t, ok, "expected *ErrDesync, got %v (%T)", err, err)
	if ok {
		assert.Equal(t, 1, desync.Step)
		assert.Equal(t, Step1, desync.Expected)
		assert.EqualValues(t, 665, desync.Got)
	}
}

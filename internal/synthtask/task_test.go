/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\synthtask\task_test.go
 * @Description: periodic task release loop tests
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package synthtask

import (
	"context"
	"testing"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/stretchr/testify/assert"

	"github.com/MatheusPinto/robotstone/internal/pubsub"
	"github.com/MatheusPinto/robotstone/internal/rtclock"
)

func TestPeriodRounding(t *testing.T) {
	c := rtclock.NewReal()
	period := NewPeriod(c, 10)
	want := c.TicksPerSecond() / 10
	assert.Equal(t, want, period)
}

func TestRunStopsAndExcludesLastJobFromAverage(t *testing.T) {
	clock := rtclock.NewReal()
	stop := syncx.NewBool(false)
	d := Descriptor{ID: 1, Period: int64(2 * time.Millisecond)}
	task := NewTask(d, clock, stop)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go task.Run(ctx, clock.Now(), done)

	time.Sleep(20 * time.Millisecond)
	stop.Store(true)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not stop after stop flag was set")
	}

	assert.GreaterOrEqual(t, task.Measurements.JobsCompleted, int64(2))
	assert.Equal(t, task.Measurements.JobsCompleted-1, task.Measurements.Met+task.Measurements.Missed)
}

// TestRunSubscriberModeBlocksThenUnblocks exercises the data-task
// variant the PCD domain runs: a task with a Subscriber set blocks on
// Receive at the top of every job, and Unblock breaks it out cleanly
// once the stop flag is raised, matching the Slave's step teardown
// order (stop, then unblock, then join).
func TestRunSubscriberModeBlocksThenUnblocks(t *testing.T) {
	fabric := pubsub.NewFabric(nil, nil, nil)
	sub, err := fabric.Subscribe(20, 2)
	assert.NoError(t, err)
	defer sub.Leave()

	clock := rtclock.NewReal()
	stop := syncx.NewBool(false)
	d := Descriptor{ID: 2, Period: int64(5 * time.Millisecond), Subscriber: sub}
	task := NewTask(d, clock, stop)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go task.Run(ctx, clock.Now(), done)

	time.Sleep(10 * time.Millisecond)
	stop.Store(true)
	sub.Unblock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscriber-mode task did not stop after unblock")
	}
	assert.Equal(t, int64(1), task.Measurements.JobsCompleted)
	assert.Equal(t, int64(0), task.Measurements.Met+task.Measurements.Missed)
}

func TestClearIsIdempotent(t *testing.T) {
	var m Measurements
	m.JobsCompleted = 5
	m.Met = 3
	m.Clear()
	first := m
	m.Clear()
	assert.Equal(t, first, m)
}

func TestZeroResponseHasKOfOne(t *testing.T) {
	assert.Equal(t, int64(1), rtclock.Ceil(0, 100))
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\pcd.go
 * @Description: shared PCD task-set construction for Master (publisher side)
 *               and Slave (subscriber side)
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"fmt"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"

	"github.com/MatheusPinto/robotstone/internal/pubsub"
	"github.com/MatheusPinto/robotstone/internal/rtclock"
	"github.com/MatheusPinto/robotstone/internal/synthtask"
)

// dataTopicBase is the first of the three PCD data topics (2,3,4);
// ManagementTopicMaster/Slave (0,1) stay reserved for the handshake.
const dataTopicBase = uint16(2)

// pcdBaselineMsgSize is the fixed payload size every PCD baseline
// task publishes/subscribes at, except under experiment 5 where
// MsgSizeForStep overrides it per step.
const pcdBaselineMsgSize = 8

// buildPublisherTasks opens one Publisher per spec on topics
// dataTopicBase.., and wraps each in a Task that sends a msgSize
// payload every job. This is the Master's half of the PCD domain:
// it clocks the cross-process traffic the Slave's subscriber tasks
// measure deadlines against.
func buildPublisherTasks(specs []BaselineSpec, msgSize int, fabric *pubsub.Fabric, clock rtclock.Clock) ([]*synthtask.Task, []*pubsub.Publisher, error) {
	tasks := make([]*synthtask.Task, len(specs))
	pubs := make([]*pubsub.Publisher, len(specs))
	for i, spec := range specs {
		pub, err := fabric.Publish(dataTopicBase+uint16(i), msgSize)
		if err != nil {
			leavePublishers(pubs[:i])
			return nil, nil, errorx.WrapError(fmt.Sprintf("open publisher for task %d on topic %d", spec.Index, dataTopicBase+uint16(i)), err)
		}
		pubs[i] = pub
		d := synthtask.Descriptor{
			ID:         spec.Index,
			Priority:   spec.Priority,
			Frequency:  spec.Frequency,
			Period:     spec.Period,
			WorkloadKW: spec.Workload,
			Publisher:  pub,
		}
		tasks[i] = synthtask.NewTask(d, clock, syncx.NewBool(false))
	}
	return tasks, pubs, nil
}

// buildSubscriberTasks opens one Subscriber per spec on topics
// dataTopicBase.., and wraps each in a Task blocked on Receive at
// the top of every job. This is the Slave's half of the PCD domain.
func buildSubscriberTasks(specs []BaselineSpec, msgSize int, fabric *pubsub.Fabric, clock rtclock.Clock) ([]*synthtask.Task, []*pubsub.Subscriber, error) {
	tasks := make([]*synthtask.Task, len(specs))
	subs := make([]*pubsub.Subscriber, len(specs))
	for i, spec := range specs {
		sub, err := fabric.Subscribe(dataTopicBase+uint16(i), msgSize)
		if err != nil {
			leaveSubscribers(subs[:i])
			return nil, nil, errorx.WrapError(fmt.Sprintf("open subscriber for task %d on topic %d", spec.Index, dataTopicBase+uint16(i)), err)
		}
		subs[i] = sub
		d := synthtask.Descriptor{
			ID:         spec.Index,
			Priority:   spec.Priority,
			Frequency:  spec.Frequency,
			Period:     spec.Period,
			WorkloadKW: spec.Workload,
			Subscriber: sub,
		}
		tasks[i] = synthtask.NewTask(d, clock, syncx.NewBool(false))
	}
	return tasks, subs, nil
}

func leavePublishers(pubs []*pubsub.Publisher) {
	for _, pub := range pubs {
		_ = pub.Leave()
	}
}

func leaveSubscribers(subs []*pubsub.Subscriber) {
	for _, sub := range subs {
		_ = sub.Leave()
	}
}

// unblockSubscribers breaks every subscriber's pending Receive so a
// task waiting on a message that will never arrive this step still
// observes the stop flag at its next loop iteration, per the
// teardown order the Slave's loop requires: sleep, then unblock,
// then join.
func unblockSubscribers(subs []*pubsub.Subscriber) {
	for _, sub := range subs {
		sub.Unblock()
	}
}

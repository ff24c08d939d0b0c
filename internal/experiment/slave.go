/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\slave.go
 * @Description: Slave-side experiment controller
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"context"
	"time"

	"github.com/MatheusPinto/robotstone/internal/calibrator"
	"github.com/MatheusPinto/robotstone/internal/handshake"
	"github.com/MatheusPinto/robotstone/internal/pubsub"
	"github.com/MatheusPinto/robotstone/internal/report"
	"github.com/MatheusPinto/robotstone/internal/rtclock"
	"github.com/MatheusPinto/robotstone/logger"
)

// Slave runs the data-plane side of a PCD run: it subscribes its
// baseline task set on the Master's 3 data topics, measuring each
// job's response time against the messages the Master's own
// publisher task set delivers, and reports a deadline-miss count back
// to the Master over the handshake.
type Slave struct {
	clock    rtclock.Clock
	fabric   *pubsub.Fabric
	link     *handshake.Link
	log      logger.ILogger
	rawSpeed int64
	scenario *ScenarioTracker
}

// NewSlave builds a Slave controller bound to its management
// handshake link and a Fabric whose transport mirrors traffic to the
// Master's process.
func NewSlave(clock rtclock.Clock, fabric *pubsub.Fabric, link *handshake.Link, log logger.ILogger) *Slave {
	return &Slave{clock: clock, fabric: fabric, link: link, log: log, scenario: NewScenarioTracker()}
}

// Calibrate measures this Slave's own raw speed and reports it. Run
// sizes the Slave's PCD baseline workloads from this value; the
// Master sizes its own task set from its own raw speed.
func (s *Slave) Calibrate() int64 {
	s.rawSpeed = calibrator.Measure(s.clock)
	report.RawSpeed(s.log, s.rawSpeed)
	return s.rawSpeed
}

// Run sends the startup handshake, receives the chosen experiment id,
// and loops running steps until the Master signals IsFinished. Each
// step: announce readiness, wait for the Master's begin-step signal,
// run the subscriber task set against the shared initial time, wait
// for the Master's stop signal, sleep one second, unblock every
// subscriber and join its task, report the step locally, then send
// the deadline-miss total (sentinel 777 followed by the count) and —
// for experiment 7 only — a separate reach-limit flag, before checking
// whether the Master ended the run.
func (s *Slave) Run(ctx context.Context) error {
	if err := s.link.Send(ctx, handshake.IsStarted); err != nil {
		return err
	}

	expVal, err := s.link.Receive(ctx)
	if err != nil {
		return err
	}
	exp := Experiment(expVal)

	baseline := PCDBaseline(s.clock, s.rawSpeed)

	for step := 1; step <= maxSteps; step++ {
		specs := baseline
		msgSize := pcdBaselineMsgSize
		switch exp {
		case ExpPCDWorkloadScaling:
			specs = WorkloadScalingStep(baseline, step)
		case ExpPCDFrequencyScaling:
			specs = FrequencyScalingStep(baseline, step, s.clock)
		case ExpPCDMessageSizeScaling:
			msgSize = MsgSizeForStep(step)
		}

		tasks, subs, err := buildSubscriberTasks(specs, msgSize, s.fabric, s.clock)
		if err != nil {
			return err
		}

		if err := s.link.Send(ctx, handshake.IsRun); err != nil {
			leaveSubscribers(subs)
			return err
		}
		if _, err := s.link.Receive(ctx); err != nil {
			leaveSubscribers(subs)
			return err
		}

		initial := s.clock.Now()
		dones := startTasks(ctx, tasks, initial)

		if _, err := s.link.Receive(ctx); err != nil {
			leaveSubscribers(subs)
			return err
		}
		time.Sleep(time.Second)
		stopAll(tasks)
		unblockSubscribers(subs)
		waitAll(dones)

		misses := uint16(0)
		for _, t := range tasks {
			s.scenario.Consider(step, t.ID, t.Measurements.WCRT, t.Measurements.AvgResponse)
			misses += uint16(t.Measurements.Missed)
		}
		report.Step(s.log, int(exp), step, tasks, s.scenario.Snapshot())
		leaveSubscribers(subs)

		if err := s.link.Send(ctx, handshake.DeadlineHandshakeSentinel); err != nil {
			return err
		}
		if err := s.link.Send(ctx, misses); err != nil {
			return err
		}

		if exp == ExpPCDReachLimitProbe {
			reachLimit := uint16(0)
			if !s.probeReachLimit() {
				reachLimit = 1
			}
			if err := s.link.Send(ctx, reachLimit); err != nil {
				return err
			}
		}

		next, err := s.link.Receive(ctx)
		if err != nil {
			return err
		}
		if next == handshake.IsFinished {
			return nil
		}

		if exp == ExpPCDWorkloadScaling || exp == ExpPCDMessageSizeScaling || exp == ExpPCDFrequencyScaling {
			if err := s.link.Send(ctx, handshake.IsRun); err != nil {
				return err
			}
			if _, err := s.link.Receive(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// probeReachLimit implements experiment 7's Slave half: try to open
// one more subscriber on the topic immediately past the baseline set;
// a failed allocation means the fabric has reached its limit and the
// Master should stop escalating.
func (s *Slave) probeReachLimit() bool {
	sub, err := s.fabric.Subscribe(dataTopicBase+3, pcdBaselineMsgSize)
	if err != nil {
		return false
	}
	_ = sub.Leave()
	return true
}

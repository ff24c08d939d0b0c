/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\master.go
 * @Description: Master-side experiment controller
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"

	"github.com/MatheusPinto/robotstone/internal/calibrator"
	"github.com/MatheusPinto/robotstone/internal/handshake"
	"github.com/MatheusPinto/robotstone/internal/pubsub"
	"github.com/MatheusPinto/robotstone/internal/report"
	"github.com/MatheusPinto/robotstone/internal/rtclock"
	"github.com/MatheusPinto/robotstone/internal/synthtask"
	"github.com/MatheusPinto/robotstone/logger"
)

// Experiment names the seven escalating benchmark variants, plus the
// raw-speed-only calibration run selected by any other input.
type Experiment int

const (
	ExpCalibrateOnly Experiment = 0

	ExpPDWorkloadScaling  Experiment = 1
	ExpPDFrequencyScaling Experiment = 2
	ExpPDTaskCountScaling Experiment = 3

	ExpPCDWorkloadScaling    Experiment = 4
	ExpPCDMessageSizeScaling Experiment = 5
	ExpPCDFrequencyScaling   Experiment = 6
	ExpPCDReachLimitProbe    Experiment = 7
)

const (
	pdSettleDelay  = 3 * time.Second
	pdTestPeriod   = 10 * time.Second
	pcdSettleDelay = 4 * time.Second
	pcdTestPeriod  = 10 * time.Second
	maxSteps       = 20
)

// Master runs the Master side of every experiment: it calibrates raw
// speed, drives PD task sets directly, and drives its own PCD
// publisher task set in lockstep with the Slave's subscriber task
// set over the management handshake.
type Master struct {
	clock    rtclock.Clock
	fabric   *pubsub.Fabric
	log      logger.ILogger
	rawSpeed int64

	link     *handshake.Link
	scenario *ScenarioTracker
	phase    *syncx.StateMachine[Phase]

	requests chan Experiment
}

// NewMaster builds a Master controller. link may be nil until a Slave
// has registered; PD-only deployments never need one.
func NewMaster(clock rtclock.Clock, fabric *pubsub.Fabric, link *handshake.Link, log logger.ILogger) *Master {
	return &Master{
		clock:    clock,
		fabric:   fabric,
		link:     link,
		log:      log,
		scenario: NewScenarioTracker(),
		phase:    NewPhaseMachine(),
		requests: make(chan Experiment, 1),
	}
}

// Calibrate measures raw speed. Bootstrap calls it at startup unless
// an override is given, and dispatch calls it again for every
// calibrate-only request.
func (m *Master) Calibrate() {
	m.transition(PhaseCalibrating)
	m.rawSpeed = calibrator.Measure(m.clock)
	report.RawSpeed(m.log, m.rawSpeed)
	m.transition(PhaseIdle)
}

// RawSpeed reports the measured (or overridden) raw speed.
func (m *Master) RawSpeed() int64 { return m.rawSpeed }

// SetRawSpeed overrides the calibrated value, used when a compile-time
// constant is supplied instead of a fresh measurement.
func (m *Master) SetRawSpeed(v int64) { m.rawSpeed = v }

// SetLink attaches the management handshake link once a Slave has
// registered; a PCD experiment requested while it is nil is logged
// and skipped.
func (m *Master) SetLink(link *handshake.Link) { m.link = link }

// RequestExperiment enqueues the character a human operator entered,
// the condition-variable-style signal spec.md describes between the
// input reader and the controller loop: a buffered channel send never
// blocks the caller and Run always observes the latest request.
func (m *Master) RequestExperiment(e Experiment) {
	select {
	case m.requests <- e:
	default:
		<-m.requests
		m.requests <- e
	}
}

// Scenario returns the cumulative worst-case scenario snapshot.
func (m *Master) Scenario() WorstCaseScenario { return m.scenario.Snapshot() }

// Run blocks dispatching requested experiments until ctx is cancelled,
// or until a dispatched experiment hits a fatal condition (a protocol
// desync or an unrecoverable handshake failure), which it returns to
// its caller instead of swallowing: the benchmark is invalid past that
// point and the process must abort rather than idle back into the
// next experiment request.
func (m *Master) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case exp := <-m.requests:
			if err := m.dispatch(ctx, exp); err != nil {
				return err
			}
		}
	}
}

func (m *Master) dispatch(ctx context.Context, exp Experiment) error {
	m.transition(PhaseAwaitingExperiment)
	switch {
	case exp == ExpCalibrateOnly:
		m.Calibrate()
		return nil
	case exp >= ExpPDWorkloadScaling && exp <= ExpPDTaskCountScaling:
		m.runPD(ctx, exp)
		return nil
	case exp >= ExpPCDWorkloadScaling && exp <= ExpPCDReachLimitProbe:
		return m.runPCD(ctx, exp)
	default:
		m.Calibrate()
		return nil
	}
}

// transition drives the phase state machine, logging rather than
// failing on an illegal transition: phase tracking is diagnostic
// metadata, never a gate on whether an experiment actually runs.
func (m *Master) transition(to Phase) {
	if err := m.phase.Transition(to); err != nil {
		m.log.WarnKV("illegal phase transition", "to", to, "error", err.Error())
	}
}

// runPD drives one of the three process-local experiments: the task
// set runs entirely inside the Master, no handshake or pub/sub
// traffic involved. Every step always runs, is measured, and is
// reported — including the step that first misses a deadline, so its
// report shows the offending task — and only after reporting does the
// loop decide, from the step's own observed Measurements.Missed
// counters, whether to stop.
func (m *Master) runPD(ctx context.Context, exp Experiment) {
	baseline := PDBaseline(m.clock, m.rawSpeed)
	m.transition(PhaseRunning)

	for step := 1; step <= maxSteps; step++ {
		specs := baseline
		switch exp {
		case ExpPDWorkloadScaling:
			specs = WorkloadScalingStep(baseline, step)
		case ExpPDFrequencyScaling:
			specs = FrequencyScalingStep(baseline, step, m.clock)
		case ExpPDTaskCountScaling:
			specs = TaskCountScalingStep(baseline, step)
		}

		tasks := buildComputeTasks(specs, m.clock)
		time.Sleep(pdSettleDelay)
		initial := m.clock.Now()
		dones := startTasks(ctx, tasks, initial)
		time.Sleep(pdTestPeriod)
		stopAll(tasks)
		waitAll(dones)
		m.transition(PhaseCollecting)

		anyMissed := false
		for _, t := range tasks {
			m.scenario.Consider(step, t.ID, t.Measurements.WCRT, t.Measurements.AvgResponse)
			if t.Measurements.Missed > 0 {
				anyMissed = true
			}
		}
		m.transition(PhaseReporting)
		report.Step(m.log, int(exp), step, tasks, m.scenario.Snapshot())

		if anyMissed {
			m.log.InfoKV("deadline missed, stopping PD run", "experiment", exp, "step", step)
			m.transition(PhaseIdle)
			return
		}
		m.transition(PhaseRunning)
	}
	m.transition(PhaseIdle)
}

// runPCD drives one of the four cross-process experiments. The Master
// owns the PCD publisher task set — 3 baseline tasks, one topic each,
// baseline message size — and runs it in lockstep with the Slave's
// subscriber task set, step by step, over the management handshake:
// the Slave signals readiness, the Master starts both sides' tasks
// against a shared initial time, stops them after the test period,
// and then receives the Slave's own deadline-miss total (sent as the
// sentinel 777 followed by the count) before deciding, from either
// side's misses, whether to continue. Experiment 7 additionally
// exchanges a separate reach-limit flag after the deadline-count
// handshake, never overwriting it.
func (m *Master) runPCD(ctx context.Context, exp Experiment) error {
	if m.link == nil {
		m.log.InfoKV("no slave registered, cannot run PCD experiment", "experiment", exp)
		return nil
	}

	if _, err := m.link.Receive(ctx); err != nil {
		return m.handshakeErr(ctx, "awaiting slave startup", err)
	}
	if err := m.link.Send(ctx, uint16(exp)); err != nil {
		return m.handshakeErr(ctx, "sending selected experiment", err)
	}

	baseline := PCDBaseline(m.clock, m.rawSpeed)
	m.transition(PhaseRunning)

	for step := 1; step <= maxSteps; step++ {
		specs := baseline
		msgSize := pcdBaselineMsgSize
		switch exp {
		case ExpPCDWorkloadScaling:
			specs = WorkloadScalingStep(baseline, step)
		case ExpPCDFrequencyScaling:
			specs = FrequencyScalingStep(baseline, step, m.clock)
		case ExpPCDMessageSizeScaling:
			msgSize = MsgSizeForStep(step)
		}

		tasks, pubs, err := buildPublisherTasks(specs, msgSize, m.fabric, m.clock)
		if err != nil {
			return errorx.WrapError(fmt.Sprintf("initialize PCD publisher tasks at step %d", step), err)
		}

		if _, err := m.link.Receive(ctx); err != nil {
			leavePublishers(pubs)
			return m.handshakeErr(ctx, "awaiting slave step-ready signal", err)
		}
		time.Sleep(pcdSettleDelay)
		initial := m.clock.Now()
		if err := m.link.Send(ctx, handshake.IsRun); err != nil {
			leavePublishers(pubs)
			return m.handshakeErr(ctx, "sending begin-step signal", err)
		}
		dones := startTasks(ctx, tasks, initial)

		time.Sleep(pcdTestPeriod)
		if err := m.link.Send(ctx, handshake.IsRun); err != nil {
			leavePublishers(pubs)
			return m.handshakeErr(ctx, "sending stop signal", err)
		}
		stopAll(tasks)
		waitAll(dones)
		m.transition(PhaseCollecting)

		sentinel, err := m.link.Receive(ctx)
		if err != nil {
			leavePublishers(pubs)
			return m.handshakeErr(ctx, "awaiting slave deadline sentinel", err)
		}
		if sentinel != handshake.DeadlineHandshakeSentinel {
			leavePublishers(pubs)
			return &handshake.ErrDesync{Step: step, Expected: handshake.DeadlineHandshakeSentinel, Got: sentinel}
		}
		misses, err := m.link.Receive(ctx)
		if err != nil {
			leavePublishers(pubs)
			return m.handshakeErr(ctx, "awaiting slave deadline count", err)
		}

		anyMissed := misses != 0
		for _, t := range tasks {
			m.scenario.Consider(step, t.ID, t.Measurements.WCRT, t.Measurements.AvgResponse)
			if t.Measurements.Missed > 0 {
				anyMissed = true
			}
		}
		m.transition(PhaseReporting)
		report.Step(m.log, int(exp), step, tasks, m.scenario.Snapshot())
		report.DeadlineMisses(m.log, int(exp), step, misses)
		leavePublishers(pubs)

		reachLimit := false
		if exp == ExpPCDReachLimitProbe {
			flag, err := m.link.Receive(ctx)
			if err != nil {
				return m.handshakeErr(ctx, "awaiting slave reach-limit signal", err)
			}
			reachLimit = flag != 0
		}

		if anyMissed || reachLimit || step == maxSteps {
			if reachLimit {
				m.log.InfoKV("slave signalled reach-limit, stopping PCD run", "experiment", exp, "step", step)
			} else if anyMissed {
				m.log.InfoKV("deadline missed, stopping PCD run", "experiment", exp, "step", step)
			}
			if err := m.link.Send(ctx, uint16(handshake.IsFinished)); err != nil {
				return m.handshakeErr(ctx, "sending finished signal", err)
			}
			m.transition(PhaseIdle)
			return nil
		}

		if err := m.link.Send(ctx, handshake.IsRun); err != nil {
			return m.handshakeErr(ctx, "sending continue signal", err)
		}

		if exp == ExpPCDWorkloadScaling || exp == ExpPCDMessageSizeScaling || exp == ExpPCDFrequencyScaling {
			sentinel, err := m.link.Receive(ctx)
			if err != nil {
				return m.handshakeErr(ctx, "awaiting slave update-swap sentinel", err)
			}
			if err := m.link.Send(ctx, sentinel); err != nil {
				return m.handshakeErr(ctx, "echoing update-swap sentinel", err)
			}
		}
		m.transition(PhaseRunning)
	}
	m.transition(PhaseIdle)
	return nil
}

// handshakeErr classifies a failed Link.Send/Receive: a desync is
// always fatal, as is any other transport failure observed while the
// context is still live. An error surfacing only because ctx was
// cancelled is the cooperative shutdown path, not a benchmark
// failure, so it is swallowed here.
func (m *Master) handshakeErr(ctx context.Context, desc string, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	if _, ok := err.(*handshake.ErrDesync); ok {
		return err
	}
	return errorx.WrapError("PCD handshake failed "+desc, err)
}

func buildComputeTasks(specs []BaselineSpec, clock rtclock.Clock) []*synthtask.Task {
	tasks := make([]*synthtask.Task, len(specs))
	for i, s := range specs {
		d := synthtask.Descriptor{
			ID:         s.Index,
			Priority:   s.Priority,
			Frequency:  s.Frequency,
			Period:     s.Period,
			WorkloadKW: s.Workload,
		}
		tasks[i] = synthtask.NewTask(d, clock, syncx.NewBool(false))
	}
	return tasks
}

func startTasks(ctx context.Context, tasks []*synthtask.Task, initial int64) []chan struct{} {
	dones := make([]chan struct{}, len(tasks))
	for i, t := range tasks {
		done := make(chan struct{})
		dones[i] = done
		go t.Run(ctx, initial, done)
	}
	return dones
}

func stopAll(tasks []*synthtask.Task) {
	for _, t := range tasks {
		t.Stop()
	}
}

func waitAll(dones []chan struct{}) {
	for _, d := range dones {
		<-d
	}
}

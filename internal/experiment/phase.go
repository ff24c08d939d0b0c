/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\experiment\phase.go
 * @Description: experiment controller phase state machine
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package experiment

import (
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// Phase is the experiment controller's own lifecycle, distinct from
// any one synthetic task's state: it tracks where the management
// task is between a human's keystroke and the next printed report.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseAwaitingExperiment Phase = "awaiting_experiment"
	PhaseCalibrating        Phase = "calibrating"
	PhaseRunning            Phase = "running"
	PhaseCollecting         Phase = "collecting"
	PhaseReporting          Phase = "reporting"
)

// NewPhaseMachine builds the controller's phase state machine with
// the transitions a single experiment run legally takes. Illegal
// transitions are rejected rather than silently ignored.
func NewPhaseMachine() *syncx.StateMachine[Phase] {
	sm := syncx.NewStateMachine(PhaseIdle, syncx.WithTrackHistory[Phase](100))
	sm.AllowTransition(PhaseIdle, PhaseAwaitingExperiment)
	sm.AllowTransition(PhaseIdle, PhaseCalibrating)
	sm.AllowTransition(PhaseAwaitingExperiment, PhaseCalibrating)
	sm.AllowTransition(PhaseAwaitingExperiment, PhaseRunning)
	sm.AllowTransition(PhaseCalibrating, PhaseIdle)
	sm.AllowTransition(PhaseRunning, PhaseCollecting)
	sm.AllowTransition(PhaseRunning, PhaseIdle)
	sm.AllowTransition(PhaseCollecting, PhaseReporting)
	sm.AllowTransition(PhaseReporting, PhaseRunning)
	sm.AllowTransition(PhaseReporting, PhaseIdle)
	return sm
}

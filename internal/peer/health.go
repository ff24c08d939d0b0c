/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\health.go
 * @Description: Slave liveness watchdog
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"context"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/syncx"

	"github.com/MatheusPinto/robotstone/distributed/common"
)

// HealthChecker periodically scans the MasterSession's registered
// peers for a stale heartbeat. A Robotstone run has exactly one
// Slave, but the same per-peer failure counter the teacher's pool
// health checker uses still applies one-for-one.
type HealthChecker struct {
	session     *MasterSession
	interval    time.Duration
	timeout     time.Duration
	maxFailures int

	failureCount *syncx.Map[string, int32]
	log          logger.ILogger
	taskManager  *syncx.PeriodicTaskManager
}

// NewHealthChecker builds a watchdog over session's registered peers.
func NewHealthChecker(session *MasterSession, interval, timeout time.Duration, maxFailures int, log logger.ILogger) *HealthChecker {
	return &HealthChecker{
		session:      session,
		interval:     interval,
		timeout:      timeout,
		maxFailures:  maxFailures,
		failureCount: syncx.NewMap[string, int32](),
		log:          log,
		taskManager:  syncx.NewPeriodicTaskManager(),
	}
}

// Start launches the periodic scan.
func (hc *HealthChecker) Start() {
	task := syncx.NewPeriodicTask("peer-health-check", hc.interval, func(ctx context.Context) error {
		hc.checkAll()
		return nil
	}).SetOnError(func(name string, err error) {
		hc.log.WarnKV("health check task error", "task", name, "error", err.Error())
	})

	hc.taskManager.AddTask(task)
	hc.taskManager.Start()
}

// Stop stops the periodic scan.
func (hc *HealthChecker) Stop() {
	hc.taskManager.Stop()
}

func (hc *HealthChecker) checkAll() {
	hc.session.peers.Range(func(id string, peerInfo *common.PeerInfo) bool {
		hc.checkPeer(peerInfo)
		return true
	})
}

func (hc *HealthChecker) checkPeer(peerInfo *common.PeerInfo) {
	if time.Since(peerInfo.LastHeartbeat) > hc.timeout {
		hc.handleFailure(peerInfo)
	} else {
		hc.handleSuccess(peerInfo)
	}
}

func (hc *HealthChecker) handleFailure(peerInfo *common.PeerInfo) {
	count, _ := hc.failureCount.Load(peerInfo.ID)
	count++
	hc.failureCount.Store(peerInfo.ID, count)

	if int(count) >= hc.maxFailures && peerInfo.State != common.PeerStateLost {
		peerInfo.State = common.PeerStateLost
		hc.log.WarnKV("peer marked lost", "id", peerInfo.ID, "hostname", peerInfo.Hostname, "failures", count)
	}
}

func (hc *HealthChecker) handleSuccess(peerInfo *common.PeerInfo) {
	if count, loaded := hc.failureCount.Load(peerInfo.ID); loaded && count > 0 {
		hc.failureCount.Delete(peerInfo.ID)
		if peerInfo.State == common.PeerStateLost {
			peerInfo.State = common.PeerStateAlive
			hc.log.InfoKV("peer recovered", "id", peerInfo.ID, "hostname", peerInfo.Hostname)
		}
	}
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\slave_session.go
 * @Description: Slave-side control-plane session (register + heartbeat)
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/netx"
	"github.com/kamalyes/go-toolbox/pkg/osx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/MatheusPinto/robotstone/distributed/common"
)

// SlaveSession owns the Slave's gRPC connection to the Master's
// SessionService: registration at startup and a periodic heartbeat
// carrying gopsutil-sampled resource usage.
type SlaveSession struct {
	conn   *grpc.ClientConn
	client SessionClient
	self   *common.PeerInfo

	heartbeat *syncx.PeriodicTaskManager
	log       logger.ILogger
}

// Dial connects to masterAddr and builds the PeerInfo this Slave will
// register with, describing itself the way the teacher's Slave
// construction does (hostname, private IP, and a gRPC port it itself
// does not actually serve on, since this process has no peer-facing
// RPCs of its own).
func Dial(masterAddr, slaveID string, grpcPort int32, creds credentials.TransportCredentials, log logger.ILogger) (*SlaveSession, error) {
	if creds == nil {
		creds = insecure.NewCredentials()
	}
	conn, err := grpc.NewClient(masterAddr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("dial master at %s: %w", masterAddr, err)
	}

	hostname := osx.SafeGetHostName()
	ip, _ := netx.GetPrivateIP()

	self := &common.PeerInfo{
		ID:       slaveID,
		Role:     common.NodeRoleSlave,
		Hostname: hostname,
		IP:       ip,
		GRPCPort: grpcPort,
		State:    common.PeerStateConnecting,
	}

	return &SlaveSession{
		conn:      conn,
		client:    NewSessionClient(conn),
		self:      self,
		heartbeat: syncx.NewPeriodicTaskManager(),
		log:       log,
	}, nil
}

// Register performs the one-time registration call and returns the
// heartbeat interval the Master wants.
func (s *SlaveSession) Register(ctx context.Context) (time.Duration, error) {
	reply, err := s.client.Register(ctx, &RegisterRequest{Peer: s.self})
	if err != nil {
		return 0, fmt.Errorf("register with master: %w", err)
	}
	if !reply.Accepted {
		return 0, fmt.Errorf("master rejected registration: %s", reply.Reason)
	}
	s.self.State = common.PeerStateAlive
	return reply.HeartbeatInterval, nil
}

// StartHeartbeat launches the periodic heartbeat task. It mirrors the
// teacher's own startHeartbeat shape: a named syncx.PeriodicTask with
// error/start/stop hooks, managed by a syncx.PeriodicTaskManager.
func (s *SlaveSession) StartHeartbeat(interval time.Duration) {
	task := syncx.NewPeriodicTask("peer-heartbeat", interval, func(taskCtx context.Context) error {
		return s.sendHeartbeat(taskCtx)
	}).SetOnError(func(name string, err error) {
		s.log.WarnKV("heartbeat failed", "task", name, "error", err)
	})

	s.heartbeat.AddTask(task)
	s.heartbeat.Start()
}

func (s *SlaveSession) sendHeartbeat(ctx context.Context) error {
	usage := sampleResources()
	_, err := s.client.Heartbeat(ctx, &HeartbeatRequest{
		PeerID:   s.self.ID,
		State:    common.PeerStateAlive,
		Resource: usage,
	})
	return err
}

func sampleResources() *common.ResourceUsage {
	usage := &common.ResourceUsage{Timestamp: time.Now()}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		usage.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		usage.MemoryPercent = vm.UsedPercent
		usage.MemoryUsed = int64(vm.Used)
		usage.MemoryTotal = int64(vm.Total)
	}
	return usage
}

// Stop stops the heartbeat task and closes the gRPC connection.
func (s *SlaveSession) Stop() {
	s.heartbeat.Stop()
	_ = s.conn.Close()
}

// TopicRefReporter exposes this session's client as a
// pubsub.PeerRefReporter for the Slave's Fabric.
func (s *SlaveSession) TopicRefReporter() *GRPCPeerRef {
	return &GRPCPeerRef{client: s.client}
}

// GRPCPeerRef implements pubsub.PeerRefReporter by forwarding every
// acquire/release of a cross-process topic to the Master over the
// control plane, replacing the single-host named-shared-heap counter
// with a message-passing equivalent.
type GRPCPeerRef struct {
	client SessionClient
}

func (g *GRPCPeerRef) ReportTopicRef(topicID uint16, delta int32) (int32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reply, err := g.client.TopicRef(ctx, &TopicRefRequest{TopicID: topicID, Delta: delta})
	if err != nil {
		return 0, err
	}
	return reply.Total, nil
}

// NumCPU is exposed for bootstrap log lines describing this host.
func NumCPU() int { return runtime.NumCPU() }

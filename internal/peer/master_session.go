/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\master_session.go
 * @Description: Master-side SessionService implementation
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"context"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"

	"github.com/MatheusPinto/robotstone/distributed/common"
	"github.com/MatheusPinto/robotstone/internal/pubsub"
)

// MasterSession is the Master's side of the control plane: it accepts
// the Slave's registration and heartbeats, and it is the single place
// that applies cross-process topic reference deltas to the
// authoritative counter its own Fabric was built with.
type MasterSession struct {
	peers             *syncx.Map[string, *common.PeerInfo]
	ref               *pubsub.LocalPeerRef
	heartbeatInterval time.Duration
	log               logger.ILogger
}

func NewMasterSession(ref *pubsub.LocalPeerRef, heartbeatInterval time.Duration, log logger.ILogger) *MasterSession {
	return &MasterSession{
		peers:             syncx.NewMap[string, *common.PeerInfo](),
		ref:               ref,
		heartbeatInterval: heartbeatInterval,
		log:               log,
	}
}

func (m *MasterSession) Register(ctx context.Context, req *RegisterRequest) (*RegisterReply, error) {
	req.Peer.State = common.PeerStateAlive
	req.Peer.RegisteredAt = time.Now()
	req.Peer.LastHeartbeat = time.Now()
	m.peers.Store(req.Peer.ID, req.Peer)
	m.log.InfoKV("peer registered", "id", req.Peer.ID, "hostname", req.Peer.Hostname, "ip", req.Peer.IP)
	return &RegisterReply{Accepted: true, HeartbeatInterval: m.heartbeatInterval}, nil
}

func (m *MasterSession) Heartbeat(ctx context.Context, req *HeartbeatRequest) (*HeartbeatReply, error) {
	peerInfo, ok := m.peers.Load(req.PeerID)
	if !ok {
		return nil, errorx.WrapError("heartbeat from peer "+req.PeerID, ErrUnknownPeer)
	}
	peerInfo.LastHeartbeat = time.Now()
	peerInfo.State = req.State
	peerInfo.ResourceUsage = req.Resource
	return &HeartbeatReply{OK: true}, nil
}

func (m *MasterSession) TopicRef(ctx context.Context, req *TopicRefRequest) (*TopicRefReply, error) {
	total, err := m.ref.ReportTopicRef(req.TopicID, req.Delta)
	if err != nil {
		return nil, errorx.WrapError("report topic ref over control plane", err)
	}
	return &TopicRefReply{Total: total}, nil
}

// Peer returns the last known PeerInfo for id, if registered.
func (m *MasterSession) Peer(id string) (*common.PeerInfo, bool) {
	return m.peers.Load(id)
}

// IsAlive reports whether id's last heartbeat is within timeout. The
// experiment controller does not consult it: a PCD step starts
// whether or not the Slave is still heartbeating.
func (m *MasterSession) IsAlive(id string, timeout time.Duration) bool {
	peerInfo, ok := m.peers.Load(id)
	if !ok {
		return false
	}
	return time.Since(peerInfo.LastHeartbeat) <= timeout
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\service_test.go
 * @Description: control-plane session service round-trip test
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/MatheusPinto/robotstone/distributed/common"
	"github.com/MatheusPinto/robotstone/internal/pubsub"
	rstlog "github.com/MatheusPinto/robotstone/logger"
)

func TestRegisterHeartbeatTopicRefRoundTrip(t *testing.T) {
	ref := pubsub.NewLocalPeerRef()
	log := rstlog.New()
	session := NewMasterSession(ref, 5*time.Second, log)

	srv, err := Listen(0, session, nil, log)
	assert.NoError(t, err)
	go srv.Serve()
	defer srv.Stop()

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	assert.NoError(t, err)
	defer conn.Close()
	client := NewSessionClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	regReply, err := client.Register(ctx, &RegisterRequest{Peer: &common.PeerInfo{
		ID: "slave-1", Role: common.NodeRoleSlave, Hostname: "h1", IP: "10.0.0.2",
	}})
	assert.NoError(t, err)
	assert.True(t, regReply.Accepted)

	hbReply, err := client.Heartbeat(ctx, &HeartbeatRequest{
		PeerID:   "slave-1",
		State:    common.PeerStateAlive,
		Resource: &common.ResourceUsage{CPUPercent: 12.5},
	})
	assert.NoError(t, err)
	assert.True(t, hbReply.OK)

	refReply, err := client.TopicRef(ctx, &TopicRefRequest{TopicID: 3, Delta: 1})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, refReply.Total)

	assert.True(t, session.IsAlive("slave-1", time.Minute))
}

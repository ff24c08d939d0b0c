/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\client.go
 * @Description: SessionService client stub
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"context"

	"google.golang.org/grpc"
)

// SessionClient is implemented by the Slave's connection to the
// Master's SessionService.
type SessionClient interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterReply, error)
	Heartbeat(ctx context.Context, req *HeartbeatRequest) (*HeartbeatReply, error)
	TopicRef(ctx context.Context, req *TopicRefRequest) (*TopicRefReply, error)
}

type sessionClient struct {
	cc grpc.ClientConnInterface
}

// NewSessionClient wraps cc. Every call sets the "json" content
// subtype itself, so its Invoke calls hit the codec registered in
// codec.go without any codec option on the dial.
func NewSessionClient(cc grpc.ClientConnInterface) SessionClient {
	return &sessionClient{cc: cc}
}

var callOpts = []grpc.CallOption{grpc.CallContentSubtype(codecName)}

func (c *sessionClient) Register(ctx context.Context, req *RegisterRequest) (*RegisterReply, error) {
	out := new(RegisterReply)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Register", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionClient) Heartbeat(ctx context.Context, req *HeartbeatRequest) (*HeartbeatReply, error) {
	out := new(HeartbeatReply)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Heartbeat", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionClient) TopicRef(ctx context.Context, req *TopicRefRequest) (*TopicRefReply, error) {
	out := new(TopicRefReply)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/TopicRef", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

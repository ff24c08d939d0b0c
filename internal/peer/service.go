/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\service.go
 * @Description: hand-rolled gRPC service descriptor for SessionService
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "robotstone.peer.SessionService"

// SessionServer is implemented by the Master. It is the ambient
// control-plane counterpart to the benchmark's own handshake: it
// records registration, heartbeats and topic references, takes no part
// in the scored protocol, and does not gate the handshake.
type SessionServer interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterReply, error)
	Heartbeat(ctx context.Context, req *HeartbeatRequest) (*HeartbeatReply, error)
	TopicRef(ctx context.Context, req *TopicRefRequest) (*TopicRefReply, error)
}

func registerHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/Register"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).Register(ctx, req.(*RegisterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func heartbeatHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HeartbeatRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Heartbeat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/Heartbeat"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).Heartbeat(ctx, req.(*HeartbeatRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func topicRefHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TopicRefRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).TopicRef(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/TopicRef"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).TopicRef(ctx, req.(*TopicRefRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is registered with grpc.NewServer via RegisterSessionServer,
// standing in for the code protoc-gen-go-grpc would normally generate
// from a .proto file.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: registerHandler},
		{MethodName: "Heartbeat", Handler: heartbeatHandler},
		{MethodName: "TopicRef", Handler: topicRefHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/peer/service.go",
}

// RegisterSessionServer wires srv into s using ServiceDesc.
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&ServiceDesc, srv)
}

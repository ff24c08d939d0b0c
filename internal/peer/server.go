/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\server.go
 * @Description: Master-side gRPC server lifecycle for SessionService
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"fmt"
	"net"

	"github.com/kamalyes/go-logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// Server hosts the Master's SessionService over a real gRPC server,
// graceful-stop included, matching the teacher's own
// grpc.NewServer()/GracefulStop() lifecycle.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	log        logger.ILogger
}

// Listen binds port and registers session as the SessionService
// handler. creds may be nil, in which case the server accepts
// plaintext connections.
func Listen(port int, session SessionServer, creds credentials.TransportCredentials, log logger.ILogger) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}
	var opts []grpc.ServerOption
	if creds != nil {
		opts = append(opts, grpc.Creds(creds))
	}
	grpcServer := grpc.NewServer(opts...)
	RegisterSessionServer(grpcServer, session)
	return &Server{grpcServer: grpcServer, listener: lis, log: log}, nil
}

// Serve blocks accepting connections until Stop is called.
func (s *Server) Serve() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully drains in-flight RPCs then shuts the server down.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

// Addr reports the bound listener address, useful for tests that
// bind to port 0.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

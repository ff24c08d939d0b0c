/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-25 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\bootstrap\slave.go
 * @Description: Slave 模式启动器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kamalyes/go-logger"
	"google.golang.org/grpc/credentials"

	"github.com/MatheusPinto/robotstone/internal/experiment"
	"github.com/MatheusPinto/robotstone/internal/handshake"
	"github.com/MatheusPinto/robotstone/internal/peer"
	"github.com/MatheusPinto/robotstone/internal/pubsub"
	"github.com/MatheusPinto/robotstone/internal/rtclock"
)

// SlaveOptions Slave 启动选项
type SlaveOptions struct {
	SlaveID       string
	MasterAddr    string
	MQTTBrokerURL string
	RunID         string
	GRPCPort      int32
	Logger        logger.ILogger

	EnableTLS bool
	CertFile  string
}

// RunSlave 运行 Slave 节点: it registers with the Master over gRPC,
// starts its heartbeat, then runs the management handshake loop for
// as many PCD steps as the Master requests.
func RunSlave(opts SlaveOptions) error {
	opts.Logger.Info("🤖 启动 Slave 节点...")

	if opts.MasterAddr == "" {
		return fmt.Errorf("Slave 模式必须指定 Master 地址")
	}
	if opts.SlaveID == "" {
		opts.SlaveID = fmt.Sprintf("slave-%d", time.Now().Unix())
		opts.Logger.InfoKV("自动生成 Slave ID", "slave_id", opts.SlaveID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	creds, err := clientCredentials(opts.EnableTLS, opts.CertFile)
	if err != nil {
		return fmt.Errorf("加载 TLS 凭据失败: %w", err)
	}
	session, err := peer.Dial(opts.MasterAddr, opts.SlaveID, opts.GRPCPort, creds, opts.Logger)
	if err != nil {
		return fmt.Errorf("连接 Master 失败: %w", err)
	}
	defer session.Stop()

	heartbeatInterval, err := session.Register(ctx)
	if err != nil {
		return fmt.Errorf("注册失败: %w", err)
	}
	session.StartHeartbeat(heartbeatInterval)

	transport, err := pubsub.NewMQTTTransport(opts.MQTTBrokerURL, "robotstone-"+opts.SlaveID, opts.RunID, opts.Logger)
	if err != nil {
		return fmt.Errorf("连接 MQTT Broker 失败: %w", err)
	}
	defer transport.Close()

	fabric := pubsub.NewFabric(transport, session.TopicRefReporter(), opts.Logger)
	mgmtPub, err := fabric.Publish(pubsub.ManagementTopicSlave, 2)
	if err != nil {
		return fmt.Errorf("打开管理发布通道失败: %w", err)
	}
	mgmtSub, err := fabric.Subscribe(pubsub.ManagementTopicMaster, 2)
	if err != nil {
		return fmt.Errorf("打开管理订阅通道失败: %w", err)
	}
	link := handshake.NewLink(mgmtPub, mgmtSub, handshakePeriod)

	clock := rtclock.NewReal()
	slaveCtl := experiment.NewSlave(clock, fabric, link, opts.Logger)
	slaveCtl.Calibrate()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		opts.Logger.Warn("⚠️  收到中断信号，正在停止...")
		cancel()
	}()

	opts.Logger.InfoKV("Slave 节点运行中", "slave_id", opts.SlaveID, "master_addr", opts.MasterAddr)
	// A handshake desync (or any other failure reaching this far) is
	// fatal on both sides: mirror the Master's abort instead of idling
	// back to a clean exit.
	if err := slaveCtl.Run(ctx); err != nil && ctx.Err() == nil {
		opts.Logger.WarnKV("experiment run ended with error", "error", err.Error())
		return fmt.Errorf("experiment run aborted: %w", err)
	}

	opts.Logger.Info("👋 Slave 节点已停止")
	return nil
}

func clientCredentials(enable bool, certFile string) (credentials.TransportCredentials, error) {
	if !enable {
		return nil, nil
	}
	return credentials.NewClientTLSFromFile(certFile, "")
}

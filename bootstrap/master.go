/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-25 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\bootstrap\master.go
 * @Description: Master 模式启动器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package bootstrap

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"google.golang.org/grpc/credentials"

	"github.com/MatheusPinto/robotstone/internal/experiment"
	"github.com/MatheusPinto/robotstone/internal/handshake"
	"github.com/MatheusPinto/robotstone/internal/peer"
	"github.com/MatheusPinto/robotstone/internal/pubsub"
	"github.com/MatheusPinto/robotstone/internal/rtclock"
)

// handshakePeriod paces the settling delays inside the management
// handshake; it has no relationship to any synthetic task's own
// period.
const handshakePeriod = 200 * time.Millisecond

// MasterOptions Master 启动选项
type MasterOptions struct {
	GRPCPort      int
	MQTTBrokerURL string
	RunID         string
	Logger        logger.ILogger

	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
	MaxFailures       int

	EnableTLS        bool
	CertFile         string
	KeyFile          string
	RawSpeedOverride int64
}

// RunMaster 运行 Master 节点: it calibrates raw speed (or accepts an
// override), opens the management topic pair, and then reads
// single-character experiment selections from stdin until the process
// is interrupted.
func RunMaster(opts MasterOptions) error {
	opts.Logger.Info("🎯 启动 Master 节点...")
	opts.HeartbeatInterval = mathx.IfNotZero(opts.HeartbeatInterval, 5*time.Second)
	opts.HeartbeatTimeout = mathx.IfNotZero(opts.HeartbeatTimeout, 15*time.Second)
	opts.MaxFailures = mathx.IfNotZero(opts.MaxFailures, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref := pubsub.NewLocalPeerRef()
	session := peer.NewMasterSession(ref, opts.HeartbeatInterval, opts.Logger)

	creds, err := serverCredentials(opts.EnableTLS, opts.CertFile, opts.KeyFile)
	if err != nil {
		return fmt.Errorf("加载 TLS 凭据失败: %w", err)
	}
	srv, err := peer.Listen(opts.GRPCPort, session, creds, opts.Logger)
	if err != nil {
		return fmt.Errorf("启动 gRPC 服务失败: %w", err)
	}
	go func() {
		if err := srv.Serve(); err != nil {
			opts.Logger.WarnKV("grpc server stopped", "error", err.Error())
		}
	}()

	health := peer.NewHealthChecker(session, opts.HeartbeatInterval, opts.HeartbeatTimeout, opts.MaxFailures, opts.Logger)
	health.Start()
	defer health.Stop()

	transport, err := pubsub.NewMQTTTransport(opts.MQTTBrokerURL, "robotstone-master", opts.RunID, opts.Logger)
	if err != nil {
		return fmt.Errorf("连接 MQTT Broker 失败: %w", err)
	}
	defer transport.Close()

	fabric := pubsub.NewFabric(transport, ref, opts.Logger)
	mgmtPub, err := fabric.Publish(pubsub.ManagementTopicMaster, 2)
	if err != nil {
		return fmt.Errorf("打开管理发布通道失败: %w", err)
	}
	mgmtSub, err := fabric.Subscribe(pubsub.ManagementTopicSlave, 2)
	if err != nil {
		return fmt.Errorf("打开管理订阅通道失败: %w", err)
	}
	link := handshake.NewLink(mgmtPub, mgmtSub, handshakePeriod)

	clock := rtclock.NewReal()
	master := experiment.NewMaster(clock, fabric, link, opts.Logger)
	if opts.RawSpeedOverride > 0 {
		master.SetRawSpeed(opts.RawSpeedOverride)
	} else {
		master.Calibrate()
	}

	runErrCh := make(chan error, 1)
	go func() { runErrCh <- master.Run(ctx) }()
	go readExperimentSelections(ctx, master, opts.Logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		opts.Logger.Warn("⚠️  收到中断信号，正在停止...")
		cancel()
		srv.Stop()
	}()

	opts.Logger.InfoKV("Master 节点运行中", "grpc_port", opts.GRPCPort, "raw_speed", master.RawSpeed())

	// runErrCh carries both the cooperative shutdown path (nil, once
	// ctx is cancelled by the signal handler) and a fatal experiment
	// failure such as a handshake desync, which must abort the process
	// rather than fall back to idling for the next experiment request.
	if err := <-runErrCh; err != nil {
		opts.Logger.WarnKV("实验运行出现致命错误，Master 退出", "error", err.Error())
		cancel()
		srv.Stop()
		return err
	}
	opts.Logger.Info("👋 Master 节点已停止")
	return nil
}

// readExperimentSelections is the human operator's input loop: one
// character, '1'..'7' selects an escalating variant, anything else
// requests the raw-speed-only calibration run.
func readExperimentSelections(ctx context.Context, master *experiment.Master, log logger.ILogger) {
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		if len(line) == 0 {
			continue
		}
		c := line[0]
		var exp experiment.Experiment
		if c >= '1' && c <= '7' {
			exp = experiment.Experiment(c - '0')
		} else {
			exp = experiment.ExpCalibrateOnly
		}
		log.InfoKV("experiment requested", "experiment", exp)
		master.RequestExperiment(exp)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func serverCredentials(enable bool, certFile, keyFile string) (credentials.TransportCredentials, error) {
	if !enable {
		return nil, nil
	}
	return credentials.NewServerTLSFromFile(certFile, keyFile)
}


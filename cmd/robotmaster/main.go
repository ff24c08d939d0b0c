/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\cmd\robotmaster\main.go
 * @Description: robotmaster 命令行入口
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MatheusPinto/robotstone/bootstrap"
	"github.com/MatheusPinto/robotstone/config"
	"github.com/MatheusPinto/robotstone/logger"
)

func main() {
	var (
		configFile        string
		grpcPort          int
		mqttBrokerURL     string
		runID             string
		heartbeatInterval time.Duration
		heartbeatTimeout  time.Duration
		maxFailures       int
		enableTLS         bool
		certFile          string
		keyFile           string
		rawSpeed          int64
		logLevel          logger.LogLevelFlag
	)
	logLevel.Level = logger.INFO

	flag.StringVar(&configFile, "config", "", "配置文件路径 (yaml/json)")
	flag.IntVar(&grpcPort, "grpc-port", 7070, "gRPC 服务端口")
	flag.StringVar(&mqttBrokerURL, "mqtt-broker", "tcp://127.0.0.1:1883", "MQTT Broker 地址")
	flag.StringVar(&runID, "run-id", "default", "本次运行的标识，用于隔离共享 Broker 上的多次运行")
	flag.DurationVar(&heartbeatInterval, "heartbeat-interval", 5*time.Second, "心跳间隔")
	flag.DurationVar(&heartbeatTimeout, "heartbeat-timeout", 15*time.Second, "心跳超时")
	flag.IntVar(&maxFailures, "max-failures", 3, "最大失败次数")
	flag.BoolVar(&enableTLS, "tls", false, "启用 gRPC TLS")
	flag.StringVar(&certFile, "cert-file", "", "TLS 证书文件")
	flag.StringVar(&keyFile, "key-file", "", "TLS 私钥文件")
	flag.Int64Var(&rawSpeed, "raw-speed", 0, "跳过校准，直接使用给定的 raw_speed (KWIPS)")
	flag.Var(&logLevel, "log-level", "日志级别 (debug/info/warn/error/fatal)")
	flag.Parse()

	log := logger.NewLogger(logger.DefaultConfig().WithLevel(logLevel.Level))

	opts := bootstrap.MasterOptions{
		GRPCPort:          grpcPort,
		MQTTBrokerURL:     mqttBrokerURL,
		RunID:             runID,
		Logger:            log,
		HeartbeatInterval: heartbeatInterval,
		HeartbeatTimeout:  heartbeatTimeout,
		MaxFailures:       maxFailures,
		EnableTLS:         enableTLS,
		CertFile:          certFile,
		KeyFile:           keyFile,
		RawSpeedOverride:  rawSpeed,
	}

	if configFile != "" {
		cfg, err := config.NewLoader().LoadFromFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
			os.Exit(1)
		}
		opts.GRPCPort = cfg.GRPCPort
		opts.MQTTBrokerURL = cfg.MQTTBrokerURL
		opts.RunID = cfg.RunID
		opts.HeartbeatInterval = cfg.HeartbeatInterval
		opts.HeartbeatTimeout = cfg.HeartbeatTimeout
		opts.MaxFailures = cfg.MaxFailures
		opts.EnableTLS = cfg.EnableTLS
		opts.CertFile = cfg.CertFile
		opts.KeyFile = cfg.KeyFile
		opts.RawSpeedOverride = cfg.RawSpeedOverride
	}

	fmt.Println("输入实验编号 (1-7) 并回车以开始一次实验，其它字符仅触发 raw_speed 校准：")

	if err := bootstrap.RunMaster(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Master 运行失败: %v\n", err)
		os.Exit(1)
	}
}

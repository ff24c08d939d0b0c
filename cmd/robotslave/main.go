/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\cmd\robotslave\main.go
 * @Description: robotslave 命令行入口
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MatheusPinto/robotstone/bootstrap"
	"github.com/MatheusPinto/robotstone/config"
	"github.com/MatheusPinto/robotstone/logger"
)

func main() {
	var (
		configFile    string
		slaveID       string
		masterAddr    string
		mqttBrokerURL string
		runID         string
		grpcPort      int
		enableTLS     bool
		certFile      string
		logLevel      logger.LogLevelFlag
	)
	logLevel.Level = logger.INFO

	flag.StringVar(&configFile, "config", "", "配置文件路径 (yaml/json)")
	flag.StringVar(&slaveID, "slave-id", "", "Slave 标识，留空则自动生成")
	flag.StringVar(&masterAddr, "master-addr", "", "Master gRPC 地址，例如 127.0.0.1:7070")
	flag.StringVar(&mqttBrokerURL, "mqtt-broker", "tcp://127.0.0.1:1883", "MQTT Broker 地址")
	flag.StringVar(&runID, "run-id", "default", "本次运行的标识，用于隔离共享 Broker 上的多次运行")
	flag.IntVar(&grpcPort, "grpc-port", 0, "本机 gRPC 端口（仅用于描述自身，不对外提供服务）")
	flag.BoolVar(&enableTLS, "tls", false, "启用 gRPC TLS")
	flag.StringVar(&certFile, "cert-file", "", "TLS 证书文件")
	flag.Var(&logLevel, "log-level", "日志级别 (debug/info/warn/error/fatal)")
	flag.Parse()

	log := logger.NewLogger(logger.DefaultConfig().WithLevel(logLevel.Level))

	opts := bootstrap.SlaveOptions{
		SlaveID:       slaveID,
		MasterAddr:    masterAddr,
		MQTTBrokerURL: mqttBrokerURL,
		RunID:         runID,
		GRPCPort:      int32(grpcPort),
		Logger:        log,
		EnableTLS:     enableTLS,
		CertFile:      certFile,
	}

	if configFile != "" {
		cfg, err := config.NewLoader().LoadFromFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
			os.Exit(1)
		}
		opts.SlaveID = cfg.SlaveID
		opts.MasterAddr = cfg.MasterAddr
		opts.MQTTBrokerURL = cfg.MQTTBrokerURL
		opts.RunID = cfg.RunID
		opts.EnableTLS = cfg.EnableTLS
		opts.CertFile = cfg.CertFile
	}

	if err := bootstrap.RunSlave(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Slave 运行失败: %v\n", err)
		os.Exit(1)
	}
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\config\config.go
 * @Description: run configuration for Master and Slave processes
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import "time"

// Config is the top-level run configuration, shared by both the
// Master and the Slave binaries. A single file can configure either
// role; unused fields are simply ignored by the role that does not
// need them.
type Config struct {
	Role string `json:"role" yaml:"role"` // "master" or "slave"

	GRPCPort      int    `json:"grpc_port" yaml:"grpc_port"`
	MasterAddr    string `json:"master_addr" yaml:"master_addr"`
	MQTTBrokerURL string `json:"mqtt_broker_url" yaml:"mqtt_broker_url"`
	RunID         string `json:"run_id" yaml:"run_id"`

	SlaveID string `json:"slave_id" yaml:"slave_id"`

	HeartbeatInterval time.Duration `json:"heartbeat_interval" yaml:"heartbeat_interval"`
	HeartbeatTimeout  time.Duration `json:"heartbeat_timeout" yaml:"heartbeat_timeout"`
	MaxFailures       int           `json:"max_failures" yaml:"max_failures"`
	ReportInterval    time.Duration `json:"report_interval" yaml:"report_interval"`
	ResourceMonitor   bool          `json:"resource_monitor" yaml:"resource_monitor"`

	EnableTLS bool   `json:"enable_tls" yaml:"enable_tls"`
	CertFile  string `json:"cert_file" yaml:"cert_file"`
	KeyFile   string `json:"key_file" yaml:"key_file"`

	// RawSpeedOverride, when non-zero, skips the Master's startup
	// calibration and uses this value as raw_speed instead, matching
	// the original's compile-time RAW_SPEED escape hatch.
	RawSpeedOverride int64 `json:"raw_speed_override" yaml:"raw_speed_override"`
}

// DefaultConfig returns a Config with every timing field defaulted,
// the way the teacher's DefaultConfig seeds an HTTP load test.
func DefaultConfig() *Config {
	return &Config{
		GRPCPort:          7070,
		MQTTBrokerURL:     "tcp://127.0.0.1:1883",
		RunID:             "default",
		HeartbeatInterval: 5 * time.Second,
		HeartbeatTimeout:  15 * time.Second,
		MaxFailures:       3,
		ReportInterval:    5 * time.Second,
		ResourceMonitor:   true,
	}
}

/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-11-20 12:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\config\loader.go
 * @Description: 配置加载器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader 配置加载器
type Loader struct{}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFromFile 从文件加载配置
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	ext := filepath.Ext(path)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	return l.LoadFromBytes(data, ext)
}

// LoadFromBytes 从字节数据加载配置（支持 YAML 和 JSON）
func (l *Loader) LoadFromBytes(data []byte, format string) (*Config, error) {
	config := DefaultConfig()

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析YAML配置失败: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析JSON配置失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置格式: %s (仅支持yaml/yml/json)", format)
	}

	if err := l.validate(config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}
	return config, nil
}

// validate 验证配置
func (l *Loader) validate(config *Config) error {
	switch config.Role {
	case "master":
		if config.GRPCPort == 0 {
			return fmt.Errorf("master 模式必须指定 grpc_port")
		}
	case "slave":
		if config.MasterAddr == "" {
			return fmt.Errorf("slave 模式必须指定 master_addr")
		}
	default:
		return fmt.Errorf("role 必须是 master 或 slave，得到: %q", config.Role)
	}

	if config.MQTTBrokerURL == "" {
		return fmt.Errorf("mqtt_broker_url 不能为空")
	}
	return nil
}

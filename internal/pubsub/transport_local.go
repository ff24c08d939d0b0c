/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\pubsub\transport_local.go
 * @Description: no-op transport for single-process runs
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pubsub

// LocalTransport never leaves the process: every method is a no-op,
// for a Fabric whose publishers and subscribers all live in the same
// process. The binaries and tests in this repository do not use it;
// they pass either an MQTTTransport or a nil Transport.
type LocalTransport struct{}

func NewLocalTransport() *LocalTransport { return &LocalTransport{} }

func (LocalTransport) Publish(topicID uint16, payload []byte) error { return nil }

func (LocalTransport) Subscribe(topicID uint16, handler func([]byte)) error { return nil }

func (LocalTransport) Unsubscribe(topicID uint16) error { return nil }

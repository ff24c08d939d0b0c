/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\pubsub\errors.go
 * @Description: pub/sub fabric error kinds
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pubsub

import "errors"

// Sentinel error kinds. Checked with errors.Is; wrapped with
// errorx.WrapError wherever call-site context is useful.
var (
	ErrQueueFull           = errors.New("pubsub: queue full")
	ErrTopicCreationFailed = errors.New("pubsub: topic creation failed")
	ErrMessageSizeMismatch = errors.New("pubsub: message size does not match topic")
	ErrUnknownHandle       = errors.New("pubsub: unknown handle")
	ErrReservedTopic       = errors.New("pubsub: topic id is reserved for management")
)

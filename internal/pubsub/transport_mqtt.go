/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\pubsub\transport_mqtt.go
 * @Description: cross-process transport for PCD experiments
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pubsub

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/kamalyes/go-logger"
)

// MQTTTransport mirrors topic traffic onto the peer process over an
// MQTT broker both Master and Slave connect to. QoS 1 matches the
// at-least-once framing the bounded queues already tolerate: a
// duplicate delivery shows up as one extra job, not as corruption,
// since every message in this harness is fixed-size and
// self-contained.
type MQTTTransport struct {
	client mqtt.Client
	runID  string
	log    logger.ILogger
}

const mqttQoS byte = 1

// NewMQTTTransport connects a client identified by clientID to
// brokerURL (e.g. "tcp://localhost:1883") and returns a Transport
// scoped to runID, so two concurrent runs against the same broker
// never cross-deliver.
func NewMQTTTransport(brokerURL, clientID, runID string, log logger.ILogger) (*MQTTTransport, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	c := mqtt.NewClient(opts)
	token := c.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", brokerURL, err)
	}
	return &MQTTTransport{client: c, runID: runID, log: log}, nil
}

func (m *MQTTTransport) topicString(topicID uint16) string {
	return fmt.Sprintf("robotstone/%s/topic/%d", m.runID, topicID)
}

func (m *MQTTTransport) Publish(topicID uint16, payload []byte) error {
	token := m.client.Publish(m.topicString(topicID), mqttQoS, false, payload)
	token.Wait()
	return token.Error()
}

func (m *MQTTTransport) Subscribe(topicID uint16, handler func([]byte)) error {
	token := m.client.Subscribe(m.topicString(topicID), mqttQoS, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	})
	token.Wait()
	return token.Error()
}

func (m *MQTTTransport) Unsubscribe(topicID uint16) error {
	token := m.client.Unsubscribe(m.topicString(topicID))
	token.Wait()
	return token.Error()
}

// Close disconnects the underlying MQTT client.
func (m *MQTTTransport) Close() {
	m.client.Disconnect(250)
}

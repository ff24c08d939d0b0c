/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-26 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-01-26 00:00:00
 * @FilePath: \robotstone\internal\peer\codec.go
 * @Description: JSON wire codec for the control-plane gRPC service
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package peer

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec lets the control plane run over a real gRPC server/client
// (streams, deadlines, graceful stop) without a generated protobuf
// descriptor: no .proto file was available anywhere in the retrieval
// pack to ground one against, so the wire format is plain JSON
// registered under grpc's codec name "json" instead.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return codecName }

const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

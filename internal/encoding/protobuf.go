package encoding

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtobufEncoder encodes envelopes as a google.protobuf.Struct whose
// fields mirror the JSON layout.
type ProtobufEncoder struct{}

func NewProtobufEncoder() *ProtobufEncoder {
	return &ProtobufEncoder{}
}

func (e *ProtobufEncoder) Encode(env Envelope) ([]byte, error) {
	pb, err := envelopeToStruct(env)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(pb)
}

func (e *ProtobufEncoder) ContentType() string {
	return "application/x-protobuf"
}

// DecodeProtobuf parses a protobuf envelope produced by ProtobufEncoder
func DecodeProtobuf(data []byte) (Envelope, error) {
	var pb structpb.Struct
	if err := proto.Unmarshal(data, &pb); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal protobuf envelope: %w", err)
	}
	raw, err := json.Marshal(pb.AsMap())
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to convert protobuf envelope: %w", err)
	}
	return DecodeJSON(raw)
}

func envelopeToStruct(env Envelope) (*structpb.Struct, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to flatten envelope: %w", err)
	}
	pb, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build protobuf struct: %w", err)
	}
	return pb, nil
}

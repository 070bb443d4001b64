// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// validator is implemented by payloads that can check their own fields.
type validator interface {
	Validate() error
}

// NewJSONMessage encodes v as the payload of a new message with a fresh UUID.
func NewJSONMessage(v interface{}) (*message.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), data), nil
}

// Decode unmarshals a message payload into T and validates it when T has a
// Validate method. Both failures are permanent: redelivering the same bytes
// cannot fix them.
func Decode[T any](msg *message.Message) (*T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return nil, NewPermanentError("unmarshal payload", err)
	}
	if val, ok := any(&v).(validator); ok {
		if err := val.Validate(); err != nil {
			return nil, NewPermanentError("invalid payload", err)
		}
	}
	return &v, nil
}

// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package testinfra

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
)

// Published is one message captured by RecordingPublisher.
type Published struct {
	Queue   string
	Payload []byte
}

// RecordingPublisher captures PublishJSON calls in order. It satisfies
// eventprocessor.JSONPublisher without a broker.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []Published
	failures map[string]error
	allowed  map[string]int
}

// NewRecordingPublisher creates an empty recorder.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{failures: make(map[string]error), allowed: make(map[string]int)}
}

// FailQueue makes every publish to queue return err. A nil err clears it.
func (p *RecordingPublisher) FailQueue(queue string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.allowed, queue)
	if err == nil {
		delete(p.failures, queue)
		return
	}
	p.failures[queue] = err
}

// FailQueueAfter lets n more publishes to queue through, then fails with err.
func (p *RecordingPublisher) FailQueueAfter(queue string, n int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[queue] = err
	p.allowed[queue] = n
}

// PublishJSON records v as JSON unless queue was set to fail.
func (p *RecordingPublisher) PublishJSON(_ context.Context, queue string, v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failures[queue]; err != nil {
		if p.allowed[queue] <= 0 {
			return err
		}
		p.allowed[queue]--
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.messages = append(p.messages, Published{Queue: queue, Payload: data})
	return nil
}

// All returns every captured message in publish order.
func (p *RecordingPublisher) All() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.messages))
	copy(out, p.messages)
	return out
}

// Count returns how many messages went to queue.
func (p *RecordingPublisher) Count(queue string) int {
	n := 0
	for _, m := range p.All() {
		if m.Queue == queue {
			n++
		}
	}
	return n
}

// DecodeAll unmarshals every payload published to queue into T.
func DecodeAll[T any](p *RecordingPublisher, queue string) ([]T, error) {
	var out []T
	for _, m := range p.All() {
		if m.Queue != queue {
			continue
		}
		var v T
		if err := json.Unmarshal(m.Payload, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

package testutil

import (
	"context"
	"sync"
)

// RecordingPublisher keeps every published event for assertions
type RecordingPublisher struct {
	mu       sync.Mutex
	Subjects []string
	Payloads []interface{}
}

func (p *RecordingPublisher) Publish(_ context.Context, subject string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Subjects = append(p.Subjects, subject)
	p.Payloads = append(p.Payloads, data)
}

func (p *RecordingPublisher) Close() {}

// Published returns a copy of the recorded subjects
func (p *RecordingPublisher) Published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Subjects...)
}

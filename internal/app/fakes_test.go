package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"time_recorder_bot/internal/domain/credential"
	idb "time_recorder_bot/internal/infra/database"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", idb.ErrKeyNotFound
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type request struct {
	method string
	query  string
	form   map[string]string
}

// scriptedSession answers requests from a queue of pages.
type scriptedSession struct {
	pages    []string
	requests []request
}

func (s *scriptedSession) next() string {
	if len(s.pages) == 0 {
		return ""
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page
}

func (s *scriptedSession) Get(_ context.Context, query string) (string, error) {
	s.requests = append(s.requests, request{method: "GET", query: query})
	return s.next(), nil
}

func (s *scriptedSession) Post(_ context.Context, form map[string]string) (string, error) {
	s.requests = append(s.requests, request{method: "POST", form: form})
	return s.next(), nil
}

type recordingSink struct {
	mu      sync.Mutex
	sent    []Notification
	cleared []string
}

func (r *recordingSink) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingSink) Clear(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared = append(r.cleared, id)
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func testLogger() *logrus.Entry {
	l, _ := test.NewNullLogger()
	return logrus.NewEntry(l)
}

var validCreds = credential.Credential{AccountID: "acme", UserID: "u001", Password: "secret"}

type fixedCreds struct{ cred credential.Credential }

func (f fixedCreds) Get(context.Context) (credential.Credential, error) { return f.cred, nil }

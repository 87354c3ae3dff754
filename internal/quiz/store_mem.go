package quiz

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/quizforge/quizforge/internal/cert"
)

// memoryStore backs tests and single-process offline runs. The mutex makes
// CompleteAttempt's check-then-write atomic, matching what the SQL store gets
// from its conditional UPDATE.
type memoryStore struct {
	mu       sync.RWMutex
	quizzes  map[string]Quiz
	attempts map[string]Attempt
	certs    map[string]cert.Record // keyed by attempt id
}

func NewInMemoryStore() Store {
	return &memoryStore{
		quizzes:  map[string]Quiz{},
		attempts: map[string]Attempt{},
		certs:    map[string]cert.Record{},
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, z Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[z.ID] = z
	return nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	z, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return z, nil
}

func (m *memoryStore) CreateAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[a.ID]; ok {
		return errors.New("attempt id taken")
	}
	m.attempts[a.ID] = a
	return nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func (m *memoryStore) CompleteAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.attempts[a.ID]
	if !ok {
		return ErrAttemptNotFound
	}
	if cur.Status != StatusInProgress {
		return ErrAlreadySubmitted
	}
	m.attempts[a.ID] = a
	return nil
}

func (m *memoryStore) CompletedAttemptIDs(_ context.Context, quizID, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var done []Attempt
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID && a.Status == StatusCompleted && !a.Preview {
			done = append(done, a)
		}
	}
	sort.Slice(done, func(i, j int) bool { return done[i].CompletedAt < done[j].CompletedAt })
	ids := make([]string, len(done))
	for i, a := range done {
		ids[i] = a.ID
	}
	return ids, nil
}

func (m *memoryStore) ListAttempts(_ context.Context, opts AttemptListOpts) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if opts.QuizID != "" && a.QuizID != opts.QuizID {
			continue
		}
		if opts.UserID != "" && a.UserID != opts.UserID {
			continue
		}
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		if a.Preview && !opts.IncludePreview {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt > out[j].StartedAt })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) CreateCertificate(_ context.Context, rec cert.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.certs[rec.AttemptID]; ok {
		return errors.New("certificate exists for attempt")
	}
	m.certs[rec.AttemptID] = rec
	return nil
}

func (m *memoryStore) GetCertificateByAttempt(_ context.Context, attemptID string) (cert.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.certs[attemptID]
	if !ok {
		return cert.Record{}, ErrCertificateNotFound
	}
	return rec, nil
}

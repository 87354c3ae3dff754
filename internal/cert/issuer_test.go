package cert_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quizforge/quizforge/internal/cert"
)

type fakeStore struct {
	recs map[string]cert.Record // keyed by attempt id
	fail error
}

func (s *fakeStore) CreateCertificate(_ context.Context, rec cert.Record) error {
	if s.fail != nil {
		return s.fail
	}
	if _, ok := s.recs[rec.AttemptID]; ok {
		return errors.New("certificate exists for attempt")
	}
	s.recs[rec.AttemptID] = rec
	return nil
}

func TestIssueCreatesRecord(t *testing.T) {
	store := &fakeStore{recs: map[string]cert.Record{}}
	iss := cert.NewIssuer(store)

	rec := iss.Issue(context.Background(), "user-42", "quiz-1", "att-1", 18, 20, 90.0)
	if rec == nil {
		t.Fatal("expected a certificate")
	}
	if rec.ID == "" || rec.IssuedAt == 0 {
		t.Fatalf("incomplete record: %+v", rec)
	}
	if !strings.HasPrefix(rec.Number, "CERT-") || !strings.HasSuffix(rec.Number, "USER42") {
		t.Fatalf("unexpected number %q", rec.Number)
	}
	if rec.Percentage != 90.0 || rec.Score != 18 || rec.MaxScore != 20 {
		t.Fatalf("score fields wrong: %+v", rec)
	}
}

func TestIssueFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{recs: map[string]cert.Record{}, fail: errors.New("disk full")}
	iss := cert.NewIssuer(store)

	if rec := iss.Issue(context.Background(), "u", "q", "a", 1, 1, 100); rec != nil {
		t.Fatalf("persistence failure must yield nil, got %+v", rec)
	}
}

func TestAtMostOnePerAttempt(t *testing.T) {
	store := &fakeStore{recs: map[string]cert.Record{}}
	iss := cert.NewIssuer(store)
	ctx := context.Background()

	if rec := iss.Issue(ctx, "u", "q", "att-dup", 1, 1, 100); rec == nil {
		t.Fatal("first issue should succeed")
	}
	if rec := iss.Issue(ctx, "u", "q", "att-dup", 1, 1, 100); rec != nil {
		t.Fatal("second issue for the same attempt must yield nil")
	}
}

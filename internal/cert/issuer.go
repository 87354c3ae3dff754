// Package cert issues pass certificates for completed attempts.
package cert

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one issued certificate. At most one exists per attempt.
type Record struct {
	ID         string  `json:"id"`
	Number     string  `json:"number"`
	UserID     string  `json:"user_id"`
	QuizID     string  `json:"quiz_id"`
	AttemptID  string  `json:"attempt_id"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"max_score"`
	Percentage float64 `json:"percentage"`
	IssuedAt   int64   `json:"issued_at"`
}

// Store persists certificates. Implementations must reject a second insert
// for the same attempt id.
type Store interface {
	CreateCertificate(ctx context.Context, rec Record) error
}

type Issuer struct {
	store Store
	now   func() time.Time
}

func NewIssuer(store Store) *Issuer {
	return &Issuer{store: store, now: time.Now}
}

// Issue creates a certificate for a passed, completed attempt. Persistence
// failure is non-fatal: the attempt stays completed and scored, and the caller
// gets nil instead of a certificate.
func (i *Issuer) Issue(ctx context.Context, userID, quizID, attemptID string, score, maxScore int, percentage float64) *Record {
	rec := Record{
		ID:         uuid.NewString(),
		Number:     i.number(userID),
		UserID:     userID,
		QuizID:     quizID,
		AttemptID:  attemptID,
		Score:      score,
		MaxScore:   maxScore,
		Percentage: percentage,
		IssuedAt:   i.now().Unix(),
	}
	if err := i.store.CreateCertificate(ctx, rec); err != nil {
		log.Printf("certificate for attempt %s not persisted: %v", attemptID, err)
		return nil
	}
	return &rec
}

// number builds a human-readable certificate number from the issue time and a
// fragment of the user id. Collisions are improbable, not impossible; the
// attempt-id uniqueness constraint is what actually guards duplicates.
func (i *Issuer) number(userID string) string {
	frag := strings.ToUpper(strings.NewReplacer("-", "", "_", "").Replace(userID))
	if len(frag) > 6 {
		frag = frag[:6]
	}
	if frag == "" {
		frag = "ANON"
	}
	return "CERT-" + i.now().Format("20060102150405") + "-" + frag
}

package quiz

import (
	"context"

	"github.com/quizforge/quizforge/internal/cert"
)

// AttemptListOpts filters ListAttempts. Preview attempts are excluded unless
// IncludePreview is set.
type AttemptListOpts struct {
	QuizID         string
	UserID         string
	Status         string
	IncludePreview bool
	Limit          int
	Offset         int
}

// Store persists quizzes, attempts and certificates. CompleteAttempt is the
// one write with correctness weight: it must transition the attempt
// conditionally on its current status so that of two concurrent submissions
// exactly one wins and the other observes ErrAlreadySubmitted.
type Store interface {
	PutQuiz(ctx context.Context, z Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)

	CreateAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	CompleteAttempt(ctx context.Context, a Attempt) error

	// CompletedAttemptIDs returns ids of this user's completed, non-preview
	// attempts on the quiz, oldest first. Serves both start gates.
	CompletedAttemptIDs(ctx context.Context, quizID, userID string) ([]string, error)

	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error)

	cert.Store
	GetCertificateByAttempt(ctx context.Context, attemptID string) (cert.Record, error)
}

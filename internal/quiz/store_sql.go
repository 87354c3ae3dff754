package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quizforge/quizforge/internal/cert"
)

// SQLStore runs on sqlite (modernc) and postgres (pgx stdlib). Question
// payloads, answers and the question order live as JSON in TEXT columns;
// positional $n placeholders work on both drivers.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutQuiz(ctx context.Context, z Quiz) error {
	qj, err := json.Marshal(z.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes
		(id,title,passing_score,max_attempts,allow_multiple,randomize_questions,shuffle_options,
		 time_limit_min,certificate_enabled,show_correct_answers,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
		 title=EXCLUDED.title, passing_score=EXCLUDED.passing_score,
		 max_attempts=EXCLUDED.max_attempts, allow_multiple=EXCLUDED.allow_multiple,
		 randomize_questions=EXCLUDED.randomize_questions, shuffle_options=EXCLUDED.shuffle_options,
		 time_limit_min=EXCLUDED.time_limit_min, certificate_enabled=EXCLUDED.certificate_enabled,
		 show_correct_answers=EXCLUDED.show_correct_answers, questions_json=EXCLUDED.questions_json`,
		z.ID, z.Title, z.PassingScore, z.MaxAttempts, z.AllowMultipleAttempts,
		z.RandomizeQuestions, z.ShuffleOptions, z.TimeLimitMin, z.CertificateEnabled,
		z.ShowCorrectAnswers, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,passing_score,max_attempts,allow_multiple,
		randomize_questions,shuffle_options,time_limit_min,certificate_enabled,show_correct_answers,
		questions_json,created_at FROM quizzes WHERE id=$1`, id)
	var z Quiz
	var qjson string
	err := row.Scan(&z.ID, &z.Title, &z.PassingScore, &z.MaxAttempts, &z.AllowMultipleAttempts,
		&z.RandomizeQuestions, &z.ShuffleOptions, &z.TimeLimitMin, &z.CertificateEnabled,
		&z.ShowCorrectAnswers, &qjson, &z.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &z.Questions); err != nil {
		return Quiz{}, fmt.Errorf("decode questions for quiz %s: %w", id, err)
	}
	return z, nil
}

func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) error {
	oj, err := json.Marshal(a.QuestionOrder)
	if err != nil {
		return err
	}
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempts
		(id,quiz_id,user_id,status,score,max_score,question_order_json,answers_json,preview,
		 started_at,completed_at,time_spent_sec)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,0,0)`,
		a.ID, a.QuizID, a.UserID, a.Status, a.Score, a.MaxScore,
		string(oj), string(aj), a.Preview, a.StartedAt)
	return err
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,quiz_id,user_id,status,score,max_score,
		question_order_json,answers_json,preview,started_at,completed_at,time_spent_sec
		FROM attempts WHERE id=$1`, id)
	return scanAttempt(row)
}

// CompleteAttempt is the compare-and-swap transition: the UPDATE is guarded
// on the row still being in_progress, so a concurrent duplicate submission
// affects zero rows and is reported as ErrAlreadySubmitted, never rescored.
func (s *SQLStore) CompleteAttempt(ctx context.Context, a Attempt) error {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE attempts
		SET status=$1, score=$2, answers_json=$3, completed_at=$4, time_spent_sec=$5
		WHERE id=$6 AND status=$7`,
		StatusCompleted, a.Score, string(aj), a.CompletedAt, a.TimeSpentSec,
		a.ID, StatusInProgress)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.GetAttempt(ctx, a.ID); err != nil {
			return err
		}
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *SQLStore) CompletedAttemptIDs(ctx context.Context, quizID, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM attempts
		WHERE quiz_id=$1 AND user_id=$2 AND status=$3 AND preview=$4
		ORDER BY completed_at ASC`,
		quizID, userID, StatusCompleted, false)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	q := `SELECT id,quiz_id,user_id,status,score,max_score,question_order_json,answers_json,
		preview,started_at,completed_at,time_spent_sec FROM attempts WHERE 1=1`
	args := []any{}
	n := 0
	add := func(clause string, v any) {
		n++
		q += fmt.Sprintf(" AND %s=$%d", clause, n)
		args = append(args, v)
	}
	if opts.QuizID != "" {
		add("quiz_id", opts.QuizID)
	}
	if opts.UserID != "" {
		add("user_id", opts.UserID)
	}
	if opts.Status != "" {
		add("status", opts.Status)
	}
	if !opts.IncludePreview {
		add("preview", false)
	}
	q += " ORDER BY started_at DESC"
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateCertificate(ctx context.Context, rec cert.Record) error {
	// attempt_id carries a UNIQUE constraint; a duplicate insert fails here
	// and the issuer treats that as a swallowed non-fatal error.
	_, err := s.db.ExecContext(ctx, `INSERT INTO certificates
		(id,number,user_id,quiz_id,attempt_id,score,max_score,percentage,issued_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.Number, rec.UserID, rec.QuizID, rec.AttemptID,
		rec.Score, rec.MaxScore, rec.Percentage, rec.IssuedAt)
	return err
}

func (s *SQLStore) GetCertificateByAttempt(ctx context.Context, attemptID string) (cert.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,number,user_id,quiz_id,attempt_id,score,max_score,
		percentage,issued_at FROM certificates WHERE attempt_id=$1`, attemptID)
	var rec cert.Record
	err := row.Scan(&rec.ID, &rec.Number, &rec.UserID, &rec.QuizID, &rec.AttemptID,
		&rec.Score, &rec.MaxScore, &rec.Percentage, &rec.IssuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cert.Record{}, ErrCertificateNotFound
		}
		return cert.Record{}, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var oj, aj string
	err := row.Scan(&a.ID, &a.QuizID, &a.UserID, &a.Status, &a.Score, &a.MaxScore,
		&oj, &aj, &a.Preview, &a.StartedAt, &a.CompletedAt, &a.TimeSpentSec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(oj), &a.QuestionOrder); err != nil {
		return Attempt{}, fmt.Errorf("decode question order for attempt %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(aj), &a.Answers); err != nil {
		a.Answers = map[string]any{}
	}
	return a, nil
}

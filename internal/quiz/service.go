package quiz

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/audit"
	"github.com/quizforge/quizforge/internal/cert"
	"github.com/quizforge/quizforge/internal/grading"
	"github.com/quizforge/quizforge/internal/random"
)

// Service drives the attempt lifecycle: start, one-shot submit, review and
// history. Each method is a single request-scoped unit of work; all shared
// state lives behind the Store.
type Service struct {
	store  Store
	grader grading.Grader
	issuer *cert.Issuer
	events *audit.Log
	now    func() time.Time
}

func NewService(store Store, grader grading.Grader, issuer *cert.Issuer, events *audit.Log) *Service {
	return &Service{store: store, grader: grader, issuer: issuer, events: events, now: time.Now}
}

// QuizInfo is the delivery summary a client needs while taking the quiz.
type QuizInfo struct {
	Title              string `json:"title"`
	TimeLimitMin       int    `json:"time_limit_min"`
	PassingScore       int    `json:"passing_score"`
	ShowCorrectAnswers bool   `json:"show_correct_answers"`
}

// StartResult carries the new attempt plus the fully prepared question list.
// Question and option order match what the persisted seed components derive,
// so a later re-fetch renders the identical ordering.
type StartResult struct {
	Attempt      Attempt    `json:"attempt"`
	TimeLimitSec int        `json:"time_limit_sec"` // 0 = untimed; enforced by the caller, advisory here
	Questions    []Question `json:"questions"`
	QuizInfo     QuizInfo   `json:"quiz_info"`
}

// QuestionResult is the per-question outcome of a submission.
type QuestionResult struct {
	StudentAnswer  any  `json:"student_answer"`
	CorrectAnswer  any  `json:"correct_answer,omitempty"`
	IsCorrect      bool `json:"is_correct"`
	PointsEarned   int  `json:"points_earned"`
	PointsPossible int  `json:"points_possible"`
}

// SubmitResult reports the finalized attempt, per-question results, and the
// certificate when one was issued (nil otherwise).
type SubmitResult struct {
	Attempt     Attempt                   `json:"attempt"`
	Percentage  float64                   `json:"percentage"`
	Passed      bool                      `json:"passed"`
	Results     map[string]QuestionResult `json:"results"`
	Certificate *cert.Record              `json:"certificate"`
}

// StartAttempt checks the attempt-count gates, derives the randomized
// ordering, and persists a fresh in_progress attempt.
//
// The two gates are independent and checked in order: the multiple-attempts
// policy first, then the max-attempts ceiling.
func (s *Service) StartAttempt(ctx context.Context, quizID, userID string, preview bool) (StartResult, error) {
	if quizID == "" {
		return StartResult{}, &ValidationError{Field: "quiz_id"}
	}
	if userID == "" {
		return StartResult{}, &ValidationError{Field: "user_id"}
	}

	z, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return StartResult{}, err
	}

	completed, err := s.store.CompletedAttemptIDs(ctx, quizID, userID)
	if err != nil {
		return StartResult{}, err
	}
	if !preview {
		if !z.AllowMultipleAttempts && len(completed) > 0 {
			return StartResult{}, &PolicyError{
				Reason:            ReasonMultipleAttempts,
				ExistingAttemptID: completed[0],
			}
		}
		if z.MaxAttempts > 0 && len(completed) >= z.MaxAttempts {
			return StartResult{}, &PolicyError{
				Reason:       ReasonMaxAttempts,
				AttemptsUsed: len(completed),
				MaxAttempts:  z.MaxAttempts,
			}
		}
	}

	// The attempt id is generated before shuffling: it is part of the seed.
	attemptID := uuid.NewString()
	questions := prepareQuestions(z, userID, attemptID)

	order := make([]string, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}

	a := Attempt{
		ID:            attemptID,
		QuizID:        quizID,
		UserID:        userID,
		QuestionOrder: order,
		Answers:       map[string]any{},
		Status:        StatusInProgress,
		MaxScore:      z.MaxScore(),
		Preview:       preview,
		StartedAt:     s.now().Unix(),
	}
	if err := s.store.CreateAttempt(ctx, a); err != nil {
		return StartResult{}, err
	}
	s.logEvent(ctx, audit.TypeAttemptStarted, a.ID, map[string]any{
		"quiz_id": quizID, "user_id": userID, "preview": preview,
	})

	sanitized := make([]Question, len(questions))
	for i, q := range questions {
		sanitized[i] = q.Sanitized()
	}
	return StartResult{
		Attempt:      a,
		TimeLimitSec: z.TimeLimitMin * 60,
		Questions:    sanitized,
		QuizInfo:     quizInfo(z),
	}, nil
}

// SubmitAttempt grades every question the learner saw and finalizes the
// attempt in one conditional write. A second submission for the same attempt
// observes the completed status and fails with ErrAlreadySubmitted.
func (s *Service) SubmitAttempt(ctx context.Context, attemptID string, answers map[string]any) (SubmitResult, error) {
	if attemptID == "" {
		return SubmitResult{}, &ValidationError{Field: "attempt_id"}
	}
	if answers == nil {
		answers = map[string]any{}
	}

	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return SubmitResult{}, err
	}
	if a.Status == StatusCompleted {
		return SubmitResult{}, ErrAlreadySubmitted
	}
	z, err := s.store.GetQuiz(ctx, a.QuizID)
	if err != nil {
		return SubmitResult{}, err
	}

	// Grade against the question set frozen in the attempt's order, not the
	// quiz's current one: a quiz edited mid-attempt must not add questions
	// the learner never saw. Questions deleted mid-attempt are skipped; the
	// frozen max score still counts their points.
	score := 0
	results := make(map[string]QuestionResult, len(a.QuestionOrder))
	for _, qid := range a.QuestionOrder {
		q, ok := z.QuestionByID(qid)
		if !ok {
			continue
		}
		resp := answers[qid]
		out := s.grader.Grade(q.Key(), resp)
		score += out.PointsEarned
		results[qid] = QuestionResult{
			StudentAnswer:  resp,
			CorrectAnswer:  q.CorrectAnswer(),
			IsCorrect:      out.Correct,
			PointsEarned:   out.PointsEarned,
			PointsPossible: out.PointsPossible,
		}
	}

	now := s.now()
	timeSpent := now.Unix() - a.StartedAt
	if timeSpent < 0 {
		timeSpent = 0
	}

	a.Answers = answers
	a.Score = score
	a.Status = StatusCompleted
	a.CompletedAt = now.Unix()
	a.TimeSpentSec = timeSpent
	if err := s.store.CompleteAttempt(ctx, a); err != nil {
		return SubmitResult{}, err
	}

	percentage := a.Percentage()
	passed := percentage >= float64(z.PassingScore)

	var record *cert.Record
	if passed && z.CertificateEnabled && !a.Preview {
		record = s.issuer.Issue(ctx, a.UserID, a.QuizID, a.ID, a.Score, a.MaxScore, percentage)
		if record != nil {
			s.logEvent(ctx, audit.TypeCertificateIssued, a.ID, map[string]any{
				"certificate_id": record.ID, "number": record.Number,
			})
		}
	}
	s.logEvent(ctx, audit.TypeAttemptSubmitted, a.ID, map[string]any{
		"score": a.Score, "max_score": a.MaxScore, "percentage": percentage, "passed": passed,
	})

	return SubmitResult{
		Attempt:     a,
		Percentage:  percentage,
		Passed:      passed,
		Results:     results,
		Certificate: record,
	}, nil
}

// ReviewEntry is one question of the post-attempt review, in presentation
// order. The answer key and explanation appear only when the quiz allows it.
type ReviewEntry struct {
	Question      Question `json:"question"`
	StudentAnswer any      `json:"student_answer,omitempty"`
	CorrectAnswer any      `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	IsCorrect     *bool    `json:"is_correct,omitempty"`
	PointsEarned  *int     `json:"points_earned,omitempty"`
}

type DetailResult struct {
	Attempt     Attempt       `json:"attempt"`
	Percentage  float64       `json:"percentage"`
	Passed      bool          `json:"passed"`
	QuizInfo    QuizInfo      `json:"quiz_info"`
	Entries     []ReviewEntry `json:"entries"`
	Certificate *cert.Record  `json:"certificate,omitempty"`
}

// AttemptDetail reconstructs the review from the persisted question order.
// Option order is recomputed from the same seed components the start used, so
// the learner sees the exact ordering they answered against. Question ids no
// longer present in the quiz are filtered out.
func (s *Service) AttemptDetail(ctx context.Context, attemptID string) (DetailResult, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return DetailResult{}, err
	}
	z, err := s.store.GetQuiz(ctx, a.QuizID)
	if err != nil {
		return DetailResult{}, err
	}

	entries := make([]ReviewEntry, 0, len(a.QuestionOrder))
	for _, qid := range a.QuestionOrder {
		q, ok := z.QuestionByID(qid)
		if !ok {
			continue
		}
		if z.ShuffleOptions && len(q.Options) > 1 {
			q.Options = random.Shuffle(q.Options, random.OptionSeed(z.ID, a.UserID, a.ID, q.ID))
		}

		entry := ReviewEntry{StudentAnswer: a.Answers[qid]}
		if z.ShowCorrectAnswers {
			entry.Question = q
			entry.CorrectAnswer = q.CorrectAnswer()
			entry.Explanation = q.Explanation
			if a.Status == StatusCompleted {
				out := s.grader.Grade(q.Key(), a.Answers[qid])
				entry.IsCorrect = &out.Correct
				entry.PointsEarned = &out.PointsEarned
			}
		} else {
			entry.Question = q.Sanitized()
		}
		entries = append(entries, entry)
	}

	res := DetailResult{
		Attempt:    a,
		Percentage: a.Percentage(),
		Passed:     a.Status == StatusCompleted && a.Percentage() >= float64(z.PassingScore),
		QuizInfo:   quizInfo(z),
		Entries:    entries,
	}
	if rec, err := s.store.GetCertificateByAttempt(ctx, attemptID); err == nil {
		res.Certificate = &rec
	}
	return res, nil
}

// AttemptSummary is one row of a learner's history.
type AttemptSummary struct {
	ID           string  `json:"id"`
	QuizID       string  `json:"quiz_id"`
	Status       string  `json:"status"`
	Score        int     `json:"score"`
	MaxScore     int     `json:"max_score"`
	Percentage   float64 `json:"percentage"`
	Passed       bool    `json:"passed"`
	StartedAt    int64   `json:"started_at"`
	CompletedAt  int64   `json:"completed_at,omitempty"`
	TimeSpentSec int64   `json:"time_spent_sec,omitempty"`
}

type HistoryStats struct {
	Count             int     `json:"count"`
	AveragePercentage float64 `json:"average_percentage"`
	HighestPercentage float64 `json:"highest_percentage"`
	Passes            int     `json:"passes"`
}

type HistoryResult struct {
	Attempts []AttemptSummary `json:"attempts"`
	Stats    HistoryStats     `json:"stats"`
}

// AttemptHistory lists a user's attempts, newest first, with aggregate stats
// over the completed ones. Preview attempts never appear here. quizID is an
// optional filter.
func (s *Service) AttemptHistory(ctx context.Context, userID, quizID string) (HistoryResult, error) {
	if userID == "" {
		return HistoryResult{}, &ValidationError{Field: "user_id"}
	}
	attempts, err := s.store.ListAttempts(ctx, AttemptListOpts{UserID: userID, QuizID: quizID})
	if err != nil {
		return HistoryResult{}, err
	}

	passing := map[string]int{} // quiz id -> passing score
	res := HistoryResult{Attempts: make([]AttemptSummary, 0, len(attempts))}
	var sumPct float64
	for _, a := range attempts {
		threshold, ok := passing[a.QuizID]
		if !ok {
			z, err := s.store.GetQuiz(ctx, a.QuizID)
			if err != nil {
				// Quiz deleted after the fact: keep the attempt row, treat
				// the pass threshold as unreachable.
				threshold = 101
			} else {
				threshold = z.PassingScore
			}
			passing[a.QuizID] = threshold
		}

		sum := AttemptSummary{
			ID:           a.ID,
			QuizID:       a.QuizID,
			Status:       a.Status,
			Score:        a.Score,
			MaxScore:     a.MaxScore,
			StartedAt:    a.StartedAt,
			CompletedAt:  a.CompletedAt,
			TimeSpentSec: a.TimeSpentSec,
		}
		if a.Status == StatusCompleted {
			sum.Percentage = a.Percentage()
			sum.Passed = sum.Percentage >= float64(threshold)
			res.Stats.Count++
			sumPct += sum.Percentage
			if sum.Percentage > res.Stats.HighestPercentage {
				res.Stats.HighestPercentage = sum.Percentage
			}
			if sum.Passed {
				res.Stats.Passes++
			}
		}
		res.Attempts = append(res.Attempts, sum)
	}
	if res.Stats.Count > 0 {
		res.Stats.AveragePercentage = float64(int(sumPct/float64(res.Stats.Count)*100+0.5)) / 100
	}
	return res, nil
}

// prepareQuestions applies question-level then option-level shuffling per the
// quiz policy, leaving the quiz's own slices untouched.
func prepareQuestions(z Quiz, userID, attemptID string) []Question {
	questions := make([]Question, len(z.Questions))
	copy(questions, z.Questions)
	if z.RandomizeQuestions {
		questions = random.Shuffle(questions, random.AttemptSeed(z.ID, userID, attemptID))
	}
	if z.ShuffleOptions {
		for i, q := range questions {
			if len(q.Options) > 1 {
				questions[i].Options = random.Shuffle(q.Options, random.OptionSeed(z.ID, userID, attemptID, q.ID))
			}
		}
	}
	return questions
}

func quizInfo(z Quiz) QuizInfo {
	return QuizInfo{
		Title:              z.Title,
		TimeLimitMin:       z.TimeLimitMin,
		PassingScore:       z.PassingScore,
		ShowCorrectAnswers: z.ShowCorrectAnswers,
	}
}

func (s *Service) logEvent(ctx context.Context, typ, key string, data map[string]any) {
	if err := s.events.Append(ctx, typ, key, data); err != nil {
		log.Printf("event %s for %s not recorded: %v", typ, key, err)
	}
}

package quiz

import "github.com/quizforge/quizforge/internal/grading"

// Attempt status values. The only transition is in_progress -> completed,
// exactly once.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Option is one selectable choice of a choice-based question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
}

// Question is one item of a quiz. Type is one of the closed set of tags in
// the grading package; the answer-key fields are populated according to Type,
// mirroring grading.Q.
type Question struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Prompt      string            `json:"prompt,omitempty"`
	Points      int               `json:"points"`
	Options     []Option          `json:"options,omitempty"`
	Answer      string            `json:"answer,omitempty"`
	Answers     []string          `json:"answers,omitempty"`
	Blanks      map[string]string `json:"blanks,omitempty"`
	Pairs       []grading.Pair    `json:"pairs,omitempty"`
	Targets     []grading.Point   `json:"targets,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
}

// Key returns the grading view of the question.
func (q Question) Key() grading.Q {
	return grading.Q{
		Type:    q.Type,
		Points:  q.Points,
		Answer:  q.Answer,
		Answers: q.Answers,
		Blanks:  q.Blanks,
		Pairs:   q.Pairs,
		Targets: q.Targets,
	}
}

// CorrectAnswer returns the answer key in the shape the review payload uses,
// or nil for essays (no auto-gradable key).
func (q Question) CorrectAnswer() any {
	switch q.Type {
	case grading.TypeMultipleChoice, grading.TypeTrueFalse, grading.TypeShortAnswer, grading.TypeImageChoice:
		return q.Answer
	case grading.TypeMultipleSelect, grading.TypeOrdering, grading.TypeDragDrop:
		return q.Answers
	case grading.TypeFillBlanks:
		return q.Blanks
	case grading.TypeMatching:
		return q.Pairs
	case grading.TypeHotspot:
		return q.Targets
	default:
		return nil
	}
}

// Sanitized returns a copy with the answer key and explanation stripped, safe
// to hand to a learner mid-attempt.
func (q Question) Sanitized() Question {
	q.Answer = ""
	q.Answers = nil
	q.Blanks = nil
	q.Pairs = nil
	q.Targets = nil
	q.Explanation = ""
	return q
}

// Quiz owns an ordered question list plus the delivery policy. Immutable for
// the lifetime of any attempt against it.
type Quiz struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Questions             []Question `json:"questions"`
	PassingScore          int        `json:"passing_score"`            // percent, inclusive boundary
	MaxAttempts           int        `json:"max_attempts"`             // 0 = unlimited
	AllowMultipleAttempts bool       `json:"allow_multiple_attempts"`
	RandomizeQuestions    bool       `json:"randomize_questions"`
	ShuffleOptions        bool       `json:"shuffle_options"`
	TimeLimitMin          int        `json:"time_limit_min"` // 0 = none
	CertificateEnabled    bool       `json:"certificate_enabled"`
	ShowCorrectAnswers    bool       `json:"show_correct_answers"`
	CreatedAt             int64      `json:"created_at,omitempty"`
}

// MaxScore is the sum of all question points. Computed once at attempt start
// and frozen on the attempt; never recomputed afterwards.
func (z Quiz) MaxScore() int {
	total := 0
	for _, q := range z.Questions {
		total += q.Points
	}
	return total
}

// QuestionByID does a linear scan; quizzes are small.
func (z Quiz) QuestionByID(id string) (Question, bool) {
	for _, q := range z.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Attempt is one learner's timed pass over a quiz. QuestionOrder is the only
// persisted artifact of randomization; option order is recomputed from the
// seed components on every read.
type Attempt struct {
	ID            string         `json:"id"`
	QuizID        string         `json:"quiz_id"`
	UserID        string         `json:"user_id"`
	QuestionOrder []string       `json:"question_order"`
	Answers       map[string]any `json:"answers"`
	Status        string         `json:"status"`
	Score         int            `json:"score"`
	MaxScore      int            `json:"max_score"`
	Preview       bool           `json:"preview,omitempty"`
	StartedAt     int64          `json:"started_at"`
	CompletedAt   int64          `json:"completed_at,omitempty"`
	TimeSpentSec  int64          `json:"time_spent_sec,omitempty"`
}

// Percentage is score over the frozen max score, as a percent rounded to two
// decimals. A zero max score yields zero rather than dividing by it.
func (a Attempt) Percentage() float64 {
	return pct(a.Score, a.MaxScore)
}

func pct(score, maxScore int) float64 {
	if maxScore == 0 {
		return 0
	}
	raw := float64(score) / float64(maxScore) * 100
	return float64(int(raw*100+0.5)) / 100
}

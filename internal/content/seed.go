// Package content provisions demo data for offline and first-run use. It is
// a collaborator of the core, not part of it: loading is an idempotent upsert
// keyed by fixed ids, and clearing removes exactly what loading created.
package content

import (
	"context"
	"database/sql"

	"github.com/quizforge/quizforge/internal/grading"
	"github.com/quizforge/quizforge/internal/quiz"
)

// DemoQuizID is fixed so repeated loads upsert instead of multiplying.
const DemoQuizID = "demo-networking-101"

// LoadDemo installs one demo quiz exercising every question variant.
func LoadDemo(ctx context.Context, store quiz.Store) error {
	return store.PutQuiz(ctx, quiz.Quiz{
		ID:    DemoQuizID,
		Title: "Networking Fundamentals (demo)",
		Questions: []quiz.Question{
			{
				ID: "d-mc", Type: grading.TypeMultipleChoice, Points: 5,
				Prompt: "Which layer does TCP live on?",
				Options: []quiz.Option{
					{ID: "app", Text: "Application"}, {ID: "tra", Text: "Transport"},
					{ID: "net", Text: "Network"}, {ID: "lnk", Text: "Link"},
				},
				Answer:      "tra",
				Explanation: "TCP is a transport-layer protocol.",
			},
			{
				ID: "d-ms", Type: grading.TypeMultipleSelect, Points: 5,
				Prompt: "Select every connectionless protocol.",
				Options: []quiz.Option{
					{ID: "udp", Text: "UDP"}, {ID: "tcp", Text: "TCP"},
					{ID: "ip", Text: "IP"}, {ID: "tls", Text: "TLS"},
				},
				Answers: []string{"udp", "ip"},
			},
			{
				ID: "d-tf", Type: grading.TypeTrueFalse, Points: 2,
				Prompt: "UDP guarantees in-order delivery.",
				Answer: "false",
			},
			{
				ID: "d-sa", Type: grading.TypeShortAnswer, Points: 3,
				Prompt: "What does DNS resolve names into?",
				Answer: "addresses",
			},
			{
				ID: "d-fb", Type: grading.TypeFillBlanks, Points: 4,
				Prompt: "HTTP/1.1 defaults to port ___ and HTTPS to port ___.",
				Blanks: map[string]string{"b1": "80", "b2": "443"},
			},
			{
				ID: "d-ma", Type: grading.TypeMatching, Points: 6,
				Prompt: "Match the protocol to its transport.",
				Pairs: []grading.Pair{
					{Left: "HTTP", Right: "TCP"},
					{Left: "DNS", Right: "UDP"},
					{Left: "QUIC", Right: "UDP"},
				},
			},
			{
				ID: "d-or", Type: grading.TypeOrdering, Points: 4,
				Prompt:  "Order the TCP handshake.",
				Answers: []string{"syn", "syn-ack", "ack"},
			},
			{
				ID: "d-dd", Type: grading.TypeDragDrop, Points: 4,
				Prompt:  "Arrange the layers top-down.",
				Answers: []string{"application", "transport", "network", "link"},
			},
			{
				ID: "d-ic", Type: grading.TypeImageChoice, Points: 2,
				Prompt: "Pick the diagram showing a three-way handshake.",
				Options: []quiz.Option{
					{ID: "img-1"}, {ID: "img-2"}, {ID: "img-3"},
				},
				Answer: "img-2",
			},
			{
				ID: "d-hs", Type: grading.TypeHotspot, Points: 5,
				Prompt:  "Click the router in the topology diagram.",
				Targets: []grading.Point{{X: 240, Y: 130}},
			},
			{
				ID: "d-es", Type: grading.TypeEssay, Points: 10,
				Prompt: "Explain how congestion control interacts with flow control.",
			},
		},
		PassingScore:          60,
		MaxAttempts:           3,
		AllowMultipleAttempts: true,
		RandomizeQuestions:    true,
		ShuffleOptions:        true,
		TimeLimitMin:          20,
		CertificateEnabled:    true,
		ShowCorrectAnswers:    true,
	})
}

// Clear removes the demo quiz and everything hanging off it. Attempts and
// certificates cascade via their foreign keys.
func Clear(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, DemoQuizID)
	return err
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/quiz"
)

// POST /quizzes — teacher-only upsert. A missing id means a new quiz.
func UploadQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var z quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&z); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if z.Title == "" {
			writeErr(w, &quiz.ValidationError{Field: "title"})
			return
		}
		if len(z.Questions) == 0 {
			writeErr(w, &quiz.ValidationError{Field: "questions"})
			return
		}
		if z.ID == "" {
			z.ID = uuid.NewString()
		}
		for i := range z.Questions {
			if z.Questions[i].ID == "" {
				z.Questions[i].ID = uuid.NewString()
			}
		}
		if err := store.PutQuiz(r.Context(), z); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, z)
	}
}

// GET /quizzes/{quizID} — student-safe view: answer keys and explanations are
// stripped before the quiz leaves the server.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		for i := range z.Questions {
			z.Questions[i] = z.Questions[i].Sanitized()
		}
		writeJSON(w, http.StatusOK, z)
	}
}

package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"live-mcq-service/internal/app"
	"live-mcq-service/internal/domain"
)

// QuestionHandler is the authoring endpoint: POST a question and it is
// persisted and immediately visible to the live session.
type QuestionHandler struct {
	service *app.QuizService
}

func NewQuestionHandler(service *app.QuizService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

type addQuestionRequest struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption *int     `json:"correctOption"`
}

type addQuestionResponse struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *QuestionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, addQuestionResponse{Status: "error", Message: "method not allowed"})
		return
	}

	var req addQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CorrectOption == nil {
		writeJSON(w, http.StatusBadRequest, addQuestionResponse{Status: "error", Message: domain.ErrInvalidQuestion.Error()})
		return
	}

	stored, err := h.service.AddQuestion(r.Context(), domain.Question{
		Text:          req.Text,
		Options:       req.Options,
		CorrectOption: *req.CorrectOption,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidQuestion):
		writeJSON(w, http.StatusBadRequest, addQuestionResponse{Status: "error", Message: err.Error()})
	case err != nil:
		log.Printf("add question failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, addQuestionResponse{Status: "error", Message: "could not store question"})
	default:
		writeJSON(w, http.StatusOK, addQuestionResponse{Status: "success", ID: stored.ID})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

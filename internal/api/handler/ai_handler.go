package handler

import (
	"codecourse/internal/api/middleware"
	"codecourse/internal/app/service"
	"codecourse/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AIHandler struct {
	aiService *service.AIService
	validate  *validator.Validate
}

func NewAIHandler(aiService *service.AIService, validate *validator.Validate) *AIHandler {
	return &AIHandler{aiService: aiService, validate: validate}
}

func (h *AIHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Post("/generate/exercise", h.generateExercise)
	r.Post("/discuss", h.discuss)
}

func (h *AIHandler) generateExercise(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateExerciseRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	exercise, err := h.aiService.GenerateExercise(r.Context(), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exercise)
}

func (h *AIHandler) discuss(w http.ResponseWriter, r *http.Request) {
	var req service.DiscussRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	common.RespondWithJSON(w, http.StatusOK, h.aiService.Discuss(r.Context(), req))
}

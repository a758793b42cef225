package handler

import (
	"codecourse/internal/api/middleware"
	"codecourse/internal/app/service"
	"codecourse/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// ExerciseHandler serves /courses/{courseID}/exercises. Every route is
// admin-only; learners read exercises through their course.
type ExerciseHandler struct {
	exerciseService *service.ExerciseService
	validate        *validator.Validate
}

func NewExerciseHandler(exerciseService *service.ExerciseService, validate *validator.Validate) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, validate: validate}
}

func (h *ExerciseHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Post("/", h.createExercise)
	r.Put("/{exerciseID}", h.updateExercise)
	r.Delete("/{exerciseID}", h.deleteExercise)
}

func (h *ExerciseHandler) createExercise(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseIDParam(r, "courseID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	var req service.CreateExerciseRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(r.Context(), courseID, req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exercise)
}

func (h *ExerciseHandler) updateExercise(w http.ResponseWriter, r *http.Request) {
	courseID, exerciseID, ok := h.ids(w, r)
	if !ok {
		return
	}

	var req service.UpdateExerciseRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(r.Context(), courseID, exerciseID, req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exercise)
}

func (h *ExerciseHandler) deleteExercise(w http.ResponseWriter, r *http.Request) {
	courseID, exerciseID, ok := h.ids(w, r)
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(r.Context(), courseID, exerciseID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *ExerciseHandler) ids(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	courseID, err := parseIDParam(r, "courseID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return 0, 0, false
	}
	exerciseID, err := parseIDParam(r, "exerciseID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return 0, 0, false
	}
	return courseID, exerciseID, true
}

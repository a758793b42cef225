package handler

import (
	"codecourse/internal/api/middleware"
	"codecourse/internal/app/service"
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RunHandler struct {
	runService *service.RunService
}

func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

// RegisterRoutes mounts POST /run. Authentication is optional.
func (h *RunHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.OptionalUser).Post("/", h.run)
}

func (h *RunHandler) run(w http.ResponseWriter, r *http.Request) {
	var req model.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request payload: "+err.Error())
		return
	}

	var userID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	result, err := h.runService.Run(r.Context(), userID, req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

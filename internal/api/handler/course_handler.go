package handler

import (
	"codecourse/internal/api/middleware"
	"codecourse/internal/app/service"
	"codecourse/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type CourseHandler struct {
	courseService *service.CourseService
	validate      *validator.Validate
}

func NewCourseHandler(courseService *service.CourseService, validate *validator.Validate) *CourseHandler {
	return &CourseHandler{courseService: courseService, validate: validate}
}

func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCourses)         // GET /courses
	r.Get("/{courseID}", h.getCourse) // GET /courses/1

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createCourse)
		adminRouter.Delete("/{courseID}", h.deleteCourse)
	})
}

func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCourseRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseIDParam(r, "courseID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), courseID)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseIDParam(r, "courseID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondNoContent(w)
}

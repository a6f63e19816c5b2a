package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alem-hub/course-registration/internal/application/command"
	"github.com/alem-hub/course-registration/internal/application/query"
	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"name":        "Course Registration API",
		"version":     s.deps.Version,
		"description": "Register students for courses with loyalty pricing",
		"endpoints": map[string]string{
			"register":   "POST /api/register?email={email}&courseId={id}",
			"unregister": "DELETE /api/unregister/{courseId}/{email}",
			"upcoming":   "GET /api/students/{email}/courses/upcoming",
			"courses":    "/api/courses",
			"students":   "POST /api/students",
			"health":     "/health",
			"metrics":    "/metrics",
		},
	}

	writeJSON(w, r, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if status.Version == "" {
		status.Version = s.deps.Version
	}
	if !status.Healthy {
		writeJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": status.Message,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRegister handles POST /api/register?email=&courseId=.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSONError(w, r, http.StatusBadRequest, CodeValidation, "email is required")
		return
	}

	courseID, err := parseID(r.URL.Query().Get("courseId"), "courseId")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	result, err := s.deps.RegisterCourse.Handle(r.Context(), command.RegisterCourseCommand{
		Email:    email,
		CourseID: courseID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, nonNil(result.UpcomingCourses))
}

// handleUnregister handles DELETE /api/unregister/{courseId}/{email}.
func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(chi.URLParam(r, "courseId"), "courseId")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	email, err := pathParam(r, "email")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if _, err := s.deps.UnregisterCourse.Handle(r.Context(), command.UnregisterCourseCommand{
		CourseID: courseID,
		Email:    email,
	}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, MessageData{Message: command.MsgUnregisteredSuccessful})
}

// handleGetUpcomingCourses handles GET /api/students/{email}/courses/upcoming.
func (s *Server) handleGetUpcomingCourses(w http.ResponseWriter, r *http.Request) {
	email, err := pathParam(r, "email")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	courses, err := s.deps.GetUpcomingCourses.Handle(r.Context(), query.GetUpcomingCoursesQuery{Email: email})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, nonNil(courses))
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createStudentRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// handleCreateStudent handles POST /api/students.
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	created, err := s.deps.CreateStudent.Handle(r.Context(), command.CreateStudentCommand{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, created)
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type courseRequest struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     int64     `json:"price"`
}

func (req courseRequest) input() command.CourseInput {
	return command.CourseInput{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Price:     req.Price,
	}
}

// handleListCourses handles GET /api/courses?limit=&offset=.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListCourses.Handle(r.Context(), query.ListCoursesQuery{
		Limit:  getQueryParamInt(r, "limit", shared.DefaultPageSize),
		Offset: getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, nonNil(result.Courses), &ResponseMeta{
		Limit:   result.Limit,
		Offset:  result.Offset,
		HasMore: len(result.Courses) == result.Limit,
	})
}

// handleGetCourse handles GET /api/courses/{id}.
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	c, err := s.deps.GetCourse.Handle(r.Context(), query.GetCourseQuery{ID: id})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, c)
}

// handleCreateCourse handles POST /api/courses.
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	c, err := s.deps.CourseAdmin.Create(r.Context(), command.CreateCourseCommand{CourseInput: req.input()})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, c)
}

// handleUpdateCourse handles PUT /api/courses/{id}.
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	c, err := s.deps.CourseAdmin.Update(r.Context(), command.UpdateCourseCommand{ID: id, CourseInput: req.input()})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, c)
}

// handleDeleteCourse handles DELETE /api/courses/{id}.
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.deps.CourseAdmin.Delete(r.Context(), command.DeleteCourseCommand{ID: id}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, MessageData{Message: "Course deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// parseID parses a decimal int64 identifier.
func parseID(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, shared.Validationf("http", "ParseID", "%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, shared.Validationf("http", "ParseID", "%s must be an integer", name)
	}
	return id, nil
}

// pathParam returns a decoded, non-empty path parameter. chi matches on
// RawPath when it is set, so only then is the value still escaped; otherwise
// it comes from the already decoded Path and must not be unescaped again.
func pathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(value)
		if err != nil {
			return "", shared.Validationf("http", "PathParam", "%s is malformed", name)
		}
		value = unescaped
	}
	if value == "" {
		return "", shared.Validationf("http", "PathParam", "%s is required", name)
	}
	return value, nil
}

// getQueryParamInt extracts an integer query parameter with a default value.
func getQueryParamInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// nonNil makes empty course lists encode as [] rather than null.
func nonNil(courses []*course.Course) []*course.Course {
	if courses == nil {
		return []*course.Course{}
	}
	return courses
}

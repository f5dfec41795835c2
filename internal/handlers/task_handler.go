package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/tasknest/tasknest/internal/logger"
	"github.com/tasknest/tasknest/internal/middleware"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/taskerr"
)

type TaskHandler struct {
	taskService *service.TaskService
	log         *logger.Logger
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         logger.New("task-handler"),
	}
}

func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	tasks, err := h.taskService.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(r.Context(), user.ID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// updateTaskRequest is the explicit accepted field set for PUT.
// DueDate and Priority are kept raw so an explicit JSON null (which
// clears the field) is distinguishable from an absent field.
type updateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Completed   *bool           `json:"completed"`
	DueDate     json.RawMessage `json:"dueDate"`
	Priority    json.RawMessage `json:"priority"`
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	taskID, ok := taskIDFrom(r)
	if !ok {
		respondMessage(w, http.StatusNotFound, "Task not found")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dueDate, err := optionalString(req.DueDate)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid due date format")
		return
	}

	priority, err := optionalString(req.Priority)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid priority. Must be high, medium, or low")
		return
	}

	task, err := h.taskService.Update(r.Context(), user.ID, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     dueDate,
		Priority:    priority,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	taskID, ok := taskIDFrom(r)
	if !ok {
		respondMessage(w, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskService.Delete(r.Context(), user.ID, taskID); err != nil {
		respondError(w, h.log, err)
		return
	}

	respondMessage(w, http.StatusOK, "Task deleted successfully")
}

// taskIDFrom parses the {id} path variable. A non-numeric id gets the
// same answer as a missing task so nothing about valid ids leaks.
func taskIDFrom(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalString maps a raw JSON field: absent stays nil, an explicit
// null becomes a pointer to "", a string is unwrapped.
func optionalString(raw json.RawMessage) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	if string(raw) == "null" {
		empty := ""
		return &empty, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, taskerr.Validation("invalid field type")
	}
	return &s, nil
}

package httpapi

import (
	"net/http"
	"strings"

	"github.com/example/taskapi/internal/ctxutil"
	"github.com/example/taskapi/internal/ports/primary"
)

type taskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	Deadline    *string `json:"deadline"`
	EndDate     *string `json:"end_date"`
	Status      *string `json:"status"`
	TaskTypeID  *string `json:"task_type_id"`
}

func (s *Server) findTaskMatches(w http.ResponseWriter, r *http.Request) {
	mq, err := parseMatchQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := primary.TaskQuery{
		MatchQuery: mq,
		StartDate:  strings.TrimSpace(r.URL.Query().Get("startDate")),
		Deadline:   strings.TrimSpace(r.URL.Query().Get("deadline")),
	}

	page, err := s.svc.Tasks.FindAllMatches(r.Context(), ctxutil.PrincipalFromContext(r.Context()), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, paginate(r, page, toTaskResource))
}

func (s *Server) findTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.Tasks.FindAll(r.Context(), ctxutil.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapSlice(tasks, toTaskResource))
}

func (s *Server) findTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Tasks.FindOne(r.Context(), ctxutil.PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toTaskResource(t))
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var body taskBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	t, err := s.svc.Tasks.Create(r.Context(), ctxutil.PrincipalFromContext(r.Context()), primary.CreateTaskRequest{
		Title:       body.Title,
		Description: body.Description,
		StartDate:   body.StartDate,
		Deadline:    body.Deadline,
		EndDate:     body.EndDate,
		Status:      body.Status,
		TaskTypeID:  body.TaskTypeID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toTaskResource(t))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var body taskBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	t, err := s.svc.Tasks.Update(r.Context(), ctxutil.PrincipalFromContext(r.Context()), primary.UpdateTaskRequest{
		TaskID:      r.PathValue("id"),
		Title:       body.Title,
		Description: body.Description,
		StartDate:   body.StartDate,
		Deadline:    body.Deadline,
		EndDate:     body.EndDate,
		Status:      body.Status,
		TaskTypeID:  body.TaskTypeID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toTaskResource(t))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.Delete(r.Context(), ctxutil.PrincipalFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"net/http"

	"github.com/example/taskapi/internal/ctxutil"
	"github.com/example/taskapi/internal/ports/primary"
)

type taskTypeBody struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

func (s *Server) findTaskTypeMatches(w http.ResponseWriter, r *http.Request) {
	q, err := parseMatchQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := s.svc.TaskTypes.FindAllMatches(r.Context(), ctxutil.PrincipalFromContext(r.Context()), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, paginate(r, page, toTaskTypeResource))
}

func (s *Server) findTaskTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.svc.TaskTypes.FindAll(r.Context(), ctxutil.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapSlice(types, toTaskTypeResource))
}

func (s *Server) findTaskType(w http.ResponseWriter, r *http.Request) {
	tt, err := s.svc.TaskTypes.FindOne(r.Context(), ctxutil.PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toTaskTypeResource(tt))
}

func (s *Server) createTaskType(w http.ResponseWriter, r *http.Request) {
	var body taskTypeBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	tt, err := s.svc.TaskTypes.Create(r.Context(), ctxutil.PrincipalFromContext(r.Context()), primary.CreateTaskTypeRequest{
		Name:   body.Name,
		Status: body.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toTaskTypeResource(tt))
}

func (s *Server) updateTaskType(w http.ResponseWriter, r *http.Request) {
	var body taskTypeBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	tt, err := s.svc.TaskTypes.Update(r.Context(), ctxutil.PrincipalFromContext(r.Context()), primary.UpdateTaskTypeRequest{
		TaskTypeID: r.PathValue("id"),
		Name:       body.Name,
		Status:     body.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toTaskTypeResource(tt))
}

func (s *Server) deleteTaskType(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.TaskTypes.Delete(r.Context(), ctxutil.PrincipalFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

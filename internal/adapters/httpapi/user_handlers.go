package httpapi

import (
	"net/http"

	"github.com/example/taskapi/internal/ctxutil"
	"github.com/example/taskapi/internal/ports/primary"
)

type userBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (s *Server) findUserMatches(w http.ResponseWriter, r *http.Request) {
	q, err := parseMatchQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := s.svc.Users.FindAllMatches(r.Context(), ctxutil.PrincipalFromContext(r.Context()), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, paginate(r, page, toUserResource))
}

func (s *Server) findUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users.FindAll(r.Context(), ctxutil.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapSlice(users, toUserResource))
}

func (s *Server) findUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.FindOne(r.Context(), ctxutil.PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toUserResource(u))
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var body userBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.svc.Users.Create(r.Context(), ctxutil.PrincipalFromContext(r.Context()), primary.CreateUserRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toUserResource(u))
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var body userBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.svc.Users.Update(r.Context(), ctxutil.PrincipalFromContext(r.Context()), primary.UpdateUserRequest{
		UserID:   r.PathValue("id"),
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toUserResource(u))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Users.Delete(r.Context(), ctxutil.PrincipalFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

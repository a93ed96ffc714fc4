package httpapi

import (
	"net/http"
	"strings"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/core/user"
	"github.com/example/taskapi/internal/ctxutil"
	"github.com/example/taskapi/internal/ports/primary"
)

type registerBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type loginBody struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.svc.Auth.Register(r.Context(), primary.RegisterRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Message: "User created successfully.",
		Data:    authResource{User: toUserResource(res.User), Token: res.Token},
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := validateLogin(body); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), primary.LoginRequest{
		Email:    *body.Email,
		Password: *body.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Message: "Login successfully.",
		Data:    authResource{User: toUserResource(res.User), Token: res.Token},
	})
}

func validateLogin(body loginBody) error {
	errs := map[string]string{}
	switch {
	case body.Email == nil || strings.TrimSpace(*body.Email) == "":
		errs["email"] = "Enter your email."
	case !user.ValidEmail(strings.TrimSpace(*body.Email)):
		errs["email"] = "Enter a valid email."
	}
	if body.Password == nil || *body.Password == "" {
		errs["password"] = "Enter your password."
	}
	return apperr.Validation(errs)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Auth.Logout(r.Context(), ctxutil.PrincipalFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "Logout successfully."})
}

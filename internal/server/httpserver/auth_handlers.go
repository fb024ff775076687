package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/stakr/internal/common"
	"github.com/dmitrijs2005/stakr/internal/server/services"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "body must be a JSON object")
		return
	}
	if msg := validationMessage(req); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	s.logger.Info(r.Context(), "Registration request", "email", req.Email)

	user, err := s.users.Register(r.Context(), services.Registration{
		Email:     req.Email,
		Password:  *req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		JobTitle:  req.JobTitle,
	})
	if err != nil {
		status, detail := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error(r.Context(), "registration failed", "error", err)
		}
		writeError(w, status, detail)
		return
	}

	s.logger.Info(r.Context(), "Registered", "id", user.ID)
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

// handleToken implements the OAuth2 password grant form: the email travels
// in the username field.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed form body")
		return
	}

	var missing []string
	for _, field := range []string{"username", "password"} {
		if _, ok := r.PostForm[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		writeError(w, http.StatusUnprocessableEntity, "missing form fields: "+strings.Join(missing, ", "))
		return
	}

	token, err := s.users.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		status, detail := statusFor(err)
		if status == http.StatusUnauthorized {
			writeBearerChallenge(w, detail)
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, status, detail)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: common.TokenType})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeBearerChallenge(w, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

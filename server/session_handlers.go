package server

import (
	"net/http"

	"github.com/pkg/errors"
)

// errMalformedBody covers undecodable request bodies; it maps to
// InvalidArgument like the field-level validation errors.
var errMalformedBody = errors.New("malformed request body")

// CreateSessionHandler issues a new session token for a user.
func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, errMalformedBody)
			return
		}

		if err := validateUserID(req.UserID); err != nil {
			s.writeError(w, err)
			return
		}

		token, session, err := s.sessions.Create(r.Context(), req.UserID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, CreateSessionResponse{
			Token:     token,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

// ValidateSessionHandler resolves a token to its owning user.
func (s *Server) ValidateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, errMalformedBody)
			return
		}

		userID, shouldRefresh, err := s.sessions.Validate(r.Context(), req.Token)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ValidateSessionResponse{
			UserID:              userID,
			ShouldRefreshCookie: shouldRefresh,
		})
	}
}

// DeleteSessionHandler removes a session. Deleting an absent session
// succeeds; logout must be idempotent.
func (s *Server) DeleteSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, errMalformedBody)
			return
		}

		if err := s.sessions.Delete(r.Context(), req.Token); err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, DeleteSessionResponse{})
	}
}

package server

import (
	"encoding/json"
	"net/http"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"google.golang.org/grpc/codes"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusCode classifies an error into the RPC taxonomy. Anything not
// recognized is Internal; that includes every provider-interaction
// failure from the oauth package, so upstream detail never reaches
// clients.
func statusCode(err error) codes.Code {
	switch {
	case interrors.Is(err, interrors.ErrMissingUserID),
		interrors.Is(err, interrors.ErrInvalidUserID),
		interrors.Is(err, interrors.ErrMissingAccountID),
		interrors.Is(err, interrors.ErrMissingToken),
		interrors.Is(err, interrors.ErrInvalidToken),
		interrors.Is(err, interrors.ErrUnspecifiedProvider),
		interrors.Is(err, errMalformedBody):
		return codes.InvalidArgument

	case interrors.Is(err, interrors.ErrTokenExpired),
		interrors.Is(err, interrors.ErrSecretMismatch),
		interrors.Is(err, interrors.ErrSessionNotFound):
		return codes.Unauthenticated

	case interrors.Is(err, interrors.ErrNotFound):
		return codes.NotFound

	default:
		return codes.Internal
	}
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps the error onto the wire. Internal errors are logged
// with detail but reported with a generic message so storage and
// provider internals never leak to clients.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)

	message := err.Error()
	if code == codes.Internal {
		s.logger.Error().Err(err).Msg("internal error")
		message = "internal error"
	}

	writeJSON(w, httpStatus(code), errorResponse{
		Code:    code.String(),
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

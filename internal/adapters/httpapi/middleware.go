package httpapi

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/modelfactory/mes/internal/domain/identity"
)

// Headers stamped onto every authenticated request. Downstream handlers and
// the role gates read these instead of re-parsing the token.
const (
	headerAuthenticatedUser = "X-Authenticated-User"
	headerAuthenticatedRole = "X-Authenticated-Role"
	headerUserID            = "X-User-Id"
)

// Principal is the authenticated caller attached to the request context
type Principal struct {
	UserID        int
	Username      string
	Role          identity.Role
	WorkstationID *int
}

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFrom returns the authenticated caller, if any
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// authMiddleware verifies bearer tokens on non-public routes and stamps the
// identity headers. Public routes pass straight through.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.isPublic(r) {
			next.ServeHTTP(w, r)
			return
		}

		authorization := r.Header.Get("Authorization")
		if !strings.HasPrefix(authorization, "Bearer ") {
			writeUnauthorized(w, "missing bearer token")
			return
		}

		claims, err := s.identity.VerifyToken(strings.TrimPrefix(authorization, "Bearer "))
		if err != nil {
			writeUnauthorized(w, "invalid token")
			return
		}

		principal := &Principal{
			UserID:        claims.UserID,
			Username:      claims.Subject,
			Role:          identity.Role(claims.Role),
			WorkstationID: claims.WorkstationID,
		}
		r.Header.Set(headerAuthenticatedUser, principal.Username)
		r.Header.Set(headerAuthenticatedRole, string(principal.Role))
		r.Header.Set(headerUserID, strconv.Itoa(principal.UserID))

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, principal)))
	})
}

// isPublic reports whether the route needs no token: login, health and the
// browsable master-data catalog.
func (s *Server) isPublic(r *http.Request) bool {
	path := r.URL.Path
	switch {
	case path == "/auth/login" && r.Method == http.MethodPost:
		return true
	case path == "/health":
		return true
	case strings.HasPrefix(path, "/masterdata/") && r.Method == http.MethodGet:
		return true
	}
	return false
}

// requireRole gates a handler on the caller's role. ADMIN passes every gate.
func requireRole(roles ...identity.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			if principal.Role == identity.RoleAdmin {
				next(w, r)
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next(w, r)
					return
				}
			}
			writeError(w, r, &identity.ErrUnauthorized{
				Reason: "role " + string(principal.Role) + " may not perform this operation",
			})
		}
	}
}

// actor returns the username to record on ledger entries
func actor(r *http.Request) string {
	if principal, ok := PrincipalFrom(r.Context()); ok {
		return principal.Username
	}
	return "anonymous"
}

// requestLog logs method, path, status and duration for every request
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		log.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

package handler

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/service"
)

type actorKey struct{}

// authenticate resolves the bearer token to a user and stores the caller in
// the request context. The role comes from the stored user, not the token.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			h.writeError(w, r, apperr.Unauthorized("not authorized, no token"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		userID, err := h.tokens.Verify(token)
		if err != nil {
			h.writeError(w, r, apperr.Unauthorized("not authorized, token failed"))
			return
		}

		user, err := h.svc.Users.Get(r.Context(), userID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				h.writeError(w, r, apperr.Unauthorized("not authorized, user not found"))
				return
			}
			h.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey{}, service.Actor{ID: user.ID, Role: user.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole must run after authenticate.
func requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := actorFrom(r)
			if !ok || !slices.Contains(roles, actor.Role) {
				writeJSON(w, http.StatusForbidden, errorResponse{
					Message: "access denied: requires role " + strings.Join(roles, " or "),
					Error:   apperr.KindForbidden.String(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func actorFrom(r *http.Request) (service.Actor, bool) {
	actor, ok := r.Context().Value(actorKey{}).(service.Actor)
	return actor, ok
}

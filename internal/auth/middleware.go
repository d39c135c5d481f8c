package auth

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// RequireActor resolves the session user into an Actor and stores it in
// the request context. Requests without a valid session are rejected.
func RequireActor(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				shared.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			userID, err := strconv.ParseInt(sess.User(), 10, 64)
			if err != nil {
				shared.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			actor, err := service.ResolveActor(r.Context(), userID)
			if err != nil {
				logger.Warn("resolve actor", slog.Int64("user_id", userID), slog.Any("error", err))
				shared.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			ctx := shared.ContextWithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

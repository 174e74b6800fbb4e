package middlewarex

import (
	"net/http"

	"p2p_market/pkg/contextx"
)

const headerNameUserID = "X-User-Id"

func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get(headerNameUserID); userID != "" {
			r = r.WithContext(contextx.WithUserID(r.Context(), contextx.UserID(userID)))
		}

		next.ServeHTTP(w, r)
	})
}

package middlewarex

import (
	"log/slog"
	"net/http"

	"p2p_market/pkg/contextx"
	"p2p_market/pkg/logx"
)

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID, err := contextx.TraceIDFromContext(ctx)
		if err != nil {
			logger(ctx).Error("contextx.TraceIDFromContext", logx.Error(err))
		}

		fields := []any{
			logx.Stringer(logx.FieldTraceID, traceID),
			logx.Stringer(logx.FieldURL, r.URL),
			slog.String(logx.FieldHTTPMethod, r.Method),
			slog.String(logx.FieldIP, r.RemoteAddr),
		}

		if userID, err := contextx.UserIDFromContext(ctx); err == nil {
			fields = append(fields, logx.Stringer(logx.FieldUserID, userID))
		}

		ctx = contextx.WithLogger(ctx, logger(ctx).With(fields...))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package app

import (
	"log/slog"
	"net/http"
)

type sessionKey string

const (
	SessionKeyUserId = sessionKey("userID")
	SessionKeyStaff  = sessionKey("staff")
	SessionKeyGuest  = sessionKey("guest")

	loggerContextKey = sessionKey("logger")
)

func (s sessionKey) String() string {
	return string(s)
}

func (app *application) contextGetUserId(r *http.Request) int {
	userId, ok := r.Context().Value(SessionKeyUserId).(int)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}

func (app *application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}

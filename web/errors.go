package web

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ServerError пишет ошибку в лог вместе с запросом и отвечает 500.
// Подробности клиенту не отдаются.
func (app *app) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Error("Internal server error",
		zap.String("request_id", requestID(r)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
		zap.Stack("stack"))

	app.ClientError(w, http.StatusInternalServerError)
}

func (app *app) ClientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *app) NotFound(w http.ResponseWriter) {
	app.ClientError(w, http.StatusNotFound)
}

func (app *app) Forbidden(w http.ResponseWriter) {
	app.ClientError(w, http.StatusForbidden)
}

// MethodNotAllowed перечисляет допустимые методы в заголовке Allow
func (app *app) MethodNotAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	app.ClientError(w, http.StatusMethodNotAllowed)
}

// TooManyRequests просит клиента повторить попытку через минуту
func (app *app) TooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "60")
	app.ClientError(w, http.StatusTooManyRequests)
}

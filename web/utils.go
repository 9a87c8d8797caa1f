package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/database"
	"yatube/internal/models"
	"yatube/internal/paginator"

	"go.uber.org/zap"
)

const SessionCookieName = "session_token"

type contextKey string

const (
	userContextKey      contextKey = "user"
	requestIDContextKey contextKey = "request_id"
)

// setSessionCookie устанавливает cookie с токеном сессии
func (app *app) setSessionCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(app.SessionService.Duration().Seconds()),
		HttpOnly: true,
		Secure:   app.cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

// clearSessionCookie удаляет cookie сессии
func (app *app) clearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
	http.SetCookie(w, cookie)
}

// getSessionToken получает токен сессии из cookie
func (app *app) getSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// userFromSession находит пользователя по cookie запроса
func (app *app) userFromSession(r *http.Request) *models.User {
	token := app.getSessionToken(r)
	if token == "" {
		return nil
	}

	user, err := app.SessionService.GetUserBySession(r.Context(), token)
	if err != nil {
		if !errors.Is(err, database.ErrSessionNotFound) && !errors.Is(err, database.ErrSessionExpired) {
			app.logger.Error("Failed to load session user", zap.Error(err))
		}
		return nil
	}

	return user
}

// getCurrentUser возвращает пользователя, определенного middleware authenticate
func (app *app) getCurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// isAuthenticated проверяет, авторизован ли пользователь
func (app *app) isAuthenticated(r *http.Request) bool {
	return app.getCurrentUser(r) != nil
}

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}

// paginatePosts выбирает страницу ленты по параметру ?page=
func (app *app) paginatePosts(r *http.Request, filter models.PostFilter) (*paginator.Page, []*models.Post, error) {
	total, err := app.PostService.CountPosts(r.Context(), filter)
	if err != nil {
		return nil, nil, err
	}

	page := paginator.New(total, app.cfg.PostsPerPage, r.URL.Query().Get("page"))

	posts, err := app.PostService.ListPosts(r.Context(), filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, nil, err
	}

	return page, posts, nil
}

// safeRedirect возвращает next, если это путь внутри сайта, иначе fallback
func safeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

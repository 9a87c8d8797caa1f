package web

import (
	"errors"
	"net/http"

	"yatube/internal/database"

	"go.uber.org/zap"
)

func (app *app) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	if r.Method != http.MethodPost {
		app.RenderHTML(w, r, "signup.page.html", &HTMLData{Title: "Регистрация"})
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	app.logger.Info("Attempting to register user",
		zap.String("username", username),
		zap.String("email", email))

	user, err := app.UserService.CreateUser(r.Context(), username, email, password)
	if err != nil {
		if !isSignupInputError(err) {
			app.ServerError(w, r, err)
			return
		}
		data := &HTMLData{
			Title:     "Регистрация",
			FormError: err.Error(),
			FormData: map[string]string{
				"username": username,
				"email":    email,
			},
		}
		app.RenderHTML(w, r, "signup.page.html", data)
		return
	}

	app.logger.Info("Successfully registered user",
		zap.String("username", user.Username),
		zap.Int("id", user.ID))

	// Создаем сессию для нового пользователя
	session, err := app.SessionService.CreateSession(r.Context(), user.ID)
	if err != nil {
		app.logger.Error("Failed to create session", zap.Int("user_id", user.ID), zap.Error(err))
		// Переадресуем на login при ошибке создания сессии
		http.Redirect(w, r, "/auth/login/", http.StatusSeeOther)
		return
	}

	app.setSessionCookie(w, session.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *app) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	next := r.URL.Query().Get("next")

	if r.Method != http.MethodPost {
		app.RenderHTML(w, r, "login.page.html", &HTMLData{Title: "Войти", Next: next})
		return
	}

	if !app.loginLimiter.allow(clientIP(r)) {
		app.logger.Warn("Login rate limit exceeded", zap.String("remote", clientIP(r)))
		app.TooManyRequests(w)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if formNext := r.PostFormValue("next"); formNext != "" {
		next = formNext
	}

	user, err := app.UserService.VerifyUser(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, database.ErrInvalidCredentials) {
			app.ServerError(w, r, err)
			return
		}
		data := &HTMLData{
			Title:     "Войти",
			FormError: err.Error(),
			FormData:  map[string]string{"username": username},
			Next:      next,
		}
		app.RenderHTML(w, r, "login.page.html", data)
		return
	}

	session, err := app.SessionService.CreateSession(r.Context(), user.ID)
	if err != nil {
		app.ServerError(w, r, err)
		return
	}

	app.setSessionCookie(w, session.Token)

	app.logger.Info("Login successful",
		zap.Int("id", user.ID),
		zap.String("username", user.Username))

	http.Redirect(w, r, safeRedirect(next, "/"), http.StatusSeeOther)
}

func (app *app) logout(w http.ResponseWriter, r *http.Request) {
	token := app.getSessionToken(r)
	if token != "" {
		if err := app.SessionService.DeleteSession(r.Context(), token); err != nil && !errors.Is(err, database.ErrSessionNotFound) {
			app.logger.Error("Failed to delete session", zap.Error(err))
		}
	}

	app.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// isSignupInputError отделяет ошибки введенных данных от сбоев базы
func isSignupInputError(err error) bool {
	for _, target := range []error{
		database.ErrUsernameExists,
		database.ErrEmailExists,
		database.ErrShortUsername,
		database.ErrLongUsername,
		database.ErrInvalidUsername,
		database.ErrEmptyEmail,
		database.ErrLongEmail,
		database.ErrInvalidEmail,
		database.ErrShortPassword,
		database.ErrLongPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

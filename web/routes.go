package web

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

func (app *app) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir(app.cfg.StaticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static", fileServer))

	// Ленты и страницы постов открыты всем
	mux.HandleFunc("GET /{$}", app.index)
	mux.HandleFunc("GET /group/{slug}/{$}", app.groupPosts)
	mux.HandleFunc("GET /profile/{username}/{$}", app.profile)
	mux.HandleFunc("GET /posts/{id}/{$}", app.postDetail)

	// Маршруты только для авторизованных пользователей
	mux.HandleFunc("/create/{$}", app.requireAuth(app.postCreate))
	mux.HandleFunc("/posts/{id}/edit/{$}", app.requireAuth(app.postEdit))
	mux.HandleFunc("POST /posts/{id}/delete/{$}", app.requireAuth(app.postDelete))
	mux.HandleFunc("POST /auth/logout/{$}", app.requireAuth(app.logout))

	// Маршруты только для гостей (неавторизованных)
	mux.HandleFunc("/auth/signup/{$}", app.requireGuest(app.signup))
	mux.HandleFunc("/auth/login/{$}", app.requireGuest(app.login))

	var handler http.Handler = mux
	handler = app.authenticate(handler)
	handler = app.logRequest(handler)
	handler = app.assignRequestID(handler)

	return gzhttp.GzipHandler(handler)
}

package web

import (
	"net/http"

	"yatube/internal/models"
)

// index - общая лента всех постов
func (app *app) index(w http.ResponseWriter, r *http.Request) {
	page, posts, err := app.paginatePosts(r, models.PostFilter{})
	if err != nil {
		app.ServerError(w, r, err)
		return
	}

	data := &HTMLData{
		Title: "Последние обновления на сайте",
		Page:  page,
		Posts: posts,
	}

	app.RenderHTML(w, r, "index.page.html", data)
}

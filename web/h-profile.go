package web

import (
	"errors"
	"net/http"

	"yatube/internal/database"
	"yatube/internal/models"
)

// profile - лента постов автора
func (app *app) profile(w http.ResponseWriter, r *http.Request) {
	author, err := app.UserService.GetUserByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			app.NotFound(w)
			return
		}
		app.ServerError(w, r, err)
		return
	}

	page, posts, err := app.paginatePosts(r, models.PostFilter{AuthorID: &author.ID})
	if err != nil {
		app.ServerError(w, r, err)
		return
	}

	data := &HTMLData{
		Title:      "Профайл пользователя " + author.Username,
		Author:     author,
		Page:       page,
		Posts:      posts,
		PostsCount: page.Total,
	}

	app.RenderHTML(w, r, "profile.page.html", data)
}

package web

import (
	"errors"
	"net/http"

	"yatube/internal/database"
	"yatube/internal/models"
)

// groupPosts - лента постов группы
func (app *app) groupPosts(w http.ResponseWriter, r *http.Request) {
	group, err := app.GroupService.GetGroupBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, database.ErrGroupNotFound) {
			app.NotFound(w)
			return
		}
		app.ServerError(w, r, err)
		return
	}

	page, posts, err := app.paginatePosts(r, models.PostFilter{GroupID: &group.ID})
	if err != nil {
		app.ServerError(w, r, err)
		return
	}

	data := &HTMLData{
		Title: "Записи сообщества " + group.Title,
		Group: group,
		Page:  page,
		Posts: posts,
	}

	app.RenderHTML(w, r, "group_list.page.html", data)
}

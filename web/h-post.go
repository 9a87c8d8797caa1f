package web

import (
	"errors"
	"net/http"
	"strconv"

	"yatube/internal/database"
	"yatube/internal/models"

	"go.uber.org/zap"
)

// postDetail показывает отдельный пост
func (app *app) postDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := app.loadPost(w, r)
	if !ok {
		return
	}

	count, err := app.PostService.CountPosts(r.Context(), models.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		app.ServerError(w, r, err)
		return
	}

	data := &HTMLData{
		Title:      "Пост " + post.String(),
		Post:       post,
		PostsCount: count,
	}

	app.RenderHTML(w, r, "post_detail.page.html", data)
}

// postCreate создает новый пост
func (app *app) postCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	user := app.getCurrentUser(r)

	groups, err := app.GroupService.GetAllGroups(r.Context())
	if err != nil {
		app.ServerError(w, r, err)
		return
	}

	data := &HTMLData{
		Title:  "Новый пост",
		Groups: groups,
		Form:   &PostForm{},
	}

	if r.Method != http.MethodPost {
		app.RenderHTML(w, r, "create_post.page.html", data)
		return
	}

	form, err := bindPostForm(r)
	if err != nil {
		app.ClientError(w, http.StatusBadRequest)
		return
	}
	data.Form = form

	if err := form.validate(r.Context(), app.GroupService); err != nil {
		app.ServerError(w, r, err)
		return
	}
	if !form.Valid() {
		app.RenderHTML(w, r, "create_post.page.html", data)
		return
	}

	post, err := app.PostService.CreatePost(r.Context(), form.Text, user.ID, form.GroupID)
	if err != nil {
		if form.addServiceError(err) {
			app.RenderHTML(w, r, "create_post.page.html", data)
			return
		}
		app.ServerError(w, r, err)
		return
	}

	app.logger.Info("Post created",
		zap.Int("id", post.ID),
		zap.String("author", user.Username))

	http.Redirect(w, r, profileURL(user.Username), http.StatusSeeOther)
}

// postEdit редактирует пост. Чужой пост открывается на просмотр.
func (app *app) postEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	post, ok := app.loadPost(w, r)
	if !ok {
		return
	}

	user := app.getCurrentUser(r)
	detailURL := "/posts/" + strconv.Itoa(post.ID) + "/"

	// Проверяем, что пользователь - автор поста
	if post.AuthorID != user.ID {
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	groups, err := app.GroupService.GetAllGroups(r.Context())
	if err != nil {
		app.ServerError(w, r, err)
		return
	}

	data := &HTMLData{
		Title:  "Редактировать пост",
		Post:   post,
		Groups: groups,
		IsEdit: true,
		Form:   newPostFormFromPost(post),
	}

	if r.Method != http.MethodPost {
		app.RenderHTML(w, r, "create_post.page.html", data)
		return
	}

	form, err := bindPostForm(r)
	if err != nil {
		app.ClientError(w, http.StatusBadRequest)
		return
	}
	data.Form = form

	if err := form.validate(r.Context(), app.GroupService); err != nil {
		app.ServerError(w, r, err)
		return
	}
	if !form.Valid() {
		app.RenderHTML(w, r, "create_post.page.html", data)
		return
	}

	err = app.PostService.UpdatePost(r.Context(), post.ID, form.Text, form.GroupID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotPostAuthor):
			http.Redirect(w, r, detailURL, http.StatusSeeOther)
		case errors.Is(err, database.ErrPostNotFound):
			app.NotFound(w)
		case form.addServiceError(err):
			app.RenderHTML(w, r, "create_post.page.html", data)
		default:
			app.ServerError(w, r, err)
		}
		return
	}

	app.logger.Info("Post updated",
		zap.Int("id", post.ID),
		zap.String("author", user.Username))

	http.Redirect(w, r, detailURL, http.StatusSeeOther)
}

// postDelete удаляет пост
func (app *app) postDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		app.NotFound(w)
		return
	}

	user := app.getCurrentUser(r)

	err = app.PostService.DeletePost(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrPostNotFound):
			app.NotFound(w)
		case errors.Is(err, database.ErrNotPostAuthor):
			app.Forbidden(w)
		default:
			app.ServerError(w, r, err)
		}
		return
	}

	app.logger.Info("Post deleted",
		zap.Int("id", id),
		zap.String("author", user.Username))

	http.Redirect(w, r, profileURL(user.Username), http.StatusSeeOther)
}

// loadPost читает пост по {id} из пути. При ошибке ответ уже отправлен.
func (app *app) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		app.NotFound(w)
		return nil, false
	}

	post, err := app.PostService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrPostNotFound) {
			app.NotFound(w)
			return nil, false
		}
		app.ServerError(w, r, err)
		return nil, false
	}

	return post, true
}

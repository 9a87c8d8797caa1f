package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"yatube/internal/database"
	"yatube/internal/models"
)

// PostForm - форма создания и редактирования поста
type PostForm struct {
	Text    string
	Group   string // Значение поля выбора группы как пришло из формы
	GroupID *int
	Errors  map[string]string
}

// newPostFormFromPost заполняет форму значениями существующего поста
func newPostFormFromPost(post *models.Post) *PostForm {
	form := &PostForm{Text: post.Text, GroupID: post.GroupID}
	if post.GroupID != nil {
		form.Group = strconv.Itoa(*post.GroupID)
	}
	return form
}

// bindPostForm читает поля формы из запроса
func bindPostForm(r *http.Request) (*PostForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &PostForm{
		Text:  strings.TrimSpace(r.PostForm.Get("text")),
		Group: strings.TrimSpace(r.PostForm.Get("group")),
	}, nil
}

// validate проверяет поля. Группа необязательна, но если выбрана - должна существовать.
func (f *PostForm) validate(ctx context.Context, groups *database.GroupService) error {
	f.Errors = map[string]string{}
	f.GroupID = nil

	if err := database.ValidatePostText(f.Text); err != nil {
		f.Errors["text"] = err.Error()
	}

	if f.Group != "" {
		id, err := strconv.Atoi(f.Group)
		if err != nil {
			f.Errors["group"] = errInvalidGroupChoice.Error()
		} else if _, err := groups.GetGroup(ctx, id); err != nil {
			if !errors.Is(err, database.ErrGroupNotFound) {
				return err
			}
			f.Errors["group"] = errInvalidGroupChoice.Error()
		} else {
			f.GroupID = &id
		}
	}

	return nil
}

var errInvalidGroupChoice = errors.New("выберите корректный вариант, этого варианта нет среди допустимых значений")

func (f *PostForm) Valid() bool {
	return len(f.Errors) == 0
}

// addServiceError переносит ошибку валидации сервиса в поле формы.
// Возвращает false, если ошибка не относится к полям.
func (f *PostForm) addServiceError(err error) bool {
	if f.Errors == nil {
		f.Errors = map[string]string{}
	}

	switch {
	case errors.Is(err, database.ErrEmptyText):
		f.Errors["text"] = err.Error()
	case errors.Is(err, database.ErrGroupNotFound):
		f.Errors["group"] = errInvalidGroupChoice.Error()
	default:
		return false
	}
	return true
}

// Selected сообщает шаблону, выбрана ли группа id
func (f *PostForm) Selected(id int) bool {
	return f.GroupID != nil && *f.GroupID == id || f.Group == strconv.Itoa(id)
}


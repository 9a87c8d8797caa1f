package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"yatube/internal/models"
	"yatube/internal/paginator"

	"github.com/dustin/go-humanize"
)

type HTMLData struct {
	Title       string
	Path        string
	CurrentUser *models.User

	// Ленты
	Page   *paginator.Page
	Posts  []*models.Post
	Group  *models.Group
	Author *models.User

	// Страница поста
	Post       *models.Post
	PostsCount int

	// Формы
	Form      *PostForm
	Groups    []*models.Group
	IsEdit    bool
	FormError string
	FormData  map[string]string // для хранения введённых значений в форму
	Next      string
}

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("02 Jan 2006, 15:04")
	},
	"naturaltime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return humanize.Time(t)
	},
	"linebreaksbr": func(s string) template.HTML {
		escaped := template.HTMLEscapeString(s)
		escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	},
	"truncate": func(n int, s string) string {
		runes := []rune(s)
		if len(runes) <= n {
			return s
		}
		return string(runes[:n]) + "…"
	},
	"profileURL": profileURL,
}

// newTemplateCache разбирает все страницы *.page.html вместе с layout и partial-шаблонами
func newTemplateCache(dir string) (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := filepath.Glob(filepath.Join(dir, "*.page.html"))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("в каталоге %s нет шаблонов страниц", dir)
	}

	for _, page := range pages {
		name := filepath.Base(page)

		ts, err := template.New(name).Funcs(functions).ParseFiles(filepath.Join(dir, "base.layout.html"))
		if err != nil {
			return nil, err
		}

		ts, err = ts.ParseGlob(filepath.Join(dir, "*.partial.html"))
		if err != nil {
			return nil, err
		}

		ts, err = ts.ParseFiles(page)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}

func (app *app) RenderHTML(w http.ResponseWriter, r *http.Request, pageFile string, data *HTMLData) {
	app.render(w, r, http.StatusOK, pageFile, data)
}

func (app *app) render(w http.ResponseWriter, r *http.Request, status int, pageFile string, data *HTMLData) {
	if data == nil {
		data = &HTMLData{}
	}

	data.Path = r.URL.Path
	if data.CurrentUser == nil {
		data.CurrentUser = app.getCurrentUser(r)
	}

	ts, ok := app.templates[pageFile]
	if !ok {
		app.ServerError(w, r, fmt.Errorf("шаблон %s не найден", pageFile))
		return
	}

	if app.onRender != nil {
		app.onRender(pageFile, data)
	}

	// Рендерим во временный буфер, чтобы не отдать клиенту половину страницы при ошибке
	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		app.ServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

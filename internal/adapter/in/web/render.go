package web

import (
	"bytes"
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"myblog/internal/service"
	"myblog/pkg/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageFiles = []string{
	"index.html",
	"post.html",
	"make-post.html",
	"register.html",
	"login.html",
	"about.html",
	"contact.html",
	"error.html",
}

var funcs = template.FuncMap{
	// post bodies are authored by the admin as HTML
	"safe": func(s string) template.HTML { return template.HTML(s) },
	"gravatar": gravatarURL,
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		t, err := template.New("layout.html").
			Funcs(funcs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &renderer{pages: pages}, nil
}

type pageData struct {
	Title    string
	Flash    string
	LoggedIn bool
	IsAdmin  bool
	Content  any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, content any) {
	identity := identityFrom(r.Context())
	data := pageData{
		Title:    title,
		Flash:    popFlash(w, r),
		LoggedIn: identity.IsAuthenticated(),
		IsAdmin:  service.IsAdmin(identity),
		Content:  content,
	}

	t, ok := h.pages.pages[page]
	if !ok {
		logger.FromContext(r.Context()).Error("unknown page", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logger.FromContext(r.Context()).Error("render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Status  int
	Message string
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.render(w, r, status, "error.html", http.StatusText(status), errorPage{Status: status, Message: msg})
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=100&d=identicon&r=g"
}

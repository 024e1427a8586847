package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger, h.identify)

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	r.HandleFunc("/", h.index).Methods(http.MethodGet)
	r.HandleFunc("/about", h.static("About", "about.html")).Methods(http.MethodGet)
	r.HandleFunc("/contact", h.static("Contact", "contact.html")).Methods(http.MethodGet)

	r.HandleFunc("/register", h.registerPage).Methods(http.MethodGet)
	r.HandleFunc("/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.loginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodGet)

	r.HandleFunc("/post/{id:[0-9]+}", h.showPost).Methods(http.MethodGet)
	r.HandleFunc("/post/{id:[0-9]+}", h.addComment).Methods(http.MethodPost)
	r.HandleFunc("/post/{id:[0-9]+}/events", h.commentEvents).Methods(http.MethodGet)

	r.HandleFunc("/new-post", h.newPostPage).Methods(http.MethodGet)
	r.HandleFunc("/new-post", h.createPost).Methods(http.MethodPost)
	r.HandleFunc("/edit-post/{id:[0-9]+}", h.editPostPage).Methods(http.MethodGet)
	r.HandleFunc("/edit-post/{id:[0-9]+}", h.editPost).Methods(http.MethodPost)
	r.HandleFunc("/delete/{id:[0-9]+}", h.deletePost).Methods(http.MethodGet)

	r.NotFoundHandler = requestLogger(h.identify(http.HandlerFunc(h.notFound)))
	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

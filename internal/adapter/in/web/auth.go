package web

import (
	"errors"
	"net/http"

	"myblog/internal/service"
	"myblog/pkg/logger"
)

const (
	msgEmailTaken     = "Email already taken. Login instead"
	msgWrongPassword  = "Wrong Password"
	msgNoSuchUser     = "User email does not exist"
	msgLoginToComment = "Please login to leave a comment"
)

type registerForm struct {
	Name     string `schema:"name"`
	Email    string `schema:"email"`
	Password string `schema:"password"`
	Error    string `schema:"-"`
}

type loginForm struct {
	Email    string `schema:"email"`
	Password string `schema:"password"`
	Error    string `schema:"-"`
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", "Register", registerForm{})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := h.decodeForm(r, &form); err != nil {
		form.Error = userMessage(err)
		h.render(w, r, http.StatusBadRequest, "register.html", "Register", form)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		setFlash(w, msgEmailTaken)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrInvalidRequest):
		form.Password = ""
		form.Error = userMessage(err)
		h.render(w, r, http.StatusBadRequest, "register.html", "Register", form)
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}

	if err := h.sessions.Issue(w, user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("user registered", "user_id", user.ID, "role", user.Role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", "Log In", loginForm{})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := h.decodeForm(r, &form); err != nil {
		form.Error = userMessage(err)
		h.render(w, r, http.StatusBadRequest, "login.html", "Log In", form)
		return
	}

	user, err := h.auth.Login(r.Context(), service.LoginRequest{
		Email:    form.Email,
		Password: form.Password,
	})
	switch {
	case errors.Is(err, service.ErrNoSuchUser):
		setFlash(w, msgNoSuchUser)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrWrongPassword):
		setFlash(w, msgWrongPassword)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrInvalidRequest):
		form.Password = ""
		form.Error = userMessage(err)
		h.render(w, r, http.StatusBadRequest, "login.html", "Log In", form)
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}

	if err := h.sessions.Issue(w, user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if !identityFrom(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return errors.Join(service.ErrInvalidRequest, err)
	}
	if err := h.forms.Decode(dst, r.PostForm); err != nil {
		return errors.Join(service.ErrInvalidRequest, err)
	}
	return nil
}

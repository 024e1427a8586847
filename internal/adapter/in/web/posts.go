package web

import (
	"errors"
	"net/http"
	"strconv"

	"myblog/internal/service"

	"github.com/gorilla/mux"
)

type postForm struct {
	Title    string `schema:"title"`
	Subtitle string `schema:"subtitle"`
	ImgURL   string `schema:"img_url"`
	Body     string `schema:"body"`
	AuthorID int64  `schema:"author_id"`

	Action  string `schema:"-"`
	Editing bool   `schema:"-"`
	Error   string `schema:"-"`
}

type postPage struct {
	View  service.PostView
	Error string
}

type commentForm struct {
	Comment string `schema:"comment"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	list, err := h.posts.ListPosts(r.Context(), identityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index.html", "Home", list)
}

func (h *Handler) static(title, page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, page, title, nil)
	}
}

func (h *Handler) showPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFrom(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	view, err := h.posts.ViewPost(r.Context(), identityFrom(r.Context()), postID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "post.html", view.Post.Title, postPage{View: view})
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID, ok := postIDFrom(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	identity := identityFrom(ctx)
	if !identity.IsAuthenticated() {
		setFlash(w, msgLoginToComment)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	var form commentForm
	err := h.decodeForm(r, &form)
	if err == nil {
		_, err = h.comments.AddComment(ctx, identity, service.AddCommentRequest{
			PostID: postID,
			Text:   form.Comment,
		})
	}
	switch {
	case err == nil:
		http.Redirect(w, r, "/post/"+strconv.FormatInt(postID, 10), http.StatusSeeOther)
	case errors.Is(err, service.ErrInvalidRequest):
		view, viewErr := h.posts.ViewPost(ctx, identity, postID)
		if viewErr != nil {
			h.fail(w, r, viewErr)
			return
		}
		h.render(w, r, http.StatusBadRequest, "post.html", view.Post.Title, postPage{
			View:  view,
			Error: "Comment cannot be empty.",
		})
	default:
		h.fail(w, r, err)
	}
}

func (h *Handler) newPostPage(w http.ResponseWriter, r *http.Request) {
	if _, err := service.RequireAdmin(identityFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "make-post.html", "New Post", postForm{Action: "/new-post"})
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := identityFrom(ctx)
	if _, err := service.RequireAdmin(identity); err != nil {
		h.fail(w, r, err)
		return
	}

	form := postForm{Action: "/new-post"}
	err := h.decodeForm(r, &form)
	if err == nil {
		_, err = h.posts.CreatePost(ctx, identity, service.CreatePostRequest{
			Title:    form.Title,
			Subtitle: form.Subtitle,
			Body:     form.Body,
			ImgURL:   form.ImgURL,
		})
	}
	if err != nil {
		h.postFormError(w, r, "New Post", form, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) editPostPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := service.RequireAdmin(identityFrom(ctx)); err != nil {
		h.fail(w, r, err)
		return
	}
	postID, ok := postIDFrom(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	post, err := h.posts.GetPostByID(ctx, postID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "make-post.html", "Edit Post", postForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
		AuthorID: post.AuthorID,
		Action:   "/edit-post/" + strconv.FormatInt(post.ID, 10),
		Editing:  true,
	})
}

func (h *Handler) editPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := identityFrom(ctx)
	if _, err := service.RequireAdmin(identity); err != nil {
		h.fail(w, r, err)
		return
	}
	postID, ok := postIDFrom(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	form := postForm{
		Action:  "/edit-post/" + strconv.FormatInt(postID, 10),
		Editing: true,
	}
	err := h.decodeForm(r, &form)
	if err == nil {
		_, err = h.posts.EditPost(ctx, identity, postID, service.EditPostRequest{
			Title:    form.Title,
			Subtitle: form.Subtitle,
			Body:     form.Body,
			ImgURL:   form.ImgURL,
			AuthorID: form.AuthorID,
		})
	}
	if err != nil {
		h.postFormError(w, r, "Edit Post", form, err)
		return
	}
	http.Redirect(w, r, "/post/"+strconv.FormatInt(postID, 10), http.StatusSeeOther)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFrom(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.posts.DeletePost(r.Context(), identityFrom(r.Context()), postID); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// postFormError re-renders the post form for input the author can fix and
// falls back to fail for everything else.
func (h *Handler) postFormError(w http.ResponseWriter, r *http.Request, title string, form postForm, err error) {
	status := statusFor(err)
	if status != http.StatusBadRequest && status != http.StatusConflict {
		h.fail(w, r, err)
		return
	}
	form.Error = userMessage(err)
	h.render(w, r, status, "make-post.html", title, form)
}

func postIDFrom(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

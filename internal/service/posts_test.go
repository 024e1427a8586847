package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/pkg/clock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type postMocks struct {
	posts    *MockPostStorage
	comments *MockCommentStorage
	users    *MockUserStorage
}

func newPostService(t *testing.T) (*PostService, postMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := postMocks{
		posts:    NewMockPostStorage(ctrl),
		comments: NewMockCommentStorage(ctrl),
		users:    NewMockUserStorage(ctrl),
	}
	clk := clock.NewStubClock(time.Date(2022, 7, 20, 15, 4, 5, 0, time.UTC))
	return NewPostService(m.posts, m.comments, m.users, passthroughTx{}, clk), m
}

var errDBDown = errors.New("db down")

func validCreatePost() CreatePostRequest {
	return CreatePostRequest{
		Title:    "Hello",
		Subtitle: "first post",
		Body:     "<p>body</p>",
		ImgURL:   "https://example.com/a.png",
	}
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity model.Identity
		req      CreatePostRequest
		setup    func(m postMocks)
		wantErr  error
	}{
		{
			name:     "anonymous is forbidden",
			identity: model.Anonymous(),
			req:      validCreatePost(),
			setup:    func(_ postMocks) {},
			wantErr:  ErrForbidden,
		},
		{
			name:     "member is forbidden",
			identity: model.Authenticated(memberUser),
			req:      validCreatePost(),
			setup:    func(_ postMocks) {},
			wantErr:  ErrForbidden,
		},
		{
			name:     "validation error",
			identity: model.Authenticated(adminUser),
			req:      CreatePostRequest{Title: "t", Subtitle: "s", Body: "b", ImgURL: "not a url"},
			setup:    func(_ postMocks) {},
			wantErr:  ErrInvalidRequest,
		},
		{
			name:     "duplicate title",
			identity: model.Authenticated(adminUser),
			req:      validCreatePost(),
			setup: func(m postMocks) {
				m.posts.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(model.Post{}, ErrDuplicateTitle)
			},
			wantErr: ErrDuplicateTitle,
		},
		{
			name:     "success stamps date and author",
			identity: model.Authenticated(adminUser),
			req:      validCreatePost(),
			setup: func(m postMocks) {
				want := model.Post{
					AuthorID: adminUser.ID,
					Title:    "Hello",
					Subtitle: "first post",
					Date:     "July 20, 2022",
					Body:     "<p>body</p>",
					ImgURL:   "https://example.com/a.png",
				}
				created := want
				created.ID = 10
				m.posts.EXPECT().CreatePost(gomock.Any(), want).Return(created, nil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, m := newPostService(t)
			tt.setup(m)

			got, err := svc.CreatePost(context.Background(), tt.identity, tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, int64(10), got.ID)
			require.Equal(t, "July 20, 2022", got.Date)
		})
	}
}

func TestPostService_CreatePost_DateInUTC(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	posts := NewMockPostStorage(ctrl)
	// 23:30 in New York on July 20 is already July 21 in UTC
	clk := clock.NewStubClock(time.Date(2022, 7, 20, 23, 30, 0, 0, time.FixedZone("EDT", -4*60*60)))
	svc := NewPostService(posts, NewMockCommentStorage(ctrl), NewMockUserStorage(ctrl), passthroughTx{}, clk)

	posts.EXPECT().
		CreatePost(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p model.Post) (model.Post, error) {
			p.ID = 1
			return p, nil
		})

	got, err := svc.CreatePost(context.Background(), model.Authenticated(adminUser), validCreatePost())
	require.NoError(t, err)
	require.Equal(t, "July 21, 2022", got.Date)
}

func TestPostService_EditPost(t *testing.T) {
	t.Parallel()

	req := EditPostRequest{
		Title:    "New title",
		Subtitle: "new sub",
		Body:     "new body",
		ImgURL:   "https://example.com/b.png",
	}

	tests := []struct {
		name     string
		identity model.Identity
		postID   int64
		req      EditPostRequest
		setup    func(m postMocks)
		wantErr  error
	}{
		{
			name:     "anonymous is forbidden",
			identity: model.Anonymous(),
			postID:   1,
			req:      req,
			setup:    func(_ postMocks) {},
			wantErr:  ErrForbidden,
		},
		{
			name:     "member is forbidden",
			identity: model.Authenticated(memberUser),
			postID:   1,
			req:      req,
			setup:    func(_ postMocks) {},
			wantErr:  ErrForbidden,
		},
		{
			name:     "invalid id",
			identity: model.Authenticated(adminUser),
			postID:   0,
			req:      req,
			setup:    func(_ postMocks) {},
			wantErr:  ErrInvalidRequest,
		},
		{
			name:     "not found",
			identity: model.Authenticated(adminUser),
			postID:   404,
			req:      req,
			setup: func(m postMocks) {
				m.posts.EXPECT().UpdatePost(gomock.Any(), int64(404), gomock.Any()).Return(model.Post{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:     "keeps author when not given",
			identity: model.Authenticated(adminUser),
			postID:   3,
			req:      req,
			setup: func(m postMocks) {
				m.posts.EXPECT().
					UpdatePost(gomock.Any(), int64(3), storage.UpdatePostParams{
						Title:    "New title",
						Subtitle: "new sub",
						Body:     "new body",
						ImgURL:   "https://example.com/b.png",
					}).
					Return(model.Post{ID: 3, AuthorID: 1, Title: "New title", Date: "July 20, 2022"}, nil)
			},
		},
		{
			name:     "changes author",
			identity: model.Authenticated(adminUser),
			postID:   3,
			req: EditPostRequest{
				Title:    req.Title,
				Subtitle: req.Subtitle,
				Body:     req.Body,
				ImgURL:   req.ImgURL,
				AuthorID: 2,
			},
			setup: func(m postMocks) {
				authorID := int64(2)
				m.users.EXPECT().GetUserByID(gomock.Any(), int64(2)).Return(memberUser, nil)
				m.posts.EXPECT().
					UpdatePost(gomock.Any(), int64(3), storage.UpdatePostParams{
						Title:    req.Title,
						Subtitle: req.Subtitle,
						Body:     req.Body,
						ImgURL:   req.ImgURL,
						AuthorID: &authorID,
					}).
					Return(model.Post{ID: 3, AuthorID: 2, Title: req.Title, Date: "July 20, 2022"}, nil)
			},
		},
		{
			name:     "unknown author",
			identity: model.Authenticated(adminUser),
			postID:   3,
			req: EditPostRequest{
				Title:    req.Title,
				Subtitle: req.Subtitle,
				Body:     req.Body,
				ImgURL:   req.ImgURL,
				AuthorID: 9,
			},
			setup: func(m postMocks) {
				m.users.EXPECT().GetUserByID(gomock.Any(), int64(9)).Return(model.User{}, ErrNotFound)
			},
			wantErr: ErrUnknownAuthor,
		},
		{
			name:     "author lookup fails",
			identity: model.Authenticated(adminUser),
			postID:   3,
			req: EditPostRequest{
				Title:    req.Title,
				Subtitle: req.Subtitle,
				Body:     req.Body,
				ImgURL:   req.ImgURL,
				AuthorID: 2,
			},
			setup: func(m postMocks) {
				m.users.EXPECT().GetUserByID(gomock.Any(), int64(2)).Return(model.User{}, errDBDown)
			},
			wantErr: errDBDown,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, m := newPostService(t)
			tt.setup(m)

			got, err := svc.EditPost(context.Background(), tt.identity, tt.postID, tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "New title", got.Title)
			require.Equal(t, "July 20, 2022", got.Date)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity model.Identity
		postID   int64
		setup    func(m postMocks)
		wantErr  error
	}{
		{
			name:     "anonymous is forbidden",
			identity: model.Anonymous(),
			postID:   1,
			setup:    func(_ postMocks) {},
			wantErr:  ErrForbidden,
		},
		{
			name:     "member is forbidden",
			identity: model.Authenticated(memberUser),
			postID:   1,
			setup:    func(_ postMocks) {},
			wantErr:  ErrForbidden,
		},
		{
			name:     "not found",
			identity: model.Authenticated(adminUser),
			postID:   7,
			setup: func(m postMocks) {
				m.posts.EXPECT().LockPost(gomock.Any(), int64(7)).Return(ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:     "comment delete fails",
			identity: model.Authenticated(adminUser),
			postID:   7,
			setup: func(m postMocks) {
				gomock.InOrder(
					m.posts.EXPECT().LockPost(gomock.Any(), int64(7)).Return(nil),
					m.comments.EXPECT().DeleteCommentsByPost(gomock.Any(), int64(7)).Return(int64(0), errors.New("db down")),
				)
			},
			wantErr: errors.New("db down"),
		},
		{
			name:     "cascades comments",
			identity: model.Authenticated(adminUser),
			postID:   7,
			setup: func(m postMocks) {
				gomock.InOrder(
					m.posts.EXPECT().LockPost(gomock.Any(), int64(7)).Return(nil),
					m.comments.EXPECT().DeleteCommentsByPost(gomock.Any(), int64(7)).Return(int64(3), nil),
					m.posts.EXPECT().DeletePost(gomock.Any(), int64(7)).Return(nil),
				)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, m := newPostService(t)
			tt.setup(m)

			err := svc.DeletePost(context.Background(), tt.identity, tt.postID)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrForbidden) || errors.Is(tt.wantErr, ErrNotFound) {
					require.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPostService_ListPosts(t *testing.T) {
	t.Parallel()

	posts := []model.Post{
		{ID: 1, AuthorID: 1, Title: "a"},
		{ID: 2, AuthorID: 2, Title: "b"},
		{ID: 3, AuthorID: 1, Title: "c"},
	}

	tests := []struct {
		name         string
		identity     model.Identity
		wantLoggedIn bool
		wantAdmin    bool
	}{
		{name: "anonymous", identity: model.Anonymous()},
		{name: "member", identity: model.Authenticated(memberUser), wantLoggedIn: true},
		{name: "admin", identity: model.Authenticated(adminUser), wantLoggedIn: true, wantAdmin: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, m := newPostService(t)
			m.posts.EXPECT().GetPosts(gomock.Any()).Return(posts, nil)
			m.users.EXPECT().
				GetUsersByIDs(gomock.Any(), []int64{1, 2}).
				Return([]model.User{adminUser, memberUser}, nil)

			got, err := svc.ListPosts(context.Background(), tt.identity)
			require.NoError(t, err)
			require.Equal(t, posts, got.Posts)
			require.Equal(t, "admin", got.Authors[1].Name)
			require.Equal(t, "member", got.Authors[2].Name)
			require.Equal(t, tt.wantLoggedIn, got.LoggedIn)
			require.Equal(t, tt.wantAdmin, got.IsAdmin)
		})
	}
}

func TestPostService_ListPosts_Empty(t *testing.T) {
	t.Parallel()

	svc, m := newPostService(t)
	m.posts.EXPECT().GetPosts(gomock.Any()).Return(nil, nil)

	got, err := svc.ListPosts(context.Background(), model.Anonymous())
	require.NoError(t, err)
	require.Empty(t, got.Posts)
	require.False(t, got.IsAdmin)
}

func TestPostService_ViewPost(t *testing.T) {
	t.Parallel()

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		svc, _ := newPostService(t)
		_, err := svc.ViewPost(context.Background(), model.Anonymous(), -1)
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		svc, m := newPostService(t)
		m.posts.EXPECT().GetPostByID(gomock.Any(), int64(5)).Return(model.Post{}, ErrNotFound)

		_, err := svc.ViewPost(context.Background(), model.Anonymous(), 5)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("with comments", func(t *testing.T) {
		t.Parallel()

		svc, m := newPostService(t)
		post := model.Post{ID: 5, AuthorID: 1, Title: "Hello"}
		comments := []model.Comment{
			{ID: 1, PostID: 5, AuthorID: 2, Text: "nice"},
			{ID: 2, PostID: 5, AuthorID: 1, Text: "thanks"},
		}
		m.posts.EXPECT().GetPostByID(gomock.Any(), int64(5)).Return(post, nil)
		m.comments.EXPECT().GetCommentsByPost(gomock.Any(), int64(5)).Return(comments, nil)
		m.users.EXPECT().GetUsersByIDs(gomock.Any(), []int64{1, 2}).Return([]model.User{adminUser, memberUser}, nil)

		got, err := svc.ViewPost(context.Background(), model.Authenticated(memberUser), 5)
		require.NoError(t, err)
		require.Equal(t, post, got.Post)
		require.Equal(t, comments, got.Comments)
		require.Len(t, got.Authors, 2)
		require.True(t, got.LoggedIn)
		require.False(t, got.IsAdmin)
	})
}

package tableinfo

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserNameColumn         = "name"
	UserEmailColumn        = "email"
	UserPasswordHashColumn = "password_hash"
	UserRoleColumn         = "role"
	UserCreatedAtColumn    = "created_at"

	UserEmailConstraint       = "users_email_key"
	UserSingleAdminConstraint = "users_single_admin_idx"
)

const (
	PostsTableName = "posts"

	PostIDColumn        = "id"
	PostAuthorIDColumn  = "author_id"
	PostTitleColumn     = "title"
	PostSubtitleColumn  = "subtitle"
	PostDateColumn      = "date"
	PostBodyColumn      = "body"
	PostImgURLColumn    = "img_url"
	PostCreatedAtColumn = "created_at"

	PostTitleConstraint = "posts_title_key"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn        = "id"
	CommentPostIDColumn    = "post_id"
	CommentAuthorIDColumn  = "author_id"
	CommentTextColumn      = "text"
	CommentCreatedAtColumn = "created_at"
)

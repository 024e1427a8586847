package storage

// UpdatePostParams carries the editable columns of a post. A nil AuthorID
// leaves the author unchanged. The creation date is never part of an update.
type UpdatePostParams struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
	AuthorID *int64
}

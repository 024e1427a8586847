package model

import "time"

// PostDateLayout renders the human readable creation date, e.g. "July 20, 2022".
const PostDateLayout = "January 02, 2006"

type Post struct {
	ID        int64
	AuthorID  int64
	Title     string
	Subtitle  string
	Date      string
	Body      string
	ImgURL    string
	CreatedAt time.Time
}

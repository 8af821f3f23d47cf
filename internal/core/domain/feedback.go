package domain

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

// Review is a single user's scored opinion of a title. At most one review
// exists per (TitleID, AuthorID).
type Review struct {
	ID       int64
	TitleID  int64
	AuthorID int64
	// Author is the author's username, resolved on read.
	Author  string
	Text    string
	Score   int
	PubDate time.Time
}

func (r *Review) OwnerID() int64 { return r.AuthorID }

// Comment is a reply attached to a review.
type Comment struct {
	ID       int64
	ReviewID int64
	AuthorID int64
	Author   string
	Text     string
	PubDate  time.Time
}

func (c *Comment) OwnerID() int64 { return c.AuthorID }

package domain

// Category groups titles by kind (book, film, music...).
type Category struct {
	ID   int64
	Name string
	Slug string
}

// Genre is a free tag attached to any number of titles.
type Genre struct {
	ID   int64
	Name string
	Slug string
}

// Title is a work that users review. Category is nil when the title was never
// categorised or its category has been deleted.
type Title struct {
	ID          int64
	Name        string
	Year        int
	Description string
	Category    *Category
	Genres      []Genre

	// Rating is the mean review score, recomputed on every read. It is nil
	// while the title has no reviews.
	Rating *float64
}

// CategorySlug returns the slug of the title's category or "" when unset.
func (t *Title) CategorySlug() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Slug
}

// GenreSlugs returns the slugs of the title's genres in stored order.
func (t *Title) GenreSlugs() []string {
	out := make([]string, len(t.Genres))
	for i, g := range t.Genres {
		out[i] = g.Slug
	}
	return out
}

package handler

import (
	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

// --- Request → Service input ---

func toUserInput(r createUserRequest) ports.UserInput {
	return ports.UserInput{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      domain.Role(r.Role),
	}
}

func toUserPatch(r updateUserRequest) ports.UserPatch {
	p := ports.UserPatch{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
	}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		p.Role = &role
	}
	return p
}

func toTitleInput(r createTitleRequest) ports.TitleInput {
	return ports.TitleInput{
		Name:        r.Name,
		Year:        r.Year,
		Description: r.Description,
		Category:    r.Category,
		Genres:      r.Genre,
	}
}

func toTitlePatch(r updateTitleRequest) ports.TitlePatch {
	return ports.TitlePatch{
		Name:        r.Name,
		Year:        r.Year,
		Description: r.Description,
		Category:    r.Category,
		Genres:      r.Genre,
	}
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      string(u.Role),
	}
}

func toCategoryResponse(c *domain.Category) termResponse {
	return termResponse{Name: c.Name, Slug: c.Slug}
}

func toGenreResponse(g *domain.Genre) termResponse {
	return termResponse{Name: g.Name, Slug: g.Slug}
}

func toTitleResponse(t *domain.Title) titleResponse {
	resp := titleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]termResponse, len(t.Genres)),
	}
	for i := range t.Genres {
		resp.Genre[i] = toGenreResponse(&t.Genres[i])
	}
	if t.Category != nil {
		cat := toCategoryResponse(t.Category)
		resp.Category = &cat
	}
	return resp
}

func toTitleWriteResponse(t *domain.Title) titleWriteResponse {
	resp := titleWriteResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       t.GenreSlugs(),
	}
	if t.Category != nil {
		slug := t.Category.Slug
		resp.Category = &slug
	}
	return resp
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author,
		PubDate: c.PubDate,
	}
}

// toListResponse maps a service page into the paginated envelope.
func toListResponse[T, R any](p *ports.Page[T], fn func(T) R) listResponse[R] {
	data := make([]R, len(p.Items))
	for i, item := range p.Items {
		data[i] = fn(item)
	}
	return listResponse[R]{
		Data: data,
		Pagination: pagination{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}
}

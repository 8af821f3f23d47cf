package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the repository stubs so cascades and the derived
// rating behave like the real store.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type memStore struct {
	mu         sync.Mutex
	seq        int64
	users      map[int64]*domain.User
	categories map[int64]*domain.Category
	genres     map[int64]*domain.Genre
	titles     map[int64]*domain.Title
	reviews    map[int64]*domain.Review
	comments   map[int64]*domain.Comment
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]*domain.User),
		categories: make(map[int64]*domain.Category),
		genres:     make(map[int64]*domain.Genre),
		titles:     make(map[int64]*domain.Title),
		reviews:    make(map[int64]*domain.Review),
		comments:   make(map[int64]*domain.Comment),
	}
}

func (m *memStore) next() int64 {
	m.seq++
	return m.seq
}

func paginate[T any](items []T, p ports.PageRequest) []T {
	p = p.Normalize()
	start := int(p.Skip())
	if start > len(items) {
		return nil
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	*memStore
	createErr error
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, &domain.DuplicateError{Field: "username"}
		}
		if existing.Email == u.Email {
			return nil, &domain.DuplicateError{Field: "email"}
		}
	}
	c := cloneUser(u)
	c.ID = r.next()
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Username == u.Username {
			return nil, &domain.DuplicateError{Field: "username"}
		}
	}
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	for rid, rv := range r.reviews {
		if rv.AuthorID == id {
			r.dropReview(rid)
		}
	}
	for cid, c := range r.comments {
		if c.AuthorID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if f.Search == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(f.Search)) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return paginate(out, f.PageRequest), int64(len(out)), nil
}

// ---------------------------------------------------------------------------
// Categories and genres
// ---------------------------------------------------------------------------

type stubCategoryRepo struct{ *memStore }

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Slug == c.Slug {
			return nil, &domain.DuplicateError{Field: "slug"}
		}
	}
	cp := *c
	cp.ID = r.next()
	r.categories[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubCategoryRepo) FindBySlug(_ context.Context, slug string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) List(_ context.Context, f ports.TermFilter) ([]*domain.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Category
	for _, c := range r.categories {
		if f.Search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.PageRequest), int64(len(out)), nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	for _, t := range r.titles {
		if t.Category != nil && t.Category.ID == id {
			t.Category = nil
		}
	}
	return nil
}

type stubGenreRepo struct{ *memStore }

func (r *stubGenreRepo) Create(_ context.Context, g *domain.Genre) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.genres {
		if existing.Slug == g.Slug {
			return nil, &domain.DuplicateError{Field: "slug"}
		}
	}
	cp := *g
	cp.ID = r.next()
	r.genres[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubGenreRepo) FindBySlug(_ context.Context, slug string) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.genres {
		if g.Slug == slug {
			out := *g
			return &out, nil
		}
	}
	return nil, domain.ErrGenreNotFound
}

func (r *stubGenreRepo) List(_ context.Context, f ports.TermFilter) ([]*domain.Genre, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Genre
	for _, g := range r.genres {
		if f.Search == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(f.Search)) {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.PageRequest), int64(len(out)), nil
}

func (r *stubGenreRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.genres, id)
	for _, t := range r.titles {
		kept := t.Genres[:0]
		for _, g := range t.Genres {
			if g.ID != id {
				kept = append(kept, g)
			}
		}
		t.Genres = kept
	}
	return nil
}

// ---------------------------------------------------------------------------
// Titles
// ---------------------------------------------------------------------------

type stubTitleRepo struct{ *memStore }

// snapshot copies a title and computes its rating; callers hold the lock.
func (r *stubTitleRepo) snapshot(t *domain.Title) *domain.Title {
	cp := *t
	if t.Category != nil {
		c := *t.Category
		cp.Category = &c
	}
	cp.Genres = append([]domain.Genre(nil), t.Genres...)

	sum, n := 0, 0
	for _, rv := range r.reviews {
		if rv.TitleID == t.ID {
			sum += rv.Score
			n++
		}
	}
	if n > 0 {
		avg := float64(sum) / float64(n)
		cp.Rating = &avg
	}
	return &cp
}

func (r *stubTitleRepo) Create(_ context.Context, t *domain.Title) (*domain.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	cp.ID = r.next()
	r.titles[cp.ID] = &cp
	return r.snapshot(&cp), nil
}

func (r *stubTitleRepo) FindByID(_ context.Context, id int64) (*domain.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[id]
	if !ok {
		return nil, domain.ErrTitleNotFound
	}
	return r.snapshot(t), nil
}

func (r *stubTitleRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.titles[id]
	return ok, nil
}

func (r *stubTitleRepo) Update(_ context.Context, t *domain.Title) (*domain.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.titles[t.ID]; !ok {
		return nil, domain.ErrTitleNotFound
	}
	cp := *t
	cp.Rating = nil
	r.titles[t.ID] = &cp
	return r.snapshot(&cp), nil
}

func (r *stubTitleRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.titles, id)
	for rid, rv := range r.reviews {
		if rv.TitleID == id {
			r.dropReview(rid)
		}
	}
	return nil
}

func (r *stubTitleRepo) List(_ context.Context, f ports.TitleFilter) ([]*domain.Title, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Title
	for _, t := range r.titles {
		if f.CategoryID != nil && (t.Category == nil || t.Category.ID != *f.CategoryID) {
			continue
		}
		if f.GenreID != nil {
			found := false
			for _, g := range t.Genres {
				found = found || g.ID == *f.GenreID
			}
			if !found {
				continue
			}
		}
		if f.Year != nil && t.Year != *f.Year {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, r.snapshot(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.PageRequest), int64(len(out)), nil
}

// ---------------------------------------------------------------------------
// Reviews and comments
// ---------------------------------------------------------------------------

// dropReview deletes a review and its comments; callers hold the lock.
func (m *memStore) dropReview(id int64) {
	delete(m.reviews, id)
	for cid, c := range m.comments {
		if c.ReviewID == id {
			delete(m.comments, cid)
		}
	}
}

type stubReviewRepo struct {
	*memStore
	// skipExists makes ExistsForAuthor always report false, simulating a
	// concurrent insert that slipped past the pre-check.
	skipExists bool
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.TitleID == rv.TitleID && existing.AuthorID == rv.AuthorID {
			return nil, &domain.DuplicateError{Field: "title_id, author_id"}
		}
	}
	cp := *rv
	cp.ID = r.next()
	r.reviews[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, titleID, id int64) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok || rv.TitleID != titleID {
		return nil, domain.ErrReviewNotFound
	}
	out := *rv
	return &out, nil
}

func (r *stubReviewRepo) ExistsForAuthor(_ context.Context, titleID, authorID int64) (bool, error) {
	if r.skipExists {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.TitleID == titleID && rv.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubReviewRepo) Update(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rv
	r.reviews[rv.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropReview(id)
	return nil
}

func (r *stubReviewRepo) List(_ context.Context, titleID int64, p ports.PageRequest) ([]*domain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.TitleID == titleID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	return paginate(out, p), int64(len(out)), nil
}

type stubCommentRepo struct{ *memStore }

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.ID = r.next()
	r.comments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, reviewID, id int64) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.ReviewID != reviewID {
		return nil, domain.ErrCommentNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubCommentRepo) Update(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.comments[c.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *stubCommentRepo) List(_ context.Context, reviewID int64, p ports.PageRequest) ([]*domain.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.ReviewID == reviewID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	return paginate(out, p), int64(len(out)), nil
}

// ---------------------------------------------------------------------------
// Mail
// ---------------------------------------------------------------------------

type stubMailQueue struct {
	mu   sync.Mutex
	sent []ports.MailMessage
}

func (q *stubMailQueue) Enqueue(msg ports.MailMessage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
}

func (q *stubMailQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sent)
}

type stubThrottle struct {
	allow bool
	err   error
	keys  []string
}

func (t *stubThrottle) Allow(_ context.Context, key string) (bool, error) {
	t.keys = append(t.keys, key)
	return t.allow, t.err
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type fixture struct {
	store      *memStore
	users      *stubUserRepo
	categories *stubCategoryRepo
	genres     *stubGenreRepo
	titles     *stubTitleRepo
	reviews    *stubReviewRepo
	comments   *stubCommentRepo
}

func newFixture() *fixture {
	m := newMemStore()
	return &fixture{
		store:      m,
		users:      &stubUserRepo{memStore: m},
		categories: &stubCategoryRepo{m},
		genres:     &stubGenreRepo{m},
		titles:     &stubTitleRepo{m},
		reviews:    &stubReviewRepo{memStore: m},
		comments:   &stubCommentRepo{m},
	}
}

func (f *fixture) seedUser(username string, role domain.Role) domain.Actor {
	u, err := f.users.Create(context.Background(), &domain.User{
		Username:         username,
		Email:            username + "@example.com",
		Role:             role,
		ConfirmationCode: "CODE-" + username,
	})
	if err != nil {
		panic(err)
	}
	return domain.ActorFor(u)
}

func (f *fixture) seedTitle(name string) *domain.Title {
	t, err := f.titles.Create(context.Background(), &domain.Title{Name: name, Year: 2000})
	if err != nil {
		panic(err)
	}
	return t
}

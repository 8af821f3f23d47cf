package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type GenreRepository struct {
	store  *termStore
	titles *mongo.Collection
}

func NewGenreRepository(db *mongo.Database) *GenreRepository {
	return &GenreRepository{
		store: &termStore{
			coll:      db.Collection(collGenres),
			seq:       newSequence(db),
			slugIndex: idxGenreSlug,
			notFound:  domain.ErrGenreNotFound,
		},
		titles: db.Collection(collTitles),
	}
}

func (r *GenreRepository) Create(ctx context.Context, g *domain.Genre) (*domain.Genre, error) {
	doc, err := r.store.create(ctx, g.Name, g.Slug)
	if err != nil {
		return nil, err
	}
	return &domain.Genre{ID: doc.ID, Name: doc.Name, Slug: doc.Slug}, nil
}

func (r *GenreRepository) FindBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	doc, err := r.store.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &domain.Genre{ID: doc.ID, Name: doc.Name, Slug: doc.Slug}, nil
}

func (r *GenreRepository) List(ctx context.Context, filter ports.TermFilter) ([]*domain.Genre, int64, error) {
	docs, total, err := r.store.list(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Genre, len(docs))
	for i, d := range docs {
		out[i] = &domain.Genre{ID: d.ID, Name: d.Name, Slug: d.Slug}
	}
	return out, total, nil
}

// Delete removes the genre and pulls its id from every title.
func (r *GenreRepository) Delete(ctx context.Context, id int64) error {
	return r.store.remove(ctx, r.titles, id,
		bson.M{"genre_ids": id},
		bson.M{"$pull": bson.M{"genre_ids": id}},
	)
}

var _ ports.GenreRepository = (*GenreRepository)(nil)

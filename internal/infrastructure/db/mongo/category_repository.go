package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type CategoryRepository struct {
	store  *termStore
	titles *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		store: &termStore{
			coll:      db.Collection(collCategories),
			seq:       newSequence(db),
			slugIndex: idxCategorySlug,
			notFound:  domain.ErrCategoryNotFound,
		},
		titles: db.Collection(collTitles),
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	doc, err := r.store.create(ctx, c.Name, c.Slug)
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: doc.ID, Name: doc.Name, Slug: doc.Slug}, nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	doc, err := r.store.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: doc.ID, Name: doc.Name, Slug: doc.Slug}, nil
}

func (r *CategoryRepository) List(ctx context.Context, filter ports.TermFilter) ([]*domain.Category, int64, error) {
	docs, total, err := r.store.list(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Category, len(docs))
	for i, d := range docs {
		out[i] = &domain.Category{ID: d.ID, Name: d.Name, Slug: d.Slug}
	}
	return out, total, nil
}

// Delete removes the category and unsets category_id on its titles.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.store.remove(ctx, r.titles, id,
		bson.M{"category_id": id},
		bson.M{"$set": bson.M{"category_id": nil}},
	)
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

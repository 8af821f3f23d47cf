package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type TitleRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
	seq  *sequence
}

func NewTitleRepository(db *mongo.Database) *TitleRepository {
	return &TitleRepository{db: db, coll: db.Collection(collTitles), seq: newSequence(db)}
}

// titleDoc is the stored shape; category and genres are kept as ids.
type titleDoc struct {
	ID          int64   `bson:"_id"`
	Name        string  `bson:"name"`
	Year        int     `bson:"year"`
	Description string  `bson:"description,omitempty"`
	CategoryID  *int64  `bson:"category_id"`
	GenreIDs    []int64 `bson:"genre_ids"`
}

// titleView is the shape produced by titlePipeline.
type titleView struct {
	ID          int64     `bson:"_id"`
	Name        string    `bson:"name"`
	Year        int       `bson:"year"`
	Description string    `bson:"description"`
	Category    []termDoc `bson:"category"`
	Genres      []termDoc `bson:"genres"`
	Rating      *float64  `bson:"rating"`
}

func toTitleDoc(t *domain.Title) titleDoc {
	doc := titleDoc{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		GenreIDs:    make([]int64, len(t.Genres)),
	}
	if t.Category != nil {
		id := t.Category.ID
		doc.CategoryID = &id
	}
	for i, g := range t.Genres {
		doc.GenreIDs[i] = g.ID
	}
	return doc
}

func (v titleView) toDomain() *domain.Title {
	t := &domain.Title{
		ID:          v.ID,
		Name:        v.Name,
		Year:        v.Year,
		Description: v.Description,
		Genres:      make([]domain.Genre, len(v.Genres)),
		Rating:      v.Rating,
	}
	if len(v.Category) > 0 {
		c := v.Category[0]
		t.Category = &domain.Category{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}
	for i, g := range v.Genres {
		t.Genres[i] = domain.Genre{ID: g.ID, Name: g.Name, Slug: g.Slug}
	}
	return t
}

// titleFilter translates resolved listing filters into a match document.
func titleFilter(f ports.TitleFilter) bson.M {
	q := bson.M{}
	if f.CategoryID != nil {
		q["category_id"] = *f.CategoryID
	}
	if f.GenreID != nil {
		q["genre_ids"] = *f.GenreID
	}
	if f.Year != nil {
		q["year"] = *f.Year
	}
	if f.Name != "" {
		q["name"] = containsFold(f.Name)
	}
	return q
}

// titlePipeline matches titles, optionally pages them, then joins the
// category and genres and derives the rating as the mean review score.
// $avg over no reviews yields null, which decodes to a nil rating.
func titlePipeline(match bson.M, page *ports.PageRequest) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	if page != nil {
		p = append(p,
			bson.D{{Key: "$skip", Value: page.Skip()}},
			bson.D{{Key: "$limit", Value: int64(page.Limit)}},
		)
	}
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": collCategories, "localField": "category_id", "foreignField": "_id", "as": "category",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": collGenres, "localField": "genre_ids", "foreignField": "_id", "as": "genres",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": collReviews, "localField": "_id", "foreignField": "title_id", "as": "reviews",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{"rating": bson.M{"$avg": "$reviews.score"}}}},
		bson.D{{Key: "$project", Value: bson.M{"reviews": 0, "category_id": 0, "genre_ids": 0}}},
	)
}

func (r *TitleRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.Title, error) {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate titles: %w", err)
	}
	var views []titleView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode titles: %w", err)
	}
	out := make([]*domain.Title, len(views))
	for i, v := range views {
		out[i] = v.toDomain()
	}
	return out, nil
}

func (r *TitleRepository) Create(ctx context.Context, t *domain.Title) (*domain.Title, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collTitles)
	if err != nil {
		return nil, err
	}
	doc := toTitleDoc(t)
	doc.ID = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert title: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *TitleRepository) FindByID(ctx context.Context, id int64) (*domain.Title, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	titles, err := r.aggregate(ctx, titlePipeline(bson.M{"_id": id}, nil))
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, domain.ErrTitleNotFound
	}
	return titles[0], nil
}

func (r *TitleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("count titles: %w", err)
	}
	return n > 0, nil
}

func (r *TitleRepository) Update(ctx context.Context, t *domain.Title) (*domain.Title, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, toTitleDoc(t))
	if err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTitleNotFound
	}
	return r.FindByID(ctx, t.ID)
}

// Delete removes the title along with its reviews and their comments.
func (r *TitleRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := purgeReviews(ctx, r.db, bson.M{"title_id": id}); err != nil {
		return err
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	return nil
}

func (r *TitleRepository) List(ctx context.Context, filter ports.TitleFilter) ([]*domain.Title, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := titleFilter(filter)
	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}
	page := filter.PageRequest
	titles, err := r.aggregate(ctx, titlePipeline(match, &page))
	if err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

var _ ports.TitleRepository = (*TitleRepository)(nil)

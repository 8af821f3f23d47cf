package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

var userUniqueFields = map[string]string{
	idxUserUsername: "username",
	idxUserEmail:    "email",
}

type UserRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
	seq  *sequence
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, coll: db.Collection(collUsers), seq: newSequence(db)}
}

type mongoUser struct {
	ID               int64  `bson:"_id"`
	Username         string `bson:"username"`
	Email            string `bson:"email"`
	FirstName        string `bson:"first_name,omitempty"`
	LastName         string `bson:"last_name,omitempty"`
	Bio              string `bson:"bio,omitempty"`
	Role             string `bson:"role"`
	IsStaff          bool   `bson:"is_staff,omitempty"`
	IsSuperuser      bool   `bson:"is_superuser,omitempty"`
	ConfirmationCode string `bson:"confirmation_code"`
	CreatedAt        int64  `bson:"created_at"`
	UpdatedAt        int64  `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Bio:              u.Bio,
		Role:             string(u.Role),
		IsStaff:          u.IsStaff,
		IsSuperuser:      u.IsSuperuser,
		ConfirmationCode: u.ConfirmationCode,
		CreatedAt:        u.CreatedAt.Unix(),
		UpdatedAt:        u.UpdatedAt.Unix(),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:               mu.ID,
		Username:         mu.Username,
		Email:            mu.Email,
		FirstName:        mu.FirstName,
		LastName:         mu.LastName,
		Bio:              mu.Bio,
		Role:             domain.Role(mu.Role),
		IsStaff:          mu.IsStaff,
		IsSuperuser:      mu.IsSuperuser,
		ConfirmationCode: mu.ConfirmationCode,
		CreatedAt:        unixToTime(mu.CreatedAt),
		UpdatedAt:        unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collUsers)
	if err != nil {
		return nil, err
	}
	doc := toMongoUser(user)
	doc.ID = id

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if dup := asDuplicate(err, userUniqueFields); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, doc)
	if err != nil {
		if dup := asDuplicate(err, userUniqueFields); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return doc.toDomain(), nil
}

// Delete removes the user, every review they wrote with its thread, and every
// comment they left elsewhere.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := purgeReviews(ctx, r.db, bson.M{"author_id": id}); err != nil {
		return err
	}
	if _, err := r.db.Collection(collComments).DeleteMany(ctx, bson.M{"author_id": id}); err != nil {
		return fmt.Errorf("delete user comments: %w", err)
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		query["username"] = containsFold(filter.Search)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := skipLimit(filter.Skip(), filter.Limit).SetSort(bson.D{{Key: "username", Value: 1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

// containsFold matches any value containing s, ignoring case.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

var _ ports.UserRepository = (*UserRepository)(nil)

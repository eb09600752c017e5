package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/vneid/admin-dashboard/docstore"
	"github.com/vneid/admin-dashboard/models"
)

// UserRepository interface defines user profile storage operations
type UserRepository interface {
	// List returns profiles newest first, optionally bounded by created_at.
	List(ctx context.Context, created models.DateRange) ([]*models.UserProfile, error)
	GetByID(ctx context.Context, uid string) (*models.UserProfile, error)
	FindByCitizenID(ctx context.Context, citizenID string) ([]*models.UserProfile, error)
	Recent(ctx context.Context, limit int) ([]*models.UserProfile, error)
	// SoftDeletedBefore returns soft-deleted profiles whose deleted_at is at or before cutoff.
	SoftDeletedBefore(ctx context.Context, cutoff time.Time) ([]*models.UserProfile, error)
	Create(ctx context.Context, user *models.UserProfile) error
	Update(ctx context.Context, uid string, fields map[string]any) error
	Delete(ctx context.Context, uid string) error
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	store      docstore.Store
	collection string
}

// NewUserRepository creates a new user repository
func NewUserRepository(store docstore.Store, collection string) UserRepository {
	return &userRepository{store: store, collection: collection}
}

func (r *userRepository) List(ctx context.Context, created models.DateRange) ([]*models.UserProfile, error) {
	q := docstore.Query{
		Collection: r.collection,
		OrderBy:    "created_at",
		Descending: true,
	}
	if !created.Start.IsZero() {
		q.Filters = append(q.Filters, docstore.Where("created_at", docstore.OpGreaterOrEqual, created.Start.UTC()))
	}
	if !created.End.IsZero() {
		q.Filters = append(q.Filters, docstore.Where("created_at", docstore.OpLessOrEqual, created.End.UTC()))
	}
	return r.query(ctx, q)
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	doc, err := r.store.Get(ctx, r.collection, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	return decodeUser(doc)
}

func (r *userRepository) FindByCitizenID(ctx context.Context, citizenID string) ([]*models.UserProfile, error) {
	return r.query(ctx, docstore.Query{
		Collection: r.collection,
		Filters:    []docstore.Filter{docstore.Where("citizen_id", docstore.OpEqual, citizenID)},
	})
}

func (r *userRepository) Recent(ctx context.Context, limit int) ([]*models.UserProfile, error) {
	return r.query(ctx, docstore.Query{
		Collection: r.collection,
		OrderBy:    "created_at",
		Descending: true,
		Limit:      limit,
	})
}

func (r *userRepository) SoftDeletedBefore(ctx context.Context, cutoff time.Time) ([]*models.UserProfile, error) {
	return r.query(ctx, docstore.Query{
		Collection: r.collection,
		Filters: []docstore.Filter{
			docstore.Where("deleted", docstore.OpEqual, true),
			docstore.Where("deleted_at", docstore.OpLessOrEqual, cutoff.UTC()),
		},
	})
}

func (r *userRepository) Create(ctx context.Context, user *models.UserProfile) error {
	if err := r.store.Set(ctx, r.collection, user.UID, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.UID, err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, uid string, fields map[string]any) error {
	if err := r.store.Update(ctx, r.collection, uid, fields); err != nil {
		return fmt.Errorf("failed to update user %s: %w", uid, err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, uid string) error {
	if err := r.store.Delete(ctx, r.collection, uid); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", uid, err)
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	n, err := r.store.Count(ctx, docstore.Query{Collection: r.collection})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *userRepository) query(ctx context.Context, q docstore.Query) ([]*models.UserProfile, error) {
	docs, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users := make([]*models.UserProfile, 0, len(docs))
	for _, doc := range docs {
		user, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func decodeUser(doc *docstore.Document) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if user.UID == "" {
		user.UID = doc.ID
	}
	return &user, nil
}

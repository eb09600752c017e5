package repositories

import (
	"context"
	"fmt"

	"github.com/vneid/admin-dashboard/docstore"
	"github.com/vneid/admin-dashboard/models"
)

// CitizenCardRepository stores one citizen card per user, keyed by uid.
type CitizenCardRepository interface {
	GetByUID(ctx context.Context, uid string) (*models.CitizenCard, error)
	Upsert(ctx context.Context, card *models.CitizenCard) error
	Update(ctx context.Context, uid string, fields map[string]any) error
	Delete(ctx context.Context, uid string) error
}

type citizenCardRepository struct {
	store      docstore.Store
	collection string
}

func NewCitizenCardRepository(store docstore.Store, collection string) CitizenCardRepository {
	return &citizenCardRepository{store: store, collection: collection}
}

func (r *citizenCardRepository) GetByUID(ctx context.Context, uid string) (*models.CitizenCard, error) {
	doc, err := r.store.Get(ctx, r.collection, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get citizen card %s: %w", uid, err)
	}

	var card models.CitizenCard
	if err := doc.DataTo(&card); err != nil {
		return nil, fmt.Errorf("failed to scan citizen card: %w", err)
	}
	card.UID = uid
	return &card, nil
}

func (r *citizenCardRepository) Upsert(ctx context.Context, card *models.CitizenCard) error {
	if err := r.store.Set(ctx, r.collection, card.UID, card); err != nil {
		return fmt.Errorf("failed to save citizen card %s: %w", card.UID, err)
	}
	return nil
}

func (r *citizenCardRepository) Update(ctx context.Context, uid string, fields map[string]any) error {
	if err := r.store.Update(ctx, r.collection, uid, fields); err != nil {
		return fmt.Errorf("failed to update citizen card %s: %w", uid, err)
	}
	return nil
}

func (r *citizenCardRepository) Delete(ctx context.Context, uid string) error {
	if err := r.store.Delete(ctx, r.collection, uid); err != nil {
		return fmt.Errorf("failed to delete citizen card %s: %w", uid, err)
	}
	return nil
}

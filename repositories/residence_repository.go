package repositories

import (
	"context"
	"fmt"

	"github.com/vneid/admin-dashboard/docstore"
	"github.com/vneid/admin-dashboard/models"
)

// ResidenceRepository stores one residence record per user, keyed by uid.
type ResidenceRepository interface {
	GetByUID(ctx context.Context, uid string) (*models.Residence, error)
	Upsert(ctx context.Context, residence *models.Residence) error
	Update(ctx context.Context, uid string, fields map[string]any) error
	Delete(ctx context.Context, uid string) error
}

type residenceRepository struct {
	store      docstore.Store
	collection string
}

func NewResidenceRepository(store docstore.Store, collection string) ResidenceRepository {
	return &residenceRepository{store: store, collection: collection}
}

func (r *residenceRepository) GetByUID(ctx context.Context, uid string) (*models.Residence, error) {
	doc, err := r.store.Get(ctx, r.collection, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get residence %s: %w", uid, err)
	}

	var residence models.Residence
	if err := doc.DataTo(&residence); err != nil {
		return nil, fmt.Errorf("failed to scan residence: %w", err)
	}
	residence.UID = uid
	return &residence, nil
}

func (r *residenceRepository) Upsert(ctx context.Context, residence *models.Residence) error {
	if err := r.store.Set(ctx, r.collection, residence.UID, residence); err != nil {
		return fmt.Errorf("failed to save residence %s: %w", residence.UID, err)
	}
	return nil
}

func (r *residenceRepository) Update(ctx context.Context, uid string, fields map[string]any) error {
	if err := r.store.Update(ctx, r.collection, uid, fields); err != nil {
		return fmt.Errorf("failed to update residence %s: %w", uid, err)
	}
	return nil
}

func (r *residenceRepository) Delete(ctx context.Context, uid string) error {
	if err := r.store.Delete(ctx, r.collection, uid); err != nil {
		return fmt.Errorf("failed to delete residence %s: %w", uid, err)
	}
	return nil
}

// HouseholdRepository stores the members of a residence in its sub-collection.
type HouseholdRepository interface {
	List(ctx context.Context, uid string) ([]models.HouseholdMember, error)
	Get(ctx context.Context, uid, memberID string) (*models.HouseholdMember, error)
	Save(ctx context.Context, uid string, member *models.HouseholdMember) error
	Delete(ctx context.Context, uid, memberID string) error
	// DeleteAll removes every member of the residence and reports how many were removed.
	DeleteAll(ctx context.Context, uid string) (int, error)
	Count(ctx context.Context, uid string) (int, error)
}

type householdRepository struct {
	store         docstore.Store
	parent        string
	subcollection string
}

func NewHouseholdRepository(store docstore.Store, parent, subcollection string) HouseholdRepository {
	return &householdRepository{store: store, parent: parent, subcollection: subcollection}
}

func (r *householdRepository) path(uid string) string {
	return docstore.SubCollection(r.parent, uid, r.subcollection)
}

func (r *householdRepository) List(ctx context.Context, uid string) ([]models.HouseholdMember, error) {
	docs, err := r.store.Query(ctx, docstore.Query{Collection: r.path(uid)})
	if err != nil {
		return nil, fmt.Errorf("failed to query household members of %s: %w", uid, err)
	}

	members := make([]models.HouseholdMember, 0, len(docs))
	for _, doc := range docs {
		var m models.HouseholdMember
		if err := doc.DataTo(&m); err != nil {
			return nil, fmt.Errorf("failed to scan household member: %w", err)
		}
		m.MemberID = doc.ID
		members = append(members, m)
	}
	return members, nil
}

func (r *householdRepository) Get(ctx context.Context, uid, memberID string) (*models.HouseholdMember, error) {
	doc, err := r.store.Get(ctx, r.path(uid), memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get household member %s: %w", memberID, err)
	}

	var m models.HouseholdMember
	if err := doc.DataTo(&m); err != nil {
		return nil, fmt.Errorf("failed to scan household member: %w", err)
	}
	m.MemberID = doc.ID
	return &m, nil
}

func (r *householdRepository) Save(ctx context.Context, uid string, member *models.HouseholdMember) error {
	member.EnsureID()
	if err := r.store.Set(ctx, r.path(uid), member.MemberID, member); err != nil {
		return fmt.Errorf("failed to save household member %s: %w", member.MemberID, err)
	}
	return nil
}

func (r *householdRepository) Delete(ctx context.Context, uid, memberID string) error {
	if err := r.store.Delete(ctx, r.path(uid), memberID); err != nil {
		return fmt.Errorf("failed to delete household member %s: %w", memberID, err)
	}
	return nil
}

func (r *householdRepository) DeleteAll(ctx context.Context, uid string) (int, error) {
	members, err := r.List(ctx, uid)
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.MemberID
	}
	n, err := r.store.DeleteBatch(ctx, r.path(uid), ids)
	if err != nil {
		return n, fmt.Errorf("failed to delete household members of %s: %w", uid, err)
	}
	return n, nil
}

func (r *householdRepository) Count(ctx context.Context, uid string) (int, error) {
	n, err := r.store.Count(ctx, docstore.Query{Collection: r.path(uid)})
	if err != nil {
		return 0, fmt.Errorf("failed to count household members of %s: %w", uid, err)
	}
	return n, nil
}

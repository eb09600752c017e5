package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/database"
	"github.com/vneid/admin-dashboard/docstore"
	"github.com/vneid/admin-dashboard/models"
)

var testCollections = config.Collections{
	Users:            "users",
	CitizenCards:     "citizen_cards",
	Residence:        "residence",
	HouseholdMembers: "household_members",
}

func setupTestRepos(t *testing.T) *Repositories {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	store := docstore.NewSQLite(db)
	t.Cleanup(func() { store.Close() })

	return NewRepositories(store, testCollections)
}

func testUser(uid, citizenID string, created time.Time) *models.UserProfile {
	return &models.UserProfile{
		UID:       uid,
		FullName:  "User " + uid,
		Email:     uid + "@example.com",
		CitizenID: citizenID,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepos(t).Users
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, uid := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, testUser(uid, "00000000000"+uid, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
	}

	// Test GetByID
	user, err := repo.GetByID(ctx, "b")
	if err != nil {
		t.Fatalf("Failed to get user by ID: %v", err)
	}
	if user.FullName != "User b" || !user.CreatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("Unexpected user: %+v", user)
	}

	// Test List newest first
	users, err := repo.List(ctx, models.DateRange{})
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if len(users) != 3 || users[0].UID != "c" || users[2].UID != "a" {
		t.Errorf("Expected users c, b, a, got %v", uids(users))
	}

	// Test List with a created range
	users, err = repo.List(ctx, models.DateRange{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("Failed to list users in range: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users in range, got %v", uids(users))
	}

	// Test Recent
	recent, err := repo.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get recent users: %v", err)
	}
	if len(recent) != 1 || recent[0].UID != "c" {
		t.Errorf("Expected most recent user c, got %v", uids(recent))
	}

	// Test FindByCitizenID
	found, err := repo.FindByCitizenID(ctx, "00000000000a")
	if err != nil {
		t.Fatalf("Failed to find by citizen ID: %v", err)
	}
	if len(found) != 1 || found[0].UID != "a" {
		t.Errorf("Expected user a, got %v", uids(found))
	}

	// Test Update
	if err := repo.Update(ctx, "a", map[string]any{"full_name": "Updated Name"}); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	updated, _ := repo.GetByID(ctx, "a")
	if updated.FullName != "Updated Name" || updated.Email != "a@example.com" {
		t.Errorf("Expected merged update, got %+v", updated)
	}

	// Test Count
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}

	// Test Delete
	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}
	if _, err := repo.GetByID(ctx, "a"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted user, got %v", err)
	}
}

func TestUserRepositorySoftDeleted(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepos(t).Users
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	old := now.AddDate(0, 0, -40)
	recent := now.AddDate(0, 0, -5)

	for _, u := range []*models.UserProfile{testUser("old", "000000000001", old), testUser("recent", "000000000002", old), testUser("live", "000000000003", old)} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
	}
	if err := repo.Update(ctx, "old", map[string]any{"deleted": true, "deleted_at": old}); err != nil {
		t.Fatalf("Failed to soft delete: %v", err)
	}
	if err := repo.Update(ctx, "recent", map[string]any{"deleted": true, "deleted_at": recent}); err != nil {
		t.Fatalf("Failed to soft delete: %v", err)
	}

	users, err := repo.SoftDeletedBefore(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("Failed to query soft-deleted users: %v", err)
	}
	if len(users) != 1 || users[0].UID != "old" {
		t.Errorf("Expected only user old, got %v", uids(users))
	}
	if !users[0].Deleted || users[0].DeletedAt == nil {
		t.Errorf("Expected soft-delete markers to be decoded, got %+v", users[0])
	}
}

func TestCitizenCardAndResidenceRepositories(t *testing.T) {
	ctx := context.Background()
	repos := setupTestRepos(t)

	if _, err := repos.CitizenCards.GetByUID(ctx, "u1"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing card, got %v", err)
	}

	card := &models.CitizenCard{UID: "u1", CitizenID: "001234567890", FullName: "Nguyễn Văn An"}
	if err := repos.CitizenCards.Upsert(ctx, card); err != nil {
		t.Fatalf("Failed to save card: %v", err)
	}
	card.Hometown = "Nam Định"
	if err := repos.CitizenCards.Upsert(ctx, card); err != nil {
		t.Fatalf("Failed to replace card: %v", err)
	}
	got, err := repos.CitizenCards.GetByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to get card: %v", err)
	}
	if got.Hometown != "Nam Định" || got.UID != "u1" {
		t.Errorf("Unexpected card: %+v", got)
	}

	residence := &models.Residence{UID: "u1", FullName: "Nguyễn Văn An", IDNumber: "001234567890"}
	if err := repos.Residences.Upsert(ctx, residence); err != nil {
		t.Fatalf("Failed to save residence: %v", err)
	}
	if err := repos.Residences.Update(ctx, "u1", map[string]any{"current_address": "1 Tràng Tiền"}); err != nil {
		t.Fatalf("Failed to update residence: %v", err)
	}
	res, err := repos.Residences.GetByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to get residence: %v", err)
	}
	if res.CurrentAddress != "1 Tràng Tiền" || res.IDNumber != "001234567890" {
		t.Errorf("Unexpected residence: %+v", res)
	}

	if err := repos.CitizenCards.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Failed to delete card: %v", err)
	}
	if err := repos.CitizenCards.Delete(ctx, "u1"); err != nil {
		t.Errorf("Expected delete to be idempotent, got %v", err)
	}
}

func TestHouseholdRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepos(t).Household

	spouse := &models.HouseholdMember{FullName: "Trần Thị Bình", RelationToHead: "Vợ/Chồng"}
	child := &models.HouseholdMember{MemberID: "child-1", FullName: "Nguyễn Văn Cường", RelationToHead: "Con"}
	for _, m := range []*models.HouseholdMember{spouse, child} {
		if err := repo.Save(ctx, "u1", m); err != nil {
			t.Fatalf("Failed to save member: %v", err)
		}
	}
	if spouse.MemberID == "" {
		t.Error("Expected Save to assign a member ID")
	}

	// A member of another residence must not leak into u1.
	if err := repo.Save(ctx, "u2", &models.HouseholdMember{FullName: "Lê Văn Dũng", RelationToHead: "Chủ hộ"}); err != nil {
		t.Fatalf("Failed to save member: %v", err)
	}

	members, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to list members: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("Expected 2 members, got %d", len(members))
	}

	got, err := repo.Get(ctx, "u1", "child-1")
	if err != nil {
		t.Fatalf("Failed to get member: %v", err)
	}
	if got.FullName != "Nguyễn Văn Cường" {
		t.Errorf("Unexpected member: %+v", got)
	}

	n, err := repo.DeleteAll(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to delete members: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 deleted, got %d", n)
	}
	if count, _ := repo.Count(ctx, "u1"); count != 0 {
		t.Errorf("Expected no members left, got %d", count)
	}
	if count, _ := repo.Count(ctx, "u2"); count != 1 {
		t.Errorf("Expected other residence untouched, got %d", count)
	}

	if n, err := repo.DeleteAll(ctx, "u1"); err != nil || n != 0 {
		t.Errorf("Expected empty DeleteAll to return 0, got %d, %v", n, err)
	}
}

func uids(users []*models.UserProfile) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.UID
	}
	return out
}

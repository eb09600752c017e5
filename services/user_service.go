package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vneid/admin-dashboard/audit"
	"github.com/vneid/admin-dashboard/docstore"
	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/repositories"
	"github.com/vneid/admin-dashboard/userctx"
)

// DefaultSoftDeleteRetentionDays is how long soft-deleted users are kept when
// PurgeSoftDeleted is called without a threshold.
const DefaultSoftDeleteRetentionDays = 30

// UserService interface defines user management business logic
type UserService interface {
	ListUsers(ctx context.Context, filter models.UserFilter) (*models.UserPage, error)
	GetUser(ctx context.Context, uid string) (*models.UserDetail, error)
	SearchByCitizenID(ctx context.Context, citizenID string) ([]*models.UserProfile, error)
	CountUsers(ctx context.Context) (int, error)
	RecentUsers(ctx context.Context, limit int) ([]*models.UserProfile, error)
	IsCitizenIDUnique(ctx context.Context, citizenID, excludeUID string) (bool, error)

	CreateUser(ctx context.Context, form *models.CreateUserForm) (string, error)
	CreateUsers(ctx context.Context, forms []*models.CreateUserForm) *models.BatchResult

	UpdateProfile(ctx context.Context, uid string, form *models.UserProfileForm) error
	UpdateCitizenCard(ctx context.Context, uid string, card *models.CitizenCard) error
	UpdateResidence(ctx context.Context, uid string, residence *models.Residence) error
	// UpdateQRPayloads writes the recognised QR keys and reports whether any were given.
	UpdateQRPayloads(ctx context.Context, uid string, payloads map[string]string) (bool, error)

	DeleteUser(ctx context.Context, uid string, confirm *models.DeleteConfirmation) (*models.DeletionResult, error)
	DeletionImpact(ctx context.Context, uid string) (*models.DeletionImpact, error)
	DeleteUsers(ctx context.Context, uids []string) *models.BatchResult
	SoftDeleteUser(ctx context.Context, uid string) error
	RestoreUser(ctx context.Context, uid string) error
	PurgeSoftDeleted(ctx context.Context, days int) (*models.BatchResult, error)
}

// userService implements UserService interface
type userService struct {
	users      repositories.UserRepository
	cards      repositories.CitizenCardRepository
	residences repositories.ResidenceRepository
	household  repositories.HouseholdRepository
	auditor    Auditor
	options
}

// NewUserService creates a new user service
func NewUserService(repos *repositories.Repositories, auditor Auditor, opts ...Option) UserService {
	return &userService{
		users:      repos.Users,
		cards:      repos.CitizenCards,
		residences: repos.Residences,
		household:  repos.Household,
		auditor:    auditor,
		options:    newOptions("user_service", opts),
	}
}

// actor returns the admin identity and client address of the request.
func actor(ctx context.Context) (string, string) {
	return userctx.GetUserEmail(ctx), userctx.GetOriginAddress(ctx)
}

func (s *userService) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.pageSize
	}
	return min(limit, s.maxResults)
}

// ListUsers filters in memory after the created_at range has been applied by
// the store, then paginates. Total counts every match.
func (s *userService) ListUsers(ctx context.Context, filter models.UserFilter) (*models.UserPage, error) {
	limit := s.clampLimit(filter.Limit)
	offset := max(filter.Offset, 0)

	all, err := s.users.List(ctx, filter.Created)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	matched := make([]*models.UserProfile, 0, len(all))
	for _, u := range all {
		if filter.Matches(u) {
			matched = append(matched, u)
		}
	}

	page := &models.UserPage{
		Users:  []*models.UserProfile{},
		Total:  len(matched),
		Limit:  limit,
		Offset: offset,
	}
	if offset < len(matched) {
		page.Users = matched[offset:min(offset+limit, len(matched))]
	}
	return page, nil
}

// GetUser reads the profile and its related documents in parallel. Only the
// profile is required; a failed card or residence read is logged and left empty.
func (s *userService) GetUser(ctx context.Context, uid string) (*models.UserDetail, error) {
	var (
		detail    models.UserDetail
		residence *models.Residence
		members   []models.HouseholdMember
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.users.GetByID(gctx, uid)
		if err != nil {
			return notFound("user "+uid, err)
		}
		detail.Profile = profile
		return nil
	})
	g.Go(func() error {
		card, err := s.cards.GetByUID(gctx, uid)
		if err != nil {
			s.warnRead(gctx, err, "citizen card", uid)
			return nil
		}
		detail.CitizenCard = card
		return nil
	})
	g.Go(func() error {
		res, err := s.residences.GetByUID(gctx, uid)
		if err != nil {
			s.warnRead(gctx, err, "residence", uid)
			return nil
		}
		residence = res
		return nil
	})
	g.Go(func() error {
		list, err := s.household.List(gctx, uid)
		if err != nil {
			s.warnRead(gctx, err, "household members", uid)
			return nil
		}
		members = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if residence != nil {
		detail.Residence = residence
		detail.Members = members
	}
	return &detail, nil
}

func (s *userService) warnRead(ctx context.Context, err error, what, uid string) {
	if errors.Is(err, docstore.ErrNotFound) || ctx.Err() != nil {
		return
	}
	s.logger.Warn().Err(err).Str("uid", uid).Msgf("failed to read %s", what)
}

func (s *userService) SearchByCitizenID(ctx context.Context, citizenID string) ([]*models.UserProfile, error) {
	citizenID = strings.TrimSpace(citizenID)
	if citizenID == "" {
		return []*models.UserProfile{}, nil
	}
	return s.users.FindByCitizenID(ctx, citizenID)
}

func (s *userService) CountUsers(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}

func (s *userService) RecentUsers(ctx context.Context, limit int) ([]*models.UserProfile, error) {
	return s.users.Recent(ctx, s.clampLimit(limit))
}

// IsCitizenIDUnique reports whether no profile other than excludeUID carries citizenID.
func (s *userService) IsCitizenIDUnique(ctx context.Context, citizenID, excludeUID string) (bool, error) {
	existing, err := s.users.FindByCitizenID(ctx, strings.TrimSpace(citizenID))
	if err != nil {
		return false, fmt.Errorf("failed to check citizen ID uniqueness: %w", err)
	}
	for _, u := range existing {
		if u.UID != excludeUID {
			return false, nil
		}
	}
	return true, nil
}

// CreateUser writes the profile, then the optional card, residence and
// members, under a uid equal to the citizen ID. A failed write removes
// everything written before it.
func (s *userService) CreateUser(ctx context.Context, form *models.CreateUserForm) (string, error) {
	uid := strings.TrimSpace(form.Profile.CitizenID)
	form.Profile.ApplyDefaults(uid)
	if errs := form.Validate(); errs.HasErrors() {
		return "", errs
	}

	unique, err := s.IsCitizenIDUnique(ctx, uid, "")
	if err != nil {
		return "", err
	}
	if !unique {
		return "", fmt.Errorf("citizen ID %s already exists: %w", uid, ErrConflict)
	}
	if _, err := s.users.GetByID(ctx, uid); err == nil {
		return "", fmt.Errorf("user %s already exists: %w", uid, ErrConflict)
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return "", err
	}

	now := s.now().UTC()
	profile := form.Profile.Profile(uid, now)

	var undo []func(context.Context) error
	rollback := func(cause error) (string, error) {
		for i := len(undo) - 1; i >= 0; i-- {
			if err := undo[i](context.WithoutCancel(ctx)); err != nil {
				s.logger.Error().Err(err).Str("uid", uid).Msg("failed to roll back partial user creation")
			}
		}
		return "", cause
	}

	if err := s.users.Create(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	undo = append(undo, func(c context.Context) error { return s.users.Delete(c, uid) })

	related := make([]audit.RelatedEntity, 0, 3)

	cardEntity := audit.RelatedEntity{Name: "citizen_card"}
	if form.CitizenCard != nil {
		card := *form.CitizenCard
		card.Prepare(uid, now)
		if err := s.cards.Upsert(ctx, &card); err != nil {
			return rollback(fmt.Errorf("failed to create citizen card: %w", err))
		}
		undo = append(undo, func(c context.Context) error { return s.cards.Delete(c, uid) })
		cardEntity.Created = true
		cardEntity.Summary = card.Summary()
	}
	related = append(related, cardEntity)

	residenceEntity := audit.RelatedEntity{Name: "residence"}
	if form.Residence != nil {
		residence := *form.Residence
		residence.Prepare(uid, now)
		if err := s.residences.Upsert(ctx, &residence); err != nil {
			return rollback(fmt.Errorf("failed to create residence: %w", err))
		}
		undo = append(undo, func(c context.Context) error { return s.residences.Delete(c, uid) })
		residenceEntity.Created = true
		residenceEntity.Summary = residence.Summary()
	}
	related = append(related, residenceEntity)

	membersEntity := audit.RelatedEntity{Name: "household_members"}
	if len(form.Members) > 0 {
		undo = append(undo, func(c context.Context) error {
			_, err := s.household.DeleteAll(c, uid)
			return err
		})
		for i := range form.Members {
			member := form.Members[i]
			if err := s.household.Save(ctx, uid, &member); err != nil {
				return rollback(fmt.Errorf("failed to create household member: %w", err))
			}
		}
		membersEntity.Created = true
		membersEntity.Summary = map[string]string{"count": strconv.Itoa(len(form.Members))}
	}
	related = append(related, membersEntity)

	s.logger.Info().Str("uid", uid).Msg("user created")

	admin, origin := actor(ctx)
	logAudit(s.logger, s.auditor.RecordCreation(ctx, admin, audit.CreationSummary{
		ID:      uid,
		Label:   profile.FullName,
		Profile: profile.Summary(),
		Related: related,
	}, origin), "create", uid)

	return uid, nil
}

func (s *userService) CreateUsers(ctx context.Context, forms []*models.CreateUserForm) *models.BatchResult {
	result := models.NewBatchResult(len(forms))
	for i, form := range forms {
		uid, err := s.CreateUser(ctx, form)
		if err != nil {
			result.Fail(i, strings.TrimSpace(form.Profile.CitizenID), err)
			continue
		}
		result.Succeed(i, uid)
	}
	return result
}

// UpdateProfile merges form onto the stored profile and writes only the
// fields that changed. A new name or citizen ID is copied to the card and
// residence when they exist.
func (s *userService) UpdateProfile(ctx context.Context, uid string, form *models.UserProfileForm) error {
	current, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return notFound("user "+uid, err)
	}

	merged := models.MergeProfileForm(current, form)
	if msgs := merged.Validate(); len(msgs) > 0 {
		return models.NewValidationErrors("profile", msgs)
	}

	newCitizenID := strings.TrimSpace(merged.CitizenID)
	if newCitizenID != current.CitizenID {
		unique, err := s.IsCitizenIDUnique(ctx, newCitizenID, uid)
		if err != nil {
			return err
		}
		if !unique {
			return fmt.Errorf("citizen ID %s already exists: %w", newCitizenID, ErrConflict)
		}
	}

	now := s.now().UTC()
	updated := merged.Profile(uid, now)
	changes := models.ProfileChanges(current, updated)
	if len(changes) == 0 {
		return nil
	}

	fields := maps.Clone(changes)
	fields["updated_at"] = now
	if err := s.users.Update(ctx, uid, fields); err != nil {
		return notFound("user "+uid, err)
	}

	_, nameChanged := changes["full_name"]
	_, idChanged := changes["citizen_id"]
	if nameChanged || idChanged {
		s.syncRelated(ctx, uid, updated, now)
	}

	admin, origin := actor(ctx)
	logAudit(s.logger, s.auditor.RecordUpdate(ctx, admin, uid, updated.FullName,
		models.RedactChanges(changes), s.collections.Users, origin), "update", uid)
	return nil
}

// syncRelated keeps the card and residence identity fields in line with the
// profile. Failures are logged only.
func (s *userService) syncRelated(ctx context.Context, uid string, profile *models.UserProfile, now time.Time) {
	cardFields := map[string]any{
		"citizen_id": profile.CitizenID,
		"full_name":  profile.FullName,
		"updated_at": now,
	}
	if err := s.cards.Update(ctx, uid, cardFields); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		s.logger.Warn().Err(err).Str("uid", uid).Msg("failed to sync citizen card with profile")
	}

	residenceFields := map[string]any{
		"id_number":  profile.CitizenID,
		"full_name":  profile.FullName,
		"updated_at": now,
	}
	if err := s.residences.Update(ctx, uid, residenceFields); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		s.logger.Warn().Err(err).Str("uid", uid).Msg("failed to sync residence with profile")
	}
}

func (s *userService) UpdateCitizenCard(ctx context.Context, uid string, card *models.CitizenCard) error {
	profile, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return notFound("user "+uid, err)
	}

	msgs := card.Validate()
	if strings.TrimSpace(card.CitizenID) != profile.CitizenID {
		msgs = append(msgs, "Citizen ID must match user profile")
	}
	if len(msgs) > 0 {
		return models.NewValidationErrors("citizen_card", msgs)
	}

	before := map[string]any{}
	if existing, err := s.cards.GetByUID(ctx, uid); err == nil {
		before = existing.Changes()
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return err
	}

	updated := *card
	updated.Prepare(uid, s.now().UTC())
	if err := s.cards.Upsert(ctx, &updated); err != nil {
		return err
	}

	admin, origin := actor(ctx)
	logAudit(s.logger, s.auditor.RecordUpdate(ctx, admin, uid, profile.FullName,
		models.DiffChanges(before, updated.Changes()), s.collections.CitizenCards, origin), "update", uid)
	return nil
}

func (s *userService) UpdateResidence(ctx context.Context, uid string, residence *models.Residence) error {
	profile, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return notFound("user "+uid, err)
	}

	msgs := residence.Validate()
	if strings.TrimSpace(residence.IDNumber) != profile.CitizenID {
		msgs = append(msgs, "Citizen ID must match user profile")
	}
	if len(msgs) > 0 {
		return models.NewValidationErrors("residence", msgs)
	}

	before := map[string]any{}
	if existing, err := s.residences.GetByUID(ctx, uid); err == nil {
		before = existing.Changes()
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return err
	}

	updated := *residence
	updated.Prepare(uid, s.now().UTC())
	if err := s.residences.Upsert(ctx, &updated); err != nil {
		return err
	}

	admin, origin := actor(ctx)
	logAudit(s.logger, s.auditor.RecordUpdate(ctx, admin, uid, profile.FullName,
		models.DiffChanges(before, updated.Changes()), s.collections.Residence, origin), "update", uid)
	return nil
}

// UpdateQRPayloads ignores keys other than the four QR fields.
func (s *userService) UpdateQRPayloads(ctx context.Context, uid string, payloads map[string]string) (bool, error) {
	changes := map[string]any{}
	var msgs []string
	for _, key := range models.QRKeys {
		value, ok := payloads[key]
		if !ok {
			continue
		}
		if msg := models.ValidateQRPayload(value); msg != "" {
			msgs = append(msgs, key+": "+msg)
			continue
		}
		changes[key] = value
	}
	if len(msgs) > 0 {
		return false, models.NewValidationErrors("qr", msgs)
	}
	if len(changes) == 0 {
		return false, nil
	}

	profile, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return false, notFound("user "+uid, err)
	}

	fields := maps.Clone(changes)
	fields["updated_at"] = s.now().UTC()
	if err := s.users.Update(ctx, uid, fields); err != nil {
		return false, notFound("user "+uid, err)
	}

	admin, origin := actor(ctx)
	logAudit(s.logger, s.auditor.RecordUpdate(ctx, admin, uid, profile.FullName,
		changes, s.collections.Users, origin), "update", uid)
	return true, nil
}

// DeleteUser removes household members, residence, citizen card and profile,
// in that order. confirm may be nil.
func (s *userService) DeleteUser(ctx context.Context, uid string, confirm *models.DeleteConfirmation) (*models.DeletionResult, error) {
	profile, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, notFound("user "+uid, err)
	}
	if confirm != nil && !confirm.Matches(profile) {
		return nil, ErrConfirmationFailed
	}

	result := &models.DeletionResult{UID: uid, DeletedCollections: []string{}}

	hasResidence, err := s.exists(ctx, func(c context.Context) error {
		_, err := s.residences.GetByUID(c, uid)
		return err
	})
	if err != nil {
		return result, err
	}
	if hasResidence {
		n, err := s.household.DeleteAll(ctx, uid)
		result.HouseholdMembers = n
		if err != nil {
			return result, fmt.Errorf("partial deletion of user %s: %w", uid, err)
		}
		if n > 0 {
			result.DeletedCollections = append(result.DeletedCollections, s.collections.HouseholdMembers)
		}
		if err := s.residences.Delete(ctx, uid); err != nil {
			return result, fmt.Errorf("partial deletion of user %s: %w", uid, err)
		}
		result.DeletedCollections = append(result.DeletedCollections, s.collections.Residence)
	}

	hasCard, err := s.exists(ctx, func(c context.Context) error {
		_, err := s.cards.GetByUID(c, uid)
		return err
	})
	if err != nil {
		return result, err
	}
	if hasCard {
		if err := s.cards.Delete(ctx, uid); err != nil {
			return result, fmt.Errorf("partial deletion of user %s: %w", uid, err)
		}
		result.DeletedCollections = append(result.DeletedCollections, s.collections.CitizenCards)
	}

	if err := s.users.Delete(ctx, uid); err != nil {
		return result, fmt.Errorf("partial deletion of user %s: %w", uid, err)
	}
	result.DeletedCollections = append(result.DeletedCollections, s.collections.Users)

	s.logger.Info().Str("uid", uid).Strs("collections", result.DeletedCollections).Msg("user deleted")

	admin, origin := actor(ctx)
	result.AuditRecorded = logAudit(s.logger, s.auditor.RecordDeletion(ctx, admin, uid, profile.FullName,
		result.DeletedCollections, len(result.DeletedCollections) > 1, origin), "delete", uid)
	return result, nil
}

func (s *userService) exists(ctx context.Context, get func(context.Context) error) (bool, error) {
	err := get(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, docstore.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *userService) DeletionImpact(ctx context.Context, uid string) (*models.DeletionImpact, error) {
	detail, err := s.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	impact := &models.DeletionImpact{
		UID:            uid,
		FullName:       detail.Profile.FullName,
		Email:          detail.Profile.Email,
		CitizenID:      detail.Profile.CitizenID,
		HasCitizenCard: detail.CitizenCard != nil,
		HasResidence:   detail.Residence != nil,
		TotalDocuments: 1,
		Warnings:       []string{},
	}
	if impact.HasCitizenCard {
		impact.TotalDocuments++
	}
	if impact.HasResidence {
		impact.HouseholdMembers = len(detail.Members)
		impact.TotalDocuments += 1 + impact.HouseholdMembers
	}

	if impact.HouseholdMembers > 0 {
		impact.Warnings = append(impact.Warnings,
			fmt.Sprintf("This will also delete %d household members", impact.HouseholdMembers))
	}
	if impact.TotalDocuments > 3 {
		impact.Warnings = append(impact.Warnings,
			fmt.Sprintf("This operation will delete %d total documents", impact.TotalDocuments))
	}
	return impact, nil
}

func (s *userService) DeleteUsers(ctx context.Context, uids []string) *models.BatchResult {
	result := models.NewBatchResult(len(uids))
	for i, uid := range uids {
		if _, err := s.DeleteUser(ctx, uid, nil); err != nil {
			result.Fail(i, uid, err)
			continue
		}
		result.Succeed(i, uid)
	}
	return result
}

func (s *userService) SoftDeleteUser(ctx context.Context, uid string) error {
	profile, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return notFound("user "+uid, err)
	}
	if profile.Deleted {
		return fmt.Errorf("user %s is already soft deleted: %w", uid, ErrConflict)
	}

	admin, origin := actor(ctx)
	now := s.now().UTC()
	fields := map[string]any{
		"deleted":    true,
		"deleted_at": now,
		"deleted_by": admin,
		"updated_at": now,
	}
	if err := s.users.Update(ctx, uid, fields); err != nil {
		return notFound("user "+uid, err)
	}

	changes := map[string]any{
		"deleted":    true,
		"deleted_at": now.Format(time.RFC3339),
		"deleted_by": admin,
	}
	logAudit(s.logger, s.auditor.RecordUpdate(ctx, admin, uid, profile.FullName,
		changes, s.collections.Users, origin), "update", uid)
	return nil
}

func (s *userService) RestoreUser(ctx context.Context, uid string) error {
	profile, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return notFound("user "+uid, err)
	}
	if !profile.Deleted {
		return fmt.Errorf("user %s is not soft deleted: %w", uid, ErrConflict)
	}

	admin, origin := actor(ctx)
	now := s.now().UTC()
	fields := map[string]any{
		"deleted":     docstore.DeleteField,
		"deleted_at":  docstore.DeleteField,
		"deleted_by":  docstore.DeleteField,
		"restored_at": now,
		"restored_by": admin,
		"updated_at":  now,
	}
	if err := s.users.Update(ctx, uid, fields); err != nil {
		return notFound("user "+uid, err)
	}

	changes := map[string]any{
		"deleted":     false,
		"restored_at": now.Format(time.RFC3339),
		"restored_by": admin,
	}
	logAudit(s.logger, s.auditor.RecordUpdate(ctx, admin, uid, profile.FullName,
		changes, s.collections.Users, origin), "update", uid)
	return nil
}

// PurgeSoftDeleted hard-deletes users soft-deleted at least days ago.
// days <= 0 uses DefaultSoftDeleteRetentionDays.
func (s *userService) PurgeSoftDeleted(ctx context.Context, days int) (*models.BatchResult, error) {
	if days <= 0 {
		days = DefaultSoftDeleteRetentionDays
	}
	cutoff := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	users, err := s.users.SoftDeletedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to find soft-deleted users: %w", err)
	}

	uids := make([]string, 0, len(users))
	for _, u := range users {
		uids = append(uids, u.UID)
	}
	slices.Sort(uids)

	result := s.DeleteUsers(ctx, uids)
	s.logger.Info().
		Int("deleted", len(result.Successful)).
		Int("failed", len(result.Failed)).
		Time("cutoff", cutoff).
		Msg("purged soft-deleted users")
	return result, nil
}

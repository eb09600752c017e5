package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/repositories"
)

// HouseholdService manages the members of a user's residence.
type HouseholdService interface {
	List(ctx context.Context, uid string) ([]models.HouseholdMember, error)
	Get(ctx context.Context, uid, memberID string) (*models.HouseholdMember, error)
	Add(ctx context.Context, uid string, member *models.HouseholdMember) (*models.HouseholdMember, error)
	Update(ctx context.Context, uid, memberID string, member *models.HouseholdMember) (*models.HouseholdMember, error)
	Delete(ctx context.Context, uid, memberID string) error
	// Sync replaces the member list: members missing from the input are removed.
	Sync(ctx context.Context, uid string, members []models.HouseholdMember) ([]models.HouseholdMember, error)
}

type householdService struct {
	residences repositories.ResidenceRepository
	members    repositories.HouseholdRepository
	auditor    Auditor
	options
}

func NewHouseholdService(residences repositories.ResidenceRepository, members repositories.HouseholdRepository, auditor Auditor, opts ...Option) HouseholdService {
	return &householdService{
		residences: residences,
		members:    members,
		auditor:    auditor,
		options:    newOptions("household_service", opts),
	}
}

func (s *householdService) residence(ctx context.Context, uid string) (*models.Residence, error) {
	res, err := s.residences.GetByUID(ctx, uid)
	if err != nil {
		return nil, notFound("residence "+uid, err)
	}
	return res, nil
}

func (s *householdService) List(ctx context.Context, uid string) ([]models.HouseholdMember, error) {
	if _, err := s.residence(ctx, uid); err != nil {
		return nil, err
	}
	return s.members.List(ctx, uid)
}

func (s *householdService) Get(ctx context.Context, uid, memberID string) (*models.HouseholdMember, error) {
	if _, err := s.residence(ctx, uid); err != nil {
		return nil, err
	}
	member, err := s.members.Get(ctx, uid, memberID)
	if err != nil {
		return nil, notFound("household member "+memberID, err)
	}
	return member, nil
}

func (s *householdService) Add(ctx context.Context, uid string, member *models.HouseholdMember) (*models.HouseholdMember, error) {
	res, err := s.residence(ctx, uid)
	if err != nil {
		return nil, err
	}
	if msgs := member.Validate(); len(msgs) > 0 {
		return nil, models.NewValidationErrors("household_member", msgs)
	}

	existing, err := s.members.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := checkMemberUnique(existing, member, ""); err != nil {
		return nil, err
	}

	added := *member
	added.MemberID = ""
	if err := s.members.Save(ctx, uid, &added); err != nil {
		return nil, err
	}
	s.touch(ctx, uid)

	changes := added.Changes()
	changes["operation"] = "add"
	s.audit(ctx, uid, res, changes)
	return &added, nil
}

func (s *householdService) Update(ctx context.Context, uid, memberID string, member *models.HouseholdMember) (*models.HouseholdMember, error) {
	res, err := s.residence(ctx, uid)
	if err != nil {
		return nil, err
	}
	current, err := s.members.Get(ctx, uid, memberID)
	if err != nil {
		return nil, notFound("household member "+memberID, err)
	}
	if msgs := member.Validate(); len(msgs) > 0 {
		return nil, models.NewValidationErrors("household_member", msgs)
	}

	existing, err := s.members.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := checkMemberUnique(existing, member, memberID); err != nil {
		return nil, err
	}

	updated := *member
	updated.MemberID = memberID
	if err := s.members.Save(ctx, uid, &updated); err != nil {
		return nil, err
	}
	s.touch(ctx, uid)

	changes := models.DiffChanges(current.Changes(), updated.Changes())
	changes["operation"] = "update"
	changes["member_id"] = memberID
	s.audit(ctx, uid, res, changes)
	return &updated, nil
}

func (s *householdService) Delete(ctx context.Context, uid, memberID string) error {
	res, err := s.residence(ctx, uid)
	if err != nil {
		return err
	}
	current, err := s.members.Get(ctx, uid, memberID)
	if err != nil {
		return notFound("household member "+memberID, err)
	}

	if err := s.members.Delete(ctx, uid, memberID); err != nil {
		return err
	}
	s.touch(ctx, uid)

	s.audit(ctx, uid, res, map[string]any{
		"operation": "delete",
		"member_id": memberID,
		"full_name": current.FullName,
	})
	return nil
}

func (s *householdService) Sync(ctx context.Context, uid string, members []models.HouseholdMember) ([]models.HouseholdMember, error) {
	res, err := s.residence(ctx, uid)
	if err != nil {
		return nil, err
	}

	var errs models.ValidationErrors
	for i := range members {
		field := "household_members[" + strconv.Itoa(i) + "]"
		errs = append(errs, models.NewValidationErrors(field, members[i].Validate())...)
	}
	if errs.HasErrors() {
		return nil, errs
	}

	current, err := s.members.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	synced := make([]models.HouseholdMember, len(members))
	keep := make(map[string]bool, len(members))
	for i := range members {
		synced[i] = members[i]
		synced[i].EnsureID()
		keep[synced[i].MemberID] = true
	}

	removed := 0
	for _, m := range current {
		if keep[m.MemberID] {
			continue
		}
		if err := s.members.Delete(ctx, uid, m.MemberID); err != nil {
			return nil, err
		}
		removed++
	}
	for i := range synced {
		if err := s.members.Save(ctx, uid, &synced[i]); err != nil {
			return nil, err
		}
	}
	s.touch(ctx, uid)

	s.audit(ctx, uid, res, map[string]any{
		"operation": "sync",
		"total":     len(synced),
		"removed":   removed,
	})
	return synced, nil
}

// touch bumps residence.updated_at after a member change.
func (s *householdService) touch(ctx context.Context, uid string) {
	if err := s.residences.Update(ctx, uid, map[string]any{"updated_at": s.now().UTC()}); err != nil {
		s.logger.Warn().Err(err).Str("uid", uid).Msg("failed to touch residence")
	}
}

func (s *householdService) audit(ctx context.Context, uid string, res *models.Residence, changes map[string]any) {
	admin, origin := actor(ctx)
	logAudit(s.logger, s.auditor.RecordUpdate(ctx, admin, uid, res.FullName,
		changes, s.collections.HouseholdMembers, origin), "update", uid)
}

// checkMemberUnique rejects a member whose citizen ID, or name and
// relationship, already appear in the household.
func checkMemberUnique(existing []models.HouseholdMember, m *models.HouseholdMember, excludeID string) error {
	id := strings.TrimSpace(m.IDNumber)
	name := strings.ToLower(strings.TrimSpace(m.FullName))
	relation := strings.ToLower(strings.TrimSpace(m.RelationToHead))

	for _, e := range existing {
		if e.MemberID == excludeID {
			continue
		}
		if id != "" && strings.TrimSpace(e.IDNumber) == id {
			return fmt.Errorf("household member with citizen ID %s already exists: %w", id, ErrConflict)
		}
		if strings.ToLower(strings.TrimSpace(e.FullName)) == name &&
			strings.ToLower(strings.TrimSpace(e.RelationToHead)) == relation {
			return fmt.Errorf("household member %s (%s) already exists: %w", m.FullName, m.RelationToHead, ErrConflict)
		}
	}
	return nil
}

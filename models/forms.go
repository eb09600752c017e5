package models

import (
	"maps"
	"strings"
	"time"
)

// CreateUserForm is a full user creation: the profile plus the optional
// documents written alongside it.
type CreateUserForm struct {
	Profile     UserProfileForm   `json:"profile" yaml:"profile"`
	CitizenCard *CitizenCard      `json:"citizen_card,omitempty" yaml:"citizen_card,omitempty"`
	Residence   *Residence        `json:"residence,omitempty" yaml:"residence,omitempty"`
	Members     []HouseholdMember `json:"household_members,omitempty" yaml:"household_members,omitempty"`
}

// Validate checks every section and the rules that tie the card and residence
// to the profile.
func (f *CreateUserForm) Validate() ValidationErrors {
	return f.validateAt(time.Now())
}

func (f *CreateUserForm) validateAt(now time.Time) ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, NewValidationErrors("profile", f.Profile.validateAt(now))...)

	citizenID := strings.TrimSpace(f.Profile.CitizenID)
	name := strings.TrimSpace(f.Profile.FullName)

	if f.CitizenCard != nil {
		messages := f.CitizenCard.validateAt(now)
		if strings.TrimSpace(f.CitizenCard.CitizenID) != citizenID {
			messages = append(messages, "Citizen ID must match user profile")
		}
		if strings.TrimSpace(f.CitizenCard.FullName) != name {
			messages = append(messages, "Full name should match user profile name")
		}
		errs = append(errs, NewValidationErrors("citizen_card", messages)...)
	}

	if f.Residence != nil {
		messages := f.Residence.Validate()
		if strings.TrimSpace(f.Residence.IDNumber) != citizenID {
			messages = append(messages, "Citizen ID must match user profile")
		}
		if strings.TrimSpace(f.Residence.FullName) != name {
			messages = append(messages, "Full name should match user profile name")
		}
		errs = append(errs, NewValidationErrors("residence", messages)...)
	}

	if len(f.Members) > 0 && f.Residence == nil {
		errs = append(errs, ValidationError{Field: "household_members", Message: "Household members require a residence"})
	}
	for i := range f.Members {
		errs = append(errs, NewValidationErrors("household_members", f.Members[i].validateAt(now))...)
	}

	return errs
}

// BatchItem is the outcome of one element of a batch operation.
type BatchItem struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// BatchResult reports per-item outcomes of a batch create or delete.
type BatchResult struct {
	Successful []BatchItem `json:"successful"`
	Failed     []BatchItem `json:"failed"`
	Total      int         `json:"total_processed"`
}

func NewBatchResult(total int) *BatchResult {
	return &BatchResult{Successful: []BatchItem{}, Failed: []BatchItem{}, Total: total}
}

func (b *BatchResult) Succeed(index int, id string) {
	b.Successful = append(b.Successful, BatchItem{Index: index, ID: id})
}

func (b *BatchResult) Fail(index int, id string, err error) {
	b.Failed = append(b.Failed, BatchItem{Index: index, ID: id, Error: err.Error()})
}

// DeletionResult lists what a cascade delete removed.
type DeletionResult struct {
	UID                string   `json:"uid"`
	DeletedCollections []string `json:"deleted_collections"`
	HouseholdMembers   int      `json:"household_members"`
	AuditRecorded      bool     `json:"audit_recorded"`
}

// DeletionImpact previews a cascade delete.
type DeletionImpact struct {
	UID              string   `json:"uid"`
	FullName         string   `json:"full_name"`
	Email            string   `json:"email"`
	CitizenID        string   `json:"citizen_id"`
	HasCitizenCard   bool     `json:"has_citizen_card"`
	HasResidence     bool     `json:"has_residence"`
	HouseholdMembers int      `json:"household_members_count"`
	TotalDocuments   int      `json:"total_documents"`
	Warnings         []string `json:"warning_messages"`
}

// DiffChanges returns the entries of after whose values differ from before.
// Keys missing from after are ignored.
func DiffChanges(before, after map[string]any) map[string]any {
	changes := map[string]any{}
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			changes[k] = v
		}
	}
	return changes
}

// RedactChanges masks secrets before a change set is written to the audit trail.
func RedactChanges(changes map[string]any) map[string]any {
	if _, ok := changes["passcode"]; !ok {
		return changes
	}
	out := maps.Clone(changes)
	out["passcode"] = "[redacted]"
	return out
}

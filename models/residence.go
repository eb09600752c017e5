package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Residence is the residence/{uid} document. Household members live in the
// household_members sub-collection, not inline.
type Residence struct {
	UID       string `json:"uid" firestore:"uid" bson:"uid" yaml:"-"`
	FullName  string `json:"full_name" firestore:"full_name" bson:"full_name" yaml:"full_name"`
	IDNumber  string `json:"id_number" firestore:"id_number" bson:"id_number" yaml:"id_number"`
	BirthDate string `json:"birth_date" firestore:"birth_date" bson:"birth_date" yaml:"birth_date"`
	Gender    string `json:"gender" firestore:"gender" bson:"gender" yaml:"gender"`

	PermanentAddress string `json:"permanent_address" firestore:"permanent_address" bson:"permanent_address" yaml:"permanent_address"`
	CurrentAddress   string `json:"current_address" firestore:"current_address" bson:"current_address" yaml:"current_address"`
	TemporaryAddress string `json:"temporary_address,omitempty" firestore:"temporary_address,omitempty" bson:"temporary_address,omitempty" yaml:"temporary_address"`
	TemporaryStart   string `json:"temporary_start,omitempty" firestore:"temporary_start,omitempty" bson:"temporary_start,omitempty" yaml:"temporary_start"`
	TemporaryEnd     string `json:"temporary_end,omitempty" firestore:"temporary_end,omitempty" bson:"temporary_end,omitempty" yaml:"temporary_end"`

	Ethnicity     string `json:"ethnicity,omitempty" firestore:"ethnicity,omitempty" bson:"ethnicity,omitempty" yaml:"ethnicity"`
	Religion      string `json:"religion,omitempty" firestore:"religion,omitempty" bson:"religion,omitempty" yaml:"religion"`
	Nationality   string `json:"nationality,omitempty" firestore:"nationality,omitempty" bson:"nationality,omitempty" yaml:"nationality"`
	Hometown      string `json:"hometown,omitempty" firestore:"hometown,omitempty" bson:"hometown,omitempty" yaml:"hometown"`
	CitizenStatus string `json:"citizen_status,omitempty" firestore:"citizen_status,omitempty" bson:"citizen_status,omitempty" yaml:"citizen_status"`

	HouseholdHeadName string `json:"household_head_name" firestore:"household_head_name" bson:"household_head_name" yaml:"household_head_name"`
	HouseholdHeadID   string `json:"household_head_id" firestore:"household_head_id" bson:"household_head_id" yaml:"household_head_id"`
	RelationToHead    string `json:"relation_to_head" firestore:"relation_to_head" bson:"relation_to_head" yaml:"relation_to_head"`

	QRPayload string    `json:"qr_payload,omitempty" firestore:"qr_payload,omitempty" bson:"qr_payload,omitempty" yaml:"qr_payload"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at" bson:"updated_at" yaml:"-"`
}

// Validate validates the residence data
func (r *Residence) Validate() []string {
	var errors []string

	errors = requireFields(errors,
		[2]string{"Full name", r.FullName},
		[2]string{"Citizen ID", r.IDNumber},
		[2]string{"Permanent address", r.PermanentAddress},
		[2]string{"Current address", r.CurrentAddress},
	)

	if !isBlank(r.FullName) {
		errors = check(errors, "Full name: ", validateName(r.FullName))
	}
	if !isBlank(r.IDNumber) {
		errors = check(errors, "Citizen ID: ", validateCitizenID(r.IDNumber))
	}
	if !isBlank(r.PermanentAddress) {
		errors = check(errors, "Permanent address: ", validateAddress(r.PermanentAddress))
	}
	if !isBlank(r.CurrentAddress) {
		errors = check(errors, "Current address: ", validateAddress(r.CurrentAddress))
	}
	if r.RelationToHead != "" {
		errors = check(errors, "Relationship to head: ", validateRelationship(r.RelationToHead))
	}
	errors = check(errors, "QR payload: ", validateQRPayload(r.QRPayload))

	return errors
}

func (r *Residence) Prepare(uid string, now time.Time) {
	r.UID = uid
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.FullName = strings.TrimSpace(r.FullName)
	r.UpdatedAt = now
}

func (r *Residence) Summary() map[string]string {
	return map[string]string{
		"full_name":           r.FullName,
		"citizen_id":          r.IDNumber,
		"permanent_address":   r.PermanentAddress,
		"current_address":     r.CurrentAddress,
		"household_head_name": r.HouseholdHeadName,
	}
}

func (r *Residence) Changes() map[string]any {
	return map[string]any{
		"full_name":           r.FullName,
		"id_number":           r.IDNumber,
		"birth_date":          r.BirthDate,
		"gender":              r.Gender,
		"permanent_address":   r.PermanentAddress,
		"current_address":     r.CurrentAddress,
		"temporary_address":   r.TemporaryAddress,
		"temporary_start":     r.TemporaryStart,
		"temporary_end":       r.TemporaryEnd,
		"ethnicity":           r.Ethnicity,
		"religion":            r.Religion,
		"nationality":         r.Nationality,
		"hometown":            r.Hometown,
		"citizen_status":      r.CitizenStatus,
		"household_head_name": r.HouseholdHeadName,
		"household_head_id":   r.HouseholdHeadID,
		"relation_to_head":    r.RelationToHead,
		"qr_payload":          r.QRPayload,
	}
}

// HouseholdMember is a residence/{uid}/household_members/{member_id} document.
type HouseholdMember struct {
	MemberID       string `json:"member_id" firestore:"member_id" bson:"member_id" yaml:"member_id"`
	FullName       string `json:"full_name" firestore:"full_name" bson:"full_name" yaml:"full_name"`
	IDNumber       string `json:"id_number" firestore:"id_number" bson:"id_number" yaml:"id_number"`
	BirthDate      string `json:"birth_date" firestore:"birth_date" bson:"birth_date" yaml:"birth_date"`
	Gender         string `json:"gender" firestore:"gender" bson:"gender" yaml:"gender"`
	RelationToHead string `json:"relation_to_head" firestore:"relation_to_head" bson:"relation_to_head" yaml:"relation_to_head"`
	CitizenStatus  string `json:"citizen_status,omitempty" firestore:"citizen_status,omitempty" bson:"citizen_status,omitempty" yaml:"citizen_status"`
}

// EnsureID assigns a fresh member ID when none is set.
func (m *HouseholdMember) EnsureID() {
	if m.MemberID == "" {
		m.MemberID = uuid.NewString()
	}
}

// Validate validates the household member data
func (m *HouseholdMember) Validate() []string {
	return m.validateAt(time.Now())
}

func (m *HouseholdMember) validateAt(now time.Time) []string {
	var errors []string

	errors = requireFields(errors,
		[2]string{"Name", m.FullName},
		[2]string{"Relationship", m.RelationToHead},
	)

	if !isBlank(m.FullName) {
		errors = check(errors, "Name: ", validateName(m.FullName))
	}
	if !isBlank(m.RelationToHead) {
		errors = check(errors, "Relationship: ", validateRelationship(m.RelationToHead))
	}
	if !isBlank(m.IDNumber) {
		errors = check(errors, "Citizen ID: ", validateCitizenID(m.IDNumber))
	}
	if !isBlank(m.BirthDate) {
		errors = check(errors, "Date of birth: ", validateDate(m.BirthDate, now))
	}

	return errors
}

func (m *HouseholdMember) Changes() map[string]any {
	return map[string]any{
		"member_id":        m.MemberID,
		"full_name":        m.FullName,
		"id_number":        m.IDNumber,
		"birth_date":       m.BirthDate,
		"gender":           m.Gender,
		"relation_to_head": m.RelationToHead,
		"citizen_status":   m.CitizenStatus,
	}
}

package models

import (
	"strings"
	"time"
)

const (
	DefaultPasscode      = "789789"
	DefaultIdentityLevel = 2
	DefaultGender        = "Nam"
	DefaultNationality   = "Việt Nam"
)

// QR payload keys accepted by UpdateQRPayloads.
const (
	QRHome      = "qr_home"
	QRCard      = "qr_card"
	QRIDDetail  = "qr_id_detail"
	QRResidence = "qr_residence"
)

var QRKeys = []string{QRHome, QRCard, QRIDDetail, QRResidence}

// UserProfile is the users/{uid} document read by the mobile app.
type UserProfile struct {
	UID           string `json:"uid" firestore:"uid" bson:"uid"`
	FullName      string `json:"full_name" firestore:"full_name" bson:"full_name"`
	Email         string `json:"email" firestore:"email" bson:"email"`
	PhoneNumber   string `json:"phone_number" firestore:"phone_number" bson:"phone_number"`
	CitizenID     string `json:"citizen_id" firestore:"citizen_id" bson:"citizen_id"`
	Passcode      string `json:"passcode" firestore:"passcode" bson:"passcode"`
	IdentityLevel int    `json:"identity_level" firestore:"identity_level" bson:"identity_level"`
	DateOfBirth   string `json:"date_of_birth" firestore:"date_of_birth" bson:"date_of_birth"`
	Gender        string `json:"gender" firestore:"gender" bson:"gender"`
	Nationality   string `json:"nationality" firestore:"nationality" bson:"nationality"`

	PermanentAddress string `json:"permanent_address" firestore:"permanent_address" bson:"permanent_address"`
	CurrentAddress   string `json:"current_address" firestore:"current_address" bson:"current_address"`
	TemporaryAddress string `json:"temporary_address" firestore:"temporary_address" bson:"temporary_address"`

	AvatarAsset string `json:"avatar_asset" firestore:"avatar_asset" bson:"avatar_asset"`
	BadgeAsset  string `json:"badge_asset" firestore:"badge_asset" bson:"badge_asset"`

	QRHome      string `json:"qr_home" firestore:"qr_home" bson:"qr_home"`
	QRCard      string `json:"qr_card" firestore:"qr_card" bson:"qr_card"`
	QRIDDetail  string `json:"qr_id_detail" firestore:"qr_id_detail" bson:"qr_id_detail"`
	QRResidence string `json:"qr_residence" firestore:"qr_residence" bson:"qr_residence"`

	CreatedAt time.Time `json:"created_at" firestore:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at" bson:"updated_at"`

	// Soft-delete markers
	Deleted    bool       `json:"deleted,omitempty" firestore:"deleted,omitempty" bson:"deleted,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" firestore:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
	DeletedBy  string     `json:"deleted_by,omitempty" firestore:"deleted_by,omitempty" bson:"deleted_by,omitempty"`
	RestoredAt *time.Time `json:"restored_at,omitempty" firestore:"restored_at,omitempty" bson:"restored_at,omitempty"`
	RestoredBy string     `json:"restored_by,omitempty" firestore:"restored_by,omitempty" bson:"restored_by,omitempty"`
}

// Summary is the profile excerpt kept in audit records.
func (u *UserProfile) Summary() map[string]string {
	return map[string]string{
		"full_name":     u.FullName,
		"email":         u.Email,
		"phone_number":  u.PhoneNumber,
		"citizen_id":    u.CitizenID,
		"date_of_birth": u.DateOfBirth,
		"gender":        u.Gender,
		"address":       u.PermanentAddress,
	}
}

// QRPayloads returns the four QR payloads keyed by field name.
func (u *UserProfile) QRPayloads() map[string]string {
	return map[string]string{
		QRHome:      u.QRHome,
		QRCard:      u.QRCard,
		QRIDDetail:  u.QRIDDetail,
		QRResidence: u.QRResidence,
	}
}

// UserProfileForm represents form data for creating/updating a user profile
type UserProfileForm struct {
	FullName         string `json:"full_name" yaml:"full_name"`
	Email            string `json:"email" yaml:"email"`
	PhoneNumber      string `json:"phone_number" yaml:"phone_number"`
	CitizenID        string `json:"citizen_id" yaml:"citizen_id"`
	Passcode         string `json:"passcode" yaml:"passcode"`
	IdentityLevel    int    `json:"identity_level" yaml:"identity_level"`
	DateOfBirth      string `json:"date_of_birth" yaml:"date_of_birth"`
	Gender           string `json:"gender" yaml:"gender"`
	Nationality      string `json:"nationality" yaml:"nationality"`
	PermanentAddress string `json:"permanent_address" yaml:"permanent_address"`
	CurrentAddress   string `json:"current_address" yaml:"current_address"`
	TemporaryAddress string `json:"temporary_address" yaml:"temporary_address"`
	AvatarAsset      string `json:"avatar_asset" yaml:"avatar_asset"`
	BadgeAsset       string `json:"badge_asset" yaml:"badge_asset"`
	QRHome           string `json:"qr_home" yaml:"qr_home"`
	QRCard           string `json:"qr_card" yaml:"qr_card"`
	QRIDDetail       string `json:"qr_id_detail" yaml:"qr_id_detail"`
	QRResidence      string `json:"qr_residence" yaml:"qr_residence"`
}

// ApplyDefaults fills the passcode, identity fields and QR payloads the mobile
// app expects. Empty QR payloads fall back to uid.
func (f *UserProfileForm) ApplyDefaults(uid string) {
	if isBlank(f.Passcode) {
		f.Passcode = DefaultPasscode
	}
	if f.IdentityLevel == 0 {
		f.IdentityLevel = DefaultIdentityLevel
	}
	if isBlank(f.Gender) {
		f.Gender = DefaultGender
	}
	if isBlank(f.Nationality) {
		f.Nationality = DefaultNationality
	}
	for _, qr := range []*string{&f.QRHome, &f.QRCard, &f.QRIDDetail, &f.QRResidence} {
		if isBlank(*qr) {
			*qr = uid
		}
	}
}

// Validate validates the profile form data
func (f *UserProfileForm) Validate() []string {
	return f.validateAt(time.Now())
}

func (f *UserProfileForm) validateAt(now time.Time) []string {
	var errors []string

	errors = requireFields(errors,
		[2]string{"Name", f.FullName},
		[2]string{"Email", f.Email},
		[2]string{"Phone number", f.PhoneNumber},
		[2]string{"Citizen ID", f.CitizenID},
		[2]string{"Passcode", f.Passcode},
	)

	if !isBlank(f.Email) && !isValidEmail(strings.TrimSpace(f.Email)) {
		errors = append(errors, "Invalid email format")
	}
	if !isBlank(f.CitizenID) {
		errors = check(errors, "", validateCitizenID(f.CitizenID))
	}
	if !isBlank(f.Passcode) {
		errors = check(errors, "", validatePasscode(f.Passcode))
	}
	if !isBlank(f.FullName) {
		errors = check(errors, "", validateName(f.FullName))
	}
	if !isBlank(f.DateOfBirth) {
		errors = check(errors, "", validateDate(f.DateOfBirth, now))
	}
	if f.Gender != "" {
		errors = check(errors, "", validateGender(f.Gender))
	}
	payloads := []string{f.QRHome, f.QRCard, f.QRIDDetail, f.QRResidence}
	for i, key := range QRKeys {
		errors = check(errors, key+": ", validateQRPayload(payloads[i]))
	}

	return errors
}

// Profile builds the stored document for uid.
func (f *UserProfileForm) Profile(uid string, now time.Time) *UserProfile {
	return &UserProfile{
		UID:              uid,
		FullName:         strings.TrimSpace(f.FullName),
		Email:            strings.TrimSpace(f.Email),
		PhoneNumber:      strings.TrimSpace(f.PhoneNumber),
		CitizenID:        strings.TrimSpace(f.CitizenID),
		Passcode:         strings.TrimSpace(f.Passcode),
		IdentityLevel:    f.IdentityLevel,
		DateOfBirth:      strings.TrimSpace(f.DateOfBirth),
		Gender:           f.Gender,
		Nationality:      f.Nationality,
		PermanentAddress: f.PermanentAddress,
		CurrentAddress:   f.CurrentAddress,
		TemporaryAddress: f.TemporaryAddress,
		AvatarAsset:      f.AvatarAsset,
		BadgeAsset:       f.BadgeAsset,
		QRHome:           f.QRHome,
		QRCard:           f.QRCard,
		QRIDDetail:       f.QRIDDetail,
		QRResidence:      f.QRResidence,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ProfileForm converts a stored profile back into an editable form.
func ProfileForm(u *UserProfile) UserProfileForm {
	return UserProfileForm{
		FullName:         u.FullName,
		Email:            u.Email,
		PhoneNumber:      u.PhoneNumber,
		CitizenID:        u.CitizenID,
		Passcode:         u.Passcode,
		IdentityLevel:    u.IdentityLevel,
		DateOfBirth:      u.DateOfBirth,
		Gender:           u.Gender,
		Nationality:      u.Nationality,
		PermanentAddress: u.PermanentAddress,
		CurrentAddress:   u.CurrentAddress,
		TemporaryAddress: u.TemporaryAddress,
		AvatarAsset:      u.AvatarAsset,
		BadgeAsset:       u.BadgeAsset,
		QRHome:           u.QRHome,
		QRCard:           u.QRCard,
		QRIDDetail:       u.QRIDDetail,
		QRResidence:      u.QRResidence,
	}
}

// MergeProfileForm overlays the non-empty fields of patch onto the stored
// profile u and returns the merged form.
func MergeProfileForm(u *UserProfile, patch *UserProfileForm) UserProfileForm {
	merged := ProfileForm(u)
	overlay := func(dst *string, src string) {
		if !isBlank(src) {
			*dst = src
		}
	}

	overlay(&merged.FullName, patch.FullName)
	overlay(&merged.Email, patch.Email)
	overlay(&merged.PhoneNumber, patch.PhoneNumber)
	overlay(&merged.CitizenID, patch.CitizenID)
	overlay(&merged.Passcode, patch.Passcode)
	overlay(&merged.DateOfBirth, patch.DateOfBirth)
	overlay(&merged.Gender, patch.Gender)
	overlay(&merged.Nationality, patch.Nationality)
	overlay(&merged.PermanentAddress, patch.PermanentAddress)
	overlay(&merged.CurrentAddress, patch.CurrentAddress)
	overlay(&merged.TemporaryAddress, patch.TemporaryAddress)
	overlay(&merged.AvatarAsset, patch.AvatarAsset)
	overlay(&merged.BadgeAsset, patch.BadgeAsset)
	overlay(&merged.QRHome, patch.QRHome)
	overlay(&merged.QRCard, patch.QRCard)
	overlay(&merged.QRIDDetail, patch.QRIDDetail)
	overlay(&merged.QRResidence, patch.QRResidence)
	if patch.IdentityLevel > 0 {
		merged.IdentityLevel = patch.IdentityLevel
	}
	return merged
}

// ProfileChanges lists the stored fields that differ between before and
// after, keyed by stored field name, holding the new values.
func ProfileChanges(before, after *UserProfile) map[string]any {
	changes := map[string]any{}
	set := func(key string, old, new any) {
		if old != new {
			changes[key] = new
		}
	}

	set("full_name", before.FullName, after.FullName)
	set("email", before.Email, after.Email)
	set("phone_number", before.PhoneNumber, after.PhoneNumber)
	set("citizen_id", before.CitizenID, after.CitizenID)
	set("passcode", before.Passcode, after.Passcode)
	set("identity_level", before.IdentityLevel, after.IdentityLevel)
	set("date_of_birth", before.DateOfBirth, after.DateOfBirth)
	set("gender", before.Gender, after.Gender)
	set("nationality", before.Nationality, after.Nationality)
	set("permanent_address", before.PermanentAddress, after.PermanentAddress)
	set("current_address", before.CurrentAddress, after.CurrentAddress)
	set("temporary_address", before.TemporaryAddress, after.TemporaryAddress)
	set("avatar_asset", before.AvatarAsset, after.AvatarAsset)
	set("badge_asset", before.BadgeAsset, after.BadgeAsset)
	set(QRHome, before.QRHome, after.QRHome)
	set(QRCard, before.QRCard, after.QRCard)
	set(QRIDDetail, before.QRIDDetail, after.QRIDDetail)
	set(QRResidence, before.QRResidence, after.QRResidence)

	return changes
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	Search         string    `json:"search"`
	SearchField    string    `json:"search_field"` // "all", "name", "email", "citizen_id"
	Created        DateRange `json:"created"`
	IncludeDeleted bool      `json:"include_deleted"`
	Limit          int       `json:"limit"`
	Offset         int       `json:"offset"`
}

// Matches reports whether u satisfies the search term. Soft-deleted profiles
// only match when IncludeDeleted is set.
func (f UserFilter) Matches(u *UserProfile) bool {
	if u.Deleted && !f.IncludeDeleted {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}

	name := strings.Contains(strings.ToLower(u.FullName), term)
	email := strings.Contains(strings.ToLower(u.Email), term)
	citizenID := strings.Contains(strings.ToLower(u.CitizenID), term)

	switch f.SearchField {
	case "name":
		return name
	case "email":
		return email
	case "citizen_id":
		return citizenID
	default:
		return name || email || citizenID
	}
}

// UserPage is one page of ListUsers results.
type UserPage struct {
	Users  []*UserProfile `json:"users"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// UserDetail aggregates a profile with its optional related documents.
type UserDetail struct {
	Profile     *UserProfile      `json:"profile"`
	CitizenCard *CitizenCard      `json:"citizen_card,omitempty"`
	Residence   *Residence        `json:"residence,omitempty"`
	Members     []HouseholdMember `json:"household_members,omitempty"`
}

// DeleteConfirmation guards a hard delete. Either the name (case-insensitive)
// or the citizen ID must match the profile.
type DeleteConfirmation struct {
	Name      string `json:"name"`
	CitizenID string `json:"citizen_id"`
}

func (c *DeleteConfirmation) Matches(u *UserProfile) bool {
	name := strings.ToLower(strings.TrimSpace(c.Name))
	id := strings.TrimSpace(c.CitizenID)
	return (name != "" && name == strings.ToLower(u.FullName)) || (id != "" && id == u.CitizenID)
}

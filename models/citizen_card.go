package models

import (
	"strings"
	"time"
)

// CitizenCard is the citizen_cards/{uid} document.
type CitizenCard struct {
	UID         string `json:"uid" firestore:"uid" bson:"uid" yaml:"-"`
	CitizenID   string `json:"citizen_id" firestore:"citizen_id" bson:"citizen_id" yaml:"citizen_id"`
	FullName    string `json:"full_name" firestore:"full_name" bson:"full_name" yaml:"full_name"`
	DateOfBirth string `json:"date_of_birth" firestore:"date_of_birth" bson:"date_of_birth" yaml:"date_of_birth"`
	Gender      string `json:"gender" firestore:"gender" bson:"gender" yaml:"gender"`
	Nationality string `json:"nationality" firestore:"nationality" bson:"nationality" yaml:"nationality"`

	Birthplace             string `json:"birthplace" firestore:"birthplace" bson:"birthplace" yaml:"birthplace"`
	BirthRegistrationPlace string `json:"birth_registration_place" firestore:"birth_registration_place" bson:"birth_registration_place" yaml:"birth_registration_place"`
	Hometown               string `json:"hometown" firestore:"hometown" bson:"hometown" yaml:"hometown"`
	PermanentAddress       string `json:"permanent_address" firestore:"permanent_address" bson:"permanent_address" yaml:"permanent_address"`
	PermanentAddress2      string `json:"permanent_address_2" firestore:"permanent_address_2" bson:"permanent_address_2" yaml:"permanent_address_2"`
	TemporaryAddress       string `json:"temporary_address" firestore:"temporary_address" bson:"temporary_address" yaml:"temporary_address"`
	CurrentAddress         string `json:"current_address" firestore:"current_address" bson:"current_address" yaml:"current_address"`

	Ethnicity        string `json:"ethnicity" firestore:"ethnicity" bson:"ethnicity" yaml:"ethnicity"`
	Religion         string `json:"religion" firestore:"religion" bson:"religion" yaml:"religion"`
	IdentifyingMarks string `json:"identifying_marks" firestore:"identifying_marks" bson:"identifying_marks" yaml:"identifying_marks"`
	BloodType        string `json:"blood_type" firestore:"blood_type" bson:"blood_type" yaml:"blood_type"`
	Profession       string `json:"profession" firestore:"profession" bson:"profession" yaml:"profession"`
	OtherInfo        string `json:"other_info" firestore:"other_info" bson:"other_info" yaml:"other_info"`

	IssueDate  string `json:"issue_date" firestore:"issue_date" bson:"issue_date" yaml:"issue_date"`
	IssuePlace string `json:"issue_place" firestore:"issue_place" bson:"issue_place" yaml:"issue_place"`

	QRCodeData    string    `json:"qr_code_data" firestore:"qr_code_data" bson:"qr_code_data" yaml:"qr_code_data"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updated_at" bson:"updated_at" yaml:"-"`
	LastUpdatedAt string    `json:"last_updated_at" firestore:"last_updated_at" bson:"last_updated_at" yaml:"-"`
}

// Validate validates the citizen card data
func (c *CitizenCard) Validate() []string {
	return c.validateAt(time.Now())
}

func (c *CitizenCard) validateAt(now time.Time) []string {
	var errors []string

	errors = requireFields(errors,
		[2]string{"Full name", c.FullName},
		[2]string{"Citizen ID", c.CitizenID},
		[2]string{"Date of birth", c.DateOfBirth},
		[2]string{"Place of birth", c.Birthplace},
		[2]string{"Birth registration place", c.BirthRegistrationPlace},
		[2]string{"Hometown", c.Hometown},
		[2]string{"Permanent address", c.PermanentAddress},
	)

	if !isBlank(c.FullName) {
		errors = check(errors, "Full name: ", validateName(c.FullName))
	}
	if !isBlank(c.CitizenID) {
		errors = check(errors, "Citizen ID: ", validateCitizenID(c.CitizenID))
	}
	if !isBlank(c.DateOfBirth) {
		errors = check(errors, "Date of birth: ", validateDate(c.DateOfBirth, now))
	}
	if !isBlank(c.PermanentAddress) {
		errors = check(errors, "Permanent address: ", validateAddress(c.PermanentAddress))
	}
	if c.Gender != "" {
		errors = check(errors, "Gender: ", validateGender(c.Gender))
	}
	errors = check(errors, "QR payload: ", validateQRPayload(c.QRCodeData))

	return errors
}

// Prepare stamps the card for writing under uid.
func (c *CitizenCard) Prepare(uid string, now time.Time) {
	c.UID = uid
	c.CitizenID = strings.TrimSpace(c.CitizenID)
	c.FullName = strings.TrimSpace(c.FullName)
	if c.Gender == "" {
		c.Gender = DefaultGender
	}
	if c.Nationality == "" {
		c.Nationality = DefaultNationality
	}
	c.UpdatedAt = now
	c.LastUpdatedAt = now.Format(DateLayout)
}

func (c *CitizenCard) Summary() map[string]string {
	return map[string]string{
		"full_name":         c.FullName,
		"citizen_id":        c.CitizenID,
		"birthplace":        c.Birthplace,
		"permanent_address": c.PermanentAddress,
	}
}

// Changes returns the fields written by an upsert of c, keyed by stored name.
func (c *CitizenCard) Changes() map[string]any {
	return map[string]any{
		"citizen_id":               c.CitizenID,
		"full_name":                c.FullName,
		"date_of_birth":            c.DateOfBirth,
		"gender":                   c.Gender,
		"nationality":              c.Nationality,
		"birthplace":               c.Birthplace,
		"birth_registration_place": c.BirthRegistrationPlace,
		"hometown":                 c.Hometown,
		"permanent_address":        c.PermanentAddress,
		"permanent_address_2":      c.PermanentAddress2,
		"temporary_address":        c.TemporaryAddress,
		"current_address":          c.CurrentAddress,
		"ethnicity":                c.Ethnicity,
		"religion":                 c.Religion,
		"identifying_marks":        c.IdentifyingMarks,
		"blood_type":               c.BloodType,
		"profession":               c.Profession,
		"other_info":               c.OtherInfo,
		"issue_date":               c.IssueDate,
		"issue_place":              c.IssuePlace,
		"qr_code_data":             c.QRCodeData,
	}
}

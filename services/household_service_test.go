package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/vneid/admin-dashboard/audit"
	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/repositories"
)

type HouseholdServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	uid       string
	auditor   *audit.Logger
	repos     *repositories.Repositories
	users     UserService
	household HouseholdService
}

func (suite *HouseholdServiceTestSuite) SetupTest() {
	suite.ctx = adminContext()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := newTestStore(suite.T())
	suite.repos = repositories.NewRepositories(store, testCollections)
	suite.auditor = audit.NewLogger(store, audit.WithClock(clock), audit.WithLogger(zerolog.Nop()))
	suite.users = NewUserService(suite.repos, suite.auditor, WithClock(clock), WithLogger(zerolog.Nop()))
	suite.household = NewHouseholdService(suite.repos.Residences, suite.repos.Household, suite.auditor,
		WithClock(clock), WithLogger(zerolog.Nop()))

	form := fullForm("001234567890", "Nguyễn Văn An")
	form.Members = []models.HouseholdMember{{FullName: "Trần Thị Bình", RelationToHead: "Vợ/Chồng", IDNumber: "001234567891"}}
	uid, err := suite.users.CreateUser(suite.ctx, form)
	suite.Require().NoError(err)
	suite.uid = uid
}

func (suite *HouseholdServiceTestSuite) updates() []audit.Record {
	return suite.auditor.Query(context.Background(), audit.Filters{ActionKind: audit.ActionUpdate})
}

func (suite *HouseholdServiceTestSuite) TestList() {
	members, err := suite.household.List(suite.ctx, suite.uid)
	suite.Require().NoError(err)
	suite.Require().Len(members, 1)
	assert.NotEmpty(suite.T(), members[0].MemberID)
	assert.Equal(suite.T(), "Trần Thị Bình", members[0].FullName)
}

func (suite *HouseholdServiceTestSuite) TestRequiresResidence() {
	profileOnly, err := suite.users.CreateUser(suite.ctx, &models.CreateUserForm{Profile: profileForm("009876543210", "Lê Văn Bảo")})
	suite.Require().NoError(err)

	_, err = suite.household.List(suite.ctx, profileOnly)
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	_, err = suite.household.Add(suite.ctx, profileOnly, &models.HouseholdMember{FullName: "Lê Văn Cường", RelationToHead: "Con"})
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *HouseholdServiceTestSuite) TestAdd() {
	added, err := suite.household.Add(suite.ctx, suite.uid, &models.HouseholdMember{
		MemberID:       "client-chosen",
		FullName:       "Nguyễn Văn Cường",
		RelationToHead: "Con",
	})
	suite.Require().NoError(err)
	assert.NotEqual(suite.T(), "client-chosen", added.MemberID)

	got, err := suite.household.Get(suite.ctx, suite.uid, added.MemberID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Nguyễn Văn Cường", got.FullName)

	records := suite.updates()
	suite.Require().Len(records, 1)
	details := records[0].Details.(audit.UpdateDetails)
	assert.Equal(suite.T(), "household_members", details.UpdatedCollection)
	assert.Equal(suite.T(), "add", details.Changes["operation"])
}

func (suite *HouseholdServiceTestSuite) TestAdd_Validation() {
	_, err := suite.household.Add(suite.ctx, suite.uid, &models.HouseholdMember{FullName: "X", RelationToHead: "Friend"})

	var verrs models.ValidationErrors
	suite.Require().ErrorAs(err, &verrs)
	assert.Equal(suite.T(), "household_member", verrs[0].Field)
	assert.Empty(suite.T(), suite.updates())
}

func (suite *HouseholdServiceTestSuite) TestAdd_Duplicates() {
	_, err := suite.household.Add(suite.ctx, suite.uid, &models.HouseholdMember{
		FullName: "Someone Else", RelationToHead: "Con", IDNumber: "001234567891",
	})
	assert.ErrorIs(suite.T(), err, ErrConflict)

	_, err = suite.household.Add(suite.ctx, suite.uid, &models.HouseholdMember{
		FullName: "trần thị bình", RelationToHead: "Vợ/Chồng",
	})
	assert.ErrorIs(suite.T(), err, ErrConflict)
}

func (suite *HouseholdServiceTestSuite) TestUpdate() {
	members, _ := suite.household.List(suite.ctx, suite.uid)
	id := members[0].MemberID

	changed := members[0]
	changed.CitizenStatus = "Thường trú"
	updated, err := suite.household.Update(suite.ctx, suite.uid, id, &changed)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), id, updated.MemberID)

	details := suite.updates()[0].Details.(audit.UpdateDetails)
	assert.Equal(suite.T(), "update", details.Changes["operation"])
	assert.Equal(suite.T(), "Thường trú", details.Changes["citizen_status"])
	assert.NotContains(suite.T(), details.Changes, "full_name")

	_, err = suite.household.Update(suite.ctx, suite.uid, "missing", &changed)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *HouseholdServiceTestSuite) TestDelete() {
	members, _ := suite.household.List(suite.ctx, suite.uid)

	suite.Require().NoError(suite.household.Delete(suite.ctx, suite.uid, members[0].MemberID))

	remaining, err := suite.household.List(suite.ctx, suite.uid)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), remaining)
	assert.ErrorIs(suite.T(), suite.household.Delete(suite.ctx, suite.uid, members[0].MemberID), ErrNotFound)
}

func (suite *HouseholdServiceTestSuite) TestSync() {
	members, _ := suite.household.List(suite.ctx, suite.uid)
	kept := members[0]
	kept.FullName = "Trần Thị Bích"

	synced, err := suite.household.Sync(suite.ctx, suite.uid, []models.HouseholdMember{
		kept,
		{FullName: "Nguyễn Văn Dũng", RelationToHead: "Con"},
	})
	suite.Require().NoError(err)
	suite.Require().Len(synced, 2)
	assert.Equal(suite.T(), kept.MemberID, synced[0].MemberID)
	assert.NotEmpty(suite.T(), synced[1].MemberID)

	stored, _ := suite.household.List(suite.ctx, suite.uid)
	assert.Len(suite.T(), stored, 2)

	synced, err = suite.household.Sync(suite.ctx, suite.uid, nil)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), synced)

	stored, _ = suite.household.List(suite.ctx, suite.uid)
	assert.Empty(suite.T(), stored)

	records := suite.updates()
	suite.Require().Len(records, 2)
	removed := []any{}
	for _, rec := range records {
		details := rec.Details.(audit.UpdateDetails)
		assert.Equal(suite.T(), "sync", details.Changes["operation"])
		removed = append(removed, details.Changes["removed"])
	}
	assert.ElementsMatch(suite.T(), []any{float64(0), float64(2)}, removed)
}

func (suite *HouseholdServiceTestSuite) TestSync_ValidationNamesIndex() {
	_, err := suite.household.Sync(suite.ctx, suite.uid, []models.HouseholdMember{
		{FullName: "Nguyễn Văn Dũng", RelationToHead: "Con"},
		{FullName: "", RelationToHead: "Con"},
	})

	var verrs models.ValidationErrors
	suite.Require().ErrorAs(err, &verrs)
	assert.Equal(suite.T(), "household_members[1]", verrs[0].Field)

	stored, _ := suite.household.List(suite.ctx, suite.uid)
	assert.Len(suite.T(), stored, 1)
}

func TestHouseholdServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HouseholdServiceTestSuite))
}

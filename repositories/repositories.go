package repositories

import (
	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/docstore"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Users        UserRepository
	CitizenCards CitizenCardRepository
	Residences   ResidenceRepository
	Household    HouseholdRepository
}

// NewRepositories creates and initializes all repositories over one store
func NewRepositories(store docstore.Store, c config.Collections) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(store, c.Users),
		CitizenCards: NewCitizenCardRepository(store, c.CitizenCards),
		Residences:   NewResidenceRepository(store, c.Residence),
		Household:    NewHouseholdRepository(store, c.Residence, c.HouseholdMembers),
	}
}

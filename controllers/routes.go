package controllers

import "github.com/go-chi/chi/v5"

// APIRoutes registers the protected JSON API on r. Authentication is applied
// by the caller.
func (c *Controllers) APIRoutes(r chi.Router) {
	r.Get("/dashboard", c.Dashboard.Index)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", c.Users.List)
		r.Post("/", c.Users.Create)
		r.Post("/batch", c.Users.CreateBatch)
		r.Delete("/batch", c.Users.DeleteBatch)
		r.Get("/citizen-id/{citizenID}", c.Users.Search)
		r.Get("/citizen-id/{citizenID}/unique", c.Users.CitizenIDUnique)

		r.Route("/{uid}", func(r chi.Router) {
			r.Get("/", c.Users.Get)
			r.Put("/", c.Users.Update)
			r.Delete("/", c.Users.Delete)
			r.Get("/deletion-impact", c.Users.DeletionImpact)
			r.Put("/citizen-card", c.Users.UpdateCitizenCard)
			r.Put("/residence", c.Users.UpdateResidence)
			r.Put("/qr", c.Users.UpdateQR)
			r.Post("/soft-delete", c.Users.SoftDelete)
			r.Post("/restore", c.Users.Restore)

			r.Route("/household", func(r chi.Router) {
				r.Get("/", c.Household.List)
				r.Post("/", c.Household.Add)
				r.Put("/", c.Household.Sync)
				r.Get("/{memberID}", c.Household.Get)
				r.Put("/{memberID}", c.Household.Update)
				r.Delete("/{memberID}", c.Household.Delete)
			})
		})
	})

	r.Route("/audit", func(r chi.Router) {
		r.Get("/", c.Audit.List)
		r.Post("/purge", c.Audit.Purge)
	})
}

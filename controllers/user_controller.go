package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/services"
)

// UserController handles user management requests
type UserController struct {
	services *services.Services
}

func NewUserController(services *services.Services) *UserController {
	return &UserController{services: services}
}

// List handles GET /api/users
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseUserFilter(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := c.services.Users.ListUsers(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func parseUserFilter(r *http.Request) (models.UserFilter, error) {
	q := r.URL.Query()
	filter := models.UserFilter{
		Search:      q.Get("search"),
		SearchField: q.Get("search_field"),
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		return filter, errors.New("limit must be an integer")
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		return filter, errors.New("offset must be an integer")
	}
	if v := q.Get("include_deleted"); v != "" {
		if filter.IncludeDeleted, err = strconv.ParseBool(v); err != nil {
			return filter, errors.New("include_deleted must be a boolean")
		}
	}
	if v := q.Get("created_from"); v != "" {
		if filter.Created.Start, err = models.ParseDate(v); err != nil {
			return filter, errors.New("created_from must be in DD/MM/YYYY format")
		}
	}
	if v := q.Get("created_to"); v != "" {
		end, err := models.ParseDate(v)
		if err != nil {
			return filter, errors.New("created_to must be in DD/MM/YYYY format")
		}
		// Whole day inclusive
		filter.Created.End = end.AddDate(0, 0, 1).Add(-1)
	}
	return filter, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// Create handles POST /api/users
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.CreateUserForm
	if err := decodeJSON(r, &form); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	uid, err := c.services.Users.CreateUser(r.Context(), &form)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"uid": uid})
}

// CreateBatch handles POST /api/users/batch
func (c *UserController) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var forms []*models.CreateUserForm
	if err := decodeJSON(r, &forms); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(forms) == 0 {
		respondMessage(w, http.StatusBadRequest, "no users given")
		return
	}
	respondJSON(w, http.StatusOK, c.services.Users.CreateUsers(r.Context(), forms))
}

type batchDeleteRequest struct {
	UIDs []string `json:"uids"`
}

// DeleteBatch handles DELETE /api/users/batch
func (c *UserController) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.UIDs) == 0 {
		respondMessage(w, http.StatusBadRequest, "no uids given")
		return
	}
	respondJSON(w, http.StatusOK, c.services.Users.DeleteUsers(r.Context(), req.UIDs))
}

// CitizenIDUnique handles GET /api/users/citizen-id/{citizenID}/unique
func (c *UserController) CitizenIDUnique(w http.ResponseWriter, r *http.Request) {
	citizenID := chi.URLParam(r, "citizenID")
	unique, err := c.services.Users.IsCitizenIDUnique(r.Context(), citizenID, r.URL.Query().Get("exclude"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"citizen_id": citizenID, "unique": unique})
}

// Get handles GET /api/users/{uid}
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	c.respondDetail(w, r, http.StatusOK)
}

func (c *UserController) respondDetail(w http.ResponseWriter, r *http.Request, status int) {
	detail, err := c.services.Users.GetUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, status, detail)
}

// Update handles PUT /api/users/{uid}. Blank fields keep their stored value.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	var form models.UserProfileForm
	if err := decodeJSON(r, &form); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.services.Users.UpdateProfile(r.Context(), chi.URLParam(r, "uid"), &form); err != nil {
		respondError(w, r, err)
		return
	}
	c.respondDetail(w, r, http.StatusOK)
}

// UpdateCitizenCard handles PUT /api/users/{uid}/citizen-card
func (c *UserController) UpdateCitizenCard(w http.ResponseWriter, r *http.Request) {
	var card models.CitizenCard
	if err := decodeJSON(r, &card); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.services.Users.UpdateCitizenCard(r.Context(), chi.URLParam(r, "uid"), &card); err != nil {
		respondError(w, r, err)
		return
	}
	c.respondDetail(w, r, http.StatusOK)
}

// UpdateResidence handles PUT /api/users/{uid}/residence
func (c *UserController) UpdateResidence(w http.ResponseWriter, r *http.Request) {
	var residence models.Residence
	if err := decodeJSON(r, &residence); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.services.Users.UpdateResidence(r.Context(), chi.URLParam(r, "uid"), &residence); err != nil {
		respondError(w, r, err)
		return
	}
	c.respondDetail(w, r, http.StatusOK)
}

// UpdateQR handles PUT /api/users/{uid}/qr
func (c *UserController) UpdateQR(w http.ResponseWriter, r *http.Request) {
	var payloads map[string]string
	if err := decodeJSON(r, &payloads); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := c.services.Users.UpdateQRPayloads(r.Context(), chi.URLParam(r, "uid"), payloads)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// Delete handles DELETE /api/users/{uid}. The optional body is a
// DeleteConfirmation; without one the delete is unconfirmed.
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	var confirm *models.DeleteConfirmation
	var body models.DeleteConfirmation
	switch err := decodeJSON(r, &body); {
	case err == nil:
		confirm = &body
	case errors.Is(err, errEmptyBody):
	default:
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := c.services.Users.DeleteUser(r.Context(), chi.URLParam(r, "uid"), confirm)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// DeletionImpact handles GET /api/users/{uid}/deletion-impact
func (c *UserController) DeletionImpact(w http.ResponseWriter, r *http.Request) {
	impact, err := c.services.Users.DeletionImpact(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, impact)
}

// SoftDelete handles POST /api/users/{uid}/soft-delete
func (c *UserController) SoftDelete(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Users.SoftDeleteUser(r.Context(), chi.URLParam(r, "uid")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Restore handles POST /api/users/{uid}/restore
func (c *UserController) Restore(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Users.RestoreUser(r.Context(), chi.URLParam(r, "uid")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/users/citizen-id/{citizenID}
func (c *UserController) Search(w http.ResponseWriter, r *http.Request) {
	users, err := c.services.Users.SearchByCitizenID(r.Context(), strings.TrimSpace(chi.URLParam(r, "citizenID")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

package handlers

import (
	"net/http"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/models"
	"fleetmaster/internal/services"
)

type BranchHandler struct {
	crud crudHandler[models.CreateBranchRequest, models.UpdateBranchRequest, models.Branch, filters.BranchFilter]
}

func NewBranchHandler(svc services.CRUDService[models.CreateBranchRequest, models.UpdateBranchRequest, models.Branch, filters.BranchFilter]) *BranchHandler {
	h := &BranchHandler{}
	h.crud = crudHandler[models.CreateBranchRequest, models.UpdateBranchRequest, models.Branch, filters.BranchFilter]{
		resource:    "Branch",
		svc:         svc,
		parseFilter: parseBranchFilter,
		validator:   newValidator(),
	}
	return h
}

func parseBranchFilter(q queryValues) (filters.BranchFilter, error) {
	params, err := q.page()
	if err != nil {
		return filters.BranchFilter{}, err
	}
	return filters.BranchFilter{
		Params:   params,
		Name:     q.str("Name"),
		Location: q.str("Location"),
	}, nil
}

// ListBranches godoc
// @Summary      List branches
// @Tags         branches
// @Produce      json
// @Param        Name        query  string  false  "Name contains"
// @Param        Location    query  string  false  "Location contains"
// @Param        PageNumber  query  int     false  "Page number"
// @Param        PageSize    query  int     false  "Page size"
// @Success      200  {object}  models.PagedResponse[[]models.Branch]
// @Router       /api/branch [get]
func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) { h.crud.list(w, r) }

// GetBranch godoc
// @Summary      Get a branch
// @Tags         branches
// @Produce      json
// @Param        id   path      int  true  "Branch ID"
// @Success      200  {object}  models.Response[models.Branch]
// @Failure      404  {object}  models.Response[any]
// @Router       /api/branch/{id} [get]
func (h *BranchHandler) GetBranch(w http.ResponseWriter, r *http.Request) { h.crud.get(w, r) }

// CreateBranch godoc
// @Summary      Create a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        branch  body      models.CreateBranchRequest  true  "Branch"
// @Success      200     {object}  models.Response[models.Branch]
// @Failure      400     {object}  models.Response[any]
// @Security     BearerAuth
// @Router       /api/branch [post]
func (h *BranchHandler) CreateBranch(w http.ResponseWriter, r *http.Request) { h.crud.create(w, r) }

// UpdateBranch godoc
// @Summary      Update a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id      path      int                         true  "Branch ID"
// @Param        branch  body      models.UpdateBranchRequest  true  "Branch"
// @Success      200     {object}  models.Response[models.Branch]
// @Failure      404     {object}  models.Response[any]
// @Security     BearerAuth
// @Router       /api/branch/{id} [put]
func (h *BranchHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) { h.crud.update(w, r) }

// DeleteBranch godoc
// @Summary      Delete a branch
// @Tags         branches
// @Produce      json
// @Param        id   path      int  true  "Branch ID"
// @Success      200  {object}  models.Response[string]
// @Failure      409  {object}  models.Response[map[string]int64]
// @Security     BearerAuth
// @Router       /api/branch/{id} [delete]
func (h *BranchHandler) DeleteBranch(w http.ResponseWriter, r *http.Request) { h.crud.delete(w, r) }

package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"fleetmaster/internal/models"
	"fleetmaster/internal/pagination"
	"fleetmaster/internal/services"
)

// crudHandler serves the five CRUD endpoints of one resource. C and U are the
// request bodies, G the returned entity and F the list filter.
type crudHandler[C, U, G, F any] struct {
	resource    string
	svc         services.CRUDService[C, U, G, F]
	parseFilter func(queryValues) (F, error)
	validator   *validator.Validate
}

func (h *crudHandler[C, U, G, F]) list(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(parseQuery(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse(page))
}

func pagedResponse[T any](page pagination.Page[T]) models.PagedResponse[[]T] {
	return models.PagedResponse[[]T]{
		Response:     models.OK("", page.Items),
		TotalRecords: page.TotalRecords,
		TotalPages:   page.TotalPages,
		PageNumber:   page.PageNumber,
		PageSize:     page.PageSize,
	}
}

func (h *crudHandler[C, U, G, F]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, h.resource+" ID must be a positive integer")
		return
	}

	entity, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.resource+" found", entity)
}

func (h *crudHandler[C, U, G, F]) create(w http.ResponseWriter, r *http.Request) {
	var req C
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	entity, err := h.svc.Add(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.resource+" created successfully", entity)
}

func (h *crudHandler[C, U, G, F]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, h.resource+" ID must be a positive integer")
		return
	}
	var req U
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	entity, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.resource+" updated successfully", entity)
}

func (h *crudHandler[C, U, G, F]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, h.resource+" ID must be a positive integer")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.resource+" deleted successfully", "")
}

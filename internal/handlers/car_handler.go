package handlers

import (
	"context"
	"io"
	"net/http"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/models"
	"fleetmaster/internal/services"
)

const maxImageSize = 10 << 20

// CarService is the car CRUD surface plus photo upload.
type CarService interface {
	services.CRUDService[models.CreateCarRequest, models.UpdateCarRequest, models.Car, filters.CarFilter]
	SetImage(ctx context.Context, id int, contentType string, body io.Reader) (*models.Car, error)
}

type CarHandler struct {
	svc  CarService
	crud crudHandler[models.CreateCarRequest, models.UpdateCarRequest, models.Car, filters.CarFilter]
}

func NewCarHandler(svc CarService) *CarHandler {
	h := &CarHandler{svc: svc}
	h.crud = crudHandler[models.CreateCarRequest, models.UpdateCarRequest, models.Car, filters.CarFilter]{
		resource:    "Car",
		svc:         svc,
		parseFilter: parseCarFilter,
		validator:   newValidator(),
	}
	return h
}

func parseCarFilter(q queryValues) (filters.CarFilter, error) {
	params, err := q.page()
	if err != nil {
		return filters.CarFilter{}, err
	}
	yearFrom, err := q.intPtr("YearFrom")
	if err != nil {
		return filters.CarFilter{}, err
	}
	yearTo, err := q.intPtr("YearTo")
	if err != nil {
		return filters.CarFilter{}, err
	}
	return filters.CarFilter{
		Params:       params,
		Model:        q.str("Model"),
		Manufacturer: q.str("Manufacturer"),
		YearFrom:     yearFrom,
		YearTo:       yearTo,
	}, nil
}

// ListCars godoc
// @Summary      List cars
// @Tags         cars
// @Produce      json
// @Param        Model         query  string  false  "Model contains"
// @Param        Manufacturer  query  string  false  "Manufacturer contains"
// @Param        YearFrom      query  int     false  "Earliest year"
// @Param        YearTo        query  int     false  "Latest year"
// @Param        PageNumber    query  int     false  "Page number"
// @Param        PageSize      query  int     false  "Page size"
// @Success      200  {object}  models.PagedResponse[[]models.Car]
// @Router       /api/car [get]
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) { h.crud.list(w, r) }

// GetCar godoc
// @Summary      Get a car
// @Tags         cars
// @Produce      json
// @Param        id   path      int  true  "Car ID"
// @Success      200  {object}  models.Response[models.Car]
// @Failure      404  {object}  models.Response[any]
// @Router       /api/car/{id} [get]
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) { h.crud.get(w, r) }

// CreateCar godoc
// @Summary      Create a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Param        car  body      models.CreateCarRequest  true  "Car"
// @Success      200  {object}  models.Response[models.Car]
// @Failure      400  {object}  models.Response[any]
// @Security     BearerAuth
// @Router       /api/car [post]
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) { h.crud.create(w, r) }

// UpdateCar godoc
// @Summary      Update a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Param        id   path      int                      true  "Car ID"
// @Param        car  body      models.UpdateCarRequest  true  "Car"
// @Success      200  {object}  models.Response[models.Car]
// @Security     BearerAuth
// @Router       /api/car/{id} [put]
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) { h.crud.update(w, r) }

// DeleteCar godoc
// @Summary      Delete a car
// @Tags         cars
// @Produce      json
// @Param        id   path      int  true  "Car ID"
// @Success      200  {object}  models.Response[string]
// @Failure      409  {object}  models.Response[map[string]int64]
// @Security     BearerAuth
// @Router       /api/car/{id} [delete]
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) { h.crud.delete(w, r) }

// UploadCarImage godoc
// @Summary      Upload a car photo
// @Tags         cars
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Car ID"
// @Param        file  formData  file  true  "JPEG, PNG or WebP image"
// @Success      200   {object}  models.Response[models.Car]
// @Failure      400   {object}  models.Response[any]
// @Security     BearerAuth
// @Router       /api/car/{id}/image [post]
func (h *CarHandler) UploadCarImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Car ID must be a positive integer")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		buf := make([]byte, 512)
		n, _ := io.ReadFull(file, buf)
		contentType = http.DetectContentType(buf[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid file")
			return
		}
	}

	car, err := h.svc.SetImage(r.Context(), id, contentType, file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Car image uploaded successfully", car)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storehouse/access-api/internal/core/domain"
	"github.com/storehouse/access-api/internal/core/ports"
)

// RecordHandler serves the versioned CRUD routes over the generic keyed-record
// store. Both /api/v1 and /api/v2 share these handlers; the tiers differ only
// in the middleware bound to the route group.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// recordView flattens a record into the wire shape: the stored fields plus id.
func recordView(r *domain.Record) map[string]any {
	view := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		view[k] = v
	}
	view["id"] = r.ID
	return view
}

// Create handles POST /api/{v1,v2}/:collection.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        collection  path      string          true  "Resource collection (food or clothes)"
// @Param        body        body      map[string]any  true  "Resource fields"
// @Success      201         {object}  map[string]any
// @Failure      400         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/v1/{collection} [post]
func (h *RecordHandler) Create(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	record, err := h.service.Create(c.Request().Context(), c.Param("collection"), fields)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, recordView(record))
}

// List handles GET /api/{v1,v2}/:collection.
//
// @Summary      List all records in a collection
// @Tags         records
// @Produce      json
// @Param        collection  path      string  true  "Resource collection (food or clothes)"
// @Success      200         {array}   map[string]any
// @Failure      404         {object}  errorResponse
// @Router       /api/v1/{collection} [get]
func (h *RecordHandler) List(c echo.Context) error {
	records, err := h.service.List(c.Request().Context(), c.Param("collection"))
	if err != nil {
		return err
	}

	views := make([]map[string]any, 0, len(records))
	for _, r := range records {
		views = append(views, recordView(r))
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /api/{v1,v2}/:collection/:id.
//
// @Summary      Get a record by id
// @Tags         records
// @Produce      json
// @Param        collection  path      string  true  "Resource collection (food or clothes)"
// @Param        id          path      string  true  "Record id"
// @Success      200         {object}  map[string]any
// @Failure      404         {object}  errorResponse
// @Router       /api/v1/{collection}/{id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	record, err := h.service.Get(c.Request().Context(), c.Param("collection"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordView(record))
}

// Update handles PUT /api/{v1,v2}/:collection/:id.
//
// @Summary      Replace a record's fields
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        collection  path      string          true  "Resource collection (food or clothes)"
// @Param        id          path      string          true  "Record id"
// @Param        body        body      map[string]any  true  "Replacement fields"
// @Success      200         {object}  map[string]any
// @Failure      400         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/v1/{collection}/{id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	record, err := h.service.Update(c.Request().Context(), c.Param("collection"), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordView(record))
}

// Delete handles DELETE /api/{v1,v2}/:collection/:id. The response body is the
// bare count of deleted records.
//
// @Summary      Delete a record by id
// @Tags         records
// @Produce      json
// @Param        collection  path      string  true  "Resource collection (food or clothes)"
// @Param        id          path      string  true  "Record id"
// @Success      200         {integer}  int
// @Failure      404         {object}  errorResponse
// @Router       /api/v1/{collection}/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	deleted, err := h.service.Delete(c.Request().Context(), c.Param("collection"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleted)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/api/middleware"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
)

// ItemHandler handles HTTP requests for checklist items. The owner of every
// operation is the user bound by the session middleware.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List handles GET /items.
//
// @Summary      List the caller's checklist items
// @Tags         items
// @Produce      json
// @Success      200  {array}   domain.Item
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /items [get]
func (h *ItemHandler) List(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.ErrMissingToken
	}

	items, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /items.
//
// @Summary      Create a checklist item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body      createItemRequest  true  "Item name"
// @Success      200   {object}  domain.Item
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.ErrMissingToken
	}

	var req createItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), userID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Update handles PUT /items/:id.
//
// @Summary      Update a checklist item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Item id"
// @Param        body  body      updateItemRequest  true  "Fields to change"
// @Success      200   {object}  domain.Item
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.ErrMissingToken
	}

	var req updateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.Update(c.Request().Context(), ports.UpdateItemInput{
		UserID: userID,
		ItemID: c.Param("id"),
		Patch:  req.toPatch(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /items/:id.
//
// @Summary      Delete a checklist item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.ErrMissingToken
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Item deleted"})
}

package records

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	msgRoot    = "Patient Management System API"
	msgAbout   = "A fully functional API to manage your patients records."
	msgCreated = "Patient created successfully!"
	msgUpdated = "Patient details updated successfully!"
	msgDeleted = "Patient deleted successfully!"
)

// Handler provides the Echo HTTP handlers for patient records.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the record routes on the supplied Echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.handleRoot)
	e.GET("/about", h.handleAbout)
	e.GET("/view", h.handleView)
	e.GET("/patients/:id", h.handleGet)
	e.GET("/sort", h.handleSort)
	e.POST("/create", h.handleCreate)
	e.PUT("/edit/:id", h.handleUpdate)
	e.DELETE("/delete/:id", h.handleDelete)
}

func (h *Handler) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": msgRoot})
}

func (h *Handler) handleAbout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": msgAbout})
}

func (h *Handler) handleView(c echo.Context) error {
	snap, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) handleGet(c echo.Context) error {
	rec, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) handleSort(c echo.Context) error {
	recs, err := h.svc.Sorted(c.Request().Context(), c.QueryParam("sort_by"), c.QueryParam("order"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *Handler) handleCreate(c echo.Context) error {
	var req Record
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if _, err := h.svc.Create(c.Request().Context(), req.ID, req.Fields); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": msgCreated})
}

func (h *Handler) handleUpdate(c echo.Context) error {
	var p Patch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if _, err := h.svc.Update(c.Request().Context(), c.Param("id"), p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msgUpdated})
}

func (h *Handler) handleDelete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msgDeleted})
}

// writeError maps domain errors onto HTTP error responses.
func writeError(c echo.Context, err error) error {
	var fieldErr *InvalidFieldError
	switch {
	case errors.As(err, &fieldErr):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": fieldErr.Error()})
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrInvalidSortField),
		errors.Is(err, ErrInvalidSortOrder):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

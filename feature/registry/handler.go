package registry

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/danass/leha/core/logger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Handler handles HTTP requests for the registry.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the registry routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/fiches")
	group.Get("/", h.HandleListFiches)
	group.Get("/:numero", h.HandleGetFiche)
}

// HandleGetFiche returns one certification record with its certificateurs,
// partenaires and competence blocks.
func (h *Handler) HandleGetFiche(c *fiber.Ctx) error {
	numero := c.Params("numero")
	l := logger.WithRayID(h.service.logger, c)

	fiche, err := h.service.GetFiche(c.Context(), numero)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "fiche not found",
			})
		}
		l.Error("Fiche lookup failed", zap.String("numero", numero), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiche)
}

// HandleListFiches returns a page of certification records. Supports the
// limit, offset and actif query parameters.
func (h *Handler) HandleListFiches(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	fiches, total, err := h.service.ListFiches(c.Context(), c.Query("actif"), limit, offset)
	if err != nil {
		l.Error("Fiche listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"fiches": fiches,
	})
}

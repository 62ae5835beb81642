// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	limit   int
	logger  *logrus.Logger
}

func NewCatalogHandler(catalog *services.CatalogService, pageSize int, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		limit:   pageSize,
		logger:  logger,
	}
}

// GET /home
func (h *CatalogHandler) Home(c *gin.Context) {
	cards, err := h.catalog.Featured(c.Request.Context(), utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"featured": cards})
}

// GET /catalog?marca=&categoria=&genero=&page=
// The client echoes the filters it last rendered as prev_*; when they differ
// from the current filters the listing starts again at page 1.
func (h *CatalogHandler) Catalog(c *gin.Context) {
	var filter, previous services.CatalogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	previous.BrandID = queryInt64(c, "prev_marca", filter.BrandID)
	previous.CategoryID = queryInt64(c, "prev_categoria", filter.CategoryID)
	previous.GenderID = queryInt64(c, "prev_genero", filter.GenderID)

	page := utils.GetPaginationParams(c, h.limit).Page
	if previous != filter {
		page = 1
	}

	view, err := h.catalog.Browse(c.Request.Context(), filter, page, utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.PaginatedResponse(c, view.Page, gin.H{
		"filter":     view.Filter,
		"brands":     view.Brands,
		"categories": view.Categories,
		"genders":    view.Genders,
	})
}

// GET /catalog/search?q=
func (h *CatalogHandler) Search(c *gin.Context) {
	cards, err := h.catalog.Search(c.Request.Context(), c.Query("q"), utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, cards)
}

// internal/handlers/admin.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

type AdminHandler struct {
	admin   *services.AdminService
	storage *services.StorageService
	logger  *logrus.Logger
}

func NewAdminHandler(admin *services.AdminService, storage *services.StorageService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		admin:   admin,
		storage: storage,
		logger:  logger,
	}
}

// GET /admin/products
func (h *AdminHandler) GetProducts(c *gin.Context) {
	view, err := h.admin.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var form services.ProductForm
	if !bindJSON(c, &form) {
		return
	}

	product, err := h.admin.CreateProduct(c.Request.Context(), &form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var form services.ProductForm
	if !bindJSON(c, &form) {
		return
	}

	product, err := h.admin.UpdateProduct(c.Request.Context(), id, &form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /admin/products/:id?confirm=true
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.admin.DeleteProduct(c.Request.Context(), id, confirmed(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyProductDeleted),
	})
}

// POST /admin/products/images
// Returns the URL to put in the product's imagenUrl.
func (h *AdminHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	header, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "image"), nil)
		return
	}

	options := h.storage.GetDefaultUploadOptions("products")
	if header.Size > options.MaxSize {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	result, err := h.storage.UploadImage(c.Request.Context(), header.Filename, file, options)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"image":   result,
	})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	view, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// POST /admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var form services.UserForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := h.admin.CreateUser(c.Request.Context(), &form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyUserCreated),
		"user":    user,
	})
}

// PUT /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var form services.UserForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := h.admin.UpdateUser(c.Request.Context(), id, &form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyUserUpdated),
		"user":    user,
	})
}

// DELETE /admin/users/:id?confirm=true
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), id, confirmed(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyUserDeleted),
	})
}

func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

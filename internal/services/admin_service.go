// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

const defaultVolumeML = 100

type AdminService struct {
	client *backend.Client
	logger *logrus.Logger
}

type ProductForm struct {
	Name          string `json:"nombreProducto" validate:"required,max=200"`
	Description   string `json:"descripcion" validate:"max=2000"`
	Price         int64  `json:"precio" validate:"min=0"`
	Stock         int    `json:"stock" validate:"min=0"`
	VolumeML      int    `json:"volumenML" validate:"min=0"`
	ImageURL      string `json:"imagenUrl" validate:"omitempty,url"`
	BrandID       int64  `json:"idMarca" validate:"required"`
	CategoryID    int64  `json:"idCategoria" validate:"required"`
	ProductTypeID int64  `json:"idTipoProducto" validate:"required"`
	GenderID      int64  `json:"idGenero" validate:"required"`
}

type ProductAdminView struct {
	Products     []models.Product     `json:"products"`
	Brands       []models.Brand       `json:"brands"`
	Categories   []models.Category    `json:"categories"`
	ProductTypes []models.ProductType `json:"product_types"`
	Genders      []models.Gender      `json:"genders"`
	Defaults     ProductForm          `json:"defaults"`
}

type UserForm struct {
	FirstName string  `json:"nombre" validate:"required,max=100"`
	LastName  string  `json:"apellido" validate:"required,max=100"`
	Email     string  `json:"correo" validate:"required,email"`
	Password  string  `json:"contrasena"`
	Active    *bool   `json:"activo"`
	RoleIDs   []int64 `json:"roles"`
}

type UserAdminView struct {
	Users []models.User `json:"users"`
	Roles []models.Role `json:"roles"`
}

func NewAdminService(client *backend.Client, logger *logrus.Logger) *AdminService {
	return &AdminService{
		client: client,
		logger: logger,
	}
}

// ListProducts loads products together with every lookup the form needs.
func (s *AdminService) ListProducts(ctx context.Context) (*ProductAdminView, error) {
	view := &ProductAdminView{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Products, err = s.client.ListProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		view.Brands, err = s.client.ListBrands(gctx)
		return err
	})
	g.Go(func() (err error) {
		view.Categories, err = s.client.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		view.ProductTypes, err = s.client.ListProductTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		view.Genders, err = s.client.ListGenders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	view.Products = emptyIfNil(view.Products)
	view.Brands = emptyIfNil(view.Brands)
	view.Categories = emptyIfNil(view.Categories)
	view.ProductTypes = emptyIfNil(view.ProductTypes)
	view.Genders = emptyIfNil(view.Genders)
	view.Defaults = defaultProductForm(view)

	return view, nil
}

// defaultProductForm preselects the first entry of each lookup.
func defaultProductForm(view *ProductAdminView) ProductForm {
	form := ProductForm{VolumeML: defaultVolumeML}
	if len(view.Brands) > 0 {
		form.BrandID = view.Brands[0].ID
	}
	if len(view.Categories) > 0 {
		form.CategoryID = view.Categories[0].ID
	}
	if len(view.ProductTypes) > 0 {
		form.ProductTypeID = view.ProductTypes[0].ID
	}
	if len(view.Genders) > 0 {
		form.GenderID = view.Genders[0].ID
	}
	return form
}

func (s *AdminService) CreateProduct(ctx context.Context, form *ProductForm) (*models.Product, error) {
	if err := utils.ValidateStruct(form); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	product, err := s.client.CreateProduct(ctx, productPayload(form))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id int64, form *ProductForm) (*models.Product, error) {
	if err := utils.ValidateStruct(form); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	product, err := s.client.UpdateProduct(ctx, id, productPayload(form))
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct needs confirm; without it nothing is sent.
func (s *AdminService) DeleteProduct(ctx context.Context, id int64, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	if err := s.client.DeleteProduct(ctx, id); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("Product delete rejected")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

func productPayload(form *ProductForm) *models.ProductPayload {
	return &models.ProductPayload{
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		Stock:       form.Stock,
		VolumeML:    form.VolumeML,
		ImageURL:    form.ImageURL,
		Active:      true,
		Brand:       models.BrandRef{ID: form.BrandID},
		Category:    models.CategoryRef{ID: form.CategoryID},
		Type:        models.ProductTypeRef{ID: form.ProductTypeID},
		Gender:      models.GenderRef{ID: form.GenderID},
	}
}

func (s *AdminService) ListUsers(ctx context.Context) (*UserAdminView, error) {
	view := &UserAdminView{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Users, err = s.client.ListUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		view.Roles, err = s.client.ListRoles(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	view.Users = emptyIfNil(view.Users)
	view.Roles = emptyIfNil(view.Roles)
	for i := range view.Users {
		view.Users[i].Password = ""
	}
	return view, nil
}

// CreateUser requires a password; the check happens before any call.
func (s *AdminService) CreateUser(ctx context.Context, form *UserForm) (*models.User, error) {
	if err := utils.ValidateStruct(form); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if form.Password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.client.CreateUser(ctx, userPayload(form, form.Password))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Password = ""
	return user, nil
}

// UpdateUser keeps the stored password when the form leaves it blank.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, form *UserForm) (*models.User, error) {
	if err := utils.ValidateStruct(form); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	password := form.Password
	if password == "" {
		users, err := s.client.ListUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		for _, u := range users {
			if u.ID == id {
				password = u.Password
				break
			}
		}
	}

	user, err := s.client.UpdateUser(ctx, id, userPayload(form, password))
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.Password = ""
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	if err := s.client.DeleteUser(ctx, id); err != nil {
		s.logger.WithError(err).WithField("user_id", id).Warn("User delete rejected")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

func userPayload(form *UserForm, password string) *models.UserPayload {
	active := true
	if form.Active != nil {
		active = *form.Active
	}

	roles := make([]models.RoleRef, 0, len(form.RoleIDs))
	for _, id := range form.RoleIDs {
		roles = append(roles, models.RoleRef{ID: id})
	}

	return &models.UserPayload{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Active:    active,
		Password:  password,
		Roles:     roles,
	}
}

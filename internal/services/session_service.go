// internal/services/session_service.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/storage"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

// Session is the rehydrated identity of one visitor.
// Authorization decisions must wait until Loading is false.
type Session struct {
	VisitorID string       `json:"-"`
	Token     string       `json:"-"`
	User      *models.User `json:"user,omitempty"`
	IsAdmin   bool         `json:"is_admin"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Loading   bool         `json:"loading"`
}

func NewSession(visitorID string) *Session {
	return &Session{VisitorID: visitorID, Loading: true}
}

func (s *Session) Authenticated() bool {
	return s != nil && !s.Loading && s.Token != "" && s.User != nil
}

type SessionService struct {
	client *backend.Client
	store  storage.Store
	cfg    *config.Config
	logger *logrus.Logger
	now    func() time.Time
}

type LoginRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required"`
}

type RegisterRequest struct {
	RUT       string `json:"rut" validate:"required,rut"`
	FirstName string `json:"primerNombre" validate:"required,max=100"`
	LastName  string `json:"primerApellido" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	BirthDate string `json:"fechaNacimiento"`
	Phone     string `json:"telefono"`
	Address   string `json:"direccion"`
	Commune   string `json:"comuna"`
	Region    string `json:"region"`
}

func NewSessionService(client *backend.Client, store storage.Store, cfg *config.Config, logger *logrus.Logger) *SessionService {
	return &SessionService{
		client: client,
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Restore reads the persisted token and user of a visitor.
// A token whose exp claim is in the past is discarded.
func (s *SessionService) Restore(ctx context.Context, visitorID string) (*Session, error) {
	session := NewSession(visitorID)
	defer func() { session.Loading = false }()

	token, found, err := s.store.Get(ctx, visitorID, storage.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if !found || token == "" {
		return session, nil
	}

	var user models.User
	found, err = storage.GetJSON(ctx, s.store, visitorID, storage.KeyUser, &user)
	if err != nil || !found {
		if err != nil {
			s.logger.WithError(err).WithField("visitor_id", visitorID).Warn("Discarding unreadable persisted user")
		}
		return session, s.clear(ctx, visitorID)
	}

	claims, err := utils.DecodeTokenClaims(token)
	if err == nil && claims.Expired(s.now()) {
		s.logger.WithField("visitor_id", visitorID).Info("Persisted token expired, restoring as anonymous")
		return session, s.clear(ctx, visitorID)
	}

	session.Token = token
	session.User = &user
	if claims != nil {
		session.ExpiresAt = claims.ExpiresAt
	}
	session.IsAdmin = s.isAdmin(&user, claims)

	return session, nil
}

func (s *SessionService) Login(ctx context.Context, visitorID string, req *LoginRequest) (*Session, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	resp, err := s.client.Login(ctx, &models.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		status := backend.StatusOf(err)
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if !resp.Authenticated || resp.Token == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, &backend.APIError{
			Method:  http.MethodPost,
			Path:    "/auth/login",
			Status:  http.StatusUnauthorized,
			Message: resp.Message,
		})
	}

	// The login answer carries no user id, so look the user up with the new token.
	users, err := s.client.ListUsers(backend.WithToken(ctx, resp.Token))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
	}

	var user *models.User
	for i := range users {
		if strings.EqualFold(users[i].Email, req.Email) {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return nil, ErrUserLookupFailed
	}
	user.Password = ""

	if err := s.store.Set(ctx, visitorID, storage.KeyToken, resp.Token); err != nil {
		return nil, err
	}
	if err := storage.SetJSON(ctx, s.store, visitorID, storage.KeyUser, user); err != nil {
		return nil, err
	}
	// A different account may have logged in on this browser.
	if err := s.store.Remove(ctx, visitorID, storage.KeyCustomerID, storage.KeyBoundCart, storage.KeyCheckoutSaga); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"visitor_id": visitorID,
		"user_id":    user.ID,
	}).Info("User logged in")

	return s.Restore(ctx, visitorID)
}

// Logout forgets the session locally. The backend is not told.
func (s *SessionService) Logout(ctx context.Context, visitorID string) error {
	return s.clear(ctx, visitorID)
}

// Register creates a customer together with its user account.
func (s *SessionService) Register(ctx context.Context, req *RegisterRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	customer, err := s.client.CreateCustomer(ctx, &models.CustomerPayload{
		RUT:       strings.TrimSpace(req.RUT),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Phone:     req.Phone,
		Address:   req.Address,
		Commune:   req.Commune,
		Region:    req.Region,
		User: models.UserPayload{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Active:    true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	return customer, nil
}

// ResolveCustomer finds the customer profile of the session user and caches its id.
func (s *SessionService) ResolveCustomer(ctx context.Context, session *Session) (int64, error) {
	if !session.Authenticated() {
		return 0, ErrNotAuthenticated
	}

	if id, ok, err := s.CachedCustomerID(ctx, session); err != nil || ok {
		return id, err
	}

	customers, err := s.client.ListCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve customer: %w", err)
	}

	for _, customer := range customers {
		if customer.User != nil && customer.User.ID == session.User.ID {
			if err := s.store.Set(ctx, session.VisitorID, storage.KeyCustomerID, strconv.FormatInt(customer.ID, 10)); err != nil {
				return 0, err
			}
			return customer.ID, nil
		}
	}

	return 0, ErrNoCustomerProfile
}

// CachedCustomerID reads the customer id resolved earlier, without network calls.
func (s *SessionService) CachedCustomerID(ctx context.Context, session *Session) (int64, bool, error) {
	if !session.Authenticated() {
		return 0, false, nil
	}

	raw, found, err := s.store.Get(ctx, session.VisitorID, storage.KeyCustomerID)
	if err != nil || !found {
		return 0, false, err
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, nil
	}
	return id, true, nil
}

func (s *SessionService) isAdmin(user *models.User, claims *utils.TokenClaims) bool {
	if user != nil && user.HasRole(s.cfg.Auth.AdminRoles...) {
		return true
	}
	return claims != nil && claims.HasRole(s.cfg.Auth.AdminRoles...)
}

func (s *SessionService) clear(ctx context.Context, visitorID string) error {
	err := s.store.Remove(ctx, visitorID,
		storage.KeyToken,
		storage.KeyUser,
		storage.KeyCustomerID,
		storage.KeyBoundCart,
		storage.KeyCheckoutSaga,
	)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

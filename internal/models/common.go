// internal/models/common.go
package models

import (
	"time"
)

// Base model for rows owned by this service (never for backend entities)
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Nested references. The backend expects relations as objects carrying only the id.
type IDRef struct {
	ID int64 `json:"id"`
}

type ProductRef struct {
	ID   int64  `json:"idProducto"`
	Name string `json:"nombreProducto,omitempty"`
}

type BrandRef struct {
	ID int64 `json:"idMarca"`
}

type CategoryRef struct {
	ID int64 `json:"idCategoria"`
}

type ProductTypeRef struct {
	ID int64 `json:"idTipoProducto"`
}

type GenderRef struct {
	ID int64 `json:"idGenero"`
}

type RoleRef struct {
	ID int64 `json:"idRol"`
}

// Enums
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDIENTE"
	OrderStatusPaid      OrderStatus = "PAGADO"
	OrderStatusShipped   OrderStatus = "ENVIADO"
	OrderStatusDelivered OrderStatus = "ENTREGADO"
	OrderStatusCancelled OrderStatus = "CANCELADO"
)

type CartMode string

const (
	CartModeGuest     CartMode = "guest"
	CartModeBound     CartMode = "bound"
	CartModeNoProfile CartMode = "no_profile"
)

type SagaStatus string

const (
	SagaStatusPending      SagaStatus = "PENDING"
	SagaStatusHeaderPosted SagaStatus = "HEADER_POSTED"
	SagaStatusPartial      SagaStatus = "PARTIAL"
	SagaStatusCompleted    SagaStatus = "COMPLETED"
)

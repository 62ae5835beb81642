// internal/models/catalog.go
package models

type Brand struct {
	ID          int64  `json:"idMarca"`
	Name        string `json:"nombreMarca"`
	Description string `json:"descripcion,omitempty"`
	Country     string `json:"paisOrigen,omitempty"`
}

type Category struct {
	ID          int64  `json:"idCategoria"`
	Name        string `json:"nombreCategoria"`
	Description string `json:"descripcion,omitempty"`
}

type ProductType struct {
	ID          int64  `json:"idTipoProducto"`
	Name        string `json:"nombreTipo"`
	Description string `json:"descripcion,omitempty"`
}

type Gender struct {
	ID   int64  `json:"idGenero"`
	Name string `json:"nombreGenero"`
}

// Product mirrors the backend product entity. Price is in whole CLP.
type Product struct {
	ID              int64       `json:"idProducto"`
	Name            string      `json:"nombreProducto"`
	Description     string      `json:"descripcion"`
	Price           int64       `json:"precio"`
	VolumeML        int         `json:"volumenML"`
	Stock           int         `json:"stock"`
	ImageURL        string      `json:"imagenUrl,omitempty"`
	Active          bool        `json:"activo"`
	Brand           Brand       `json:"marca"`
	Category        Category    `json:"categoria"`
	Type            ProductType `json:"tipoProducto"`
	Gender          Gender      `json:"genero"`
	Aroma           string      `json:"aroma,omitempty"`
	OlfactoryFamily string      `json:"familiaOlfativa,omitempty"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// ProductPayload is the create/update body for /productos.
type ProductPayload struct {
	Name        string         `json:"nombreProducto"`
	Description string         `json:"descripcion"`
	Price       int64          `json:"precio"`
	Stock       int            `json:"stock"`
	VolumeML    int            `json:"volumenML"`
	ImageURL    string         `json:"imagenUrl"`
	Active      bool           `json:"activo"`
	Brand       BrandRef       `json:"marca"`
	Category    CategoryRef    `json:"categoria"`
	Type        ProductTypeRef `json:"tipoProducto"`
	Gender      GenderRef      `json:"genero"`
}

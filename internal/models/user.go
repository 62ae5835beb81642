// internal/models/user.go
package models

import "strings"

type Role struct {
	ID          int64  `json:"idRol"`
	Name        string `json:"nombreRol"`
	Description string `json:"descripcionRol,omitempty"`
}

type User struct {
	ID        int64  `json:"idUsuario"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"correo"`
	Active    bool   `json:"activo"`
	Password  string `json:"contrasena,omitempty"`
	Roles     []Role `json:"roles"`
}

func (u *User) HasRole(names ...string) bool {
	for _, role := range u.Roles {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(role.Name), strings.TrimSpace(name)) {
				return true
			}
		}
	}
	return false
}

// UserPayload is the create/update body for /usuarios.
type UserPayload struct {
	FirstName string    `json:"nombre"`
	LastName  string    `json:"apellido"`
	Email     string    `json:"correo"`
	Active    bool      `json:"activo"`
	Password  string    `json:"contrasena,omitempty"`
	Roles     []RoleRef `json:"roles,omitempty"`
}

// Customer is the purchasing profile linked one-to-one to a User.
type Customer struct {
	ID        int64  `json:"id"`
	RUT       string `json:"rut"`
	FirstName string `json:"primerNombre"`
	LastName  string `json:"primerApellido"`
	BirthDate string `json:"fechaNacimiento,omitempty"`
	Phone     string `json:"telefono,omitempty"`
	Address   string `json:"direccion,omitempty"`
	Commune   string `json:"comuna,omitempty"`
	Region    string `json:"region,omitempty"`
	User      *User  `json:"usuario,omitempty"`
}

// CustomerPayload is the public registration body for /clientes.
type CustomerPayload struct {
	RUT       string      `json:"rut"`
	FirstName string      `json:"primerNombre"`
	LastName  string      `json:"primerApellido"`
	BirthDate string      `json:"fechaNacimiento"`
	Phone     string      `json:"telefono"`
	Address   string      `json:"direccion"`
	Commune   string      `json:"comuna"`
	Region    string      `json:"region"`
	User      UserPayload `json:"usuario"`
}

type LoginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

type LoginResponse struct {
	Message       string `json:"mensaje"`
	Username      string `json:"nombreUsuario"`
	Authenticated bool   `json:"autenticado"`
	Token         string `json:"token"`
}

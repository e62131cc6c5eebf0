package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles de usuario.
const (
	RolCajero        = "cajero"
	RolAdministrador = "administrador"
)

type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null;default:'cajero'"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }

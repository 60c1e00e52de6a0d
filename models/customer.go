package models

import "time"

// Customer is a buyer record inside one tenant database. Names arrive in
// three raw parts and are normalized later in the pipeline; this model stays
// faithful to the source columns.
type Customer struct {
	ID           int       `gorm:"primary_key;column:id" json:"id"`
	FirstName    string    `gorm:"column:nombre;size:100" json:"nombre"`
	PaternalName string    `gorm:"column:apellido_paterno;size:100" json:"apellido_paterno"`
	MaternalName string    `gorm:"column:apellido_materno;size:100" json:"apellido_materno"`
	Email        string    `gorm:"column:correo;size:100" json:"correo"`
	Phone        string    `gorm:"column:telefono;size:30" json:"telefono"`
	CreatedAt    time.Time `gorm:"column:fecha_registro;autoCreateTime" json:"fecha_registro"`
}

func (Customer) TableName() string { return "clientes" }

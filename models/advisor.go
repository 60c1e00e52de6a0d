package models

// Advisor is a sales user inside one tenant database. Display names carry
// branch/role qualifiers ("Cancun", "Interno", ...) that the normalizer
// strips before the advisor-team dimension lookup.
type Advisor struct {
	ID           int    `gorm:"primary_key;column:id" json:"id"`
	FirstName    string `gorm:"column:nombre;size:100" json:"nombre"`
	PaternalName string `gorm:"column:apellido_paterno;size:100" json:"apellido_paterno"`
	MaternalName string `gorm:"column:apellido_materno;size:100" json:"apellido_materno"`
	Branch       string `gorm:"column:sucursal;size:100" json:"sucursal"`
	Role         string `gorm:"column:puesto;size:100" json:"puesto"`
	IsActive     *bool  `gorm:"column:activo;not null;default:true" json:"activo"`
}

func (Advisor) TableName() string { return "usuarios" }

package models

// Dimension lookup tables. These live in the shared lookup database, not in
// any tenant database; the pipeline reads them once per run and never writes
// them.

// BrandDimension maps a raw development name to its canonical marketing
// brand and display development name. Matching is exact, case- and
// accent-sensitive.
type BrandDimension struct {
	ID              int    `gorm:"primary_key;column:id" json:"id"`
	DevelopmentName string `gorm:"column:desarrollo;size:150;not null" json:"desarrollo"`
	Brand           string `gorm:"column:marca;size:100" json:"marca"`
	DisplayName     string `gorm:"column:nombre_comercial;size:150" json:"nombre_comercial"`
}

func (BrandDimension) TableName() string { return "dim_marcas" }

// AdvisorTeamDimension maps a cleaned advisor display name to branch, team
// and advisor type.
type AdvisorTeamDimension struct {
	ID          int    `gorm:"primary_key;column:id" json:"id"`
	AdvisorName string `gorm:"column:asesor;size:150;not null" json:"asesor"`
	Branch      string `gorm:"column:sucursal;size:100" json:"sucursal"`
	Team        string `gorm:"column:equipo;size:100" json:"equipo"`
	AdvisorType string `gorm:"column:tipo;size:50" json:"tipo"`
}

func (AdvisorTeamDimension) TableName() string { return "dim_equipos_asesores" }

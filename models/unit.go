package models

import "github.com/shopspring/decimal"

// Unit is a sellable unit (apartment, office or share lot) of a development.
type Unit struct {
	ID            int             `gorm:"primary_key;column:id" json:"id"`
	DevelopmentID int             `gorm:"column:desarrollo_id;not null" json:"desarrollo_id"`
	Model         string          `gorm:"column:modelo;size:100" json:"modelo"`
	AreaM2        decimal.Decimal `gorm:"column:superficie_m2;type:decimal(12,2)" json:"superficie_m2"`
	PricePerM2    decimal.Decimal `gorm:"column:precio_m2;type:decimal(14,2)" json:"precio_m2"`
	IsPrivate     *bool           `gorm:"column:privada;not null;default:false" json:"privada"`
	BankCode      string          `gorm:"column:clave_banco;size:50" json:"clave_banco"`
	Stage         int             `gorm:"column:etapa" json:"etapa"`
	Number        string          `gorm:"column:numero;size:30" json:"numero"`
}

func (Unit) TableName() string { return "unidades" }

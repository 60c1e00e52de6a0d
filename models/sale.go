package models

import "github.com/shopspring/decimal"

// Sale links a unit, a customer and an advisor inside one tenant database.
// Share-based products record the number of shares purchased; everything
// else leaves Shares at zero.
type Sale struct {
	ID          int             `gorm:"primary_key;column:id" json:"id"`
	UnitID      int             `gorm:"column:unidad_id;not null" json:"unidad_id"`
	CustomerID  int             `gorm:"column:cliente_id;not null" json:"cliente_id"`
	AdvisorID   int             `gorm:"column:asesor_id;not null" json:"asesor_id"`
	Price       decimal.Decimal `gorm:"column:precio;type:decimal(14,2)" json:"precio"`
	Shares      int             `gorm:"column:acciones" json:"acciones"`
	StatusID    int             `gorm:"column:estatus_id" json:"estatus_id"`
	ClosingDate SentinelDate    `gorm:"column:fecha_cierre;type:datetime" json:"fecha_cierre"`
	PaidAmount  decimal.Decimal `gorm:"column:monto_pagado;type:decimal(14,2)" json:"monto_pagado"`
	Balance     decimal.Decimal `gorm:"column:saldo;type:decimal(14,2)" json:"saldo"`
}

func (Sale) TableName() string { return "ventas" }

// SaleStatus is the tenant's id -> label lookup for sale states.
type SaleStatus struct {
	ID    int    `gorm:"primary_key;column:id" json:"id"`
	Label string `gorm:"column:nombre;size:80" json:"nombre"`
}

func (SaleStatus) TableName() string { return "estatus_ventas" }

package models

// Development is a real-estate project inside one tenant database. Its raw
// name is the key into the shared brand dimension; a name missing from that
// lookup yields null display fields, never an error.
type Development struct {
	ID   int    `gorm:"primary_key;column:id" json:"id"`
	Name string `gorm:"column:nombre;size:150" json:"nombre"`
}

func (Development) TableName() string { return "desarrollos" }

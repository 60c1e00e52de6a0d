package config

import (
	"errors"

	"gorm.io/gorm"
)

// ErrReadOnlyConnection is attached to any statement that would write through
// a reporting connection.
var ErrReadOnlyConnection = errors.New("reporting connections are read-only")

// ReadOnlyGuardPlugin rejects writes on every connection this service opens.
// The pipeline is a pure read over tenant transactional databases; nothing in
// this codebase should ever mutate source data, and a guard at the gorm layer
// makes that failure loud instead of silent.
//
// NOTE: this does not apply to Raw SQL. Raw statements are expected to be
// SELECTs only.
type ReadOnlyGuardPlugin struct{}

func NewReadOnlyGuardPlugin() *ReadOnlyGuardPlugin { return &ReadOnlyGuardPlugin{} }

func (p *ReadOnlyGuardPlugin) Name() string { return "readonly_guard" }

func (p *ReadOnlyGuardPlugin) Initialize(db *gorm.DB) error {
	reject := func(db *gorm.DB) {
		db.AddError(ErrReadOnlyConnection)
	}
	if err := db.Callback().Create().Before("gorm:create").Register("readonly_guard:create", reject); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("readonly_guard:update", reject); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("readonly_guard:delete", reject); err != nil {
		return err
	}
	return nil
}

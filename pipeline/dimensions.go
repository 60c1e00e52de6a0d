package pipeline

import (
	"context"

	"gorm.io/gorm"

	"bitbucket.org/lrdatalab/ingresos_backend/models"
)

// Dimensions holds the shared brand and advisor-team lookups, loaded once
// per run and injected into every tenant's row assembly. Both lookups use
// exact, case- and accent-sensitive matching; a miss yields nil attributes
// for the row (outer-join semantics), never drops it.
type Dimensions struct {
	brandByDevelopment map[string]models.BrandDimension
	teamByAdvisor      map[string]models.AdvisorTeamDimension
}

// NewDimensions builds the lookup from already-loaded rows. Tests use this
// directly with fixtures.
func NewDimensions(brands []models.BrandDimension, teams []models.AdvisorTeamDimension) *Dimensions {
	d := &Dimensions{
		brandByDevelopment: make(map[string]models.BrandDimension, len(brands)),
		teamByAdvisor:      make(map[string]models.AdvisorTeamDimension, len(teams)),
	}
	for _, b := range brands {
		d.brandByDevelopment[b.DevelopmentName] = b
	}
	for _, t := range teams {
		d.teamByAdvisor[t.AdvisorName] = t
	}
	return d
}

// LoadDimensions reads both lookup tables from the shared lookup database.
func LoadDimensions(ctx context.Context, db *gorm.DB) (*Dimensions, error) {
	var brands []models.BrandDimension
	if err := db.WithContext(ctx).Find(&brands).Error; err != nil {
		return nil, err
	}
	var teams []models.AdvisorTeamDimension
	if err := db.WithContext(ctx).Find(&teams).Error; err != nil {
		return nil, err
	}
	return NewDimensions(brands, teams), nil
}

// ResolveBrand maps a raw development name to (brand, display name).
// Both are nil on a miss.
func (d *Dimensions) ResolveBrand(developmentName string) (brand *string, displayName *string) {
	b, ok := d.brandByDevelopment[developmentName]
	if !ok {
		return nil, nil
	}
	return &b.Brand, &b.DisplayName
}

// ResolveTeam maps a cleaned advisor display name to its team record, nil on
// a miss.
func (d *Dimensions) ResolveTeam(advisorName string) *models.AdvisorTeamDimension {
	t, ok := d.teamByAdvisor[advisorName]
	if !ok {
		return nil
	}
	return &t
}

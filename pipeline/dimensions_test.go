package pipeline

import (
	"testing"

	"bitbucket.org/lrdatalab/ingresos_backend/models"
)

func testDimensions() *Dimensions {
	return NewDimensions(
		[]models.BrandDimension{
			{DevelopmentName: "Corporativo Uno", Brand: "GAIA", DisplayName: "Corporativo Uno Torre A"},
		},
		[]models.AdvisorTeamDimension{
			{AdvisorName: "Laura Gomez", Branch: "Norte", Team: "Residencial", AdvisorType: "Interno"},
		},
	)
}

func TestResolveBrand_Match(t *testing.T) {
	dims := testDimensions()
	brand, display := dims.ResolveBrand("Corporativo Uno")
	if brand == nil || display == nil {
		t.Fatal("expected a match")
	}
	if *brand != "GAIA" || *display != "Corporativo Uno Torre A" {
		t.Fatalf("got (%q, %q)", *brand, *display)
	}
}

func TestResolveBrand_MissYieldsNils(t *testing.T) {
	dims := testDimensions()
	brand, display := dims.ResolveBrand("No Existe")
	if brand != nil || display != nil {
		t.Fatal("a lookup miss must yield nil attributes, not an error")
	}
}

func TestResolveBrand_CaseAndAccentSensitive(t *testing.T) {
	dims := NewDimensions([]models.BrandDimension{
		{DevelopmentName: "Jardín Real", Brand: "GAIA", DisplayName: "Jardín Real"},
	}, nil)

	if b, _ := dims.ResolveBrand("Jardín Real"); b == nil {
		t.Fatal("exact key must match")
	}
	if b, _ := dims.ResolveBrand("Jardin Real"); b != nil {
		t.Fatal("accent-folded key must not match")
	}
	if b, _ := dims.ResolveBrand("jardín real"); b != nil {
		t.Fatal("case-folded key must not match")
	}
}

func TestResolveTeam(t *testing.T) {
	dims := testDimensions()
	if team := dims.ResolveTeam("Laura Gomez"); team == nil || team.Team != "Residencial" {
		t.Fatalf("ResolveTeam = %+v", team)
	}
	if team := dims.ResolveTeam("Laura Gomez Cancun"); team != nil {
		t.Fatal("unstripped name must not match")
	}
}

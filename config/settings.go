package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings is the business configuration of the report job. Everything here
// is data, not code: which tenants to federate, which records to exclude,
// how advisor names are cleaned and how area prices are derived per
// development. Loaded from a yaml file (default settings.yaml) so ops can
// adjust exclusion lists without a deploy.
type Settings struct {
	// Tenants lists the tenant keys to federate, e.g. ["gaia", "terra"].
	Tenants []string `mapstructure:"tenants" validate:"required,min=1,dive,required"`

	// ExcludedDevelopments are development display names dropped from the
	// final report (internal/demo projects).
	ExcludedDevelopments []string `mapstructure:"excluded_developments"`

	// ExcludedBrands drops every row whose resolved marketing brand is in
	// the set.
	ExcludedBrands []string `mapstructure:"excluded_brands"`

	// CustomerExclusionPatterns are case-sensitive substrings that mark a
	// customer row as a test/demo record.
	CustomerExclusionPatterns []string `mapstructure:"customer_exclusion_patterns"`

	// AdvisorQualifierTokens are branch/role substrings stripped from advisor
	// display names. Multi-word qualifiers must be listed in full.
	AdvisorQualifierTokens []string `mapstructure:"advisor_qualifier_tokens"`

	// AreaPriceRules maps a development label to the divisor basis used for
	// the derived price-per-area metric: "area", "shares" or "unit".
	AreaPriceRules []AreaPriceRuleSetting `mapstructure:"area_price_rules" validate:"dive"`

	// ExtractionTimeoutSeconds bounds one tenant's extraction. A tenant that
	// exceeds it is dropped from the run and reported as degraded.
	ExtractionTimeoutSeconds int `mapstructure:"extraction_timeout_seconds" validate:"gt=0"`

	// AbortOnTenantFailure switches the partial-run policy: when true, any
	// tenant extraction failure fails the whole run instead of degrading.
	AbortOnTenantFailure bool `mapstructure:"abort_on_tenant_failure"`

	Reports []ReportSetting `mapstructure:"reports" validate:"required,min=1,dive"`

	Mail MailSetting `mapstructure:"mail"`
}

type AreaPriceRuleSetting struct {
	Development string `mapstructure:"development" validate:"required"`
	Basis       string `mapstructure:"basis" validate:"required,oneof=area shares unit"`
}

// ReportSetting is one entry of the report registry: a named output with its
// workbook path and mail subject template. Subject placeholders {mes} and
// {anio} are replaced with the report window at send time.
type ReportSetting struct {
	Name       string `mapstructure:"name" validate:"required"`
	OutputFile string `mapstructure:"output_file" validate:"required"`
	Subject    string `mapstructure:"subject" validate:"required"`
}

type MailSetting struct {
	To  []string `mapstructure:"to" validate:"dive,email"`
	Cc  []string `mapstructure:"cc" validate:"dive,email"`
	Bcc []string `mapstructure:"bcc" validate:"dive,email"`
}

var validate = validator.New()

// LoadSettings reads and validates the settings file.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("extraction_timeout_seconds", 300)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	for i, t := range s.Tenants {
		s.Tenants[i] = strings.ToLower(strings.TrimSpace(t))
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return &s, nil
}

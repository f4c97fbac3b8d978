// Package config defines the service configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
)

// Sentinel error kinds of this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Store drivers.
const (
	DriverAirtable = "airtable"
	DriverMySQL    = "mysql"
)

// Config contains process configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// GinLogging turns gin's own request log on or off.
	GinLogging string `koanf:"gin_logging"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// StoreDriver selects where submissions are written: airtable or mysql.
	StoreDriver string `koanf:"store_driver"`

	AirtableAPIURL        string `koanf:"airtable_api_url"`
	AirtableContactBaseID string `koanf:"airtable_contact_base_id"`
	AirtableContactAPIKey string `koanf:"airtable_contact_api_key"`
	AirtablePMBaseID      string `koanf:"airtable_pm_base_id"`
	AirtablePMAPIKey      string `koanf:"airtable_pm_api_key"`

	ContactTable    string `koanf:"contact_table"`
	NewsletterTable string `koanf:"newsletter_table"`
	NominationTable string `koanf:"nomination_table"`
	PMContactsTable string `koanf:"pm_contacts_table"`

	// POCTag is the tag that marks a project management contact as a speaker POC.
	POCTag string `koanf:"poc_tag"`

	// NominationEventID is the event record every nomination is linked to.
	NominationEventID string `koanf:"nomination_event_id"`

	// SourceTag is written into the Source column of contact and newsletter rows.
	SourceTag string `koanf:"source_tag"`

	TurnstileSecret    string `koanf:"turnstile_secret"`
	TurnstileSiteKey   string `koanf:"turnstile_site_key"`
	TurnstileVerifyURL string `koanf:"turnstile_verify_url"`

	BlobAPIURL string `koanf:"blob_api_url"`
	BlobToken  string `koanf:"blob_token"`

	// AdminToken, when set, is required as bearer token by the admin routes.
	AdminToken string `koanf:"admin_token"`

	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_pwd"`
	DBHost     string `koanf:"db_host"`
	DBName     string `koanf:"db_name"`

	// UpstreamTimeout bounds every call to an external service.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`

	// PDFSources adds to or overrides the built-in archive PDF locations.
	PDFSources map[string]string `koanf:"pdf_sources"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Port:            8080,
		GinLogging:      "on",
		LogLevel:        "info",
		StoreDriver:     DriverAirtable,
		ContactTable:    "Contact Form",
		NewsletterTable: "Newsletter",
		NominationTable: "Keynote Nominations",
		PMContactsTable: "Contacts",
		POCTag:          "Speaker POC",
		SourceTag:       "AIM Health R&D Summit Website",
		DBHost:          "localhost:3306",
		DBName:          "aim",
		UpstreamTimeout: 15 * time.Second,
	}
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks the values that would keep the process from starting. Missing credentials of
// external services are not checked: the routes depending on them degrade instead.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.StoreDriver != DriverAirtable && c.StoreDriver != DriverMySQL {
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("%w: negative upstream timeout", ErrInvalidConfig)
	}
	return nil
}

// Base is the address of one base of the tabular store.
type Base struct {
	ID     string
	APIKey string
}

// ContactBase returns the base holding contact and newsletter rows.
func (c *Config) ContactBase() (Base, error) {
	return c.base("contact", c.AirtableContactBaseID, c.AirtableContactAPIKey)
}

// ProjectBase returns the project management base holding nominations and POC contacts.
func (c *Config) ProjectBase() (Base, error) {
	return c.base("project management", c.AirtablePMBaseID, c.AirtablePMAPIKey)
}

// base reports missing credentials. The MySQL driver needs no API key.
func (c *Config) base(name, id, key string) (Base, error) {
	if id == "" || (c.StoreDriver == DriverAirtable && key == "") {
		return Base{}, fmt.Errorf("%s base: %w", name, records.ErrMissingCredentials)
	}
	return Base{ID: id, APIKey: key}, nil
}

// VerificationEnabled reports whether submissions are checked for bots.
func (c *Config) VerificationEnabled() bool {
	return c.TurnstileSecret != ""
}

// LoggingOff reports whether gin's request logger is turned off.
func (c *Config) LoggingOff() bool {
	return strings.EqualFold(c.GinLogging, "off")
}

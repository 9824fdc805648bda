// Package external provides spell lookups backed by the D&D 5e API
package external

//go:generate mockgen -destination=mock/mock_spell_api.go -package=externalmock github.com/KirkDiggler/rpg-tracker/internal/clients/external SpellAPI

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

// DefaultBaseURL is the public D&D 5e API
const DefaultBaseURL = "https://www.dnd5eapi.co/api/2014/"

// SpellAPI is the part of the dnd5e-api client used here. dnd5e.Interface
// satisfies it.
type SpellAPI interface {
	GetSpell(key string) (*entities.Spell, error)
}

// Config contains configuration options for the external client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to DefaultBaseURL)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
	// API overrides the HTTP client, mostly for tests
	API SpellAPI
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	vb := errors.NewValidationBuilder()
	if cfg.HTTPTimeout < 0 {
		vb.Field("HTTPTimeout", "must not be negative")
	}
	if cfg.CacheTTL < 0 {
		vb.Field("CacheTTL", "must not be negative")
	}
	return vb.Build()
}

// Client resolves spells the local rules book does not carry
type Client struct {
	api SpellAPI
}

var _ rules.SpellSource = (*Client)(nil)

// New creates a new external client with the given configuration.
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if cfg.API != nil {
		return &Client{api: cfg.API}, nil
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create D&D 5e API client")
	}

	return &Client{api: dnd5e.NewCachedClient(baseClient, cfg.CacheTTL)}, nil
}

// Spell implements rules.SpellSource
func (c *Client) Spell(ctx context.Context, id string) (*rules.Spell, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return nil, errors.InvalidArgument("spell ID is required")
	}

	spell, err := c.api.GetSpell(key)
	switch {
	case err != nil && isNotFound(err):
		return nil, errors.NotFoundf("spell %s not found", id)
	case err != nil:
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get spell "+key)
	case spell == nil:
		return nil, errors.NotFoundf("spell %s not found", id)
	}

	return convertSpell(key, spell), nil
}

func convertSpell(key string, spell *entities.Spell) *rules.Spell {
	out := &rules.Spell{
		ID:     spell.Key,
		Name:   spell.Name,
		Level:  spell.SpellLevel,
		Ritual: spell.Ritual,
	}
	if out.ID == "" {
		out.ID = key
	}
	for _, class := range spell.SpellClasses {
		if class == nil || class.Name == "" {
			continue
		}
		out.Classes = append(out.Classes, strings.ToLower(class.Name))
	}
	return out
}

// The API client reports HTTP failures only through the error text.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "not found")
}

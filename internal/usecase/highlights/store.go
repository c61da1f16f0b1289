package highlights

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/validation"
)

const (
	DefaultTitle       = "Destaques da Semana"
	DefaultDescription = ""
)

// Store owns the single HighlightsConfig of a session.
type Store struct {
	cfg domain.HighlightsConfig
	now func() time.Time
}

// NewStore creates a store holding the default configuration.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	s := &Store{now: now}
	s.cfg = s.defaults(uuid.NewString())
	return s
}

func (s *Store) defaults(id string) domain.HighlightsConfig {
	ts := s.now()
	return domain.HighlightsConfig{
		ID:          id,
		Title:       DefaultTitle,
		Description: DefaultDescription,
		Active:      true,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// Config returns the current configuration.
func (s *Store) Config() domain.HighlightsConfig {
	return s.cfg
}

// UpdateConfig validates and merges patch. On failure the configuration is unchanged
// and the error is a *domain.ValidationError.
func (s *Store) UpdateConfig(patch domain.ConfigPatch) (domain.HighlightsConfig, error) {
	next := s.cfg
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Active != nil {
		next.Active = *patch.Active
	}

	res := validation.Merge(
		validation.ValidateTitle(next.Title, nil, next.ID),
		validation.ValidateDescription(next.Description),
	)
	if err := res.Err(); err != nil {
		return s.cfg, err
	}
	next.UpdatedAt = s.now()
	s.cfg = next
	return s.cfg, nil
}

// ToggleActive flips the active flag.
func (s *Store) ToggleActive() domain.HighlightsConfig {
	s.cfg.Active = !s.cfg.Active
	s.cfg.UpdatedAt = s.now()
	return s.cfg
}

// Reset restores defaults, keeping the id.
func (s *Store) Reset() domain.HighlightsConfig {
	s.cfg = s.defaults(s.cfg.ID)
	return s.cfg
}

// Restore replaces the configuration with a saved one.
func (s *Store) Restore(cfg domain.HighlightsConfig) {
	if cfg.ID == "" {
		cfg.ID = s.cfg.ID
	}
	s.cfg = cfg
}

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FontFamily is the base typeface of a rendered document.
type FontFamily string

// Supported font families
const (
	FontHelvetica FontFamily = "Helvetica"
	FontTimes     FontFamily = "Times"
	FontCourier   FontFamily = "Courier"
)

// Spacing selects the vertical rhythm multiplier.
type Spacing string

// Supported spacings
const (
	SpacingCompact Spacing = "compact"
	SpacingNormal  Spacing = "normal"
	SpacingRelaxed Spacing = "relaxed"
)

// Theme is reserved for cosmetic styling.
type Theme string

// Supported themes
const (
	ThemeProfessional Theme = "professional"
	ThemeModern       Theme = "modern"
	ThemeMinimal      Theme = "minimal"
)

// Settings are the user-selectable rendering options.
type Settings struct {
	FontFamily FontFamily `json:"fontFamily" validate:"required,oneof=Helvetica Times Courier"`
	FontSize   float64    `json:"fontSize" validate:"gte=6,lte=16"`
	Spacing    Spacing    `json:"spacing" validate:"required,oneof=compact normal relaxed"`
	Theme      Theme      `json:"theme" validate:"required,oneof=professional modern minimal"`
}

// DefaultSettings returns the settings used when none have been chosen.
func DefaultSettings() Settings {
	return Settings{
		FontFamily: FontHelvetica,
		FontSize:   10,
		Spacing:    SpacingNormal,
		Theme:      ThemeProfessional,
	}
}

// Validate validates the Settings using the validator.
func (s *Settings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return newValidationError(err)
	}
	return nil
}

// SettingsPatch is a partial update of Settings. Nil fields are left unchanged.
type SettingsPatch struct {
	FontFamily *FontFamily `json:"fontFamily,omitempty"`
	FontSize   *float64    `json:"fontSize,omitempty"`
	Spacing    *Spacing    `json:"spacing,omitempty"`
	Theme      *Theme      `json:"theme,omitempty"`
}

// Apply returns s with the supplied fields of p merged over it.
func (p SettingsPatch) Apply(s Settings) Settings {
	setIf(&s.FontFamily, p.FontFamily)
	setIf(&s.FontSize, p.FontSize)
	setIf(&s.Spacing, p.Spacing)
	setIf(&s.Theme, p.Theme)
	return s
}

// State is the complete editable state persisted between sessions.
type State struct {
	Resume       Resume    `json:"resume"`
	Settings     Settings  `json:"settings"`
	LastModified time.Time `json:"lastModified"`
}

// Clone returns a deep copy of the state.
func (s *State) Clone() State {
	return State{
		Resume:       s.Resume.Clone(),
		Settings:     s.Settings,
		LastModified: s.LastModified,
	}
}

// exportRules is checked before a resume is turned into a downloadable file.
type exportRules struct {
	Name string `validate:"required"`
}

// ValidateForExport checks that the resume carries the fields an export requires.
func (r *Resume) ValidateForExport() error {
	validate := validator.New()
	if err := validate.Struct(exportRules{Name: strings.TrimSpace(r.Basics.Name)}); err != nil {
		return &ValidationError{
			Fields: []FieldError{{Field: "basics.name", Message: "name is required"}},
		}
	}
	return nil
}

// FieldError is a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports a rejected document or settings value.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Namespace(), Message: msg})
	}
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

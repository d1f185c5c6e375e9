//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{name: "times relaxed", mutate: func(s *Settings) { s.FontFamily = FontTimes; s.Spacing = SpacingRelaxed }},
		{name: "unknown font", mutate: func(s *Settings) { s.FontFamily = "Comic Sans" }, wantErr: true},
		{name: "font too small", mutate: func(s *Settings) { s.FontSize = 2 }, wantErr: true},
		{name: "font too large", mutate: func(s *Settings) { s.FontSize = 40 }, wantErr: true},
		{name: "unknown spacing", mutate: func(s *Settings) { s.Spacing = "airy" }, wantErr: true},
		{name: "unknown theme", mutate: func(s *Settings) { s.Theme = "neon" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.NotEmpty(t, verr.Fields)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingsPatch_Apply(t *testing.T) {
	size := 12.0
	spacing := SpacingCompact
	got := SettingsPatch{FontSize: &size, Spacing: &spacing}.Apply(DefaultSettings())

	assert.Equal(t, FontHelvetica, got.FontFamily)
	assert.Equal(t, 12.0, got.FontSize)
	assert.Equal(t, SpacingCompact, got.Spacing)
	assert.Equal(t, ThemeProfessional, got.Theme)
}

func TestResume_ValidateForExport(t *testing.T) {
	r := EmptyResume()
	err := r.ValidateForExport()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "basics.name")

	r.Basics.Name = "   "
	assert.Error(t, r.ValidateForExport())

	r.Basics.Name = "Jane Doe"
	assert.NoError(t, r.ValidateForExport())
}

func TestState_CloneIsIndependent(t *testing.T) {
	s := State{Resume: SampleResume(), Settings: DefaultSettings()}
	c := s.Clone()
	c.Resume.Basics.Name = "Other"
	c.Resume.Certifications[0].Name = "Other"

	assert.Equal(t, "John Doe", s.Resume.Basics.Name)
	assert.Equal(t, "AWS Certified Solutions Architect", s.Resume.Certifications[0].Name)
}

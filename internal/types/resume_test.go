//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResume_RoundTrip(t *testing.T) {
	original := SampleResume()
	original.Basics.CustomFields = []CustomField{
		{ID: "cf-1", Label: "GitHub", Value: "https://github.com/johndoe", Icon: IconGitHub},
		{ID: "cf-2", Label: "", Value: "johndoe.dev"},
	}
	original.CustomSections = []CustomSection{
		{
			ID:    "cs-1",
			Title: "Awards",
			Items: []CustomSectionItem{
				{ID: "i-1", Title: "Hackathon Winner", Date: "2019", Details: []string{"First place", ""}},
				{ID: "i-2", Title: "Dean's List"},
			},
		},
	}
	original.Normalize()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := UnmarshalResume(data)
	require.NoError(t, err)

	if diff := cmp.Diff(original, *decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestResume_RoundTripKeepsEmptyArrays(t *testing.T) {
	r := EmptyResume()
	r.Basics.Name = "Jane"

	data, err := json.Marshal(r)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"customSections":[]`)
	assert.Contains(t, s, `"work":[]`)
	assert.Contains(t, s, `"customFields":[]`)
	assert.NotContains(t, s, "null")

	decoded, err := UnmarshalResume(data)
	require.NoError(t, err)
	assert.NotNil(t, decoded.CustomSections)
	assert.Empty(t, decoded.CustomSections)
	assert.Equal(t, r, *decoded)
}

func TestDecodeResume_MissingCustomSectionsDefaultsToEmpty(t *testing.T) {
	input := `{"basics":{"name":"Jane","email":"","phone":"","location":"","url":"","summary":""},
		"work":[],"education":[],"skills":[],"projects":[],"certifications":[]}`

	r, err := DecodeResume(strings.NewReader(input))
	require.NoError(t, err)
	assert.NotNil(t, r.CustomSections)
	assert.NotNil(t, r.Basics.CustomFields)
}

func TestDecodeResume_RejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown top level", `{"basics":{"name":"x"},"hobbies":[]}`},
		{"unknown basics field", `{"basics":{"name":"x","nickname":"y"}}`},
		{"unknown custom field key", `{"basics":{"name":"x","customFields":[{"id":"1","label":"a","value":"b","color":"red"}]}}`},
		{"unknown item key", `{"basics":{"name":"x"},"customSections":[{"id":"s","title":"t","items":[{"id":"i","title":"t","extra":1}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResume(strings.NewReader(tt.input))
			require.Error(t, err)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestDecodeResume_RejectsUnknownIcon(t *testing.T) {
	input := `{"basics":{"name":"x","customFields":[{"id":"1","label":"a","value":"b","icon":"myspace"}]}}`
	_, err := DecodeResume(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown icon")
}

func TestDecodeResume_RejectsDuplicateIDs(t *testing.T) {
	input := `{"basics":{"name":"x"},"work":[{"id":"a"},{"id":"a"}]}`
	_, err := DecodeResume(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "work[1].id")
}

func TestDecodeResume_RejectsTrailingData(t *testing.T) {
	_, err := DecodeResume(strings.NewReader(`{"basics":{"name":"x"}} {"basics":{}}`))
	assert.Error(t, err)
}

func TestResume_CloneIsIndependent(t *testing.T) {
	original := SampleResume()
	clone := original.Clone()

	clone.Work[0].Highlights[0] = "changed"
	clone.Work = append(clone.Work, WorkExperience{ID: "3"})
	clone.Skills[0].Skills[0] = "Go"

	assert.Equal(t, "Led the development of a high-traffic e-commerce platform using Next.js and Node.js.", original.Work[0].Highlights[0])
	assert.Len(t, original.Work, 2)
	assert.Equal(t, "JavaScript", original.Skills[0].Skills[0])
}

func TestResume_NormalizeNestedLists(t *testing.T) {
	r := Resume{
		Work:           []WorkExperience{{ID: "1"}},
		Projects:       []Project{{ID: "1"}},
		CustomSections: []CustomSection{{ID: "s", Items: []CustomSectionItem{{ID: "i"}}}},
	}
	r.Normalize()

	assert.NotNil(t, r.Work[0].Highlights)
	assert.NotNil(t, r.Projects[0].Technologies)
	assert.NotNil(t, r.CustomSections[0].Items[0].Details)
	assert.NotNil(t, r.Education)
}

func TestParseLines_KeepsEmptyEntries(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, ParseLines("a\n\nb"))
	assert.Equal(t, []string{"a", "b"}, ParseLines("a\r\nb"))
	assert.Equal(t, []string{}, ParseLines(""))
}

func TestParseCommaList(t *testing.T) {
	assert.Equal(t, []string{"Go", "", "SQL"}, ParseCommaList("Go, ,SQL"))
	assert.Equal(t, []string{}, ParseCommaList(""))
}

// internal/tags/normalizer_test.go
package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-enricher/internal/models"
)

func TestParseAndSerialize(t *testing.T) {
	tests := []struct {
		name       string
		serialized string
		want       string
	}{
		{name: "empty", serialized: "", want: ""},
		{name: "single", serialized: "Dress", want: "Dress"},
		{name: "dedup and sort", serialized: "Top,Dress,Top", want: "Dress,Top"},
		{name: "whitespace and empty segments", serialized: " Top , ,Dress,", want: "Dress,Top"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.serialized).Serialize())
		})
	}
}

func TestQualityTokens(t *testing.T) {
	tests := []struct {
		name    string
		quality string
		want    []string
	}{
		{
			name:    "percentages and parentheticals stripped",
			quality: "80% Viscose (TRADEMARK) 20% Nylon",
			want:    []string{"Viscose", "Nylon"},
		},
		{name: "single material", quality: "100% Cotton", want: []string{"Cotton"}},
		{name: "hyphen separated", quality: "55% Cotton-Linen 45% Polyester", want: []string{"Cotton", "Linen", "Polyester"}},
		{name: "empty", quality: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualityTokens(tt.quality))
		})
	}
}

func TestNormalizer_UnionsAllSources(t *testing.T) {
	n := NewNormalizer(nil, 0, "")
	record := &models.ProductRecord{
		StyleName: "Summer Blouse",
		Quality:   models.Some("80% Viscose (TRADEMARK) 20% Nylon"),
		B2CTags:   models.Some("Sale"),
	}

	n.Normalize(record)

	require.True(t, record.B2CTags.Present)
	assert.Equal(t, "Blouse,Nylon,Sale,Top,Viscose", record.B2CTags.Value)
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer(nil, 0, "")
	record := &models.ProductRecord{
		StyleName: "Knit Cardigan",
		Quality:   models.Some("100% Wool"),
		B2CTags:   models.Some("Winter"),
	}

	n.Normalize(record)
	first := record.B2CTags.Value
	n.Normalize(record)

	assert.Equal(t, first, record.B2CTags.Value)
}

func TestNormalizer_AbsentStaysAbsentWhenNothingDerived(t *testing.T) {
	n := NewNormalizer(nil, 0, "")
	record := &models.ProductRecord{StyleName: "Gizmo", Quality: models.None(), B2CTags: models.None()}

	n.Normalize(record)

	assert.False(t, record.B2CTags.Present)
}

func TestNormalizer_AbsentBecomesPresentOnDerivedTags(t *testing.T) {
	n := NewNormalizer(nil, 0, "")
	record := &models.ProductRecord{StyleName: "Midi Dress", B2CTags: models.None()}

	n.Normalize(record)

	require.True(t, record.B2CTags.Present)
	assert.Equal(t, "Dress", record.B2CTags.Value)
}

func TestNormalizer_BackfillRepeatsFiller(t *testing.T) {
	n := NewNormalizer(nil, 3, "fashion")
	record := &models.ProductRecord{StyleName: "Midi Dress", B2CTags: models.None()}

	n.Normalize(record)
	assert.Equal(t, "Dress,fashion,fashion", record.B2CTags.Value)

	// Backfilled output is itself a fixed point.
	n.Normalize(record)
	assert.Equal(t, "Dress,fashion,fashion", record.B2CTags.Value)
}

func TestParseVocabulary(t *testing.T) {
	vocab, err := ParseVocabulary([]byte(`{"dress": ["Dress", "Occasion"]}`))
	require.NoError(t, err)
	assert.Equal(t, Vocabulary{"dress": {"Dress", "Occasion"}}, vocab)
}

func TestParseVocabulary_RejectsInvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not an object", data: `["Dress"]`},
		{name: "empty object", data: `{}`},
		{name: "empty synonym list", data: `{"dress": []}`},
		{name: "non-string synonym", data: `{"dress": [1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVocabulary([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

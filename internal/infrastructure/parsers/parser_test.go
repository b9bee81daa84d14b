package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &JSONParser{}, ForFormat("JSON"))
	assert.IsType(t, &CSVParser{}, ForFormat("csv"))
	assert.Nil(t, ForFormat("xml"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("medicines.json"))
	assert.IsType(t, &CSVParser{}, ForFile("data/medicines.CSV"))
	assert.Nil(t, ForFile("medicines.txt"))
}

func TestJSONParser(t *testing.T) {
	t.Run("parses array with line numbers", func(t *testing.T) {
		input := `[
			{"name": "Paracetamol", "generic_name": "Acetaminophen", "popularity_score": 90},
			{"name": "Tylenol", "common_names": ["Tylanol"], "prescription_required": true}
		]`

		medicines, err := (&JSONParser{}).Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, medicines, 2)

		assert.Equal(t, "Paracetamol", medicines[0].Name)
		assert.Equal(t, 90, medicines[0].PopularityScore)
		assert.Equal(t, 1, medicines[0].LineNum)

		assert.Equal(t, []string{"Tylanol"}, medicines[1].CommonNames)
		assert.True(t, medicines[1].PrescriptionRequired)
		assert.Equal(t, 2, medicines[1].LineNum)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := (&JSONParser{}).Parse(strings.NewReader(`{"name": "not an array"}`))
		require.Error(t, err)
	})
}

func TestCSVParser(t *testing.T) {
	t.Run("parses rows with split common names", func(t *testing.T) {
		input := "name,generic_name,common_names,prescription_required,popularity_score\n" +
			"Paracetamol,Acetaminophen,Tylanol; Panadol,false,90\n" +
			"Codeine,,,true,40\n"

		medicines, err := (&CSVParser{}).Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, medicines, 2)

		assert.Equal(t, "Paracetamol", medicines[0].Name)
		assert.Equal(t, []string{"Tylanol", "Panadol"}, medicines[0].CommonNames)
		assert.Equal(t, 90, medicines[0].PopularityScore)
		assert.Equal(t, 2, medicines[0].LineNum)

		assert.True(t, medicines[1].PrescriptionRequired)
		assert.Empty(t, medicines[1].CommonNames)
		assert.Equal(t, 3, medicines[1].LineNum)
	})

	t.Run("missing name column", func(t *testing.T) {
		input := "generic_name,brand_name\nAcetaminophen,Tylenol\n"
		_, err := (&CSVParser{}).Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("invalid popularity score", func(t *testing.T) {
		input := "name,popularity_score\nAspirin,lots\n"
		_, err := (&CSVParser{}).Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("invalid prescription flag", func(t *testing.T) {
		input := "name,prescription_required\nAspirin,maybe\n"
		_, err := (&CSVParser{}).Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prescription_required")
	})
}

package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses medicines from JSON format.
type JSONParser struct{}

// Parse reads a JSON array from the reader and returns parsed medicines.
func (p *JSONParser) Parse(r io.Reader) ([]RawMedicine, error) {
	var medicines []RawMedicine

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&medicines); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Set line numbers (array index + 1, 1-indexed)
	for i := range medicines {
		medicines[i].LineNum = i + 1
	}

	return medicines, nil
}

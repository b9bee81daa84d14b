package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVParser parses medicines from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed medicines.
// Expected columns: name, generic_name, brand_name, common_names,
// manufacturer, description, category, prescription_required,
// popularity_score. Common names are separated by ';' within the column.
func (p *CSVParser) Parse(r io.Reader) ([]RawMedicine, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	if _, ok := colIndex["name"]; !ok {
		return nil, fmt.Errorf("missing required column: name")
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawMedicines.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawMedicine, error) {
	var medicines []RawMedicine
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		medicine, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, medicine)
	}

	return medicines, nil
}

// parseRecord converts a CSV record to a RawMedicine.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (RawMedicine, error) {
	medicine := RawMedicine{
		ID:           getColumn(record, colIndex, "id"),
		Name:         getColumn(record, colIndex, "name"),
		GenericName:  getColumn(record, colIndex, "generic_name"),
		BrandName:    getColumn(record, colIndex, "brand_name"),
		Manufacturer: getColumn(record, colIndex, "manufacturer"),
		Description:  getColumn(record, colIndex, "description"),
		Category:     getColumn(record, colIndex, "category"),
		LineNum:      lineNum,
	}

	if names := getColumn(record, colIndex, "common_names"); names != "" {
		for _, name := range strings.Split(names, ";") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				medicine.CommonNames = append(medicine.CommonNames, trimmed)
			}
		}
	}

	if prescStr := getColumn(record, colIndex, "prescription_required"); prescStr != "" {
		presc, err := strconv.ParseBool(prescStr)
		if err != nil {
			return RawMedicine{}, fmt.Errorf("line %d: invalid prescription_required value %q: %w", lineNum, prescStr, err)
		}
		medicine.PrescriptionRequired = presc
	}

	if scoreStr := getColumn(record, colIndex, "popularity_score"); scoreStr != "" {
		score, err := strconv.Atoi(scoreStr)
		if err != nil {
			return RawMedicine{}, fmt.Errorf("line %d: invalid popularity_score value %q: %w", lineNum, scoreStr, err)
		}
		medicine.PopularityScore = score
	}

	return medicine, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

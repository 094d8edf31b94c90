package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/vocabharvester/internal/database"
	"github.com/example/vocabharvester/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	WordColumn        string // Column with the word
	POSColumn         string // Column with the part of speech
	TranslationColumn string // Column with the translation
	DifficultyColumn  string // Column with the difficulty
	SheetName         string // Name of the sheet to import
	SkipHeader        bool   // Skip the header row
	StartRow          int    // The row to start importing from (1-based index)
	DefaultDifficulty int    // Difficulty applied when the column is empty
}

// DefaultImportConfig returns the default import configuration.
// The default difficulty is "known" so that existing vocabulary can be
// seeded from a word list before harvesting starts.
func DefaultImportConfig(filePath string) ImportConfig {
	return ImportConfig{
		FilePath:          filePath,
		WordColumn:        "A",
		POSColumn:         "B",
		TranslationColumn: "C",
		DifficultyColumn:  "D",
		SheetName:         "Sheet1",
		SkipHeader:        true,
		StartRow:          2, // By default, start from the second row (skip header)
		DefaultDifficulty: models.DifficultyKnown,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Importer bulk-loads vocabulary entries from spreadsheet files.
type Importer struct {
	vocab *database.VocabularyRepository
}

// NewImporter creates an importer backed by the given repository
func NewImporter(vocab *database.VocabularyRepository) *Importer {
	return &Importer{vocab: vocab}
}

// ImportWords imports words from an Excel or CSV file
func (im *Importer) ImportWords(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return im.importFromCSV(config)
	}

	return im.importFromExcel(config)
}

// importFromExcel imports words from an Excel file
func (im *Importer) importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		if err := im.processRow(row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports words from a CSV file
func (im *Importer) importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		if err := im.processRow(row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// processRow handles a single row from either source
func (im *Importer) processRow(row []string, config ImportConfig, result *ImportResult) error {
	var word, pos, translation, difficulty string

	// Check bounds for each column
	if colIdx := columnToIndex(config.WordColumn); colIdx >= 0 && colIdx < len(row) {
		word = row[colIdx]
	}
	if colIdx := columnToIndex(config.POSColumn); colIdx >= 0 && colIdx < len(row) {
		pos = row[colIdx]
	}
	if colIdx := columnToIndex(config.TranslationColumn); colIdx >= 0 && colIdx < len(row) {
		translation = row[colIdx]
	}
	if colIdx := columnToIndex(config.DifficultyColumn); colIdx >= 0 && colIdx < len(row) {
		difficulty = row[colIdx]
	}

	word = database.NormalizeWord(word)
	if word == "" {
		return fmt.Errorf("word cannot be empty")
	}

	exists, err := im.vocab.WordExists(word)
	if err != nil {
		return fmt.Errorf("failed to check word: %v", err)
	}
	if exists {
		result.Skipped++
		return nil
	}

	difficultyVal := parseIntOrDefault(difficulty, models.DifficultyKnown, models.DifficultyHard, config.DefaultDifficulty)

	if err := im.vocab.AddWord(word, strings.TrimSpace(pos), models.RegularityUnknown, strings.TrimSpace(translation), difficultyVal); err != nil {
		return fmt.Errorf("failed to add word: %v", err)
	}
	result.Created++

	return nil
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

// Helper function to parse integer within a range
func parseIntInRange(s string, min, max int) (int, error) {
	var val int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &val); err != nil {
		return min, err
	}
	if val < min {
		return min, nil
	}
	if val > max {
		return max, nil
	}
	return val, nil
}

// Helper function to parse integer with default value
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	if val, err := parseIntInRange(s, min, max); err == nil {
		return val
	}
	return defaultVal
}

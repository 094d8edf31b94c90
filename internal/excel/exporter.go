package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/vocabharvester/internal/database"
	"github.com/example/vocabharvester/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ExportConfig defines the export configuration
type ExportConfig struct {
	FilePath  string // Destination file, format chosen by extension
	SheetName string // Name of the sheet for Excel output
}

// DefaultExportConfig returns the default export configuration
func DefaultExportConfig(filePath string) ExportConfig {
	return ExportConfig{
		FilePath:  filePath,
		SheetName: "Vocabulary",
	}
}

// ExportResult holds the result of an export operation
type ExportResult struct {
	Exported int
}

// Exporter writes the vocabulary store out to spreadsheet files.
type Exporter struct {
	vocab *database.VocabularyRepository
	tags  *database.TagRepository
}

// NewExporter creates an exporter backed by the given repositories
func NewExporter(vocab *database.VocabularyRepository, tags *database.TagRepository) *Exporter {
	return &Exporter{vocab: vocab, tags: tags}
}

var exportHeader = []string{"Word", "Part of Speech", "Regularity", "Translation", "Difficulty", "Tags"}

// ExportWords writes all vocabulary entries to an Excel or CSV file
func (ex *Exporter) ExportWords(config ExportConfig) (*ExportResult, error) {
	entries, err := ex.vocab.GetAll(database.QueryOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary entries: %v", err)
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		row, err := ex.entryRow(entry)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		err = writeCSV(config.FilePath, rows)
	} else {
		err = writeExcel(config, rows)
	}
	if err != nil {
		return nil, err
	}

	return &ExportResult{Exported: len(rows)}, nil
}

func (ex *Exporter) entryRow(entry models.VocabularyEntry) ([]string, error) {
	tags, err := ex.tags.WordTags(entry.Word)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for %q: %v", entry.Word, err)
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}

	regularity := ""
	if entry.IsRegular != models.RegularityUnknown {
		regularity = entry.IsRegular.String()
	}

	return []string{
		entry.Word,
		entry.PartOfSpeech,
		regularity,
		entry.Translation,
		strconv.Itoa(entry.Difficulty),
		strings.Join(names, "; "),
	}, nil
}

func writeCSV(filePath string, rows [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %v", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %v", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeExcel(config ExportConfig, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = "Vocabulary"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %v", err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to remove default sheet: %v", err)
		}
	}

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header: %v", err)
		}
	}
	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %v", i+2, err)
			}
		}
	}

	if err := f.SaveAs(config.FilePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %v", err)
	}
	return nil
}

package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel, CSV or JSON file
	EnglishColumn     string // Column with the English sentence
	TranslationColumn string // Column with the Portuguese translation
	LevelColumn       string // Column with the optional CEFR level
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		EnglishColumn:     "A",
		TranslationColumn: "B",
		LevelColumn:       "C",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportSentences imports sentences from an Excel, CSV or JSON file into the
// sentences table. Existing sentences (matched by English text) are updated.
func ImportSentences(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	switch ext {
	case ".json":
		return importFromJSON(ctx, config)
	case ".csv":
		return importFromCSV(ctx, config)
	default:
		return importFromExcel(ctx, config)
	}
}

// jsonSentence mirrors the legacy dataset shape of the browser drill:
// [{"linha": 1, "ENG": "...", "PTBR": "..."}, ...]
type jsonSentence struct {
	Linha       int          `json:"linha"`
	English     string       `json:"ENG"`
	Translation string       `json:"PTBR"`
	Level       models.Level `json:"level"`
}

// importFromJSON imports the legacy frases.json dataset format
func importFromJSON(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	data, err := os.ReadFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %v", err)
	}

	var rows []jsonSentence
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse JSON dataset: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		result.TotalProcessed++
		if err := upsertSentence(ctx, row.English, row.Translation, row.Level, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Entry %d: %v", i+1, err))
		}
	}
	return result, nil
}

// importFromExcel imports sentences from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := processRow(ctx, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

// importFromCSV imports sentences from a CSV file
func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
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
		if len(row) < 2 {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: expected at least 2 columns", rowNum))
			continue
		}
		level := models.Level("")
		if len(row) > 2 {
			level = models.Level(strings.ToUpper(strings.TrimSpace(row[2])))
		}
		if err := upsertSentence(ctx, row[0], row[1], level, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// processRow processes a single row from Excel
func processRow(ctx context.Context, row []string, config ImportConfig, result *ImportResult) error {
	var english, translation, level string

	if colIdx := columnToIndex(config.EnglishColumn); colIdx < len(row) {
		english = row[colIdx]
	}
	if colIdx := columnToIndex(config.TranslationColumn); colIdx < len(row) {
		translation = row[colIdx]
	}
	if config.LevelColumn != "" {
		if colIdx := columnToIndex(config.LevelColumn); colIdx < len(row) {
			level = row[colIdx]
		}
	}

	return upsertSentence(ctx, english, translation, models.Level(strings.ToUpper(strings.TrimSpace(level))), result)
}

// upsertSentence creates or updates one sentence record
func upsertSentence(ctx context.Context, english, translation string, level models.Level, result *ImportResult) error {
	english = strings.TrimSpace(english)
	translation = strings.TrimSpace(translation)

	if english == "" {
		result.Skipped++
		return fmt.Errorf("english text cannot be empty")
	}
	if translation == "" {
		result.Skipped++
		return fmt.Errorf("translation cannot be empty")
	}
	if level != "" && !level.IsValid() {
		level = ""
	}

	repo := database.NewSentenceRepository()
	existing, err := repo.GetByEnglishText(ctx, english)
	if err == nil {
		existing.Translation = translation
		existing.Level = level
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	sentence := &models.Sentence{
		EnglishText: english,
		Translation: translation,
		Level:       level,
	}
	if err := repo.Create(ctx, sentence); err != nil {
		return err
	}
	result.Created++
	return nil
}

// columnToIndex converts an Excel column letter (A, B, ..., AA) to a
// zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for _, c := range column {
		if c < 'A' || c > 'Z' {
			return 0
		}
		index = index*26 + int(c-'A') + 1
	}
	if index == 0 {
		return 0
	}
	return index - 1
}

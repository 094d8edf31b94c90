package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/example/vocabharvester/internal/database"
	"github.com/example/vocabharvester/pkg/models"
)

type fixture struct {
	vocab *database.VocabularyRepository
	tags  *database.TagRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zap.NewNop().Sugar()
	return &fixture{
		vocab: database.NewVocabularyRepository(db, log),
		tags:  database.NewTagRepository(db, log),
	}
}

func TestImportFromCSV(t *testing.T) {
	fx := newFixture(t)

	path := filepath.Join(t.TempDir(), "words.csv")
	content := "Word,Part of Speech,Translation,Difficulty\n" +
		"laufen,VERB,to run,0\n" +
		"Haus,NOUN,house,\n" +
		",NOUN,empty,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	importer := NewImporter(fx.vocab)
	result, err := importer.ImportWords(DefaultImportConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "word cannot be empty")

	entries, err := fx.vocab.GetAll(database.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "haus", entries[0].Word)
	assert.Equal(t, models.DifficultyKnown, entries[0].Difficulty)
	assert.Equal(t, "laufen", entries[1].Word)
	assert.Equal(t, "to run", entries[1].Translation)
}

func TestImportSkipsExistingWords(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.vocab.AddWord("laufen", "VERB", models.RegularityIrregular, "to run", models.DifficultyMedium))

	path := filepath.Join(t.TempDir(), "words.csv")
	content := "Word,Part of Speech,Translation\nlaufen,VERB,to walk\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	importer := NewImporter(fx.vocab)
	result, err := importer.ImportWords(DefaultImportConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)

	// The existing entry is left untouched
	entries, err := fx.vocab.GetAll(database.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "to run", entries[0].Translation)
	assert.Equal(t, models.RegularityIrregular, entries[0].IsRegular)
}

func TestImportFromExcel(t *testing.T) {
	fx := newFixture(t)

	path := filepath.Join(t.TempDir(), "words.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Word"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Fenster"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "NOUN"))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", "window"))
	require.NoError(t, f.SetCellValue("Sheet1", "D2", "2"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	importer := NewImporter(fx.vocab)
	result, err := importer.ImportWords(DefaultImportConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)

	entries, err := fx.vocab.GetAll(database.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fenster", entries[0].Word)
	assert.Equal(t, 2, entries[0].Difficulty)
}

func TestImportMissingFile(t *testing.T) {
	fx := newFixture(t)
	importer := NewImporter(fx.vocab)

	_, err := importer.ImportWords(DefaultImportConfig(filepath.Join(t.TempDir(), "nope.csv")))
	assert.Error(t, err)
}

func TestExportToCSV(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.vocab.AddWord("gehen", "VERB", models.RegularityIrregular, "to go", models.DifficultyMedium))
	require.NoError(t, fx.vocab.AddWord("haus", "NOUN", models.RegularityUnknown, "house", models.DifficultyEasy))
	ok, err := fx.tags.AddToWord("gehen", "movement")
	require.NoError(t, err)
	require.True(t, ok)

	path := filepath.Join(t.TempDir(), "export.csv")
	exporter := NewExporter(fx.vocab, fx.tags)
	result, err := exporter.ExportWords(DefaultExportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Exported)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Word,Part of Speech,Regularity,Translation,Difficulty,Tags")
	assert.Contains(t, content, "gehen,VERB,irregular,to go,3,movement")
	assert.Contains(t, content, "haus,NOUN,,house,2,")
}

func TestExportToExcel(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.vocab.AddWord("laufen", "VERB", models.RegularityRegular, "to run", models.DifficultyHard))

	path := filepath.Join(t.TempDir(), "export.xlsx")
	exporter := NewExporter(fx.vocab, fx.tags)
	result, err := exporter.ExportWords(DefaultExportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Exported)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// The named sheet replaces the workbook's default one
	assert.Equal(t, []string{"Vocabulary"}, f.GetSheetList())

	rows, err := f.GetRows("Vocabulary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "laufen", rows[1][0])
	assert.Equal(t, "regular", rows[1][2])
}

func TestExportEmptyStore(t *testing.T) {
	fx := newFixture(t)

	path := filepath.Join(t.TempDir(), "export.csv")
	exporter := NewExporter(fx.vocab, fx.tags)
	result, err := exporter.ExportWords(DefaultExportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Exported)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Word,Part of Speech")
}

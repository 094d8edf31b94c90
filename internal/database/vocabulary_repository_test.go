package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabharvester/pkg/models"
)

func TestAddWordRoundTrip(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	err := vocab.AddWord("Haus", "NOUN", models.RegularityUnknown, "house", models.DifficultyHard)
	require.NoError(t, err)

	words, err := vocab.GetAll(QueryOptions{})
	require.NoError(t, err)
	require.Len(t, words, 1)

	w := words[0]
	assert.Equal(t, "haus", w.Word)
	assert.Equal(t, "NOUN", w.PartOfSpeech)
	assert.Equal(t, models.RegularityUnknown, w.IsRegular)
	assert.Equal(t, "house", w.Translation)
	assert.Equal(t, models.DifficultyHard, w.Difficulty)
}

func TestAddWordIdempotent(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	require.NoError(t, vocab.AddWord("laufen", "VERB", models.RegularityIrregular, "run", models.DefaultDifficulty))
	// Re-adding is a silent no-op, never an error
	require.NoError(t, vocab.AddWord("laufen", "VERB", models.RegularityIrregular, "walk", models.DifficultyEasy))

	words, err := vocab.GetAll(QueryOptions{})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "run", words[0].Translation)
	assert.Equal(t, models.DefaultDifficulty, words[0].Difficulty)
}

func TestAddWordValidation(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	assert.Error(t, vocab.AddWord("   ", "NOUN", models.RegularityUnknown, "", models.DefaultDifficulty))
	assert.Error(t, vocab.AddWord("haus", "NOUN", models.RegularityUnknown, "", 5))
	assert.Error(t, vocab.AddWord("haus", "NOUN", models.RegularityUnknown, "", -1))
}

func TestWordExistsNormalizes(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	require.NoError(t, vocab.AddWord("Baum", "NOUN", models.RegularityUnknown, "tree", models.DefaultDifficulty))

	exists, err := vocab.WordExists("  BAUM ")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = vocab.WordExists("strauch")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetAllOrderedByWord(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	for _, w := range []string{"zaun", "apfel", "mitte"} {
		require.NoError(t, vocab.AddWord(w, "NOUN", models.RegularityUnknown, "", models.DefaultDifficulty))
	}

	words, err := vocab.GetAll(QueryOptions{})
	require.NoError(t, err)
	require.Len(t, words, 3)
	assert.Equal(t, "apfel", words[0].Word)
	assert.Equal(t, "mitte", words[1].Word)
	assert.Equal(t, "zaun", words[2].Word)
}

func TestGetAllDifficultyFilter(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	require.NoError(t, vocab.AddWord("leicht", "ADJ", models.RegularityUnknown, "easy", models.DifficultyMedium))
	require.NoError(t, vocab.AddWord("schwer", "ADJ", models.RegularityUnknown, "hard", models.DifficultyHard))

	hard := models.DifficultyHard
	words, err := vocab.GetAll(QueryOptions{Difficulty: &hard})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "schwer", words[0].Word)
}

func TestGetAllSearch(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	require.NoError(t, vocab.AddWord("mann", "NOUN", models.RegularityUnknown, "man", models.DefaultDifficulty))
	require.NoError(t, vocab.AddWord("frau", "NOUN", models.RegularityUnknown, "woman", models.DefaultDifficulty))

	// Case-insensitive by default, matches word or translation
	words, err := vocab.GetAll(QueryOptions{Search: "MANN"})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "mann", words[0].Word)

	words, err = vocab.GetAll(QueryOptions{Search: "woman"})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "frau", words[0].Word)

	// Case-sensitive search misses on wrong case
	words, err = vocab.GetAll(QueryOptions{Search: "MANN", CaseSensitive: true})
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestGetAllSearchFoldsUmlauts(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	require.NoError(t, vocab.AddWord("schön", "ADJ", models.RegularityUnknown, "beautiful", models.DefaultDifficulty))

	// SQLite's LOWER() stops at ASCII, so the fold has to happen before
	// the query
	words, err := vocab.GetAll(QueryOptions{Search: "SCHÖN"})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "schön", words[0].Word)

	words, err = vocab.GetAll(QueryOptions{Search: "Beautiful"})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "schön", words[0].Word)
}

func TestGetAllSearchAndFilterCompose(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	require.NoError(t, vocab.AddWord("singen", "VERB", models.RegularityIrregular, "sing", models.DifficultyMedium))
	require.NoError(t, vocab.AddWord("springen", "VERB", models.RegularityIrregular, "jump", models.DifficultyHard))

	hard := models.DifficultyHard
	words, err := vocab.GetAll(QueryOptions{Difficulty: &hard, Search: "ingen"})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "springen", words[0].Word)
}

func TestWordCount(t *testing.T) {
	vocab := NewVocabularyRepository(newTestDB(t), testLogger())

	count, err := vocab.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, vocab.AddWord("eins", "NUM", models.RegularityUnknown, "one", models.DefaultDifficulty))
	require.NoError(t, vocab.AddWord("zwei", "NUM", models.RegularityUnknown, "two", models.DefaultDifficulty))

	count, err = vocab.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabharvester/pkg/models"
)

func newTagFixture(t *testing.T) (*VocabularyRepository, *TagRepository) {
	db := newTestDB(t)
	return NewVocabularyRepository(db, testLogger()), NewTagRepository(db, testLogger())
}

func TestCreateTagUpsertByName(t *testing.T) {
	_, tags := newTagFixture(t)

	id1, err := tags.Create("noun", "nouns and noun-like words")
	require.NoError(t, err)
	require.NotZero(t, id1)

	// Creating the same name again returns the existing id
	id2, err := tags.Create("noun", "")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	all, err := tags.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "nouns and noun-like words", all[0].Description)
}

func TestAddTagToMissingWord(t *testing.T) {
	_, tags := newTagFixture(t)

	ok, err := tags.AddToWord("fehlt", "noun")
	require.NoError(t, err)
	assert.False(t, ok)

	// The tag must not have been created as a side effect of the failure
	all, err := tags.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddTagToWordCreatesOnDemand(t *testing.T) {
	vocab, tags := newTagFixture(t)

	require.NoError(t, vocab.AddWord("haus", "NOUN", models.RegularityUnknown, "house", models.DefaultDifficulty))

	ok, err := tags.AddToWord("haus", "noun")
	require.NoError(t, err)
	assert.True(t, ok)

	// Re-tagging is reported distinctly but still succeeds
	ok, err = tags.AddToWord("haus", "noun")
	require.NoError(t, err)
	assert.True(t, ok)

	wordTags, err := tags.WordTags("haus")
	require.NoError(t, err)
	require.Len(t, wordTags, 1)
	assert.Equal(t, "noun", wordTags[0].Name)
	assert.Equal(t, "", wordTags[0].Description)
}

func TestRemoveTagFromWord(t *testing.T) {
	vocab, tags := newTagFixture(t)

	require.NoError(t, vocab.AddWord("gehen", "VERB", models.RegularityIrregular, "go", models.DefaultDifficulty))
	_, err := tags.AddToWord("gehen", "verb")
	require.NoError(t, err)

	ok, err := tags.RemoveFromWord("gehen", "verb")
	require.NoError(t, err)
	assert.True(t, ok)

	// Removing again reports false: the word no longer carries the tag
	ok, err = tags.RemoveFromWord("gehen", "verb")
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown tag also reports false
	ok, err = tags.RemoveFromWord("gehen", "unbekannt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListAllTagsAlphabetical(t *testing.T) {
	_, tags := newTagFixture(t)

	for _, name := range []string{"verb", "adjective", "noun"} {
		_, err := tags.Create(name, "")
		require.NoError(t, err)
	}

	all, err := tags.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "adjective", all[0].Name)
	assert.Equal(t, "noun", all[1].Name)
	assert.Equal(t, "verb", all[2].Name)
}

func TestWordsWithTag(t *testing.T) {
	vocab, tags := newTagFixture(t)

	require.NoError(t, vocab.AddWord("zug", "NOUN", models.RegularityUnknown, "train", models.DefaultDifficulty))
	require.NoError(t, vocab.AddWord("auto", "NOUN", models.RegularityUnknown, "car", models.DefaultDifficulty))
	require.NoError(t, vocab.AddWord("rot", "ADJ", models.RegularityUnknown, "red", models.DefaultDifficulty))

	for _, w := range []string{"zug", "auto"} {
		_, err := tags.AddToWord(w, "vehicle")
		require.NoError(t, err)
	}

	words, err := tags.WordsWithTag("vehicle")
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "auto", words[0].Word)
	assert.Equal(t, "zug", words[1].Word)
}

func TestDeleteTagCascadesAssociations(t *testing.T) {
	vocab, tags := newTagFixture(t)

	require.NoError(t, vocab.AddWord("blau", "ADJ", models.RegularityUnknown, "blue", models.DefaultDifficulty))
	_, err := tags.AddToWord("blau", "color")
	require.NoError(t, err)

	ok, err := tags.Delete("color")
	require.NoError(t, err)
	assert.True(t, ok)

	wordTags, err := tags.WordTags("blau")
	require.NoError(t, err)
	assert.Empty(t, wordTags)

	ok, err = tags.Delete("color")
	require.NoError(t, err)
	assert.False(t, ok)
}

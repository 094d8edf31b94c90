package pipeline

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/example/vocabharvester/internal/database"
	"github.com/example/vocabharvester/pkg/models"
)

// Token is one analyzed word: the inflected surface form as seen in text,
// its dictionary form and part-of-speech tag
type Token struct {
	Surface string
	Lemma   string
	POS     string
}

// Analyzer tokenizes and lemmatizes raw text. Real NLP lives outside this
// module; anything producing {surface, lemma, pos} records plugs in here.
type Analyzer interface {
	Analyze(text string) ([]Token, error)
}

// Translator looks up a translation for a lemma. Failures are soft: the
// pipeline records "no translation" and keeps going.
type Translator interface {
	Translate(ctx context.Context, lemma, pos string) (string, error)
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanText validates and normalizes raw input, collapsing whitespace.
// Returns "" when there is nothing to process.
func CleanText(raw string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(raw), " ")
}

// verbLike parts of speech carry a regularity flag
func verbLike(pos string) bool {
	return pos == "VERB" || pos == "AUX"
}

// Processor runs the extraction pipeline for one text: analyze, filter
// against the vocabulary store, translate, stage. It implements the
// session package's TextProcessor contract.
type Processor struct {
	analyzer   Analyzer
	translator Translator // nil disables translation lookups
	vocab      *database.VocabularyRepository
	staging    *database.StagingRepository
	irregular  map[string]struct{}
	log        *zap.SugaredLogger
}

// NewProcessor wires the pipeline. The irregular set may be nil, in which
// case every verb is assumed regular.
func NewProcessor(analyzer Analyzer, translator Translator, vocab *database.VocabularyRepository, staging *database.StagingRepository, irregular map[string]struct{}, log *zap.SugaredLogger) *Processor {
	return &Processor{
		analyzer:   analyzer,
		translator: translator,
		vocab:      vocab,
		staging:    staging,
		irregular:  irregular,
		log:        log,
	}
}

// Process analyzes the text and stages every novel candidate under the
// session. Candidates are deduplicated against the vocabulary store and
// against surface forms already staged in the same session. Translation
// happens before the staging write so no store operation waits on network
// I/O. Returns nil when the text yields no tokens.
func (p *Processor) Process(ctx context.Context, text, sessionID string) (*models.ProcessingResult, error) {
	tokens, err := p.analyzer.Analyze(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	result := &models.ProcessingResult{SessionID: sessionID}
	// Lemmas staged in this run: a lemma reappearing under a different
	// surface form upserts onto the same row, so it must not count twice
	staged := make(map[string]struct{})
	for _, tok := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lemma := database.NormalizeWord(tok.Lemma)
		if lemma == "" {
			continue
		}
		result.WordsProcessed++

		known, err := p.vocab.WordExists(lemma)
		if err != nil {
			return nil, err
		}
		if known {
			p.log.Debugw("skipping known word", "lemma", lemma)
			continue
		}

		if _, ok := staged[lemma]; ok {
			continue
		}

		seen, err := p.staging.Exists(tok.Surface, sessionID)
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}

		translation := ""
		if p.translator != nil {
			translation, err = p.translator.Translate(ctx, lemma, tok.POS)
			if err != nil {
				// Translation failure is never fatal, the word is staged
				// without one
				p.log.Warnw("translation lookup failed", "lemma", lemma, "error", err)
				translation = ""
				result.WordsFailed++
			}
		}

		err = p.staging.Add(models.StagedCandidate{
			SurfaceForm:  tok.Surface,
			Lemma:        lemma,
			PartOfSpeech: tok.POS,
			Translation:  translation,
			IsRegular:    p.regularity(lemma, tok.POS),
			SessionID:    sessionID,
		})
		if err != nil {
			return nil, err
		}
		staged[lemma] = struct{}{}
		result.WordsStaged++
		if translation != "" {
			result.WordsTranslated++
		}
	}

	p.log.Infow("processed text",
		"session_id", sessionID,
		"words_processed", result.WordsProcessed,
		"words_staged", result.WordsStaged,
		"words_translated", result.WordsTranslated)
	return result, nil
}

// regularity classifies verb-like lemmas against the irregular-verb set;
// other parts of speech stay unknown
func (p *Processor) regularity(lemma, pos string) models.Regularity {
	if !verbLike(pos) {
		return models.RegularityUnknown
	}
	if _, ok := p.irregular[lemma]; ok {
		return models.RegularityIrregular
	}
	return models.RegularityRegular
}

// LoadIrregularVerbs reads a newline-separated verb list into a lookup set
func LoadIrregularVerbs(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	verbs := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			verbs[strings.ToLower(line)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return verbs, nil
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/vocabharvester/internal/config"
	"github.com/example/vocabharvester/internal/database"
	"github.com/example/vocabharvester/internal/excel"
	"github.com/example/vocabharvester/internal/pipeline"
	"github.com/example/vocabharvester/internal/scheduler"
	"github.com/example/vocabharvester/internal/session"
	"github.com/example/vocabharvester/internal/translation"
	"github.com/example/vocabharvester/pkg/models"
)

var (
	processText    = flag.String("process-text", "", "Run a harvesting session over the given text")
	processFile    = flag.String("process-file", "", "Run a harvesting session over the contents of a file")
	listSessions   = flag.Bool("list-sessions", false, "List known sessions")
	statusID       = flag.String("status", "", "Show the status of a session")
	wordsID        = flag.String("words", "", "List staged words of a session")
	approveLemma   = flag.String("approve", "", "Approve a staged word (requires -session)")
	rejectLemma    = flag.String("reject", "", "Reject a staged word (requires -session)")
	sessionID      = flag.String("session", "", "Session id for -approve and -reject")
	difficulty     = flag.Int("difficulty", -1, "Difficulty 0-4 for -approve (defaults to medium)")
	tagNames       = flag.String("tags", "", "Comma-separated tags for -approve")
	clearID        = flag.String("clear", "", "Discard the staged words of a session")
	deleteID       = flag.String("delete", "", "Delete a session and its staged words")
	exportPath     = flag.String("export", "", "Export the vocabulary store to an Excel or CSV file")
	importPath     = flag.String("import", "", "Bulk-import known words from an Excel or CSV file")
	clearCompleted = flag.Bool("clear-completed", false, "Remove finished sessions with no pending words")
)

func main() {
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	vocab := database.NewVocabularyRepository(db, sugar)
	tags := database.NewTagRepository(db, sugar)
	staging := database.NewStagingRepository(db, sugar)
	approval := database.NewApprovalRepository(db, sugar)

	var translator pipeline.Translator
	if cfg.Translation.BaseURL != "" {
		translator = translation.NewClient(cfg.Translation.BaseURL, cfg.Translation.Timeout, cfg.Translation.MaxRetries, sugar)
	}

	var irregular map[string]struct{}
	if cfg.Sessions.IrregularVerbPath != "" {
		irregular, err = pipeline.LoadIrregularVerbs(cfg.Sessions.IrregularVerbPath)
		if err != nil {
			sugar.Fatalf("Failed to load irregular verbs: %v", err)
		}
	}

	processor := pipeline.NewProcessor(pipeline.SimpleAnalyzer{}, translator, vocab, staging, irregular, sugar)

	store, err := session.NewFileStore(cfg.Sessions.Dir, sugar)
	if err != nil {
		sugar.Fatalf("Failed to open session store: %v", err)
	}
	manager := session.NewManager(store, staging, processor, sugar)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case *processText != "":
		_, result := manager.CreateSession(ctx, *processText)
		printJSON(result)
	case *processFile != "":
		data, err := os.ReadFile(*processFile)
		if err != nil {
			sugar.Fatalf("Failed to read input file: %v", err)
		}
		_, result := manager.CreateSession(ctx, string(data))
		printJSON(result)
	case *listSessions:
		infos, err := manager.ListSessions(nil)
		if err != nil {
			sugar.Fatalf("Failed to list sessions: %v", err)
		}
		printJSON(infos)
	case *statusID != "":
		s := mustSession(manager, *statusID, sugar)
		report, err := s.StatusReport()
		if err != nil {
			sugar.Fatalf("Failed to build status report: %v", err)
		}
		printJSON(report)
	case *wordsID != "":
		s := mustSession(manager, *wordsID, sugar)
		words, err := s.Words()
		if err != nil {
			sugar.Fatalf("Failed to list staged words: %v", err)
		}
		printJSON(words)
	case *approveLemma != "":
		if *sessionID == "" {
			sugar.Fatal("-approve requires -session")
		}
		d := *difficulty
		if d < 0 {
			d = models.DefaultDifficulty
		}
		ok, err := approval.Approve(*approveLemma, *sessionID, d, splitTags(*tagNames))
		if err != nil {
			sugar.Fatalf("Failed to approve word: %v", err)
		}
		fmt.Printf("approved: %v\n", ok)
	case *rejectLemma != "":
		if *sessionID == "" {
			sugar.Fatal("-reject requires -session")
		}
		ok, err := approval.Reject(*rejectLemma, *sessionID)
		if err != nil {
			sugar.Fatalf("Failed to reject word: %v", err)
		}
		fmt.Printf("rejected: %v\n", ok)
	case *clearID != "":
		s := mustSession(manager, *clearID, sugar)
		removed, err := s.ClearData()
		if err != nil {
			sugar.Fatalf("Failed to clear session data: %v", err)
		}
		fmt.Printf("removed %d staged words\n", removed)
	case *deleteID != "":
		if err := manager.DeleteSession(*deleteID); err != nil {
			sugar.Fatalf("Failed to delete session: %v", err)
		}
		fmt.Println("session deleted")
	case *exportPath != "":
		result, err := excel.NewExporter(vocab, tags).ExportWords(excel.DefaultExportConfig(*exportPath))
		if err != nil {
			sugar.Fatalf("Failed to export vocabulary: %v", err)
		}
		fmt.Printf("exported %d words to %s\n", result.Exported, *exportPath)
	case *importPath != "":
		result, err := excel.NewImporter(vocab).ImportWords(excel.DefaultImportConfig(*importPath))
		if err != nil {
			sugar.Fatalf("Failed to import words: %v", err)
		}
		fmt.Printf("imported %d words (%d skipped, %d errors)\n", result.Created, result.Skipped, len(result.Errors))
		for _, e := range result.Errors {
			fmt.Println("  " + e)
		}
	case *clearCompleted:
		removed, err := manager.ClearCompletedSessions()
		if err != nil {
			sugar.Fatalf("Failed to clear completed sessions: %v", err)
		}
		fmt.Printf("removed %d sessions\n", removed)
	default:
		runDaemon(cancel, manager, cfg, sugar)
	}
}

// runDaemon keeps the process alive with the periodic session cleanup
// running until an interrupt arrives.
func runDaemon(cancel context.CancelFunc, manager *session.Manager, cfg config.Config, sugar *zap.SugaredLogger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var sched *scheduler.Scheduler
	if cfg.Cleanup.Enabled {
		sched = scheduler.New(manager, cfg.Cleanup.Interval, sugar)
		sched.Start()
	}

	sugar.Info("Vocabulary harvester started. Press Ctrl+C to stop.")
	sig := <-sigChan
	sugar.Infof("Received signal: %v", sig)
	cancel()

	if sched != nil {
		sched.Stop()
	}
	sugar.Info("Stopped successfully")
}

func mustSession(manager *session.Manager, id string, sugar *zap.SugaredLogger) *session.ProcessingSession {
	s := manager.GetSession(id)
	if s == nil {
		sugar.Fatalf("Unknown session: %s", id)
	}
	return s
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
	fmt.Println(string(data))
}

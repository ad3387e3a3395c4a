package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/whoarder/internal/clippings"
	"github.com/mrlokans/whoarder/internal/config"
	"github.com/mrlokans/whoarder/internal/database"
	"github.com/mrlokans/whoarder/internal/importers"
	"github.com/mrlokans/whoarder/internal/logger"
)

// ImportCommand handles importing clippings from Kindle My Clippings.txt
type ImportCommand struct {
	ClippingsPath string
	DatabasePath  string
	Verbose       bool
	DryRun        bool

	Out io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{Out: os.Stdout}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", "", "Path to Kindle 'My Clippings.txt' file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file for storing imported clippings")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import clippings from Kindle 'My Clippings.txt' to a local database.\n")
		fmt.Fprintf(os.Stderr, "Clippings already in the database are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "The clippings file is typically found at:\n")
		fmt.Fprintf(os.Stderr, "  /Volumes/Kindle/documents/My Clippings.txt\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import from connected Kindle device:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file \"/Volumes/Kindle/documents/My Clippings.txt\"\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file \"My Clippings.txt\" -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ClippingsPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	if cmd.Verbose {
		if err := logger.Init("debug"); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.Out, "Kindle Import")
	fmt.Fprintln(cmd.Out, "=============")

	if cmd.DryRun {
		fmt.Fprintln(cmd.Out, "DRY RUN MODE - No changes will be made")
		fmt.Fprintln(cmd.Out)
	}

	if _, err := os.Stat(cmd.ClippingsPath); os.IsNotExist(err) {
		return fmt.Errorf("clippings file not found: %s", cmd.ClippingsPath)
	}

	fmt.Fprintf(cmd.Out, "File: %s\n", cmd.ClippingsPath)

	if cmd.DryRun {
		coll, err := clippings.Load(cmd.ClippingsPath)
		if err != nil {
			return fmt.Errorf("failed to parse clippings: %w", err)
		}

		fmt.Fprintf(cmd.Out, "Found %d books with %d total clippings\n", len(coll.BookAuthors()), coll.Len())
		if cmd.Verbose {
			cmd.printBooks(coll)
		}
		fmt.Fprintln(cmd.Out, "\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	fmt.Fprintf(cmd.Out, "\nSaving to database: %s\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	result, err := importers.NewPipeline(db).ImportFile(cmd.ClippingsPath)
	if err != nil {
		return fmt.Errorf("failed to import clippings: %w", err)
	}

	fmt.Fprintln(cmd.Out, "\n=== Database Import Summary ===")
	fmt.Fprintf(cmd.Out, "Books in file: %d (%d new)\n", result.Books, result.BooksCreated)
	fmt.Fprintf(cmd.Out, "Clippings processed: %d\n", result.ClippingsProcessed)
	fmt.Fprintf(cmd.Out, "Clippings saved: %d\n", result.ClippingsCreated)
	fmt.Fprintf(cmd.Out, "Clippings skipped (already imported): %d\n", result.ClippingsSkipped)

	fmt.Fprintln(cmd.Out, "\nImport complete!")
	return nil
}

func (cmd *ImportCommand) printBooks(coll *clippings.Collection) {
	fmt.Fprintln(cmd.Out, "\n=== Books Found ===")
	for i, pair := range coll.BookAuthors() {
		author := pair.Author
		if author == "" {
			author = "(no author)"
		}
		fmt.Fprintf(cmd.Out, "%d. \"%s\" by %s (%d clippings)\n",
			i+1, pair.Book, author, len(coll.ByBookAuthor(pair)))
	}
}

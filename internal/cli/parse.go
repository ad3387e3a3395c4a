package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/whoarder/internal/clippings"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseCommand prints the clippings of a file without storing them.
type ParseCommand struct {
	ClippingsPath string
	Format        string

	Out io.Writer
}

func NewParseCommand() *ParseCommand {
	return &ParseCommand{Out: os.Stdout}
}

func (cmd *ParseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", "", "Path to Kindle 'My Clippings.txt' file (required)")
	fs.StringVar(&cmd.Format, "format", FormatText, "Output format: text or json")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s parse -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parse a Kindle 'My Clippings.txt' file and print every clipping.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s parse -file \"/Volumes/Kindle/documents/My Clippings.txt\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s parse -file \"My Clippings.txt\" -format json\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ClippingsPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	if cmd.Format != FormatText && cmd.Format != FormatJSON {
		return fmt.Errorf("unknown format %q (expected %s or %s)", cmd.Format, FormatText, FormatJSON)
	}

	return nil
}

func (cmd *ParseCommand) Run() error {
	coll, err := clippings.Load(cmd.ClippingsPath)
	if err != nil {
		return fmt.Errorf("failed to parse clippings: %w", err)
	}

	if cmd.Format == FormatJSON {
		return cmd.writeJSON(coll)
	}
	cmd.writeText(coll)
	return nil
}

type parseOutput struct {
	Clippings []clippings.Clipping   `json:"clippings"`
	Books     []clippings.BookAuthor `json:"books"`
}

func (cmd *ParseCommand) writeJSON(coll *clippings.Collection) error {
	out := parseOutput{Clippings: coll.Clippings(), Books: coll.BookAuthors()}
	if out.Clippings == nil {
		out.Clippings = []clippings.Clipping{}
	}

	encoder := json.NewEncoder(cmd.Out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(out)
}

func (cmd *ParseCommand) writeText(coll *clippings.Collection) {
	for _, c := range coll.Clippings() {
		fmt.Fprintln(cmd.Out, c.BookAuthor())

		meta := []string{string(c.Type)}
		if c.Page != "" {
			meta = append(meta, c.Page)
		}
		if c.Location != "" {
			meta = append(meta, "Location "+c.Location)
		}
		meta = append(meta, c.Date)
		fmt.Fprintf(cmd.Out, "  %s\n", strings.Join(meta, " | "))

		if c.Contents != "" {
			for _, line := range strings.Split(c.Contents, "\n") {
				fmt.Fprintf(cmd.Out, "  %s\n", line)
			}
		}
		fmt.Fprintln(cmd.Out)
	}

	fmt.Fprintf(cmd.Out, "%d clippings from %d books\n", coll.Len(), len(coll.BookAuthors()))
}

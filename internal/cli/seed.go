package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/giftags/internal/services"
)

// SeedEntry is one GIF's tags for one user.
type SeedEntry struct {
	TgUserID int64    `json:"tg_user_id"`
	TgGifID  string   `json:"tg_gif_id"`
	Tags     []string `json:"tags"`
}

// SeedCommand loads tagged GIFs from a JSON file, e.g. for a local bot setup.
// Each entry replaces that GIF's tags for that user.
type SeedCommand struct {
	DatabasePath string
	File         string

	Out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{Out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to a sqlite database (default: DATABASE_* environment settings)")
	fs.StringVar(&cmd.File, "file", "", "JSON file with [{\"tg_user_id\", \"tg_gif_id\", \"tags\"}] entries (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load tagged GIFs into the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample file:\n")
		fmt.Fprintf(os.Stderr, "  [{\"tg_user_id\": 12345, \"tg_gif_id\": \"abc\", \"tags\": [\"funny\", \"cat\"]}]\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.File == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *SeedCommand) Run() error {
	ctx := context.Background()

	raw, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var entries []SeedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := services.NewGifTagService(db)
	for i, e := range entries {
		if e.TgGifID == "" {
			return fmt.Errorf("entry %d: tg_gif_id is required", i)
		}
		if err := svc.ReconcileGifTags(ctx, e.TgUserID, e.TgGifID, e.Tags); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	fmt.Fprintf(cmd.Out, "Seeded %d entries\n", len(entries))
	return nil
}

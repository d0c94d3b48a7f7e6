package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/giftags/internal/database/tags"
)

// CleanupTagsCommand deletes tags that no user has attached to any GIF.
type CleanupTagsCommand struct {
	DatabasePath string
	DryRun       bool

	Out io.Writer
}

func NewCleanupTagsCommand() *CleanupTagsCommand {
	return &CleanupTagsCommand{Out: os.Stdout}
}

func (cmd *CleanupTagsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-tags", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to a sqlite database (default: DATABASE_* environment settings)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Only count orphan tags")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-tags [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete tags that are no longer attached to any GIF.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CleanupTagsCommand) Run() error {
	ctx := context.Background()

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.DryRun {
		count, err := tags.NewRepository(db.DB).CountOrphanTags(ctx)
		if err != nil {
			return fmt.Errorf("failed to count orphan tags: %w", err)
		}
		fmt.Fprintf(cmd.Out, "DRY RUN: %d orphan tags would be deleted\n", count)
		return nil
	}

	deleted, err := db.DeleteOrphanTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete orphan tags: %w", err)
	}
	fmt.Fprintf(cmd.Out, "Deleted %d orphan tags\n", deleted)
	return nil
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// MigrateCommand creates or updates the database schema and exits.
type MigrateCommand struct {
	DatabasePath string

	Out io.Writer
}

func NewMigrateCommand() *MigrateCommand {
	return &MigrateCommand{Out: os.Stdout}
}

func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to a sqlite database (default: DATABASE_* environment settings)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create or update the users, gifs, tags and user_gif_tags tables.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *MigrateCommand) Run() error {
	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(cmd.Out, "Schema is up to date")
	return nil
}

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type CLI struct {
	Serve   ServeCommand   `cmd:"serve" help:"Start the QA document server."`
	Console ConsoleCommand `cmd:"console" help:"Manage the QA documents of a container in the terminal."`
	List    ListCommand    `cmd:"list" help:"List the QA documents of a container."`
	Get     GetCommand     `cmd:"get" help:"Get a single QA document."`
	Create  CreateCommand  `cmd:"create" help:"Create a QA document."`
	Update  UpdateCommand  `cmd:"update" help:"Update the question and answer of a QA document."`
	Delete  DeleteCommand  `cmd:"delete" help:"Delete a QA document."`
	Match   MatchCommand   `cmd:"match" help:"Find the QA documents with questions closest to a piece of text."`
	Import  ImportCommand  `cmd:"import" help:"Import QA documents from a YAML file or a Pocketbase collection."`
	Version VersionCommand `cmd:"version" help:"Print the version of qadocs."`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		getLogger("error").Error("failed to load .env file", slog.Any("error", err))
		os.Exit(1)
	}
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli, kong.UsageOnError(), kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := getLogger("error")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}

func getLogger(level string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ll,
	}))
}

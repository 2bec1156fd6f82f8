package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/futureletter/futureletter/internal/config"
	"github.com/futureletter/futureletter/internal/enhance"
	"github.com/futureletter/futureletter/internal/enhance/openai"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/ops"
	"github.com/futureletter/futureletter/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "futureletter",
		Usage:   "Letters to your future self",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(db, cfg),
			fetchCmd(db),
			updateCmd(db, cfg),
			deleteCmd(db),
			listCmd(db),
			searchCmd(db),
			dueCmd(db),
			deliverCmd(db),
			enhanceCmd(db, cfg),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			purgeCmd(db),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// createCmd creates the create command.
func createCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a letter (optionally reads content from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Letter title"},
			&cli.StringFlag{Name: "goal", Aliases: []string{"g"}, Usage: "The goal the letter is written around"},
			&cli.StringFlag{Name: "send-date", Aliases: []string{"d"}, Required: true, Usage: "Delivery date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Recipient email"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.BoolFlag{Name: "schedule", Aliases: []string{"s"}, Usage: "Create as scheduled instead of draft"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CreateInput{
				Title:    c.String("title"),
				Goal:     c.String("goal"),
				SendDate: c.String("send-date"),
				Schedule: c.Bool("schedule"),
			}

			// Letter content comes from stdin when piped
			if stdinHasData() {
				content, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Content = content
			}

			if email := c.String("email"); email != "" {
				input.RecipientEmail = &email
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}

			output, err := ops.Create(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a letter and its milestones by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted letters"},
			&cli.BoolFlag{Name: "no-content", Usage: "Exclude the letter body from output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if c.Bool("no-content") {
				includeContent := false
				input.IncludeContent = &includeContent
			}

			output, err := ops.Fetch(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a letter (optionally reads new content from stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "goal", Aliases: []string{"g"}, Usage: "New goal"},
			&cli.StringFlag{Name: "send-date", Aliases: []string{"d"}, Usage: "New delivery date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "New recipient email (empty clears it)"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags"},
			&cli.StringFlag{Name: "status", Usage: "New status: draft|scheduled|delivered"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{
				ID: c.Args().First(),
			}

			// New content comes from stdin when piped
			if stdinHasData() {
				content, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if content != "" {
					input.Content = &content
				}
			}

			if title := c.String("title"); title != "" {
				input.Title = &title
			}
			if goal := c.String("goal"); goal != "" {
				input.Goal = &goal
			}
			if date := c.String("send-date"); date != "" {
				input.SendDate = &date
			}
			if c.IsSet("email") {
				email := c.String("email")
				input.RecipientEmail = &email
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				input.Tags = &tags
			}
			if status := c.String("status"); status != "" {
				input.Status = &status
			}

			output, err := ops.Update(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a letter",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List letters, newest updates first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status: draft|scheduled|delivered"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted letters"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Status:         c.String("status"),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search letter titles, goals, and content",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted letters"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Search(c.Context, db, ops.SearchInput{
				Query:          strings.Join(c.Args().Slice(), " "),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// dueCmd creates the due command.
func dueCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "due",
		Usage: "List scheduled letters whose send date has arrived",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "as-of", Usage: "Reference date (YYYY-MM-DD, default today)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Due(db, ops.DueInput{AsOf: c.String("as-of")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deliverCmd creates the deliver command.
func deliverCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "deliver",
		Usage:     "Record delivery of a scheduled letter",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Deliver(c.Context, db, ops.DeliverInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// enhanceCmd creates the enhance command.
func enhanceCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "enhance",
		Usage:     "Ask the enhancement service for a better title, goal, content, and milestones",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Bypass the cached result"},
			&cli.StringFlag{Name: "apply", Usage: "Comma-separated fields to persist: title,goal,content"},
			&cli.BoolFlag{Name: "apply-milestones", Usage: "Replace the letter's milestones with the suggestions"},
			&cli.BoolFlag{Name: "apply-all", Usage: "Apply every suggestion"},
		},
		Action: func(c *cli.Context) error {
			gateway, err := openai.New(cfg)
			if err != nil {
				return outputError(errors.NewGatewayFailure(err))
			}

			cache := enhance.NewCache(cfg.CacheTTL())

			input := ops.EnhanceInput{
				ID:              c.Args().First(),
				Force:           c.Bool("force"),
				ApplyMilestones: c.Bool("apply-milestones"),
				ApplyAll:        c.Bool("apply-all"),
			}
			if apply := c.String("apply"); apply != "" {
				input.ApplyFields = parseTags(apply)
			}

			output, err := ops.Enhance(c.Context, db, cfg, cache, gateway, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export letters and milestones to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.futureletter/exports/letters-<timestamp>.jsonl)"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted letters"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, db, cfg, ops.ExportInput{
				Path:           c.String("path"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import letters from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(db, cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted letters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command for the web UI.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8377, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if lErr, ok := err.(*errors.LetterError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", lErr.Code, lErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of values.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}

// Command devfolio-contacts inspects the contact messages stored by devfolio
// and retries delivery of messages the notifier rejected.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ericfisherdev/devfolio/internal/adapter/driven/notify"
	sqliteadapter "github.com/ericfisherdev/devfolio/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/devfolio/internal/application"
	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

const defaultListLimit = 20

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	if err := newApp(os.Stdout, slog.Default(), time.Now).Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer, logger *slog.Logger, now func() time.Time) *cli.App {
	cmds := &commands{out: out, logger: logger, now: now}

	return &cli.App{
		Name:   "devfolio-contacts",
		Usage:  "List, show and redeliver stored contact messages",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the devfolio SQLite database",
				Value:   "devfolio.db",
				EnvVars: []string{"DEVFOLIO_DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "recipient",
				Usage:   "address the notifier forwards redelivered messages to",
				EnvVars: []string{"DEVFOLIO_CONTACT_RECIPIENT"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list the most recent messages, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: defaultListLimit, Usage: "maximum messages to list"},
				},
				Action: cmds.list,
			},
			{
				Name:      "show",
				Usage:     "print one message in full",
				ArgsUsage: "<id>",
				Action:    cmds.show,
			},
			{
				Name:      "redeliver",
				Usage:     "forward an undelivered message to the notifier again",
				ArgsUsage: "<id>",
				Action:    cmds.redeliver,
			},
		},
	}
}

type commands struct {
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

// withService opens the database named by --db for the duration of fn.
func (cmds *commands) withService(c *cli.Context, fn func(*application.ContactService) error) error {
	db, err := sqliteadapter.NewDB(c.Context, c.String("db"))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmds.logger.Error("error closing database", "error", closeErr)
		}
	}()

	svc := application.NewContactService(
		sqliteadapter.NewContactRepo(db),
		notify.NewLogNotifier(c.String("recipient"), cmds.logger),
		cmds.logger,
	)
	return fn(svc)
}

func (cmds *commands) list(c *cli.Context) error {
	limit := c.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	return cmds.withService(c, func(svc *application.ContactService) error {
		messages, err := svc.Recent(c.Context, limit)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmds.out, renderContactTable(messages, cmds.now()))
		return err
	})
}

func (cmds *commands) show(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	return cmds.withService(c, func(svc *application.ContactService) error {
		msg, err := svc.Get(c.Context, id)
		if err != nil {
			return err
		}
		return writeContact(cmds.out, msg)
	})
}

func (cmds *commands) redeliver(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	return cmds.withService(c, func(svc *application.ContactService) error {
		msg, err := svc.Redeliver(c.Context, id)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmds.out, "message %d delivered at %s\n", msg.ID, msg.DeliveredAt.Format(time.RFC3339))
		return err
	})
}

func parseID(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("%s expects exactly one message id", c.Command.Name)
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid message id %q", c.Args().First())
	}
	return id, nil
}

// renderContactTable lays messages out as a borderless table with a count
// footer. Message bodies are cut to their first line.
func renderContactTable(messages []model.ContactMessage, now time.Time) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"ID", "Received", "From", "Delivered", "Message"})
	for _, m := range messages {
		tbl.AppendRow(table.Row{
			m.ID,
			humanize.RelTime(m.CreatedAt, now, "ago", "from now"),
			m.Email,
			deliveredLabel(m),
			firstLine(m.Message, 50),
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(messages))})

	return tbl.Render()
}

func writeContact(w io.Writer, m model.ContactMessage) error {
	_, err := fmt.Fprintf(w, "ID:        %d\nFrom:      %s\nReceived:  %s\nDelivered: %s\n\n%s\n",
		m.ID, m.Email, m.CreatedAt.Format(time.RFC3339), deliveredLabel(m), m.Message)
	return err
}

func deliveredLabel(m model.ContactMessage) string {
	if !m.Delivered {
		return "no"
	}
	return m.DeliveredAt.Format(time.RFC3339)
}

func firstLine(s string, limit int) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' {
			runes = runes[:i]
			break
		}
	}
	if len(runes) > limit {
		return string(runes[:limit-1]) + "…"
	}
	return string(runes)
}

// Command leaguectl prints league data from the configured store and
// exports it as a workbook.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	service "github.com/okian/handicap/internal/app"
	"github.com/okian/handicap/internal/config"
	"github.com/okian/handicap/internal/report"
	"github.com/okian/handicap/pkg/logger"
)

// openFunc builds a started service for one command run.
type openFunc func(ctx context.Context, configPath string) (*service.Service, error)

func main() {
	if err := newApp(os.Stdout, openService).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "leaguectl:", err)
		os.Exit(1)
	}
}

func openService(ctx context.Context, configPath string) (*service.Service, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(ctx, configPath)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	svc, err := service.FromConfig(ctx, cfg, logger.NewNop())
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func newApp(out io.Writer, open openFunc) *cli.App {
	withService := func(fn func(c *cli.Context, svc *service.Service) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			svc, err := open(c.Context, c.String("config"))
			if err != nil {
				return err
			}
			defer svc.Stop(c.Context)
			return fn(c, svc)
		}
	}

	return &cli.App{
		Name:      "leaguectl",
		Usage:     "inspect and export league handicaps",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file; defaults to HANDICAP_CONFIG and the environment",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "roster",
				Usage:  "print every player with the current handicap",
				Action: withService(func(c *cli.Context, svc *service.Service) error { return printRoster(c.Context, out, svc) }),
			},
			{
				Name:   "table",
				Usage:  "print the league table",
				Action: withService(func(c *cli.Context, svc *service.Service) error { return printTable(c.Context, out, svc) }),
			},
			{
				Name:      "timeline",
				Usage:     "print one player's games and adjustments",
				ArgsUsage: "<name>",
				Action: withService(func(c *cli.Context, svc *service.Service) error {
					name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
					if name == "" {
						return cli.Exit("timeline needs a player name", 2)
					}
					return printTimeline(c.Context, out, svc, name)
				}),
			},
			{
				Name:  "export",
				Usage: "write roster, table and fixtures to an XLSX workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "league.xlsx", Usage: "output file"},
				},
				Action: withService(func(c *cli.Context, svc *service.Service) error {
					return export(c.Context, svc, c.String("out"))
				}),
			},
		},
	}
}

func printRoster(ctx context.Context, out io.Writer, svc *service.Service) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTEAM\tSTART\tCURRENT\tPLAYED\tW\tL\tCUTS\tINCREASES\tLEFT")
	for _, p := range svc.RosterSummary(ctx) {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			p.Name, dash(p.Team), p.StartHandicap, p.CurrentHandicap, p.GamesPlayed,
			p.Wins, p.Losses, p.CutCount, p.IncreaseCount, p.GamesRemaining)
	}
	return tw.Flush()
}

func printTable(ctx context.Context, out io.Writer, svc *service.Service) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tTEAM\tP\tPTS\tF\tA\tDIFF")
	for _, s := range svc.LeagueTable(ctx) {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%+d\n",
			s.Position, s.Team, s.Played, s.Points, s.FramesFor, s.FramesAgainst, s.FrameDiff)
	}
	return tw.Flush()
}

func printTimeline(ctx context.Context, out io.Writer, svc *service.Service, name string) error {
	tl, err := svc.PlayerTimeline(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s) start %d, now %d\n", tl.Name, dash(tl.Team), tl.StartHandicap, tl.CurrentHandicap)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tRESULT\tHANDICAP\tCHANGE")
	for _, e := range tl.Entries {
		change := ""
		if e.Change != 0 {
			change = fmt.Sprintf("%+d", e.Change)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", e.Game+1, e.Outcome, e.Handicap, change)
	}
	return tw.Flush()
}

func export(ctx context.Context, svc *service.Service, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return report.Write(f, report.Data{
		Roster:  svc.RosterSummary(ctx),
		Table:   svc.LeagueTable(ctx),
		Weeks:   svc.Fixtures(ctx),
		Results: svc.SeasonResults(ctx),
	})
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

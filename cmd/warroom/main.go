package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/IkonicR/ClanOS-sub001/internal/config"
	fxmodules "github.com/IkonicR/ClanOS-sub001/internal/fx"
	"github.com/IkonicR/ClanOS-sub001/internal/logger"
	"github.com/IkonicR/ClanOS-sub001/internal/service"
)

type services struct {
	fx.In

	Ingest      *service.IngestService
	Profiles    *service.ProfileService
	Attendance  *service.AttendanceService
	Lineups     *service.LineupService
	Assignments *service.AssignmentService
	Recompute   *service.RecomputeJob
}

func main() {
	app := &cli.App{
		Name:  "warroom",
		Usage: "clan war scoring from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "sqlite database path (overrides DB_PATH)"},
			&cli.StringFlag{Name: "scoring", Usage: "scoring YAML file (overrides SCORING_CONFIG)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:      "sync",
				Usage:     "store today's snapshot and any started war for a clan",
				ArgsUsage: "CLAN_TAG",
				Action: withServices(func(c *cli.Context, s services) error {
					tag, err := clanArg(c)
					if err != nil {
						return err
					}
					result, err := s.Ingest.SyncClan(c.Context, tag)
					if err != nil {
						return err
					}
					fmt.Printf("Synced %s: %d members, %d wars, %d attacks\n", result.ClanTag, result.Members, result.Wars, result.Attacks)
					if result.WarSkipped != "" {
						fmt.Printf("War not stored: %s\n", result.WarSkipped)
					}
					return nil
				}),
			},
			{
				Name:      "recompute",
				Usage:     "rebuild skill profiles for one clan, or every tracked clan with --all",
				ArgsUsage: "[CLAN_TAG]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "run the batch over every tracked and configured clan"},
				},
				Action: withServices(func(c *cli.Context, s services) error {
					if c.Bool("all") {
						result, err := s.Recompute.Run(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Processed %d clans: %d succeeded, %d failed\n", result.Processed, result.Succeeded, result.Failed)
						return nil
					}

					tag, err := clanArg(c)
					if err != nil {
						return err
					}
					profiles, err := s.Profiles.Recompute(c.Context, tag)
					if err != nil {
						return err
					}

					w := table(os.Stdout)
					fmt.Fprintln(w, "MEMBER\tOFFENSE\tCLEANUP\tCONSISTENCY\tCLUTCH\tPARTICIPATION\tCAPITAL")
					for _, p := range profiles {
						fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n", p.MemberID, p.OffenseSkill, p.CleanupSkill, p.Consistency, p.Clutch, p.Participation, p.CapitalEfficiency)
					}
					return w.Flush()
				}),
			},
			{
				Name:      "attendance",
				Usage:     "missed attacks and risk per member",
				ArgsUsage: "CLAN_TAG",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Usage: "window in days, 7 to 180"},
				},
				Action: withServices(func(c *cli.Context, s services) error {
					tag, err := clanArg(c)
					if err != nil {
						return err
					}
					report, err := s.Attendance.Analyze(c.Context, tag, c.Int("days"))
					if err != nil {
						return err
					}

					fmt.Printf("%d wars over %d days, %d members, average miss rate %d%%\n",
						report.Summary.EventsAnalyzed, report.Summary.WindowDays, report.Summary.MembersAnalyzed, report.Summary.AvgMissRate)
					w := table(os.Stdout)
					fmt.Fprintln(w, "MEMBER\tNAME\tWARS\tUSED\tMISSED\tMISS%\tRISK")
					for _, m := range report.Members {
						fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%d\t%d\t%d\n", m.MemberID, m.MemberName, m.WarsCount, m.UsedAttacks, m.ExpectedAttacks, m.MissedAttacks, m.MissRate, m.Risk)
					}
					return w.Flush()
				}),
			},
			{
				Name:      "lineup",
				Usage:     "rank current members into lineup and bench",
				ArgsUsage: "CLAN_TAG",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Usage: "team size, 5 to 50"},
				},
				Action: withServices(func(c *cli.Context, s services) error {
					tag, err := clanArg(c)
					if err != nil {
						return err
					}
					lineup, err := s.Lineups.Build(c.Context, tag, c.Int("size"))
					if err != nil {
						return err
					}

					w := table(os.Stdout)
					fmt.Fprintln(w, "#\tMEMBER\tNAME\tTH\tCOMPOSITE")
					for i, e := range lineup.Lineup {
						fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", i+1, e.Member.ID, e.Member.Name, e.Member.TownHallLevel, e.Composite)
					}
					if err := w.Flush(); err != nil {
						return err
					}
					fmt.Printf("Bench: %d\n", len(lineup.Bench))
					for _, e := range lineup.Openers {
						fmt.Printf("Opener: %s %s\n", e.Member.ID, e.Member.Name)
					}
					for _, e := range lineup.CleanupSpecialists {
						fmt.Printf("Cleanup: %s %s\n", e.Member.ID, e.Member.Name)
					}
					return nil
				}),
			},
			{
				Name:      "assign",
				Usage:     "pair attackers with opponent bases for the current war",
				ArgsUsage: "CLAN_TAG",
				Action: withServices(func(c *cli.Context, s services) error {
					tag, err := clanArg(c)
					if err != nil {
						return err
					}
					war, plan, err := s.Assignments.Plan(c.Context, tag)
					if errors.Is(err, service.ErrNoActiveWar) {
						fmt.Println("No war in preparation or battle day.")
						return nil
					}
					if err != nil {
						return err
					}

					fmt.Printf("%s vs %s (%s), team size %d\n", war.ClanTag, war.OpponentName, war.State, plan.TeamSize)
					w := table(os.Stdout)
					fmt.Fprintln(w, "ATTACKER\tTH\tDEFENDER\tTH\tPOS\tSTARS")
					for _, a := range plan.Assignments {
						fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%.1f\n", a.Attacker.Name, a.Attacker.TownHallLevel, a.Defender.Name, a.Defender.TownHallLevel, a.Defender.MapPosition, a.PredictedStars)
					}
					if err := w.Flush(); err != nil {
						return err
					}
					for _, d := range plan.Alternates {
						fmt.Printf("Alternate: %s (TH%d, #%d)\n", d.Name, d.TownHallLevel, d.MapPosition)
					}
					return nil
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withServices builds the dependency graph for one command and closes the database afterwards.
func withServices(action func(*cli.Context, services) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		var s services
		app := fx.New(
			fxmodules.Module,
			fx.NopLogger,
			fx.Decorate(func(zerolog.Logger) zerolog.Logger {
				return logger.NewConsole()
			}),
			fx.Decorate(func(cfg *config.Config) (*config.Config, error) {
				if c.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				if c.IsSet("db") {
					cfg.DBPath = c.String("db")
				}
				if c.IsSet("scoring") {
					sc, err := config.LoadScoring(c.String("scoring"))
					if err != nil {
						return nil, err
					}
					cfg.Scoring = sc
				}
				return cfg, nil
			}),
			fx.Invoke(func(lc fx.Lifecycle, db *sql.DB) {
				lc.Append(fx.StopHook(db.Close))
			}),
			fx.Populate(&s),
		)
		if err := app.Err(); err != nil {
			return err
		}

		if err := app.Start(c.Context); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
			defer cancel()
			_ = app.Stop(stopCtx)
		}()

		return action(c, s)
	}
}

func clanArg(c *cli.Context) (string, error) {
	tag := c.Args().First()
	if tag == "" {
		return "", fmt.Errorf("%s: clan tag argument is required", c.Command.Name)
	}
	return tag, nil
}

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

// Package console is a line-oriented score table for playing without a server.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"dominoscore/internal/app"
	"dominoscore/internal/domain"
)

// ErrQuit is returned by Execute when the user asks to leave.
var ErrQuit = errors.New("quit")

const helpText = `Commands:
  target N               set the target score for the next match
  start P1 P2 P3 P4      start a match (P1 & P2 against P3 & P4)
  round A B              add a round: A for the first team, B for the second
  confirm                apply a pending 106 penalty
  new                    new match with the same teams
  reset                  back to setup at the default target
  clear                  delete all archived matches
  show                   print the score sheet
  stats                  print player and team statistics
  history                list archived matches, newest first
  help                   this text
  quit                   leave
`

// Console drives one session from text commands.
type Console struct {
	svc     *app.Service
	history *app.HistoryGateway
	session app.Session
	out     io.Writer
}

// New returns a console whose archive is loaded through history. The table
// starts, and resets, at svc's default target.
func New(ctx context.Context, svc *app.Service, history *app.HistoryGateway, out io.Writer) *Console {
	session := svc.NewSession(history.Load(ctx))
	return &Console{svc: svc, history: history, session: session, out: out}
}

// Session returns the current session.
func (c *Console) Session() app.Session {
	return c.session
}

// Run reads commands until EOF or quit.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(c.out, "Domino scorekeeper. %d archived matches. Type help for commands.\n", len(c.session.History))
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(c.out)
			return sc.Err()
		}
		err := c.Execute(ctx, sc.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

// Execute runs a single command line.
func (c *Console) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var action app.Action
	switch cmd {
	case "target":
		if len(args) != 1 {
			return errors.New("usage: target N")
		}
		action = app.SetTargetScore{Score: app.ParseTargetScore(args[0])}
	case "start":
		if len(args) != app.PlayersPerMatch {
			return app.ErrIncompleteSetup
		}
		var players [app.PlayersPerMatch]string
		copy(players[:], args)
		action = app.StartMatch{Players: players}
	case "round":
		if len(args) != 2 {
			return errors.New("usage: round A B")
		}
		action = app.AddRound{Scores: domain.RoundScores{
			domain.TeamAID: app.ParseScore(args[0]),
			domain.TeamBID: app.ParseScore(args[1]),
		}}
	case "confirm":
		action = app.ConfirmPenalty{}
	case "new":
		action = app.NewMatch{}
	case "reset":
		action = app.ResetTable{}
	case "clear":
		action = app.ClearHistory{}
	case "show":
		c.printMatch()
		return nil
	case "stats":
		c.printStats()
		return nil
	case "history", "log":
		c.printLog()
		return nil
	case "help", "?":
		fmt.Fprint(c.out, helpText)
		return nil
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}

	next, events, err := c.svc.Apply(c.session, action)
	if err != nil {
		return err
	}
	c.session = next
	c.history.Persist(ctx, c.session, events)
	for _, ev := range events {
		c.printEvent(ev)
	}
	return nil
}

func (c *Console) printEvent(ev app.Event) {
	switch p := ev.Payload.(type) {
	case app.TargetScoreSetPayload:
		fmt.Fprintf(c.out, "Target score: %d\n", p.TargetScore)
	case app.MatchStartedPayload:
		fmt.Fprintf(c.out, "Match to %d: %s vs %s\n", p.TargetScore, p.Teams[domain.SlotA].DisplayName, p.Teams[domain.SlotB].DisplayName)
	case app.RoundAddedPayload:
		fmt.Fprintf(c.out, "Round %d: %d - %d\n", p.Number, p.Totals[domain.TeamAID], p.Totals[domain.TeamBID])
	case app.PenaltyPendingPayload:
		fmt.Fprintf(c.out, "%s is on exactly %d! Type confirm to reset their score to 0.\n", p.Team.DisplayName, p.Total)
	case app.PenaltyAppliedPayload:
		fmt.Fprintf(c.out, "Penalty applied: %s %+d\n", p.Team.DisplayName, p.Adjustment)
	case app.MatchCompletedPayload:
		r := p.Record
		fmt.Fprintf(c.out, "%s win %d - %d (%s). Type new for a rematch.\n", r.Winner.DisplayName, r.WinnerScore, r.LoserScore, winTypeLabel(r.WinType))
	case app.HistoryClearedPayload:
		fmt.Fprintf(c.out, "Deleted %d archived matches.\n", p.Removed)
	default:
		if ev.Kind == app.EventTableReset {
			fmt.Fprintln(c.out, "Table reset.")
		}
	}
}

func winTypeLabel(w domain.WinType) string {
	switch w {
	case domain.WinShutout:
		return "shutout"
	case domain.WinOvershootPenalty:
		return "106 penalty"
	default:
		return "standard"
	}
}

func (c *Console) printMatch() {
	if c.session.Match == nil {
		fmt.Fprintf(c.out, "No match. Target score %d.\n", c.session.TargetScore)
		return
	}
	view := app.BuildMatchView(*c.session.Match)
	a, b := view.Teams[domain.SlotA], view.Teams[domain.SlotB]

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Round\t%s\t%s\t\n", a.DisplayName, b.DisplayName)
	for _, r := range view.Rounds {
		label := fmt.Sprint(r.Number)
		if r.Corrective {
			label = "Penalty"
		}
		fmt.Fprintf(w, "%s\t%d (%d)\t%d (%d)\t\n", label, r.Scores[a.ID], r.Cumulative[a.ID], r.Scores[b.ID], r.Cumulative[b.ID])
	}
	fmt.Fprintf(w, "Total\t%d\t%d\t\n", view.Totals[a.ID], view.Totals[b.ID])
	w.Flush()

	switch {
	case view.Outcome != nil:
		fmt.Fprintf(c.out, "Winner: %s (%s)\n", view.Outcome.Winner.DisplayName, winTypeLabel(view.Outcome.WinType))
	case view.PendingPenalty != nil:
		fmt.Fprintf(c.out, "Pending penalty: %s\n", view.PendingPenalty.DisplayName)
	default:
		fmt.Fprintf(c.out, "Playing to %d, %d rounds played.\n", view.TargetScore, view.PlayedRounds)
	}
}

func (c *Console) printStats() {
	view := app.BuildStatsView(c.session.History)
	fmt.Fprintf(c.out, "Games: %d  Shutouts: %d  106 penalties: %d\n", view.TotalGames, view.ShutoutWins, view.OvershootPenalties)
	if view.TotalGames == 0 {
		return
	}
	c.printStatLines("Player", view.Players)
	c.printStatLines("Team", view.Teams)
}

func (c *Console) printLog() {
	recent := app.BuildStatsView(c.session.History).Recent
	if len(recent) == 0 {
		fmt.Fprintln(c.out, "No archived matches.")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Played\tWinner\tLoser\tScore\tWin\t")
	for _, m := range recent {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d - %d\t%s\t\n", m.PlayedAt.Local().Format("2006-01-02 15:04"), m.Winner, m.Loser, m.WinnerScore, m.LoserScore, winTypeLabel(m.WinType))
	}
	w.Flush()
}

func (c *Console) printStatLines(title string, lines []app.StatLine) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPlayed\tWon\tLost\tShutout losses\tWin %%\t\n", title)
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d%%\t\n", l.Name, l.GamesPlayed, l.Wins, l.Losses, l.ShutoutLosses, l.WinPercent)
	}
	w.Flush()
}

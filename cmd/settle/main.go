// Command settle computes balances and a settlement plan for one event
// snapshot without a server or database.
//
// The input is the JSON form of an event as returned by GetEvent:
//
//	{
//	  "id": "trip",
//	  "participants": [{"id": "a", "name": "Alice"}, {"id": "b", "name": "Bob"}],
//	  "expenses": [{"id": "e1", "amount": "100.00", "payer_id": "a"}],
//	  "payments": []
//	}
//
// Usage:
//
//	settle [-places 2] [-mode half-up] [-json] [snapshot.json]
//
// With no file argument the snapshot is read from stdin.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/money"
	"github.com/mmynk/eventsplit/internal/service"
	"github.com/mmynk/eventsplit/pkg/api"
	"github.com/mmynk/eventsplit/pkg/logging"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type report struct {
	Balances   *api.GetBalancesResponse   `json:"balances"`
	Settlement *api.GetSettlementResponse `json:"settlement"`
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("settle", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := money.DefaultPolicy()
	places := fs.Int("places", int(defaults.Places), "currency decimal places")
	mode := fs.String("mode", defaults.Mode.String(), "rounding mode: half-up, half-even or down")
	maxDigits := fs.Int("max-digits", int(defaults.MaxDigits), "maximum significant digits of an input amount")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	verbose := fs.Bool("v", false, "log debug output to stderr")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(logging.NewHandler(stderr, level, logging.Text)))

	parsedMode, err := money.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	engine, err := calculator.NewEngine(money.Policy{
		Places:    int32(*places),
		Mode:      parsedMode,
		MaxDigits: int32(*maxDigits),
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	in := stdin
	if path := fs.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		defer f.Close()
		in = f
	}

	var event api.Event
	if err := json.NewDecoder(in).Decode(&event); err != nil {
		fmt.Fprintf(stderr, "failed to decode snapshot: %v\n", err)
		return exitUsage
	}

	snap := toSnapshot(&event)
	slog.Debug("Snapshot loaded",
		"event_id", snap.EventID,
		"participants", len(snap.Participants),
		"expenses", len(snap.Expenses),
		"payments", len(snap.Payments),
	)

	result, err := engine.Settle(snap)
	if err != nil {
		var validationErr *calculator.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(stderr, "snapshot has %d problem(s):\n", len(validationErr.Violations))
			for _, v := range validationErr.Violations {
				fmt.Fprintf(stderr, "  - %s\n", v)
			}
			return exitInvalid
		}
		fmt.Fprintln(stderr, err)
		return exitInvalid
	}

	policy := engine.Policy()
	out := report{
		Balances: &api.GetBalancesResponse{
			Balances:          service.BalancesToAPI(result.Sheet, policy),
			SkippedExpenseIDs: result.Sheet.Skipped,
			Total:             policy.Format(result.Sheet.Total()),
		},
		Settlement: service.SettlementToAPI(result, policy),
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(stderr, err)
			return exitInvalid
		}
		return exitOK
	}

	printReport(stdout, out)
	return exitOK
}

func toSnapshot(event *api.Event) calculator.EventSnapshot {
	snap := calculator.EventSnapshot{EventID: event.ID}
	for _, p := range event.Participants {
		snap.Participants = append(snap.Participants, calculator.Participant{ID: p.ID, Name: p.Name})
	}
	for _, e := range event.Expenses {
		snap.Expenses = append(snap.Expenses, calculator.ExpenseForBalance{
			ID:       e.ID,
			Amount:   e.Amount,
			PayerID:  e.PayerID,
			SplitIDs: e.SplitIDs,
		})
	}
	for _, p := range event.Payments {
		snap.Payments = append(snap.Payments, calculator.PaymentForBalance{
			ID:     p.ID,
			FromID: p.FromID,
			ToID:   p.ToID,
			Amount: p.Amount,
		})
	}
	return snap
}

func printReport(w io.Writer, r report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "PARTICIPANT\tPAID\tOWED\tNET\t")
	for _, b := range r.Balances.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", b.Name, b.TotalPaid, b.TotalOwed, b.NetBalance)
	}
	tw.Flush()

	for _, id := range r.Balances.SkippedExpenseIDs {
		fmt.Fprintf(w, "skipped expense %s: nobody to split it among\n", id)
	}

	fmt.Fprintln(w)
	if len(r.Settlement.Transfers) == 0 {
		fmt.Fprintln(w, "No transfers needed.")
	}
	for _, t := range r.Settlement.Transfers {
		fmt.Fprintf(w, "%s pays %s %s\n", t.FromName, t.ToName, t.Amount)
	}

	if !r.Settlement.Settled {
		fmt.Fprintf(w, "\nRounding residual %s left unsettled:\n", r.Settlement.Residual)
		for _, b := range r.Settlement.Unsettled {
			fmt.Fprintf(w, "  %s %s\n", b.Name, b.NetBalance)
		}
	}
}

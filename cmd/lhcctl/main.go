package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"lawhealth/internal/app"
	"lawhealth/internal/config"
	"lawhealth/internal/evaluator"
	"lawhealth/internal/model"
	"lawhealth/internal/repository"
	"lawhealth/internal/sampler"
	"lawhealth/internal/service"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type options struct {
	json bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "lhcctl",
		Short: "Law Health Check operator CLI",
		Long: `lhcctl inspects the embedded question banks, scores answer files offline
and performs operator tasks against the service's MongoDB.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "output JSON")

	root.AddCommand(poolCmd(opts))
	root.AddCommand(drawCmd(opts))
	root.AddCommand(evaluateCmd(opts))
	root.AddCommand(tokenCmd())
	root.AddCommand(indexesCmd())
	return root
}

func poolCmd(opts *options) *cobra.Command {
	pool := &cobra.Command{Use: "pool", Short: "Inspect the question pool"}
	pool.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show question counts per domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := app.LoadPool()
			if err != nil {
				return err
			}
			stats := p.Stats()
			if opts.json {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			tw := newTable(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Domain", "Name", "Questions"})
			for _, d := range stats.ByDomain {
				tw.AppendRow(table.Row{d.ID, d.Name, d.Count})
			}
			tw.AppendFooter(table.Row{"", "Total", stats.Total})
			tw.Render()
			return nil
		},
	})
	return pool
}

func drawCmd(opts *options) *cobra.Command {
	var (
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw a random question set",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := app.LoadPool()
			if err != nil {
				return err
			}
			var sopts []sampler.Option
			if cmd.Flags().Changed("seed") {
				sopts = append(sopts, sampler.WithSeed(seed))
			}
			drawn, err := sampler.New(p, sopts...).Draw(count)
			if err != nil {
				return err
			}
			views := model.Views(drawn)
			if opts.json {
				return printJSON(cmd.OutOrStdout(), views)
			}
			tw := newTable(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"ID", "Domain", "Type", "Question"})
			for _, v := range views {
				tw.AppendRow(table.Row{v.ID, v.SourceCategory, v.Type, v.Text})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of questions")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible draw")
	return cmd
}

// answerFile is the on-disk shape accepted by the evaluate command
type answerFile struct {
	Answers     model.Answers        `json:"answers"`
	QuestionIDs []string             `json:"questionIds"`
	Subject     model.SubjectContext `json:"subject"`
}

func evaluateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <answers.json>",
		Short: "Score an answer file offline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var in answerFile
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			p, formatter, err := app.LoadPool()
			if err != nil {
				return err
			}
			ids := in.QuestionIDs
			if len(ids) == 0 {
				for id := range in.Answers {
					ids = append(ids, id)
				}
				sort.Strings(ids)
			}
			questions := p.ByIDs(ids)
			if len(questions) == 0 {
				return fmt.Errorf("none of the %d question ids exist in the pool", len(ids))
			}

			ev := evaluator.New(p.Domains()).Evaluate(in.Answers, questions, in.Subject.SizeTier)
			result := formatter.Format(ev, in.Subject)
			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	return cmd
}

func printResult(w io.Writer, r model.AssessmentResult) {
	fmt.Fprintf(w, "%s: %d%% (%.2f / %.2f)\n", r.GradeLabel, r.Percentage, r.RawScore, r.MaxScore)
	fmt.Fprintln(w, r.GradeDescription)
	fmt.Fprintf(w, "answered %d, skipped %d\n", r.AnsweredCount, r.SkippedCount)

	ids := make([]string, 0, len(r.CategoryBreakdown))
	for id := range r.CategoryBreakdown {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Domain", "Score", "Max", "%", "Violations"})
	for _, id := range ids {
		c := r.CategoryBreakdown[id]
		tw.AppendRow(table.Row{c.Name, fmt.Sprintf("%.2f", c.Score), fmt.Sprintf("%.2f", c.MaxScore), c.Percentage, c.ViolationCount})
	}
	tw.Render()

	if len(r.Violations) > 0 {
		vt := newTable(w)
		vt.AppendHeader(table.Row{"Question", "Severity", "Finding"})
		for _, v := range r.Violations {
			vt.AppendRow(table.Row{v.QuestionID, v.Severity, v.Message})
		}
		vt.Render()
	}
}

func tokenCmd() *cobra.Command {
	var (
		userID  string
		company string
		tier    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed user token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			tok, err := service.NewAuthService(cfg.JWTSecret).GenerateToken(userID, company, model.SizeTier(tier), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "subject id")
	cmd.Flags().StringVar(&company, "company", "", "company display name")
	cmd.Flags().StringVar(&tier, "tier", "", "size tier (micro, small, medium, large)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, err := app.ConnectMongo(ctx, cfg.MongoURI)
			if err != nil {
				return err
			}
			defer client.Disconnect(ctx)

			name, err := repository.EnsureIndexes(ctx, client.Database(cfg.MongoDB))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "index %s ready on %s\n", name, cfg.MongoDB)
			return nil
		},
	}
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	return tw
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

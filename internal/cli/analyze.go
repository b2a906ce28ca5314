package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/SeamusWaldron/gocube_reconstruct"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/analysis"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/storage"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

var (
	analyzeJSON  bool
	analyzeSave  bool
	analyzeNotes string
	analyzeTotal int64
	analyzeDiag  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <solve.json>",
	Short: "Reconstruct a recorded solve",
	Long: `Reconstruct a solve file and print the time spent in each step.

The solve file holds a scramble (or a starting facelet string) and the
timestamped moves:

  {"scramble": "R U R' ...", "moves": [{"move": "F", "ts_ms": 0}, ...], "total_ms": 12840}

Examples:
  reconstruct analyze solve.json
  reconstruct analyze solve.json --method roux --json
  reconstruct analyze solve.json --save --notes "PB single"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the reports as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Store the solve and its reports in the database")
	analyzeCmd.Flags().StringVar(&analyzeNotes, "notes", "", "Notes to store with the solve")
	analyzeCmd.Flags().BoolVar(&analyzeDiag, "diagnose", false, "List cancellations, merges and back-and-forth turns per step")
	analyzeCmd.Flags().Int64Var(&analyzeTotal, "total", 0, "Timer result in ms; overrides total_ms in the file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	solve, err := types.LoadSolve(args[0])
	if err != nil {
		return err
	}
	if analyzeNotes != "" {
		solve.Notes = analyzeNotes
	}
	if analyzeTotal > 0 {
		solve.TotalMs = analyzeTotal
	}

	ms, err := methods()
	if err != nil {
		return err
	}

	reports, err := analyzeSolve(cmd.Context(), solve, ms)
	if err != nil {
		return err
	}

	if analyzeSave {
		if err := saveReports(solve, reports); err != nil {
			return err
		}
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(renderReport(r))
		if analyzeDiag {
			fmt.Print(renderRepetitions(analysis.AnalyzeStepRepetitions(r)))
		}
	}
	return nil
}

// analyzeSolve reconstructs solve once per method, concurrently.
func analyzeSolve(ctx context.Context, solve *types.Solve, ms []reconstruct.Method) ([]*reconstruct.Report, error) {
	facelet, err := solve.StartFacelet()
	if err != nil {
		return nil, err
	}

	reports := make([]*reconstruct.Report, len(ms))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range ms {
		g.Go(func() error {
			a, err := reconstruct.NewAnalyzer(m, facelet, analyzerOptions()...)
			if err != nil {
				return err
			}
			if err := reconstruct.FeedSolve(a, solve); err != nil {
				return fmt.Errorf("failed to feed %s analyzer: %w", m, err)
			}
			r, err := a.Analysis(ctx, float64(solve.TotalMs))
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"method": m,
				"stage":  a.HighestStage().String(),
				"moves":  r.MoveCount,
				"total":  r.TotalTime,
			}).Debug("analysis complete")
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func saveReports(solve *types.Solve, reports []*reconstruct.Report) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewSolveRepository(db)
	for _, r := range reports {
		id, err := repo.Create(solve, r)
		if err != nil {
			return err
		}
		fmt.Println(statusStyle.Render(fmt.Sprintf("Saved %s solve %s", r.Method, id)))
	}
	return nil
}

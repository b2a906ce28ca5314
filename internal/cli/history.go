package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_reconstruct/internal/analysis"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/storage"
)

var (
	listLimit   int
	showLast    bool
	trendWindow int
	trendJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved solves",
	Long:  `Commands for listing, showing and summarizing solves saved with 'analyze --save'.`,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent solves",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [solve-id]",
	Short: "Show the stored report of a solve",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <solve-id>",
	Short: "Delete a saved solve",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Summarize recent solves per method",
	Long: `Average step times, percentages and move counts over the most recent
solves, with best and worst times, rolling averages and improvement from the
oldest to the newest quarter of the window.`,
	RunE: runHistoryTrend,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Number of solves to list")
	historyListCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Number of solves to list")

	historyCmd.AddCommand(historyShowCmd)
	historyShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent solve")

	historyCmd.AddCommand(historyDeleteCmd)

	historyCmd.AddCommand(historyTrendCmd)
	historyTrendCmd.Flags().IntVar(&trendWindow, "window", 50, "Number of recent solves per method")
	historyTrendCmd.Flags().BoolVar(&trendJSON, "json", false, "Print the trend reports as JSON")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	method := ""
	if methodFlag != "" && methodFlag != "both" {
		method = methodFlag
	}

	solves, err := storage.NewSolveRepository(db).List(listLimit, method)
	if err != nil {
		return err
	}
	if len(solves) == 0 {
		fmt.Println("No solves saved yet. Save one with: reconstruct analyze <file> --save")
		return nil
	}

	fmt.Println(titleStyle.Render("Recent solves"))
	for _, s := range solves {
		notes := ""
		if s.Notes != nil {
			notes = "  " + statusStyle.Render(*s.Notes)
		}
		fmt.Printf("%s  %s  %-4s  %8s  %3d moves%s\n",
			s.SolveID[:8], s.CreatedAt.Local().Format(time.DateTime), s.Method,
			formatMs(s.TotalMs), s.MoveCount, notes)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !showLast {
		return fmt.Errorf("specify a solve ID or --last")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	solveID, err := resolveSolveID(db, args)
	if err != nil {
		return err
	}

	report, err := storage.Report(db, solveID)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("solve %s not found", solveID)
	}

	fmt.Print(renderReport(report))
	return nil
}

// resolveSolveID accepts a full ID, a unique ID prefix or --last.
func resolveSolveID(db *storage.DB, args []string) (string, error) {
	repo := storage.NewSolveRepository(db)
	if len(args) == 0 {
		last, err := repo.GetLast()
		if err != nil {
			return "", err
		}
		if last == nil {
			return "", fmt.Errorf("no solves found")
		}
		return last.SolveID, nil
	}

	id := args[0]
	if s, err := repo.Get(id); err != nil || s != nil {
		return id, err
	}

	all, err := repo.List(-1, "")
	if err != nil {
		return "", err
	}
	var match string
	for _, s := range all {
		if strings.HasPrefix(s.SolveID, id) {
			if match != "" {
				return "", fmt.Errorf("solve ID prefix %s is ambiguous", id)
			}
			match = s.SolveID
		}
	}
	if match == "" {
		return "", fmt.Errorf("solve %s not found", id)
	}
	return match, nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	solveID, err := resolveSolveID(db, args)
	if err != nil {
		return err
	}
	if err := storage.NewSolveRepository(db).Delete(solveID); err != nil {
		return err
	}
	fmt.Printf("Deleted solve %s\n", solveID)
	return nil
}

func runHistoryTrend(cmd *cobra.Command, args []string) error {
	ms, err := methods()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var reports []*analysis.TrendReport
	for _, m := range ms {
		data, err := loadTrendData(db, string(m), trendWindow)
		if err != nil {
			return err
		}
		reports = append(reports, analysis.AnalyzeTrends(string(m), data))
	}

	if trendJSON {
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for _, r := range reports {
		printTrend(r)
	}
	return nil
}

func loadTrendData(db *storage.DB, method string, window int) ([]analysis.SolveData, error) {
	solves, err := storage.NewSolveRepository(db).List(window, method)
	if err != nil {
		return nil, err
	}

	steps := storage.NewStepRepository(db)
	data := make([]analysis.SolveData, 0, len(solves))
	for _, s := range solves {
		st, err := steps.Steps(s.SolveID)
		if err != nil {
			return nil, err
		}
		data = append(data, analysis.SolveData{
			SolveID:   s.SolveID,
			CreatedAt: s.CreatedAt,
			TotalMs:   s.TotalMs,
			MoveCount: s.MoveCount,
			TPS:       s.TPS,
			Steps:     st,
		})
	}
	return data, nil
}

func printTrend(r *analysis.TrendReport) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s trend", strings.ToUpper(r.Method))))
	if r.Solves == 0 {
		fmt.Println(statusStyle.Render("no timed solves"))
		fmt.Println()
		return
	}

	fmt.Printf("Solves: %d  Mean: %s  Moves: %.1f  TPS: %.2f\n", r.Solves, formatMs(r.AvgTimeMs), r.AvgMoves, r.AvgTPS)
	fmt.Printf("Best: %s  Worst: %s  Improvement: %+.1f%%  Consistency: %.0f\n",
		formatMs(r.Best.TimeMs), formatMs(r.Worst.TimeMs), r.ImprovementPct, r.ConsistencyScore)

	windows := make([]int, 0, len(r.RollingAvgs))
	for w := range r.RollingAvgs {
		windows = append(windows, w)
	}
	sort.Ints(windows)
	for _, w := range windows {
		fmt.Printf("  ao%d: %s\n", w, formatMs(r.RollingAvgs[w]))
	}

	for _, s := range r.Steps {
		fmt.Printf("%s %5.1f%%  %8s  %4.1f moves  skip %3.0f%%\n",
			phaseStyle.Render(fmt.Sprintf("%-14s", s.Name)), s.AvgPercent, formatMs(s.AvgTimeMs), s.AvgMoves, s.SkipRate*100)
	}
	fmt.Println()
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_reconstruct"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/storage"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

var (
	exportFormat string
	exportOutput string
	exportLast   bool
)

var exportCmd = &cobra.Command{
	Use:   "export [solve-id]",
	Short: "Export a saved solve",
	Long: `Export a saved solve as JSON.

Formats:
  report  the solve together with its stored report
  solve   the solve file alone, ready for 'reconstruct analyze'
  moves   the move sequence in notation

Examples:
  reconstruct export --last
  reconstruct export 3f2a9c1e --format solve -o solve.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last solve")
	exportCmd.Flags().StringVar(&exportFormat, "format", "report", "Export format (report, solve, moves)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

type exportedSolve struct {
	SolveID   string              `json:"solve_id"`
	CreatedAt string              `json:"created_at"`
	Solve     *types.Solve        `json:"solve"`
	Report    *reconstruct.Report `json:"report"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !exportLast {
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
	solve, err := storage.NewSolveRepository(db).Get(solveID)
	if err != nil {
		return err
	}
	if solve == nil {
		return fmt.Errorf("solve %s not found", solveID)
	}

	var output string
	switch strings.ToLower(exportFormat) {
	case "report":
		report, err := storage.Report(db, solveID)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(exportedSolve{
			SolveID:   solve.SolveID,
			CreatedAt: solve.CreatedAt.Format(time.RFC3339),
			Solve:     solve.Record(),
			Report:    report,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		output = string(data)

	case "solve":
		data, err := json.MarshalIndent(solve.Record(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		output = string(data)

	case "moves":
		output = strings.Join(types.Notations(solve.Moves), " ")

	default:
		return fmt.Errorf("unknown format: %s (use report, solve or moves)", exportFormat)
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	if dir := filepath.Dir(exportOutput); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Exported solve %s to %s\n", solveID, exportOutput)
	return nil
}

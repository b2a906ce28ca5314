package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_reconstruct"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/storage"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

var (
	replaySpeed  float64
	replayFromDB bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <solve.json | solve-id>",
	Short: "Step through a solve move by move",
	Long: `Replay a solve and watch the detected stage change with every move.

The argument is a solve file, or with --db-id a saved solve ID.

Usage:
  reconstruct replay solve.json              # Step manually
  reconstruct replay solve.json --speed 2    # Autoplay at 2x with p
  reconstruct replay 3f2a9c1e --db-id -m roux`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayFromDB, "db-id", false, "Treat the argument as a saved solve ID")
}

func runReplay(cmd *cobra.Command, args []string) error {
	solve, err := loadReplaySolve(args[0])
	if err != nil {
		return err
	}

	ms, err := methods()
	if err != nil {
		return err
	}

	model, err := newReplayModel(solve, ms, replaySpeed)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}
	return nil
}

func loadReplaySolve(arg string) (*types.Solve, error) {
	if !replayFromDB {
		return types.LoadSolve(arg)
	}

	db, err := openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	solveID, err := resolveSolveID(db, []string{arg})
	if err != nil {
		return nil, err
	}
	s, err := storage.NewSolveRepository(db).Get(solveID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("solve %s not found", solveID)
	}
	return s.Record(), nil
}

// replayModel steps an analyzer through the moves of a solve.
type replayModel struct {
	solve     *types.Solve
	facelet   string
	analyzers []reconstruct.Analyzer
	index     int
	speed     float64
	playing   bool
	history   []string
	err       error
	quitting  bool
}

func newReplayModel(solve *types.Solve, ms []reconstruct.Method, speed float64) (*replayModel, error) {
	facelet, err := solve.StartFacelet()
	if err != nil {
		return nil, err
	}

	m := &replayModel{
		solve:   solve,
		facelet: facelet,
		speed:   speed,
	}
	for _, method := range ms {
		a, err := reconstruct.NewAnalyzer(method, facelet,
			reconstruct.WithAlgorithmMatching(false),
			reconstruct.WithStageCallback(func(stage reconstruct.Stage, key string) {
				m.history = append(m.history, fmt.Sprintf("%s %s @ move %d", method, stage.DisplayName(), m.index))
			}))
		if err != nil {
			return nil, err
		}
		m.analyzers = append(m.analyzers, a)
	}
	return m, nil
}

type replayTickMsg struct{}

func (m *replayModel) Init() tea.Cmd {
	return nil
}

// scheduleNext waits the recorded gap before the next move, scaled by speed.
func (m *replayModel) scheduleNext() tea.Cmd {
	if !m.playing || m.index >= len(m.solve.Moves) {
		return nil
	}

	var delay time.Duration
	if m.index > 0 {
		gap := m.solve.Moves[m.index].Timestamp - m.solve.Moves[m.index-1].Timestamp
		delay = time.Duration(float64(gap)/m.speed) * time.Millisecond
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return replayTickMsg{} })
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "n", "right":
			m.playing = false
			m.advance()

		case "b", "left":
			m.playing = false
			m.seek(m.index - 1)

		case "p":
			m.playing = !m.playing
			return m, m.scheduleNext()

		case "r":
			m.playing = false
			m.seek(0)

		case "+", "=":
			m.speed = min(m.speed*2, 16)

		case "-":
			m.speed = max(m.speed/2, 0.25)
		}

	case replayTickMsg:
		if m.playing {
			m.advance()
			return m, m.scheduleNext()
		}
	}

	return m, nil
}

func (m *replayModel) advance() {
	if m.index >= len(m.solve.Moves) {
		m.playing = false
		return
	}
	mv := m.solve.Moves[m.index]
	m.index++
	for _, a := range m.analyzers {
		if err := reconstruct.FeedToken(a, mv.Notation, mv.Timestamp); err != nil {
			m.err = err
			m.playing = false
			return
		}
	}
}

// seek rebuilds the analyzer state after the first n moves.
func (m *replayModel) seek(n int) {
	if n < 0 {
		n = 0
	}
	m.history = nil
	m.err = nil
	m.index = 0
	for _, a := range m.analyzers {
		if err := a.Reseed(m.facelet); err != nil {
			m.err = err
			return
		}
	}
	for m.index < n {
		m.advance()
	}
}

func (m *replayModel) View() string {
	if m.quitting {
		return "Replay ended.\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Solve Replay"))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Move %d/%d", m.index, len(m.solve.Moves))
	if m.playing {
		progress += " [PLAYING]"
	}
	b.WriteString(statusStyle.Render(progress))
	b.WriteString(fmt.Sprintf(" (%.2gx speed)\n", m.speed))

	if m.index > 0 {
		elapsed := m.solve.Moves[m.index-1].Timestamp - m.solve.Moves[0].Timestamp
		b.WriteString(fmt.Sprintf("Time: %s\n", formatMs(float64(elapsed))))
	}
	b.WriteString("\n")

	for _, a := range m.analyzers {
		b.WriteString(fmt.Sprintf("%-5s %s  %s\n", strings.ToUpper(string(a.Method())),
			phaseStyle.Render(a.Stage().DisplayName()),
			statusStyle.Render("reached "+a.HighestStage().DisplayName())))
	}
	b.WriteString("\n")

	if m.index > 0 {
		start := max(0, m.index-20)
		b.WriteString("Moves: ")
		if start > 0 {
			b.WriteString("... ")
		}
		b.WriteString(moveStyle.Render(strings.Join(types.Notations(m.solve.Moves[start:m.index]), " ")))
		b.WriteString("\n")
	}

	if len(m.history) > 0 {
		b.WriteString("\n")
		for _, h := range m.history {
			b.WriteString(statusStyle.Render("  " + h))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("SPACE/n=next  b=back  p=play/pause  r=reset  +/-=speed  q=quit"))
	b.WriteString("\n")

	return b.String()
}

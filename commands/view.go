package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/presentation/display"
	"github.com/hydroviz/hydroviz/internal/render"
	"github.com/hydroviz/hydroviz/internal/util"
)

var (
	viewVariable string
	viewVector   string
	viewVecType  string
	viewScaleExp float64
	viewColorLow float64
	viewColorHi  float64

	viewCmd = &cobra.Command{
		Use:   "view <scalar-file>",
		Short: "Interactive terminal heatmap viewer",
		Long: `view renders the grid in the terminal and steps through time
interactively. When the file grows (a simulation still writing), the
index is rebuilt in place and new time steps become reachable.

Keys:
  left/right  step through time
  v           cycle the scalar variable
  q, Ctrl+C   quit`,
		Args: cobra.ExactArgs(1),
		RunE: runView,
	}
)

func init() {
	viewCmd.Flags().StringVarP(&viewVariable, "variable", "v", "",
		"Scalar variable to start with")
	viewCmd.Flags().StringVar(&viewVector, "vector", "",
		"Vector file (resolves per-step vector times)")
	viewCmd.Flags().StringVar(&viewVecType, "vector-type", "",
		"Vector field (water, steam)")
	viewCmd.Flags().Float64Var(&viewScaleExp, "scale-exp", 0,
		"Arrow length scale exponent")
	viewCmd.Flags().Float64Var(&viewColorLow, "color-low", 0,
		"Color window low bound (percent of data range)")
	viewCmd.Flags().Float64Var(&viewColorHi, "color-high", 100,
		"Color window high bound (percent of data range)")

	rootCmd.AddCommand(viewCmd)
}

// viewer holds the interactive loop's mutable state.
type viewer struct {
	sess      *session.Session
	disp      *display.TerminalDisplay
	window    render.ColorWindow
	stepIndex int
	varIndex  int
	message   string
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, indexCache, err := setup()
	if err != nil {
		return err
	}
	if viewVariable == "" {
		viewVariable = cfg.Grid.Variable
	}
	if viewVecType == "" {
		viewVecType = cfg.Vector.Type
	}
	if !cmd.Flags().Changed("scale-exp") {
		viewScaleExp = cfg.Vector.ScaleExponent
	}

	scalarPath := expandPath(args[0])
	sess := session.NewSession(indexCache)
	if err := sess.LoadScalar(scalarPath); err != nil {
		return err
	}
	if viewVector != "" {
		if err := sess.LoadVector(expandPath(viewVector)); err != nil {
			util.LogWarnf("Vector file not loaded: %v", err)
		}
	}

	varIndex := 0
	for i, name := range model.ScalarVariables {
		if name == viewVariable {
			varIndex = i
			break
		}
	}

	v := &viewer{
		sess:     sess,
		disp:     display.NewTerminalDisplay(),
		window:   render.ColorWindow{LowPct: viewColorLow, HighPct: viewColorHi},
		varIndex: varIndex,
	}

	keyboard, err := session.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer keyboard.Close()

	watchPaths := []string{scalarPath}
	if sess.Vector != nil {
		watchPaths = append(watchPaths, sess.Vector.Path)
	}
	watcher, err := session.NewFileWatcher(watchPaths)
	if err != nil {
		util.LogWarnf("File watching disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	v.disp.EnterAlternateScreen()
	defer v.disp.ExitAlternateScreen()
	v.draw()

	var fileEvents <-chan model.FileEvent
	if watcher != nil {
		fileEvents = watcher.Events()
	}

	for {
		select {
		case <-sigChan:
			return nil
		case ev := <-keyboard.Events():
			if done := v.handleKey(ev); done {
				return nil
			}
		case ev := <-fileEvents:
			v.reload(ev)
		}
	}
}

func (v *viewer) handleKey(ev session.KeyEvent) bool {
	switch {
	case ev.Type == session.KeyLeft:
		if v.stepIndex > 0 {
			v.stepIndex--
		}
	case ev.Type == session.KeyRight:
		if v.stepIndex < len(v.sess.Times())-1 {
			v.stepIndex++
		}
	case ev.Type == session.KeyChar && (ev.Key == 'q' || ev.Key == 'Q'):
		return true
	case ev.Type == session.KeyChar && ev.Key == 3: // Ctrl+C
		return true
	case ev.Type == session.KeyChar && (ev.Key == 'v' || ev.Key == 'V'):
		v.varIndex = (v.varIndex + 1) % len(model.ScalarVariables)
	default:
		return false
	}
	v.draw()
	return false
}

// reload rebuilds the index after a watched file changes, holding the
// current position when it is still valid.
func (v *viewer) reload(ev model.FileEvent) {
	var err error
	if v.sess.Scalar != nil && ev.Path == v.sess.Scalar.Path {
		err = v.sess.LoadScalar(ev.Path)
	} else if v.sess.Vector != nil && ev.Path == v.sess.Vector.Path {
		err = v.sess.LoadVector(ev.Path)
	} else {
		return
	}
	if err != nil {
		// Mid-write reads often fail validation; keep the prior state.
		util.LogDebugf("Reload of %s failed: %v", ev.Path, err)
		return
	}
	if v.stepIndex >= len(v.sess.Times()) {
		v.stepIndex = len(v.sess.Times()) - 1
	}
	v.message = fmt.Sprintf("Reloaded %s (%d steps)", ev.Path, len(v.sess.Times()))
	v.draw()
}

func (v *viewer) draw() {
	times := v.sess.Times()
	if len(times) == 0 {
		v.disp.DrawError(fmt.Errorf("no time steps available"))
		return
	}
	variable := model.ScalarVariables[v.varIndex]
	t := times[v.stepIndex]

	g, err := v.sess.GridAt(t, variable)
	if err != nil {
		v.disp.DrawError(err)
		return
	}
	payload := render.NewPayload(g, v.window)

	if v.sess.Vector != nil {
		set, vectorTime, err := v.sess.ArrowsAt(t, viewVecType, viewScaleExp, 0)
		if err == nil {
			payload = payload.WithArrows(set, vectorTime, viewVecType)
		}
	}

	v.disp.Draw(&display.ViewState{
		Payload:   payload,
		StepIndex: v.stepIndex,
		StepCount: len(times),
		FilePath:  v.sess.Scalar.Path,
		Message:   v.message,
	})
	v.message = ""
}

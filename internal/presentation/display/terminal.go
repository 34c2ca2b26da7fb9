package display

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/hydroviz/hydroviz/internal/render"
	"github.com/hydroviz/hydroviz/internal/util"
)

// TerminalDisplay draws the interactive heatmap viewer. Each grid cell is
// rendered as a colored half-block pair so the terminal acts as a coarse
// raster; the status bar carries the navigation state.
type TerminalDisplay struct {
	inAlternateScreen bool
}

func NewTerminalDisplay() *TerminalDisplay {
	return &TerminalDisplay{}
}

// EnterAlternateScreen switches to the alternate screen buffer.
func (d *TerminalDisplay) EnterAlternateScreen() {
	if d.inAlternateScreen {
		return
	}
	fmt.Print("\033[?1049h" + util.HideCursor)
	d.inAlternateScreen = true
}

// ExitAlternateScreen restores the primary screen buffer.
func (d *TerminalDisplay) ExitAlternateScreen() {
	if !d.inAlternateScreen {
		return
	}
	fmt.Print(util.ShowCursor + "\033[?1049l")
	d.inAlternateScreen = false
}

// ViewState is what the viewer loop hands to Draw on each refresh.
type ViewState struct {
	Payload   *render.Payload
	StepIndex int
	StepCount int
	FilePath  string
	Message   string
}

// Draw repaints the whole screen for the given state.
func (d *TerminalDisplay) Draw(state *ViewState) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width, height = 80, 24
	}

	var b strings.Builder
	b.WriteString(util.ClearScreen + util.MoveCursorHome)

	title := fmt.Sprintf("%s%s hydroviz %s%s", util.ColorBold, util.ColorCyan,
		state.FilePath, util.ColorReset)
	b.WriteString(title + "\r\n")

	p := state.Payload
	header := fmt.Sprintf("%s  t=%s yr  [step %d/%d]  range %s .. %s",
		p.Variable, util.FormatTimeValue(p.Time),
		state.StepIndex+1, state.StepCount,
		util.FormatDataValue(p.Min), util.FormatDataValue(p.Max))
	b.WriteString(header + "\r\n")

	plotRows := height - 5
	if plotRows < 1 {
		plotRows = 1
	}
	d.drawHeatmap(&b, p, width, plotRows)

	if state.Message != "" {
		b.WriteString(util.ColorYellow + state.Message + util.ColorReset + "\r\n")
	}
	b.WriteString(fmt.Sprintf("%s←/→ step time   v cycle variable   q quit%s\r\n",
		util.ColorGreen, util.ColorReset))

	fmt.Print(b.String())
}

// drawHeatmap paints the matrix scaled to rows×cols character cells using
// 24-bit background colors. Missing cells stay unpainted.
func (d *TerminalDisplay) drawHeatmap(b *strings.Builder, p *render.Payload, cols, rows int) {
	nx := len(p.XAxis)
	nz := len(p.ZAxis)
	if nx == 0 || nz == 0 {
		b.WriteString("(no data)\r\n")
		return
	}
	if cols > nx*2 {
		cols = nx * 2
	}
	for row := 0; row < rows; row++ {
		// Flip vertically: matrix row 0 is the lowest z.
		zi := (rows - 1 - row) * nz / rows
		for col := 0; col < cols; col++ {
			xi := col * nx / cols
			v := p.Matrix[zi][xi]
			if v == nil {
				b.WriteString(" ")
				continue
			}
			c := render.RampColor(*v, p.ColorMin, p.ColorMax)
			b.WriteString(fmt.Sprintf("\033[48;2;%d;%d;%dm \033[0m", c.R, c.G, c.B))
		}
		b.WriteString("\r\n")
	}
}

// DrawError shows a load failure without tearing down the viewer; the
// previously loaded state stays navigable.
func (d *TerminalDisplay) DrawError(err error) {
	fmt.Print(util.ClearScreen + util.MoveCursorHome)
	fmt.Printf("%sError:%s %v\r\n", util.ColorRed, util.ColorReset, err)
}

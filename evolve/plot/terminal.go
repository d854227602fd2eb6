package plot

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/baldhumanity/evolve-go/evolve"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

const labelWidth = 9

// Terminal draws a status header and score sparklines on a tcell screen.
type Terminal[T any] struct {
	mu     sync.Mutex
	screen tcell.Screen
	title  string
}

// NewTerminal takes over the controlling terminal. Call Close to restore it.
func NewTerminal[T any](title string) (*Terminal[T], error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return NewTerminalOn[T](screen, title), nil
}

// NewTerminalOn draws on an already initialized screen.
func NewTerminalOn[T any](screen tcell.Screen, title string) *Terminal[T] {
	return &Terminal[T]{screen: screen, title: title}
}

func (t *Terminal[T]) Render(s evolve.Snapshot[T]) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if width <= labelWidth || height < 5 {
		return fmt.Errorf("terminal too small: %dx%d", width, height)
	}

	t.screen.Clear()
	header := tcell.StyleDefault.Bold(true)
	t.drawText(0, 0, width, t.title, header)

	status := fmt.Sprintf("generation %d", s.Generation)
	if n := len(s.BestScores); n > 0 {
		status += fmt.Sprintf("  best %.6g", s.BestScores[n-1])
	}
	if n := len(s.CurrentBestScores); n > 0 {
		status += fmt.Sprintf("  current %.6g", s.CurrentBestScores[n-1])
	}
	t.drawText(0, 1, width, status, tcell.StyleDefault)
	t.drawText(0, 2, width, fmt.Sprint(s.Best), tcell.StyleDefault.Dim(true))

	span := width - labelWidth
	best := lastN(s.BestScores, span)
	current := lastN(s.CurrentBestScores, span)
	lo, hi := bounds(best, current)

	t.drawText(0, 3, labelWidth, "best", tcell.StyleDefault.Foreground(tcell.ColorRed))
	t.drawSpark(labelWidth, 3, best, lo, hi, tcell.StyleDefault.Foreground(tcell.ColorRed))
	t.drawText(0, 4, labelWidth, "current", tcell.StyleDefault.Foreground(tcell.ColorGreen))
	t.drawSpark(labelWidth, 4, current, lo, hi, tcell.StyleDefault.Foreground(tcell.ColorGreen))

	t.screen.Show()
	return nil
}

// WatchQuit calls quit once when the user presses q, Esc or Ctrl-C. The raw
// terminal swallows the interrupt signal while the screen is active.
func (t *Terminal[T]) WatchQuit(quit func()) {
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			key, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			if key.Key() == tcell.KeyCtrlC || key.Key() == tcell.KeyEscape || key.Rune() == 'q' {
				quit()
				return
			}
		}
	}()
}

// Close restores the terminal.
func (t *Terminal[T]) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

func (t *Terminal[T]) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			return
		}
		t.screen.SetContent(x+col, y, r, nil, style)
		col++
	}
}

// drawSpark maps each value to one block, lower scores drawing lower blocks.
func (t *Terminal[T]) drawSpark(x, y int, values []float64, lo, hi float64, style tcell.Style) {
	top := len(sparkBlocks) - 1
	for i, v := range values {
		level := 0
		if hi > lo {
			level = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		level = max(0, min(top, level))
		t.screen.SetContent(x+i, y, sparkBlocks[level], nil, style)
	}
}

func lastN(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

func bounds(series ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, values := range series {
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

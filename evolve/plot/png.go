package plot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/baldhumanity/evolve-go/evolve"
	"github.com/baldhumanity/evolve-go/evolve/problems"
)

var (
	bestColor    = color.RGBA{R: 200, A: 255}
	currentColor = color.RGBA{G: 160, A: 255}
	tourColor    = color.RGBA{B: 200, A: 255}
)

// PNG draws the score histories of a snapshot into an image file.
type PNG[T any] struct {
	Path  string
	Title string
	// LogScale draws scores on a logarithmic axis; all scores must then be positive.
	LogScale bool
	Width    vg.Length
	Height   vg.Length
}

// NewPNG returns a 6x4 inch chart written to path.
func NewPNG[T any](path string) *PNG[T] {
	return &PNG[T]{Path: path, Title: "Progress", Width: 6 * vg.Inch, Height: 4 * vg.Inch}
}

func (r *PNG[T]) Render(s evolve.Snapshot[T]) error {
	if len(s.BestScores) == 0 {
		return nil
	}

	p := gplot.New()
	p.Title.Text = fmt.Sprintf("%s (generation %d)", r.Title, s.Generation)
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Score"
	if r.LogScale {
		p.Y.Scale = gplot.LogScale{}
		p.Y.Tick.Marker = gplot.LogTicks{}
	}

	best, err := plotter.NewLine(historyXYs(s.BestScores))
	if err != nil {
		return fmt.Errorf("failed to build best line: %w", err)
	}
	best.LineStyle.Color = bestColor

	current, err := plotter.NewScatter(historyXYs(s.CurrentBestScores))
	if err != nil {
		return fmt.Errorf("failed to build generation best points: %w", err)
	}
	current.GlyphStyle.Color = currentColor
	current.GlyphStyle.Radius = vg.Points(1.5)

	p.Add(plotter.NewGrid(), current, best)
	p.Legend.Add("total best", best)
	p.Legend.Add("generation best", current)
	p.Legend.Top = true

	return save(p, r.Width, r.Height, r.Path)
}

func historyXYs(scores []float64) plotter.XYs {
	pts := make(plotter.XYs, len(scores))
	for i, score := range scores {
		pts[i].X = float64(i + 1)
		pts[i].Y = score
	}
	return pts
}

// TourPNG draws the best tour of a travelling salesman run.
type TourPNG struct {
	Path   string
	Cities []problems.City
	Width  vg.Length
	Height vg.Length
}

// NewTourPNG returns a 5x5 inch tour map written to path.
func NewTourPNG(path string, cities []problems.City) *TourPNG {
	return &TourPNG{Path: path, Cities: cities, Width: 5 * vg.Inch, Height: 5 * vg.Inch}
}

func (r *TourPNG) Render(s evolve.Snapshot[*evolve.PathIndividual]) error {
	if s.Best == nil || len(s.Best.Phenotype) == 0 {
		return nil
	}

	tour := make(plotter.XYs, 0, len(s.Best.Phenotype)+1)
	for _, city := range s.Best.Phenotype {
		if city < 0 || city >= len(r.Cities) {
			return fmt.Errorf("tour visits unknown city %d", city)
		}
		tour = append(tour, plotter.XY{X: r.Cities[city].X, Y: r.Cities[city].Y})
	}
	tour = append(tour, tour[0])

	cities := make(plotter.XYs, len(r.Cities))
	for i, c := range r.Cities {
		cities[i] = plotter.XY{X: c.X, Y: c.Y}
	}

	p := gplot.New()
	if score, err := s.Best.Score(); err == nil {
		p.Title.Text = fmt.Sprintf("Best tour (length %.2f)", score)
	} else {
		p.Title.Text = "Best tour"
	}

	line, err := plotter.NewLine(tour)
	if err != nil {
		return fmt.Errorf("failed to build tour line: %w", err)
	}
	line.LineStyle.Color = tourColor

	points, err := plotter.NewScatter(cities)
	if err != nil {
		return fmt.Errorf("failed to build city points: %w", err)
	}
	points.GlyphStyle.Radius = vg.Points(2.5)

	p.Add(line, points)
	return save(p, r.Width, r.Height, r.Path)
}

// save writes the plot next to path and renames it into place, so readers
// never see a half-written image.
func save(p *gplot.Plot, width, height vg.Length, path string) error {
	format := filepath.Ext(path)
	if format == "" {
		return fmt.Errorf("output path '%s' has no image extension", path)
	}
	wt, err := p.WriterTo(width, height, format[1:])
	if err != nil {
		return fmt.Errorf("failed to draw plot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".plot-*"+format)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := wt.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write plot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close plot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move plot into place: %w", err)
	}
	return nil
}

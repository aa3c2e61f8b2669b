// Package views renders debugging views of a running machine to images.
package views

import (
	"image"
	"sync"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Performance records how long each frame took to produce, and plots
// the most recent samples.
type Performance struct {
	samples []time.Duration
	next    int
	full    bool

	last time.Time
	mu   sync.Mutex
}

// NewPerformance returns a Performance keeping the last n frame times.
func NewPerformance(n int) *Performance {
	return &Performance{samples: make([]time.Duration, n)}
}

// Frame records that a frame was completed now.
func (p *Performance) Frame() {
	p.mu.Lock()
	now := time.Now()
	last := p.last
	p.last = now
	p.mu.Unlock()

	if !last.IsZero() {
		p.Record(now.Sub(last))
	}
}

// Record adds a single frame time.
func (p *Performance) Record(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.samples[p.next] = d
	p.next = (p.next + 1) % len(p.samples)
	if p.next == 0 {
		p.full = true
	}
}

// FrameTimes returns the recorded frame times, oldest first.
func (p *Performance) FrameTimes() []time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.full {
		return append([]time.Duration(nil), p.samples[:p.next]...)
	}
	return append(append([]time.Duration(nil), p.samples[p.next:]...), p.samples[:p.next]...)
}

// Image plots the recorded frame times in milliseconds.
func (p *Performance) Image(width, height int) (image.Image, error) {
	frameTimes := p.FrameTimes()

	frameTimePlot := plot.New()
	frameTimePlot.Title.Text = "Frame Time"
	frameTimePlot.X.Label.Text = "Frame"
	frameTimePlot.Y.Label.Text = "ms"

	xys := make(plotter.XYs, len(frameTimes))
	for i, frameTime := range frameTimes {
		xys[i].X = float64(i)
		xys[i].Y = float64(frameTime) / float64(time.Millisecond)
	}
	if len(xys) > 0 {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		frameTimePlot.Add(line)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := vgimg.NewWith(vgimg.UseImage(img))
	frameTimePlot.Draw(draw.New(c))

	return c.Image(), nil
}

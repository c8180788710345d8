// Package view draws a slider onto a terminal backend and maps screen cells
// back to track positions.
//
// The track occupies Width columns of one row. Column i covers the pixel
// interval [i, i+1) of a track of Width pixels, so its centre sits at
// pointer x = i + 0.5 - Width/2 relative to the track centre.
package view

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/dshills/multislider/internal/renderer/backend"
	"github.com/dshills/multislider/internal/slider"
)

// Glyphs used to draw the slider.
const (
	glyphTrack  = '─'
	glyphLeft   = '├'
	glyphRight  = '┤'
	glyphHandle = '█'
)

// Theme holds the styles used by the view.
type Theme struct {
	Title   backend.Style
	Track   backend.Style
	Handle  backend.Style
	Active  backend.Style
	Label   backend.Style
	Status  backend.Style
	Message backend.Style
}

// DefaultTheme returns the default styles.
func DefaultTheme() Theme {
	base := backend.DefaultStyle()
	return Theme{
		Title:   base.With(backend.AttrBold),
		Track:   base.WithForeground(backend.ColorGray),
		Handle:  base.WithForeground(backend.ColorCyan),
		Active:  base.WithForeground(backend.ColorYellow).With(backend.AttrBold),
		Label:   base,
		Status:  base.With(backend.AttrDim),
		Message: base.WithForeground(backend.ColorRed),
	}
}

// Options configures a View.
type Options struct {
	// Width is the track width in columns; 0 fills the screen.
	Width int

	// Margin is the number of columns kept free on each side.
	Margin int

	Theme Theme
}

// DefaultOptions returns default view options.
func DefaultOptions() Options {
	return Options{Margin: 2, Theme: DefaultTheme()}
}

// View renders one slider.
type View struct {
	mu sync.RWMutex

	backend backend.Backend
	set     *slider.Set
	opts    Options

	// Track geometry in screen cells
	left, row, width int

	message string
}

// New creates a view drawing set onto b.
func New(b backend.Backend, set *slider.Set, opts Options) *View {
	return &View{backend: b, set: set, opts: opts}
}

// Layout positions the track for a screen of the given size and returns
// the track width in columns. The track is centred horizontally and sits
// in the middle row.
func (v *View) Layout(screenW, screenH int) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	avail := max(screenW-2*v.opts.Margin, 1)
	width := avail
	if v.opts.Width > 0 && v.opts.Width < avail {
		width = v.opts.Width
	}

	v.width = width
	v.left = (screenW - width) / 2
	v.row = max(screenH/2, 1)
	return width
}

// Geometry returns the track's left column, row and width.
func (v *View) Geometry() (left, row, width int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.left, v.row, v.width
}

// PointerX converts a screen cell to a pointer position relative to the
// track centre. It reports false when the cell is not on the track row or
// lies outside the track columns.
func (v *View) PointerX(x, y int) (float64, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	px := float64(x-v.left) + 0.5 - float64(v.width)/2
	onTrack := y == v.row && x >= v.left && x < v.left+v.width
	return px, onTrack
}

// Column returns the screen column whose cell contains pointer position x.
func (v *View) Column(x float64) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.column(x)
}

func (v *View) column(x float64) int {
	i := int(math.Floor(x + float64(v.width)/2))
	i = min(max(i, 0), v.width-1)
	return v.left + i
}

// SetMessage sets the one-line message shown under the track. An empty
// string clears it.
func (v *View) SetMessage(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = msg
}

// Message returns the current message.
func (v *View) Message() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.message
}

// Draw renders the slider and shows the frame.
func (v *View) Draw() {
	v.mu.RLock()
	defer v.mu.RUnlock()

	b := v.backend
	theme := v.opts.Theme
	b.Clear()

	cfg := v.set.Config()
	v.text(0, 0, v.title(cfg), theme.Title)

	// Track line with end caps.
	for i := range v.width {
		r := glyphTrack
		switch i {
		case 0:
			r = glyphLeft
		case v.width - 1:
			r = glyphRight
		}
		b.SetCell(v.left+i, v.row, backend.NewCell(r, theme.Track))
	}

	// Range ends under the caps.
	v.text(v.left, v.row+1, formatValue(cfg.MinValue, cfg.Decimals), theme.Status)
	hi := formatValue(cfg.MaxValue, cfg.Decimals)
	v.text(v.left+v.width-len(hi), v.row+1, hi, theme.Status)

	dragged, dragging := v.set.Drag().Handle()
	for i := range v.set.Len() {
		h := v.set.At(i)
		style := theme.Handle
		if dragging && h.ID() == dragged {
			style = theme.Active
		}

		first, last := v.span(h.Offset(), h.Width())
		for x := first; x <= last; x++ {
			b.SetCell(x, v.row, backend.NewCell(glyphHandle, style))
		}

		label := formatValue(h.Value(), cfg.Decimals)
		centre := v.column(h.Offset())
		v.text(centre-len(label)/2, v.row-1, label, style)
	}

	if v.message != "" {
		v.text(v.left, v.row+3, v.message, theme.Message)
	}

	_, screenH := b.Size()
	v.text(0, screenH-1, "q: quit  a: add  double-click: insert  right-click: remove", theme.Status)

	b.Show()
}

// span returns the first and last columns covered by a handle of width w
// centred at offset. A handle always covers at least one column.
func (v *View) span(offset, w float64) (int, int) {
	half := float64(v.width) / 2
	first := int(math.Floor(offset - w/2 + half))
	last := int(math.Ceil(offset+w/2+half)) - 1
	first = min(max(first, 0), v.width-1)
	last = min(max(last, first), v.width-1)
	return v.left + first, v.left + last
}

func (v *View) title(cfg slider.RangeConfig) string {
	return fmt.Sprintf("limits [%s, %s]  distance %s  step %s  handles %d",
		formatValue(cfg.MinLimit, cfg.Decimals),
		formatValue(cfg.MaxLimit, cfg.Decimals),
		formatValue(cfg.MinDistance, cfg.Decimals),
		formatValue(v.set.Quantizer().Step(), cfg.Decimals),
		v.set.Len())
}

// text writes s starting at (x, y), one rune per cell.
func (v *View) text(x, y int, s string, style backend.Style) {
	for _, r := range s {
		v.backend.SetCell(x, y, backend.NewCell(r, style))
		x++
	}
}

// formatValue prints v with the given number of decimals.
func formatValue(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', max(decimals, 0), 64)
}

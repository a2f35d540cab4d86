package analytics

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// DefaultWindow is the rolling window size used when none is given.
const DefaultWindow = 30

// WindowSizes are the preset window sizes offered by the CLI and API.
var WindowSizes = []int{10, 30, 50, 100}

// RollingPoint is the window mean after one trade with a two standard error
// band around it.
type RollingPoint struct {
	Index  int     `json:"index"`
	Mean   float64 `json:"mean"`
	StdErr float64 `json:"stdErr"`
	Upper  float64 `json:"upper"`
	Lower  float64 `json:"lower"`
	N      int     `json:"n"`
}

// RollingWindow keeps the sum and sum of squares of the last size values
// so each Push is O(1).
type RollingWindow struct {
	size  int
	buf   []float64
	next  int
	n     int
	sum   float64
	sumSq float64
}

// NewRollingWindow returns an empty window. size <= 0 means DefaultWindow.
func NewRollingWindow(size int) *RollingWindow {
	if size <= 0 {
		size = DefaultWindow
	}
	return &RollingWindow{size: size, buf: make([]float64, size)}
}

func (w *RollingWindow) Name() string {
	return fmt.Sprintf("Rolling(%d)", w.size)
}

func (w *RollingWindow) Size() int { return w.size }

// Len is the number of values currently in the window.
func (w *RollingWindow) Len() int { return w.n }

func (w *RollingWindow) Reset() {
	w.next, w.n = 0, 0
	w.sum, w.sumSq = 0, 0
}

// Push adds x, evicting the oldest value once the window is full, and
// returns the statistics of the window contents. Non-finite x counts as 0.
func (w *RollingWindow) Push(x float64) RollingPoint {
	x = finiteOr0(x)
	if w.n == w.size {
		old := w.buf[w.next]
		w.sum -= old
		w.sumSq -= old * old
	} else {
		w.n++
	}
	w.buf[w.next] = x
	w.next = (w.next + 1) % w.size
	w.sum += x
	w.sumSq += x * x

	return w.point()
}

func (w *RollingWindow) point() RollingPoint {
	n := float64(w.n)
	mean := w.sum / n
	var variance float64
	if w.n > 1 {
		variance = math.Max(0, (w.sumSq-w.sum*w.sum/n)/(n-1))
	}
	se := math.Sqrt(variance) / math.Sqrt(n)
	return RollingPoint{
		Mean:   mean,
		StdErr: se,
		Upper:  mean + 2*se,
		Lower:  mean - 2*se,
		N:      w.n,
	}
}

// Rolling returns one point per trade of the ordered sample. Index is
// 1-based.
func Rolling(sample []journal.Trade, size int) []RollingPoint {
	w := NewRollingWindow(size)
	out := make([]RollingPoint, len(sample))
	for i, t := range sample {
		out[i] = w.Push(pnl(t))
		out[i].Index = i + 1
	}
	return out
}

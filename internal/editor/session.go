package editor

import (
	"errors"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
)

// Session lifecycle states
const (
	StateLoaded    = "loaded"
	StateEditing   = "editing"
	StateSaved     = "saved"
	StateCancelled = "cancelled"
)

// Brush bounds
const (
	MinRadius    = 5
	MaxRadius    = 50
	MinIntensity = 1
	MaxIntensity = 20
)

var (
	ErrSessionClosed = errors.New("edit session is closed")
	ErrBadImage      = errors.New("image could not be decoded")
)

// Point is a pointer position in image coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Session is one photo edit: a linear history of full-frame snapshots with
// a cursor. A stroke blurs the current frame under a circular stamp at each
// pointer position and, on release, pushes a snapshot, discarding any redo
// entries past the cursor.
type Session struct {
	mu      sync.Mutex
	format  string
	history []*image.NRGBA
	cursor  int
	state   string
}

// NewSession decodes a source image and opens a session with the decoded
// frame as history entry zero.
func NewSession(r io.Reader) (*Session, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, ErrBadImage
	}

	return &Session{
		format:  format,
		history: []*image.NRGBA{imaging.Clone(img)},
		cursor:  0,
		state:   StateLoaded,
	}, nil
}

// State returns the lifecycle state.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Format returns the decoded source format ("jpeg", "png", ...).
func (s *Session) Format() string {
	return s.format
}

// Current returns a copy of the frame at the history cursor.
func (s *Session) Current() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return imaging.Clone(s.history[s.cursor])
}

// Stroke applies one pointer-drag gesture: a circular blur stamp at every
// point of the drag, then a single history push for the whole gesture.
// Radius and intensity are clamped to the brush bounds. Strokes on a closed
// session do nothing.
func (s *Session) Stroke(points []Point, radius, intensity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed() {
		return ErrSessionClosed
	}
	if len(points) == 0 {
		return nil
	}

	radius = clamp(radius, MinRadius, MaxRadius)
	intensity = clamp(intensity, MinIntensity, MaxIntensity)

	frame := imaging.Clone(s.history[s.cursor])
	for _, pt := range points {
		stamp(frame, pt, radius, intensity)
	}

	// Push the gesture result, dropping any undone states.
	s.history = append(s.history[:s.cursor+1], frame)
	s.cursor++
	s.state = StateEditing

	return nil
}

// stamp composites a blurred copy of the frame through a circular mask
// centered on the stamp point.
func stamp(frame *image.NRGBA, center Point, radius, intensity int) {
	blurred := imaging.Blur(frame, float64(intensity))
	bounds := frame.Bounds()

	rr := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > rr {
				continue
			}
			x, y := center.X+dx, center.Y+dy
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			frame.SetNRGBA(x, y, blurred.NRGBAAt(x, y))
		}
	}
}

// Undo moves the cursor back one entry. No-op at the start of history.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed() || s.cursor == 0 {
		return false
	}
	s.cursor--
	return true
}

// Redo moves the cursor forward one entry. No-op at the end of history.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed() || s.cursor >= len(s.history)-1 {
		return false
	}
	s.cursor++
	return true
}

// CanUndo reports whether an undo step exists.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed() && s.cursor > 0
}

// CanRedo reports whether a redo step exists.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed() && s.cursor < len(s.history)-1
}

// Save encodes the current frame in the source format and closes the
// session.
func (s *Session) Save(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed() {
		return ErrSessionClosed
	}

	if err := encode(w, s.history[s.cursor], s.format); err != nil {
		return err
	}

	s.state = StateSaved
	s.history = nil
	return nil
}

// Cancel discards the session without persisting anything.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed() {
		return
	}
	s.state = StateCancelled
	s.history = nil
}

func (s *Session) closed() bool {
	return s.state == StateSaved || s.state == StateCancelled
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

package editor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage builds a small checkerboard PNG. The hard edges guarantee a blur
// stamp visibly changes pixels.
func testImage(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if (x/4+y/4)%2 == 0 {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return bytes.NewReader(buf.Bytes())
}

func openSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(testImage(t, 64, 64))
	require.NoError(t, err)
	return s
}

func TestNewSessionRejectsGarbage(t *testing.T) {
	_, err := NewSession(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, ErrBadImage)
}

func TestNewSessionStartsLoaded(t *testing.T) {
	s := openSession(t)

	assert.Equal(t, StateLoaded, s.State())
	assert.Equal(t, "png", s.Format())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestStrokeChangesPixelsAndPushesHistory(t *testing.T) {
	s := openSession(t)
	before := s.Current()

	err := s.Stroke([]Point{{X: 32, Y: 32}}, 10, 10)
	require.NoError(t, err)

	assert.Equal(t, StateEditing, s.State())
	assert.True(t, s.CanUndo())
	assert.NotEqual(t, before.Pix, s.Current().Pix)
}

func TestStrokeLeavesPixelsOutsideRadiusUntouched(t *testing.T) {
	s := openSession(t)
	before := s.Current()

	require.NoError(t, s.Stroke([]Point{{X: 10, Y: 10}}, 5, 20))
	after := s.Current()

	// A corner far from the stamp is untouched.
	assert.Equal(t, before.NRGBAAt(60, 60), after.NRGBAAt(60, 60))
}

func TestUndoRestoresOriginalBitForBit(t *testing.T) {
	s := openSession(t)
	original := s.Current()

	strokes := []Point{{X: 16, Y: 16}, {X: 32, Y: 32}, {X: 48, Y: 48}}
	for _, pt := range strokes {
		require.NoError(t, s.Stroke([]Point{pt}, 12, 8))
	}

	for i := 0; i < len(strokes); i++ {
		assert.True(t, s.Undo())
	}

	assert.False(t, s.CanUndo())
	assert.Equal(t, original.Pix, s.Current().Pix)
}

func TestUndoAtHistoryStartIsNoOp(t *testing.T) {
	s := openSession(t)

	assert.False(t, s.Undo())
	assert.Equal(t, StateLoaded, s.State())
}

func TestRedoAtHistoryEndIsNoOp(t *testing.T) {
	s := openSession(t)
	require.NoError(t, s.Stroke([]Point{{X: 20, Y: 20}}, 10, 10))

	assert.False(t, s.Redo())
}

func TestRedoReappliesUndoneStroke(t *testing.T) {
	s := openSession(t)
	require.NoError(t, s.Stroke([]Point{{X: 20, Y: 20}}, 10, 10))
	edited := s.Current()

	require.True(t, s.Undo())
	require.True(t, s.CanRedo())
	require.True(t, s.Redo())

	assert.Equal(t, edited.Pix, s.Current().Pix)
}

func TestStrokeAfterUndoTruncatesRedoHistory(t *testing.T) {
	s := openSession(t)
	require.NoError(t, s.Stroke([]Point{{X: 10, Y: 10}}, 10, 10))
	require.NoError(t, s.Stroke([]Point{{X: 30, Y: 30}}, 10, 10))
	require.NoError(t, s.Stroke([]Point{{X: 50, Y: 50}}, 10, 10))

	require.True(t, s.Undo())
	require.True(t, s.Undo())
	require.True(t, s.CanRedo())

	require.NoError(t, s.Stroke([]Point{{X: 40, Y: 40}}, 10, 10))

	assert.False(t, s.CanRedo(), "redo entries dropped by the new stroke")
	assert.True(t, s.CanUndo())
}

func TestStrokeClampsBrushBounds(t *testing.T) {
	s := openSession(t)

	// Out-of-range values are clamped, not rejected.
	assert.NoError(t, s.Stroke([]Point{{X: 32, Y: 32}}, 500, 100))
	assert.NoError(t, s.Stroke([]Point{{X: 32, Y: 32}}, 0, 0))
}

func TestStrokeWithNoPointsPushesNothing(t *testing.T) {
	s := openSession(t)

	require.NoError(t, s.Stroke(nil, 10, 10))
	assert.False(t, s.CanUndo())
}

func TestStrokeOffCanvasIsSafe(t *testing.T) {
	s := openSession(t)

	assert.NoError(t, s.Stroke([]Point{{X: -100, Y: -100}}, 50, 10))
	assert.NoError(t, s.Stroke([]Point{{X: 63, Y: 63}}, 50, 10))
}

func TestSaveEncodesAndClosesSession(t *testing.T) {
	s := openSession(t)
	require.NoError(t, s.Stroke([]Point{{X: 32, Y: 32}}, 10, 10))

	var out bytes.Buffer
	require.NoError(t, s.Save(&out))

	assert.Equal(t, StateSaved, s.State())

	// The saved bytes decode back to the source format.
	_, format, err := image.Decode(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	// Everything after save fails or no-ops.
	assert.ErrorIs(t, s.Stroke([]Point{{X: 1, Y: 1}}, 10, 10), ErrSessionClosed)
	assert.False(t, s.Undo())
	assert.ErrorIs(t, s.Save(&out), ErrSessionClosed)
}

func TestCancelDiscardsSession(t *testing.T) {
	s := openSession(t)
	require.NoError(t, s.Stroke([]Point{{X: 32, Y: 32}}, 10, 10))

	s.Cancel()
	assert.Equal(t, StateCancelled, s.State())

	assert.ErrorIs(t, s.Stroke([]Point{{X: 1, Y: 1}}, 10, 10), ErrSessionClosed)

	// Cancel after cancel keeps the state.
	s.Cancel()
	assert.Equal(t, StateCancelled, s.State())
}

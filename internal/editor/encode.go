package editor

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	_ "image/gif" // register decoders for gallery formats
)

const jpegQuality = 92

// encode writes a frame in the session's source format. Formats without an
// encoder fall back to JPEG, matching how edited files are produced for
// unknown inputs.
func encode(w io.Writer, frame image.Image, format string) error {
	switch format {
	case "png":
		if err := png.Encode(w, frame); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	default:
		if err := jpeg.Encode(w, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
	}
	return nil
}

// MimeType maps a decoded format name to the content type of the saved file.
func MimeType(format string) string {
	switch format {
	case "png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

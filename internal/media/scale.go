package media

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
)

// ScaleParams represents typed parameters for the scale command
type ScaleParams struct {
	Height *int // Optional: if nil, will be calculated from width
	Width  *int // Optional: if nil, will be calculated from height
}

// NewScaleParamsFromMap creates ScaleParams from a generic map
func NewScaleParamsFromMap(params map[string]any) (*ScaleParams, error) {
	_, hasHeight := params["height"]
	_, hasWidth := params["width"]

	if !hasHeight && !hasWidth {
		return nil, fmt.Errorf("at least one of 'height' or 'width' must be specified")
	}

	result := &ScaleParams{}

	if hasHeight {
		height := GetIntParam(params, "height", 0)
		if height <= 0 {
			return nil, fmt.Errorf("height must be positive, got %d", height)
		}
		result.Height = &height
	}

	if hasWidth {
		width := GetIntParam(params, "width", 0)
		if width <= 0 {
			return nil, fmt.Errorf("width must be positive, got %d", width)
		}
		result.Width = &width
	}

	return result, nil
}

// ScaleCommand handles photo scaling with aspect ratio preservation
type ScaleCommand struct {
	name   string
	params *ScaleParams
}

// NewScaleCommand creates a new scale command from configuration parameters
func NewScaleCommand(params map[string]any) (Command, error) {
	typedParams, err := NewScaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &ScaleCommand{
		name:   "ScaleCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *ScaleCommand) Name() string {
	return c.name
}

// Execute scales the photo to target dimensions while preserving aspect ratio
func (c *ScaleCommand) Execute(photoData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(photoData))
	if err != nil {
		slog.Error("ScaleCommand: failed to decode PNG photo", "error", err)
		return nil, fmt.Errorf("failed to decode PNG photo: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()
	aspectRatio := float64(originalWidth) / float64(originalHeight)

	var targetWidth, targetHeight int
	switch {
	case c.params.Width != nil && c.params.Height != nil:
		targetWidth = *c.params.Width
		targetHeight = *c.params.Height
	case c.params.Width != nil:
		targetWidth = *c.params.Width
		targetHeight = int(float64(targetWidth) / aspectRatio)
	default:
		targetHeight = *c.params.Height
		targetWidth = int(float64(targetHeight) * aspectRatio)
	}
	if targetWidth <= 0 {
		targetWidth = 1
	}
	if targetHeight <= 0 {
		targetHeight = 1
	}

	slog.Debug("ScaleCommand: scaling photo",
		"original_width", originalWidth,
		"original_height", originalHeight,
		"target_width", targetWidth,
		"target_height", targetHeight)

	targetImg := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))

	// Nearest-neighbor interpolation, parallelized per row
	parallelFor(targetHeight, func(y int) {
		srcY := y * originalHeight / targetHeight
		if srcY >= originalHeight {
			srcY = originalHeight - 1
		}
		for x := 0; x < targetWidth; x++ {
			srcX := x * originalWidth / targetWidth
			if srcX >= originalWidth {
				srcX = originalWidth - 1
			}
			targetImg.Set(x, y, img.At(srcX, srcY))
		}
	})

	var buf bytes.Buffer
	if err := png.Encode(&buf, targetImg); err != nil {
		slog.Error("ScaleCommand: failed to encode scaled photo", "error", err)
		return nil, fmt.Errorf("failed to encode scaled PNG photo: %w", err)
	}

	return buf.Bytes(), nil
}

// GetParams returns the typed parameters
func (c *ScaleCommand) GetParams() *ScaleParams {
	return c.params
}

func init() {
	// Register the command in the default registry
	if err := DefaultRegistry.Register("ScaleCommand", NewScaleCommand); err != nil {
		panic(fmt.Sprintf("failed to register ScaleCommand: %v", err))
	}
}

package anchor

import (
	"errors"
	"fmt"
)

var ErrInvalidLayout = errors.New("invalid layout")

// Layout holds the handle geometry. Sizes are in screen pixels.
type Layout struct {
	AnchorSize         float64 `yaml:"anchorSize" envconfig:"ANCHOR_SIZE" default:"12"`
	RotationAnchorSize float64 `yaml:"rotationAnchorSize" envconfig:"ROTATION_ANCHOR_SIZE" default:"16"`
	RotateOffset       float64 `yaml:"rotateOffset" envconfig:"ROTATE_OFFSET" default:"20"`
	ButtonWidth        float64 `yaml:"buttonWidth" envconfig:"BUTTON_WIDTH" default:"28"`
	ButtonHeight       float64 `yaml:"buttonHeight" envconfig:"BUTTON_HEIGHT" default:"28"`
	MenuOffsetX        float64 `yaml:"menuOffsetX" envconfig:"MENU_OFFSET_X" default:"-36"`
	TranslationGap     float64 `yaml:"translationGap" envconfig:"TRANSLATION_GAP" default:"12"`
	CornerRadius       float64 `yaml:"cornerRadius" envconfig:"CORNER_RADIUS" default:"6"`
	PinpScale          float64 `yaml:"pinpScale" envconfig:"PINP_SCALE" default:"0.25"`
	MinCropSize        float64 `yaml:"minCropSize" envconfig:"MIN_CROP_SIZE" default:"1"`
	MaxColorRetries    int     `yaml:"maxColorRetries" envconfig:"MAX_COLOR_RETRIES" default:"64"`
	KeepAspectRatio    bool    `yaml:"keepAspectRatio" envconfig:"KEEP_ASPECT_RATIO" default:"false"`
	ShowMenu           bool    `yaml:"showMenu" envconfig:"SHOW_MENU" default:"true"`
}

// DefaultLayout returns the stock handle geometry.
func DefaultLayout() Layout {
	return Layout{
		AnchorSize:         12,
		RotationAnchorSize: 16,
		RotateOffset:       20,
		ButtonWidth:        28,
		ButtonHeight:       28,
		MenuOffsetX:        -36,
		TranslationGap:     12,
		CornerRadius:       6,
		PinpScale:          0.25,
		MinCropSize:        1,
		MaxColorRetries:    64,
		ShowMenu:           true,
	}
}

// Validate checks that sizes are usable.
func (l Layout) Validate() error {
	switch {
	case l.AnchorSize <= 0, l.RotationAnchorSize <= 0:
		return fmt.Errorf("anchor size must be positive: %w", ErrInvalidLayout)
	case l.ButtonWidth <= 0, l.ButtonHeight <= 0:
		return fmt.Errorf("button size must be positive: %w", ErrInvalidLayout)
	case l.TranslationGap < 0, l.CornerRadius < 0:
		return fmt.Errorf("gap and radius must not be negative: %w", ErrInvalidLayout)
	case l.PinpScale <= 0 || l.PinpScale > 1:
		return fmt.Errorf("pinp scale %g outside (0, 1]: %w", l.PinpScale, ErrInvalidLayout)
	case l.MinCropSize <= 0:
		return fmt.Errorf("min crop size must be positive: %w", ErrInvalidLayout)
	case l.MaxColorRetries < 1:
		return fmt.Errorf("max colour retries must be at least 1: %w", ErrInvalidLayout)
	}
	return nil
}

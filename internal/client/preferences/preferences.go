package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidPreferences = errors.New("invalid preferences")
	ErrUnknownField       = errors.New("unknown preference field")
)

const (
	MinMarkerSize = 16
	MaxMarkerSize = 48
)

var (
	MapStyles    = []string{"standard", "satellite", "terrain", "minimalist"}
	AccentColors = []string{"#F5A623", "#E74C3C", "#3498DB", "#2ECC71", "#9B59B6", "#1ABC9C"}
	Languages    = []string{"en", "vi"}
)

type PreferenceSet struct {
	Font           string `json:"font"`
	AccentColor    string `json:"accentColor"`
	MapStyle       string `json:"mapStyle"`
	ShowMarkers    bool   `json:"showMarkers"`
	ShowPlaceNames bool   `json:"showPlaceNames"`
	ShowEmotions   bool   `json:"showEmotions"`
	MarkerSize     int    `json:"markerSize"`
	Language       string `json:"language"`
}

func Defaults() PreferenceSet {
	return PreferenceSet{
		Font:           "Inter",
		AccentColor:    "#F5A623",
		MapStyle:       "standard",
		ShowMarkers:    true,
		ShowPlaceNames: true,
		ShowEmotions:   true,
		MarkerSize:     24,
		Language:       "vi",
	}
}

// stored is the on-disk shape; pointers tell an absent field from a zero one.
type stored struct {
	Font           *string `json:"font" validate:"required,min=1"`
	AccentColor    *string `json:"accentColor" validate:"required,hexcolor,len=7"`
	MapStyle       *string `json:"mapStyle" validate:"required,oneof=standard satellite terrain minimalist"`
	ShowMarkers    *bool   `json:"showMarkers" validate:"required"`
	ShowPlaceNames *bool   `json:"showPlaceNames" validate:"required"`
	ShowEmotions   *bool   `json:"showEmotions" validate:"required"`
	MarkerSize     *int    `json:"markerSize" validate:"required,min=16,max=48"`
	Language       *string `json:"language" validate:"required,oneof=en vi"`
}

func (s stored) set() PreferenceSet {
	return PreferenceSet{
		Font:           *s.Font,
		AccentColor:    *s.AccentColor,
		MapStyle:       *s.MapStyle,
		ShowMarkers:    *s.ShowMarkers,
		ShowPlaceNames: *s.ShowPlaceNames,
		ShowEmotions:   *s.ShowEmotions,
		MarkerSize:     *s.MarkerSize,
		Language:       *s.Language,
	}
}

func toStored(p PreferenceSet) stored {
	return stored{
		Font:           &p.Font,
		AccentColor:    &p.AccentColor,
		MapStyle:       &p.MapStyle,
		ShowMarkers:    &p.ShowMarkers,
		ShowPlaceNames: &p.ShowPlaceNames,
		ShowEmotions:   &p.ShowEmotions,
		MarkerSize:     &p.MarkerSize,
		Language:       &p.Language,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStored(s stored) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	return nil
}

// Validate checks p against the same rules applied when loading.
func (p PreferenceSet) Validate() error {
	return validateStored(toStored(p))
}

// Fields lists the names accepted by SetField, in display order.
func Fields() []string {
	return []string{"font", "accentColor", "mapStyle", "showMarkers", "showPlaceNames", "showEmotions", "markerSize", "language"}
}

// SetField parses value into the field named by its JSON name.
func SetField(p *PreferenceSet, field, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case "font":
		p.Font = value
	case "accentColor":
		p.AccentColor = strings.ToUpper(value)
	case "mapStyle":
		p.MapStyle = value
	case "showMarkers", "showPlaceNames", "showEmotions":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidPreferences, field)
		}
		switch field {
		case "showMarkers":
			p.ShowMarkers = b
		case "showPlaceNames":
			p.ShowPlaceNames = b
		default:
			p.ShowEmotions = b
		}
	case "markerSize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: markerSize must be a number", ErrInvalidPreferences)
		}
		p.MarkerSize = n
	case "language":
		p.Language = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

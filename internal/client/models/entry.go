package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidLocation = errors.New("location must be a string or an object")

// Entry is one journal entry as returned by /entries/user/{id}.
type Entry struct {
	ID       string    `json:"entryId" validate:"required"`
	UserID   string    `json:"userId"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Location *Location `json:"location,omitempty"`
	PhotoURL string    `json:"photoUrl,omitempty"`
}

// EntryDraft is the body of POST /entries.
type EntryDraft struct {
	UserID   string    `json:"userId"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Location *Location `json:"location,omitempty"`
	PhotoURL string    `json:"photoUrl,omitempty"`
}

// Location is either a free-text place name or a point with an optional name.
// On the wire the first form is a plain JSON string, the second an object
// {name, lat, lng}.
type Location struct {
	Name string
	Lat  *float64
	Lng  *float64
}

type locationObject struct {
	Name string   `json:"name,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// HasPoint reports whether both coordinates are set.
func (l Location) HasPoint() bool { return l.Lat != nil && l.Lng != nil }

func (l Location) String() string {
	if !l.HasPoint() {
		return l.Name
	}
	point := strconv.FormatFloat(*l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(*l.Lng, 'f', -1, 64)
	if l.Name == "" {
		return point
	}
	return fmt.Sprintf("%s (%s)", l.Name, point)
}

func (l Location) MarshalJSON() ([]byte, error) {
	if l.Lat == nil && l.Lng == nil {
		return json.Marshal(l.Name)
	}
	return json.Marshal(locationObject(l))
}

func (l *Location) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		return ErrInvalidLocation
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Location{Name: s}
		return nil
	case b[0] == '{':
		var o locationObject
		if err := json.Unmarshal(b, &o); err != nil {
			return err
		}
		*l = Location(o)
		return nil
	case bytes.Equal(b, []byte("null")):
		return nil
	default:
		return ErrInvalidLocation
	}
}

// ParseLocation turns CLI input into a Location: "lat,lng" becomes a point,
// anything else a place name.
func ParseLocation(s string) *Location {
	if s == "" {
		return nil
	}
	if a, b, ok := strings.Cut(s, ","); ok {
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(a), 64)
		lng, err2 := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if err1 == nil && err2 == nil {
			return &Location{Lat: &lat, Lng: &lng}
		}
	}
	return &Location{Name: s}
}

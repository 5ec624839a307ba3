package render

import (
	"fmt"
	"strings"
)

// Mode is how projected points are drawn.
type Mode int

const (
	Markers Mode = iota
	Heatmap
)

func (m Mode) String() string {
	if m == Heatmap {
		return "heatmap"
	}
	return "markers"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Heatmap {
		return Markers
	}
	return Heatmap
}

// ParseMode accepts "markers" or "heatmap", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markers", "marker":
		return Markers, nil
	case "heatmap", "heat":
		return Heatmap, nil
	}
	return Markers, fmt.Errorf("unknown display mode %q (want markers or heatmap)", s)
}

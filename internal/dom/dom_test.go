package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox_Visible(t *testing.T) {
	visibleRect := Rect{Width: 100, Height: 20}

	tests := []struct {
		name string
		box  Box
		want bool
	}{
		{"plain", Box{Rect: visibleRect}, true},
		{"zero width", Box{Rect: Rect{Height: 20}}, false},
		{"zero height", Box{Rect: Rect{Width: 100}}, false},
		{"display none", Box{Rect: visibleRect, Style: Style{Display: "none"}}, false},
		{"visibility hidden", Box{Rect: visibleRect, Style: Style{Visibility: "hidden"}}, false},
		{"opacity zero", Box{Rect: visibleRect, Style: Style{Opacity: "0"}}, false},
		{"opacity partial", Box{Rect: visibleRect, Style: Style{Opacity: "0.5"}}, true},
		{"opacity decimal zero", Box{Rect: visibleRect, Style: Style{Opacity: "0.0"}}, false},
		{"opacity zero percent", Box{Rect: visibleRect, Style: Style{Opacity: "0%"}}, false},
		{"opacity leading dot", Box{Rect: visibleRect, Style: Style{Opacity: " .0 "}}, false},
		{"opacity important", Box{Rect: visibleRect, Style: Style{Opacity: "0 !important"}}, false},
		{"opacity percent", Box{Rect: visibleRect, Style: Style{Opacity: "40%"}}, true},
		{"opacity unparseable", Box{Rect: visibleRect, Style: Style{Opacity: "var(--fade)"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.box.Visible())
		})
	}
}

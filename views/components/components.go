// Package components holds the small HTML fragments shared by list columns,
// the markdown hook and the public widgets.
package components

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Thumbnail renders <img src="…" /> exactly like the list column expects,
// an empty src included.
func Thumbnail(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<img src="`+templ.EscapeString(src)+`" />`)
		return err
	})
}

// PhotoInsert renders a photo placed into markdown text. Size attributes are
// only written when both are positive.
func PhotoInsert(src, alt string, width, height int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		size := ""
		if width > 0 && height > 0 {
			size = fmt.Sprintf(` width="%d" height="%d"`, width, height)
		}
		_, err := fmt.Fprintf(w, `<img class="photoalbums-insert" src="%s" alt="%s"%s />`,
			templ.EscapeString(src), templ.EscapeString(alt), size)
		return err
	})
}

// PhotoCard is one entry of a photo grid.
type PhotoCard struct {
	ID    uint
	Title string
	Thumb string
	URL   string
}

// RandomPhotos renders the random photos widget.
func RandomPhotos(cards []PhotoCard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="photoalbums-random">`)
		for _, card := range cards {
			b.WriteString(`<a class="photoalbums-random__item" href="` + templ.EscapeString(card.URL) + `">`)
			if card.Thumb != "" {
				b.WriteString(`<img src="` + templ.EscapeString(card.Thumb) + `" alt="` + templ.EscapeString(card.Title) + `" />`)
			}
			b.WriteString(`<span>` + templ.EscapeString(card.Title) + `</span></a>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RenderString renders c into a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

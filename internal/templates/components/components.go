// Package components holds small shared view primitives used across pages.
package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Button renders a standard action button. kind is the HTML button type
// ("submit" or "button").
func Button(label, kind string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		_, err := fmt.Fprintf(out, `<button type="%s" class="btn">%s</button>`,
			templ.EscapeString(kind), templ.EscapeString(label))
		return err
	})
}

// Spinner renders the loading indicator shown by HTMX while a request is
// in flight (paired with hx-indicator).
func Spinner() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		_, err := io.WriteString(out,
			`<span class="spinner htmx-indicator" aria-hidden="true"></span>`)
		return err
	})
}

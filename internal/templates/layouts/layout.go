package layouts

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Base renders the common HTML shell: head, top navigation, flash banners,
// and the page content. All full pages render through Base; HTMX fragments
// bypass it.
func Base(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		fmt.Fprintf(out, `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s · 도시락</title>
<link rel="stylesheet" href="/static/css/dosirak.css">
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="/static/js/dosirak.js" defer></script>
</head>
<body hx-boost="true">`, templ.EscapeString(title))

		if err := navBar().Render(ctx, out); err != nil {
			return err
		}
		if err := flashBanners().Render(ctx, out); err != nil {
			return err
		}

		io.WriteString(out, `<main class="container">`)
		if err := content.Render(ctx, out); err != nil {
			return err
		}
		io.WriteString(out, `</main>`)

		_, err := io.WriteString(out, `</body></html>`)
		return err
	})
}

// navBar renders the top navigation. Links depend on whether the request is
// authenticated; that state comes from the layout context set by the injector.
func navBar() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<nav class="topnav"><a href="/" class="brand">도시락</a><div class="nav-links">`)

		if IsAuthenticated(ctx) {
			active := GetActivePath(ctx)
			writeNavLink(out, "/reservations", "예약", active)
			fmt.Fprintf(out,
				`<span class="nav-user">%s</span>`+
					`<form method="post" action="/logout" class="nav-logout">`+
					`<input type="hidden" name="csrf_token" value="%s">`+
					`<button type="submit">로그아웃</button></form>`,
				templ.EscapeString(GetUserName(ctx)),
				templ.EscapeString(GetCSRFToken(ctx)),
			)
		} else {
			io.WriteString(out, `<a href="/login">로그인</a><a href="/signup">회원가입</a>`)
		}

		_, err := io.WriteString(out, `</div></nav>`)
		return err
	})
}

// flashBanners renders success/error flash messages when present.
func flashBanners() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if msg := GetFlashSuccess(ctx); msg != "" {
			fmt.Fprintf(out, `<div class="flash flash-success">%s</div>`, templ.EscapeString(msg))
		}
		if msg := GetFlashError(ctx); msg != "" {
			fmt.Fprintf(out, `<div class="flash flash-error">%s</div>`, templ.EscapeString(msg))
		}
		return nil
	})
}

// writeNavLink renders one nav link, marking the active path.
func writeNavLink(out io.Writer, href, label, active string) {
	class := ""
	if href == active {
		class = ` class="active"`
	}
	fmt.Fprintf(out, `<a href="%s"%s>%s</a>`,
		templ.EscapeString(href), class, templ.EscapeString(label))
}

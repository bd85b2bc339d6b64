// Package pages holds top-level pages that don't belong to a plugin:
// the landing page and the error page.
package pages

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dosirak-app/dosirak/internal/templates/layouts"
)

// Landing renders the public landing page. Authenticated visitors get a
// link straight to the reservations page.
func Landing() templ.Component {
	return layouts.Base("도시락", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<section class="landing">`)
		io.WriteString(out, `<h1>도시락</h1>`)
		io.WriteString(out, `<p>점심 도시락과 포장 주문을 미리 예약하세요.</p>`)

		if layouts.IsAuthenticated(ctx) {
			io.WriteString(out, `<a class="btn btn-primary" href="/reservations">예약하러 가기</a>`)
		} else {
			io.WriteString(out,
				`<div class="landing-actions">`+
					`<a class="btn btn-primary" href="/login">로그인</a>`+
					`<a class="btn" href="/signup">회원가입</a>`+
					`</div>`)
		}

		_, err := io.WriteString(out, `</section>`)
		return err
	}))
}

// ErrorPage renders a full error page for the given status code and message.
// Used by the global error handler for browser-facing failures.
func ErrorPage(code int, message string) templ.Component {
	title := fmt.Sprintf("%d %s", code, http.StatusText(code))
	return layouts.Base(title, templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		fmt.Fprintf(out, `<section class="error-page"><h1>%d</h1>`, code)
		fmt.Fprintf(out, `<p>%s</p>`, templ.EscapeString(message))
		_, err := io.WriteString(out, `<a href="/">홈으로 돌아가기</a></section>`)
		return err
	}))
}

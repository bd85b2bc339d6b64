package auth

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/dosirak-app/dosirak/internal/templates/layouts"
)

// View components for the auth screens. Full pages wrap their form in the
// shared layout; the *Component variants render just the form fragment so
// HTMX swaps can replace the form in place on validation errors.

// LoginPage renders the full login page.
func LoginPage(csrfToken, email, errMsg, successMsg string) templ.Component {
	return layouts.Base("로그인", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<section class="auth-card"><h1>로그인</h1>`)
		if successMsg != "" {
			fmt.Fprintf(out, `<div class="flash flash-success">%s</div>`, templ.EscapeString(successMsg))
		}
		if err := LoginFormComponent(csrfToken, email, errMsg).Render(ctx, out); err != nil {
			return err
		}
		_, err := io.WriteString(out,
			`<p class="auth-links"><a href="/signup">회원가입</a> · <a href="/forgot-password">비밀번호 찾기</a></p></section>`)
		return err
	}))
}

// LoginFormComponent renders the login form fragment.
func LoginFormComponent(csrfToken, email, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		fmt.Fprintf(out, `<form id="login-form" method="post" action="/login" hx-post="/login" hx-target="#login-form" hx-swap="outerHTML">`)
		writeCSRF(out, csrfToken)
		writeError(out, errMsg)
		fmt.Fprintf(out,
			`<label>이메일<input type="email" name="email" value="%s" required autocomplete="email"></label>`+
				`<label>비밀번호<input type="password" name="password" required autocomplete="current-password"></label>`+
				`<button type="submit">로그인</button>`,
			templ.EscapeString(email),
		)
		_, err := io.WriteString(out, `</form>`)
		return err
	})
}

// SignupPage renders the full signup page. req carries previously submitted
// values so the form re-renders without losing input; nil means a fresh form.
func SignupPage(csrfToken string, req *SignupRequest, errMsg string) templ.Component {
	return layouts.Base("회원가입", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<section class="auth-card"><h1>회원가입</h1>`)
		if err := SignupFormComponent(csrfToken, req, errMsg).Render(ctx, out); err != nil {
			return err
		}
		_, err := io.WriteString(out,
			`<p class="auth-links">이미 계정이 있으신가요? <a href="/login">로그인</a></p></section>`)
		return err
	}))
}

// SignupFormComponent renders the signup form fragment.
func SignupFormComponent(csrfToken string, req *SignupRequest, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		var email, name string
		if req != nil {
			email = req.Email
			name = req.DisplayName
		}

		fmt.Fprintf(out, `<form id="signup-form" method="post" action="/signup" hx-post="/signup" hx-target="#signup-form" hx-swap="outerHTML">`)
		writeCSRF(out, csrfToken)
		writeError(out, errMsg)
		fmt.Fprintf(out,
			`<label>이메일<input type="email" name="email" value="%s" required autocomplete="email"></label>`+
				`<label>이름<input type="text" name="display_name" value="%s" required autocomplete="name"></label>`+
				`<label>비밀번호<input type="password" name="password" required autocomplete="new-password" minlength="8"></label>`+
				`<label>비밀번호 확인<input type="password" name="confirm" required autocomplete="new-password"></label>`+
				`<button type="submit">가입하기</button>`,
			templ.EscapeString(email),
			templ.EscapeString(name),
		)
		_, err := io.WriteString(out, `</form>`)
		return err
	})
}

// ForgotPasswordPage renders the full forgot-password page.
func ForgotPasswordPage(csrfToken, email, errMsg string) templ.Component {
	return layouts.Base("비밀번호 찾기", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<section class="auth-card"><h1>비밀번호 찾기</h1>`)
		if err := forgotPasswordForm(csrfToken, email, errMsg).Render(ctx, out); err != nil {
			return err
		}
		_, err := io.WriteString(out, `<p class="auth-links"><a href="/login">로그인으로 돌아가기</a></p></section>`)
		return err
	}))
}

// forgotPasswordForm renders the email entry form fragment.
func forgotPasswordForm(csrfToken, email, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		fmt.Fprintf(out, `<form id="forgot-form" method="post" action="/forgot-password" hx-post="/forgot-password" hx-target="#forgot-form" hx-swap="outerHTML">`)
		writeCSRF(out, csrfToken)
		writeError(out, errMsg)
		fmt.Fprintf(out,
			`<p>가입하신 이메일 주소를 입력하시면 재설정 링크를 보내드립니다.</p>`+
				`<label>이메일<input type="email" name="email" value="%s" required autocomplete="email"></label>`+
				`<button type="submit">재설정 링크 보내기</button>`,
			templ.EscapeString(email),
		)
		_, err := io.WriteString(out, `</form>`)
		return err
	})
}

// ForgotPasswordSent renders the confirmation fragment after a reset request.
func ForgotPasswordSent(csrfToken, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		_, err := fmt.Fprintf(out,
			`<div id="forgot-form" class="auth-sent">`+
				`<p>%s(으)로 계정이 있다면 재설정 링크를 보냈습니다. 메일함을 확인해 주세요.</p>`+
				`</div>`,
			templ.EscapeString(email),
		)
		return err
	})
}

// ForgotPasswordSentPage renders the confirmation as a full page.
func ForgotPasswordSentPage(csrfToken, email string) templ.Component {
	return layouts.Base("비밀번호 찾기", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<section class="auth-card"><h1>메일을 확인해 주세요</h1>`)
		if err := ForgotPasswordSent(csrfToken, email).Render(ctx, out); err != nil {
			return err
		}
		_, err := io.WriteString(out, `<p class="auth-links"><a href="/login">로그인으로 돌아가기</a></p></section>`)
		return err
	}))
}

// ResetPasswordPage renders the new-password form. The token travels in a
// hidden field; email is shown read-only when the token validated.
func ResetPasswordPage(csrfToken, token, email, errMsg string) templ.Component {
	return layouts.Base("비밀번호 재설정", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<section class="auth-card"><h1>비밀번호 재설정</h1>`)

		fmt.Fprintf(out, `<form id="reset-form" method="post" action="/reset-password">`)
		writeCSRF(out, csrfToken)
		writeError(out, errMsg)
		fmt.Fprintf(out, `<input type="hidden" name="token" value="%s">`, templ.EscapeString(token))
		if email != "" {
			fmt.Fprintf(out, `<p class="auth-email">%s</p>`, templ.EscapeString(email))
		}
		io.WriteString(out,
			`<label>새 비밀번호<input type="password" name="password" required autocomplete="new-password" minlength="8"></label>`+
				`<label>비밀번호 확인<input type="password" name="confirm" required autocomplete="new-password"></label>`+
				`<button type="submit">변경하기</button></form>`)

		_, err := io.WriteString(out, `<p class="auth-links"><a href="/login">로그인으로 돌아가기</a></p></section>`)
		return err
	}))
}

// --- shared fragments ---

func writeCSRF(out io.Writer, token string) {
	fmt.Fprintf(out, `<input type="hidden" name="csrf_token" value="%s">`, templ.EscapeString(token))
}

func writeError(out io.Writer, msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintf(out, `<div class="form-error" role="alert">%s</div>`, templ.EscapeString(msg))
}

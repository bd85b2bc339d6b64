package sanitize

import "testing"

func TestMemo(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text unchanged", "견과류 제외해 주세요", "견과류 제외해 주세요"},
		{"whitespace trimmed", "  덜 맵게  ", "덜 맵게"},
		{"script stripped", `<script>alert(1)</script>덜 맵게`, "덜 맵게"},
		{"tags stripped keeps text", "<b>중요</b> 요청", "중요 요청"},
		{"attributes stripped", `<a href="https://evil.example">링크</a>`, "링크"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Memo(tc.input); got != tc.want {
				t.Errorf("Memo(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

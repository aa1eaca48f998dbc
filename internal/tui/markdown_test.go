package tui

import (
	"strings"
	"testing"
)

func TestMarkdownStyle_RespectsTUITheme(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("COLORFGBG", "")

	t.Setenv("SKILLBOARD_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}

	t.Setenv("SKILLBOARD_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyle_FallsBackToColorFGBG(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("SKILLBOARD_TUI_THEME", "")

	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light from COLORFGBG; got %q", got)
	}
	t.Setenv("COLORFGBG", "")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark default; got %q", got)
	}
}

func TestMarkdownStyle_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("SKILLBOARD_TUI_THEME", "dark")
	if got := markdownStyle(); got != "notty" {
		t.Fatalf("expected notty; got %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := RenderMarkdown("   \n", 80); got != "" {
		t.Fatalf("expected empty output for blank input; got %q", got)
	}

	out := RenderMarkdown("# Skills report\n\n- [x] Learn hooks", 80)
	if !strings.Contains(out, "Skills report") || !strings.Contains(out, "Learn hooks") {
		t.Fatalf("unexpected render:\n%s", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newlines trimmed")
	}
}

package cli

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"subject", "striatum_speed"},
		[][]string{
			{"1", "2.500"},
			{"12", "-1.250"},
		},
	)

	for _, want := range []string{"subject", "striatum_speed", "2.500", "-1.250"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable() output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines < 4 {
		t.Errorf("RenderTable() produced %d lines, want at least 4", lines)
	}
}

func TestFormatHelpers(t *testing.T) {
	if !strings.Contains(FormatSuccess("done"), "done") {
		t.Error("FormatSuccess() dropped the message")
	}
	if !strings.Contains(FormatWarning("careful"), "careful") {
		t.Error("FormatWarning() dropped the message")
	}
	if !strings.Contains(FormatError("failed"), "failed") {
		t.Error("FormatError() dropped the message")
	}
}

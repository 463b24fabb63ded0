package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name              string
		done, total, wdth int
		want              string
	}{
		{"empty", 0, 0, 10, "░░░░░░░░░░   0%"},
		{"half", 1, 2, 10, "█████░░░░░  50%"},
		{"full", 3, 3, 10, "██████████ 100%"},
		{"min width", 1, 1, 2, "█████ 100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressBar(tt.done, tt.total, tt.wdth))
		})
	}
}

func TestRenderPanelPadsToWidestLine(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() {
		SetColorForcing(false, false)
		SetTheme("classic")
	})

	out := RenderPanel([]string{"ab", "abcd"})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "+------+", lines[0])
	assert.Equal(t, "| ab   |", lines[1])
	assert.Equal(t, "| abcd |", lines[2])
	assert.Equal(t, "+------+", lines[3])
}

func TestRenderPanelIgnoresANSIWidth(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() {
		SetColorForcing(false, false)
		SetTheme("classic")
	})

	out := RenderPanel([]string{"\033[32mok\033[0m", "okay"})
	assert.Contains(t, out, "| \033[32mok\033[0m   |")
}

func TestColorModes(t *testing.T) {
	t.Cleanup(func() { SetColorForcing(false, false) })

	SetColorMode("always")
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))

	SetColorMode("never")
	assert.Equal(t, "x", C(fgRed, "x"))

	SetColorMode("auto")
	var buf bytes.Buffer
	SetOutput(&buf, nil)
	t.Cleanup(func() { SetOutput(os.Stdout, os.Stderr) })
	assert.Equal(t, "x", C(fgRed, "x"), "non-terminal writers get plain text")
}

func TestOKAndFail(t *testing.T) {
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	SetColorForcing(false, true)
	t.Cleanup(func() {
		SetColorForcing(false, false)
		SetOutput(os.Stdout, os.Stderr)
	})

	OK("added")
	Fail("boom")
	Hint("try again")

	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ boom\ntry again\n", errOut.String())
}

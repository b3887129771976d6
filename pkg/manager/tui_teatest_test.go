package manager

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForOutput(t *testing.T, tm *teatest.TestModel, want string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte(want))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(50*time.Millisecond))
}

func TestTUI_FilterRegisterAndQuit(t *testing.T) {
	m, h := newTestModel(t, sampleHosts()...)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	waitForOutput(t, tm, "primary database")

	tm.Type("mysql")
	waitForOutput(t, tm, "1/3 hosts")

	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForOutput(t, tm, "disconnected from db01")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlN})
	waitForOutput(t, tm, "New host")
	tm.Type("cache01")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForOutput(t, tm, "added cache01")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(model)
	require.True(t, ok)
	assert.True(t, final.quitting)
	assert.True(t, final.store.Contains("cache01"))
	assert.Equal(t, 4, final.store.Len())
	require.Len(t, h.logins, 1)
	assert.Equal(t, "db01", h.logins[0].Host)
}

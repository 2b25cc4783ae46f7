package monitor

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMapHelp(t *testing.T) {
	k := DefaultKeyMap()

	assert.Len(t, k.ShortHelp(), 6)
	assert.Len(t, k.FullHelp(), 3)
	for _, column := range k.FullHelp() {
		for _, b := range column {
			assert.NotEmpty(t, b.Help().Key)
			assert.NotEmpty(t, b.Help().Desc)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _, _ := newTestModel(t, Sources{})
			m, cmd := press(t, m, k)
			assert.True(t, m.quitting)
			assert.NotNil(t, cmd)
			assert.Empty(t, m.View())
		})
	}
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t, Sources{})

	m, _ = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, ansi.Strip(m.View()), "Keyboard Shortcuts")

	m, _ = press(t, m, "esc")
	assert.False(t, m.showHelp)

	m, _ = press(t, m, "?")
	m, _ = press(t, m, "?")
	assert.False(t, m.showHelp)
}

func TestHexKey(t *testing.T) {
	m, ctrl, _ := newTestModel(t, Sources{})

	m, _ = press(t, m, "h")
	assert.True(t, ctrl.Hex())
	assert.True(t, m.Snapshot().Hex)
	assert.Equal(t, "hex view on", latestMessage(m))

	m, _ = press(t, m, "h")
	assert.False(t, m.Snapshot().Hex)
}

func TestThresholdKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want float64
	}{
		{[]string{"+"}, 81},
		{[]string{"="}, 81},
		{[]string{"-", "-"}, 78},
		{[]string{"+", "-"}, 80},
	}

	for _, tt := range tests {
		m, ctrl, _ := newTestModel(t, Sources{})
		for _, k := range tt.keys {
			m, _ = press(t, m, k)
		}
		assert.Equal(t, tt.want, ctrl.Threshold(), "keys %v", tt.keys)
		assert.Equal(t, tt.want, m.Snapshot().Threshold)
	}
}

func TestResetViewKey(t *testing.T) {
	m, ctrl, _ := newTestModel(t, Sources{})
	ctrl.HandleLine(transport.Line{Text: "1;2;3"})

	m, _ = press(t, m, "r")
	assert.Empty(t, m.Snapshot().Samples)
	assert.Equal(t, "view reset", latestMessage(m))
}

func TestClearLogKey(t *testing.T) {
	m, ctrl, _ := newTestModel(t, Sources{})
	ctrl.HandleLine(transport.Line{Text: "bogus"})

	m, _ = press(t, m, "c")
	assert.Empty(t, m.Snapshot().Entries)
}

func TestScrollKeysHandled(t *testing.T) {
	m, _, _ := newTestModel(t, Sources{})
	handled, cmd := m.HandleKeyMsg(keyMsg("j"))
	assert.True(t, handled)
	assert.Nil(t, cmd)

	_, cmd = press(t, m, "up")
	assert.Nil(t, cmd)
}

func TestUnknownKeyNotHandled(t *testing.T) {
	m, _, _ := newTestModel(t, Sources{})
	handled, _ := m.HandleKeyMsg(keyMsg("z"))
	assert.False(t, handled)
}

package bomb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// terminalModule returns the terminal module of a 4-module bomb.
func terminalModule(t *testing.T, seed int64) (*Bomb, int, *TerminalModule) {
	t.Helper()
	b := newTestBomb(t, 4, seed)
	for i := 0; i < b.ModuleCount(); i++ {
		if m, ok := b.Module(i).(*TerminalModule); ok {
			return b, i, m
		}
	}
	t.Fatal("4-module bomb has no terminal module")
	return nil, 0, nil
}

func TestTerminal_SolvesAfterThreeCommands(t *testing.T) {
	b, idx, m := terminalModule(t, 11)
	commands := m.ExpectedCommands()

	for stage, command := range commands {
		result := b.Attempt(idx, EnterCommand{Command: command}, testStart)
		require.True(t, result.Accepted, "stage %d", stage)
		require.True(t, result.Correct, "stage %d", stage)
	}

	assert.True(t, m.Solved())
	assert.Equal(t, 0, b.Strikes())
}

func TestTerminal_NormalizesInput(t *testing.T) {
	b, idx, m := terminalModule(t, 12)
	command := m.ExpectedCommands()[0]

	result := b.Attempt(idx, EnterCommand{Command: "  " + strings.ToLower(command) + " "}, testStart)

	assert.True(t, result.Correct)
	assert.Equal(t, 1, m.Stage())
}

func TestTerminal_WrongCommandRetriesInPlace(t *testing.T) {
	b, idx, m := terminalModule(t, 13)
	commands := m.ExpectedCommands()

	require.True(t, b.Attempt(idx, EnterCommand{Command: commands[0]}, testStart).Correct)
	require.Equal(t, 1, m.Stage())

	wrong := b.Attempt(idx, EnterCommand{Command: "NO SUCH COMMAND"}, testStart)
	assert.True(t, wrong.Accepted)
	assert.False(t, wrong.Correct)
	assert.Equal(t, 1, wrong.Strikes)
	assert.Equal(t, 1, m.Stage(), "progress must survive a wrong command")

	retry := b.Attempt(idx, EnterCommand{Command: commands[1]}, testStart)
	assert.True(t, retry.Correct)
	assert.Equal(t, 2, m.Stage())
}

func TestTerminal_PromptsAreDistinct(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		_, _, m := terminalModule(t, seed)
		prompts := m.Prompts()
		seen := make(map[string]bool)
		for _, p := range prompts {
			assert.False(t, seen[p], "prompt repeated: %s", p)
			seen[p] = true
		}
	}
}

func TestTerminal_SnapshotTracksStage(t *testing.T) {
	b, idx, m := terminalModule(t, 14)

	first := m.Snapshot()
	assert.Equal(t, 0, first.Stage)
	assert.Equal(t, m.Prompts()[0], first.Prompt)

	b.Attempt(idx, EnterCommand{Command: m.ExpectedCommands()[0]}, testStart)
	second := m.Snapshot()
	assert.Equal(t, 1, second.Stage)
	assert.Equal(t, m.Prompts()[1], second.Prompt)
}

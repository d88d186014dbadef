package messages

import (
	"encoding/json"
	"testing"

	"github.com/fusebox-party/fusebox/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WrapsPayload(t *testing.T) {
	msg, err := New(MessageTypeClientCutWire, ClientCutWire{ModuleIndex: 1, Wire: 2})
	require.NoError(t, err)

	assert.Equal(t, MessageTypeClientCutWire, msg.Type)

	var payload ClientCutWire
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, 1, payload.ModuleIndex)
	assert.Equal(t, 2, payload.Wire)
}

func TestNew_NilPayload(t *testing.T) {
	msg, err := New(MessageTypeServerPong, nil)
	require.NoError(t, err)

	assert.Equal(t, MessageTypeServerPong, msg.Type)
	assert.Nil(t, msg.Payload)
}

func TestFlattenManual_PerKind(t *testing.T) {
	wires := rules.WiresManual{
		WireCount:    4,
		Rules:        []string{"If there are no red wires, cut the first wire."},
		DefaultRule:  "Otherwise, cut the last wire.",
		Instructions: "Read the colors aloud.",
	}
	button := rules.ButtonManual{
		Rules:        []string{"If the button is blue, press and immediately release the button."},
		DefaultRule:  "Otherwise, hold the button and refer to the release table.",
		ReleaseTable: []string{"red gauge: release when the countdown ends in 3."},
		Instructions: "Describe the button.",
	}

	tests := []struct {
		name   string
		manual rules.Manual
		check  func(t *testing.T, entry ManualEntry)
	}{
		{
			name:   "wires",
			manual: rules.Manual{Kind: rules.ModuleKindWires, Wires: &wires},
			check: func(t *testing.T, entry ManualEntry) {
				assert.Equal(t, wires.Rules, entry.Rules)
				assert.Empty(t, entry.ReleaseTable)
			},
		},
		{
			name:   "button",
			manual: rules.Manual{Kind: rules.ModuleKindButton, Button: &button},
			check: func(t *testing.T, entry ManualEntry) {
				assert.Equal(t, button.ReleaseTable, entry.ReleaseTable)
				assert.Equal(t, button.DefaultRule, entry.DefaultRule)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := FlattenManual("module-1", tt.manual)
			assert.Equal(t, "module-1", entry.ModuleKey)
			assert.Equal(t, string(tt.manual.Kind), entry.Kind)
			tt.check(t, entry)
		})
	}
}

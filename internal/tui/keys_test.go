package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultBindings(t *testing.T) {
	t.Parallel()
	r := NewKeyRegistry()

	tests := []struct {
		key, scope string
		want       Action
	}{
		{"enter", scopeBoard, actionSubmit},
		{"enter", scopeExchange, actionConfirm},
		{"enter", scopeGameOver, actionRestart},
		{"ctrl+c", scopeExchange, actionQuit},
		{"tab", scopeBoard, actionOrientation},
		{"3", scopeExchange, actionMark},
		{"Return", scopeBoard, actionSubmit},
	}
	for _, tt := range tests {
		b := r.Lookup(tt.key, tt.scope)
		require.NotNil(t, b, "%s in %s", tt.key, tt.scope)
		require.Equal(t, tt.want, b.Action)
	}
	require.Nil(t, r.Lookup("a", scopeBoard), "letters are typed, not bound")
	require.Nil(t, r.Lookup("3", scopeBoard))
	require.Nil(t, r.Lookup("", scopeBoard))
}

func TestHelpBindingsFollowScope(t *testing.T) {
	t.Parallel()
	r := NewKeyRegistry()
	var helps []string
	for _, b := range r.HelpBindings(scopeExchange) {
		helps = append(helps, b.Help().Key+" "+b.Help().Desc)
	}
	require.Equal(t, []string{"1-9 marcar", "enter confirmar", "esc cancelar"}, helps)
}

func TestApplyOverrides(t *testing.T) {
	t.Parallel()
	r := NewKeyRegistry()
	require.NoError(t, r.ApplyKeybindingConfig([]keybindingConfig{
		{Scope: scopeBoard, Action: string(actionPass), Keys: []string{"ctrl+x"}},
		{Scope: scopeExchange, Action: string(actionMark), Keys: []string{"a", "s", "d"}},
	}))
	require.Equal(t, actionPass, r.Lookup("ctrl+x", scopeBoard).Action)
	require.Nil(t, r.Lookup("ctrl+p", scopeBoard))
	require.Equal(t, actionMark, r.Lookup("s", scopeExchange).Action)
	require.Nil(t, r.Lookup("1", scopeExchange))
}

func TestApplyOverridesRejectsBadEntries(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		item keybindingConfig
	}{
		{"no scope", keybindingConfig{Action: "pass", Keys: []string{"x"}}},
		{"no action", keybindingConfig{Scope: scopeBoard, Keys: []string{"x"}}},
		{"no keys", keybindingConfig{Scope: scopeBoard, Action: "pass"}},
		{"unknown scope", keybindingConfig{Scope: "nowhere", Action: "pass", Keys: []string{"x"}}},
		{"unknown action", keybindingConfig{Scope: scopeBoard, Action: "fly", Keys: []string{"x"}}},
		{"conflict", keybindingConfig{Scope: scopeBoard, Action: "pass", Keys: []string{"tab"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, NewKeyRegistry().ApplyKeybindingConfig([]keybindingConfig{tt.item}))
		})
	}

	dup := []keybindingConfig{
		{Scope: scopeBoard, Action: "pass", Keys: []string{"ctrl+x"}},
		{Scope: scopeBoard, Action: "pass", Keys: []string{"ctrl+y"}},
	}
	require.Error(t, NewKeyRegistry().ApplyKeybindingConfig(dup))
}

func TestLoadKeyOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	items, err := LoadKeyOverrides(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	require.Nil(t, items)

	path := filepath.Join(dir, "keys.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[binding]]
scope = "board"
action = "refresh"
keys = ["f5"]
`), 0o600))
	items, err = LoadKeyOverrides(path)
	require.NoError(t, err)
	require.Equal(t, []keybindingConfig{{Scope: "board", Action: "refresh", Keys: []string{"f5"}}}, items)

	require.NoError(t, os.WriteFile(path, []byte("[[binding]\n"), 0o600))
	_, err = LoadKeyOverrides(path)
	require.Error(t, err)
}

func TestWriteKeyBindingsRoundTrip(t *testing.T) {
	t.Parallel()
	r := NewKeyRegistry()
	var buf bytes.Buffer
	require.NoError(t, r.WriteKeyBindings(&buf))

	path := filepath.Join(t.TempDir(), "keys.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	items, err := LoadKeyOverrides(path)
	require.NoError(t, err)
	require.Equal(t, r.ExportKeybindingConfig(), items)
	require.NoError(t, NewKeyRegistry().ApplyKeybindingConfig(items))
}

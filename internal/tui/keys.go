package tui

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/key"
)

type Action string

// Binding ties an action to the keys that trigger it within one scope.
type Binding struct {
	Action Action
	Keys   []string
	Help   string
}

// keymap is one scope's bindings in registration order plus a key index.
type keymap struct {
	order []*Binding
	byKey map[string]*Binding
}

func (m *keymap) index() {
	m.byKey = make(map[string]*Binding)
	for _, b := range m.order {
		for _, k := range b.Keys {
			m.byKey[k] = b
		}
	}
}

func (m *keymap) action(a Action) *Binding {
	for _, b := range m.order {
		if b.Action == a {
			return b
		}
	}
	return nil
}

// KeyRegistry resolves key presses to actions per scope. The global scope
// backs every other scope.
type KeyRegistry struct {
	scopes map[string]*keymap
}

const (
	scopeGlobal   = "global"
	scopeBoard    = "board"
	scopeExchange = "exchange"
	scopeGameOver = "game_over"
)

const (
	actionQuit           Action = "quit"
	actionUp             Action = "up"
	actionDown           Action = "down"
	actionLeft           Action = "left"
	actionRight          Action = "right"
	actionOrientation    Action = "orientation"
	actionSubmit         Action = "submit"
	actionPass           Action = "pass"
	actionExchange       Action = "exchange"
	actionRefresh        Action = "refresh"
	actionClearInput     Action = "clear_input"
	actionMark           Action = "mark"
	actionConfirm        Action = "confirm"
	actionCancelExchange Action = "cancel"
	actionRestart        Action = "restart"
)

var defaultBindings = []struct {
	scope  string
	action Action
	keys   []string
	help   string
}{
	{scopeGlobal, actionQuit, []string{"ctrl+c", "ctrl+q"}, "salir"},

	{scopeBoard, actionSubmit, []string{"enter"}, "jugar"},
	{scopeBoard, actionUp, []string{"up"}, "arriba"},
	{scopeBoard, actionDown, []string{"down"}, "abajo"},
	{scopeBoard, actionLeft, []string{"left"}, "izquierda"},
	{scopeBoard, actionRight, []string{"right"}, "derecha"},
	{scopeBoard, actionOrientation, []string{"tab"}, "H/V"},
	{scopeBoard, actionPass, []string{"ctrl+p"}, "pasar"},
	{scopeBoard, actionExchange, []string{"ctrl+e"}, "cambiar"},
	{scopeBoard, actionRefresh, []string{"ctrl+r"}, "actualizar"},
	{scopeBoard, actionClearInput, []string{"esc"}, "borrar"},

	{scopeExchange, actionMark, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, "marcar"},
	{scopeExchange, actionConfirm, []string{"enter"}, "confirmar"},
	{scopeExchange, actionCancelExchange, []string{"esc", "ctrl+e"}, "cancelar"},

	{scopeGameOver, actionRestart, []string{"enter", "ctrl+n"}, "nueva partida"},
}

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{scopes: make(map[string]*keymap)}
	for _, d := range defaultBindings {
		r.Register(d.scope, Binding{Action: d.action, Keys: d.keys, Help: d.help})
	}
	return r
}

// Register adds b to scope. Keys already taken in that scope are skipped; a
// binding left with no keys is not added.
func (r *KeyRegistry) Register(scope string, b Binding) {
	m, ok := r.scopes[scope]
	if !ok {
		m = &keymap{byKey: make(map[string]*Binding)}
		r.scopes[scope] = m
	}
	var free []string
	for _, k := range normalizeKeyList(b.Keys) {
		if _, taken := m.byKey[k]; !taken {
			free = append(free, k)
		}
	}
	if len(free) == 0 {
		return
	}
	nb := &Binding{Action: b.Action, Keys: free, Help: b.Help}
	m.order = append(m.order, nb)
	for _, k := range free {
		m.byKey[k] = nb
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil || r.scopes[scope] == nil {
		return nil
	}
	out := make([]Binding, 0, len(r.scopes[scope].order))
	for _, b := range r.scopes[scope].order {
		out = append(out, *b)
	}
	return out
}

// Lookup resolves keyName in scope, falling back to the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	k := normalizeKeyName(keyName)
	if r == nil || k == "" {
		return nil
	}
	for _, s := range []string{scope, scopeGlobal} {
		if m := r.scopes[s]; m != nil {
			if b := m.byKey[k]; b != nil {
				return b
			}
		}
	}
	return nil
}

// HelpBindings returns the scope's bindings for the help line.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	var out []key.Binding
	for _, b := range r.BindingsForScope(scope) {
		label := b.Keys[0]
		if b.Action == actionMark {
			label = "1-9"
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(label, b.Help)))
	}
	return out
}

func normalizeKeyList(keys []string) []string {
	var out []string
	for _, k := range keys {
		if n := normalizeKeyName(k); n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

var keyAliases = strings.NewReplacer(
	" ", "",
	"control+", "ctrl+",
	"ctl+", "ctrl+",
	"return", "enter",
	"escape", "esc",
)

// normalizeKeyName maps spellings such as "Return" or "Control+P" to the
// names Bubble Tea reports. Single runes keep their case.
func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	k = strings.TrimSpace(k)
	if utf8.RuneCountInString(k) <= 1 {
		return k
	}
	return keyAliases.Replace(strings.ToLower(k))
}

// keybindingConfig is one override entry of the keys file.
type keybindingConfig struct {
	Scope  string   `toml:"scope"`
	Action string   `toml:"action"`
	Keys   []string `toml:"keys"`
}

type keysFile struct {
	Binding []keybindingConfig `toml:"binding"`
}

// LoadKeyOverrides reads [[binding]] entries from path. A missing file yields
// no overrides.
func LoadKeyOverrides(path string) ([]keybindingConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read keys file: %w", err)
	}
	var f keysFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keys file: %w", err)
	}
	return f.Binding, nil
}

// ApplyKeybindingConfig replaces the keys of the named bindings. Unknown
// scopes or actions, repeated entries and keys claimed twice within a scope
// are errors.
func (r *KeyRegistry) ApplyKeybindingConfig(items []keybindingConfig) error {
	if r == nil {
		return nil
	}
	done := make(map[string]bool)
	for _, item := range items {
		scope, action := strings.TrimSpace(item.Scope), Action(strings.TrimSpace(item.Action))
		switch {
		case scope == "":
			return errors.New("key override: missing scope")
		case action == "":
			return fmt.Errorf("key override in %s: missing action", scope)
		}
		keys := normalizeKeyList(item.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("key override %s.%s: no keys", scope, action)
		}
		m := r.scopes[scope]
		if m == nil {
			return fmt.Errorf("key override %s.%s: unknown scope", scope, action)
		}
		b := m.action(action)
		if b == nil {
			return fmt.Errorf("key override %s.%s: unknown action", scope, action)
		}
		id := scope + "." + string(action)
		if done[id] {
			return fmt.Errorf("key override %s: listed twice", id)
		}
		done[id] = true
		b.Keys = keys
	}

	for scope, m := range r.scopes {
		m.index()
		owner := make(map[string]Action)
		for _, b := range m.order {
			for _, k := range b.Keys {
				if prev, clash := owner[k]; clash {
					return fmt.Errorf("key override conflict in %s: %q bound to %s and %s", scope, k, prev, b.Action)
				}
				owner[k] = b.Action
			}
		}
	}
	return nil
}

// ExportKeybindingConfig lists every binding, sorted by scope and action.
func (r *KeyRegistry) ExportKeybindingConfig() []keybindingConfig {
	if r == nil {
		return nil
	}
	var out []keybindingConfig
	for scope, m := range r.scopes {
		for _, b := range m.order {
			out = append(out, keybindingConfig{Scope: scope, Action: string(b.Action), Keys: slices.Clone(b.Keys)})
		}
	}
	slices.SortFunc(out, func(a, b keybindingConfig) int {
		if c := strings.Compare(a.Scope, b.Scope); c != 0 {
			return c
		}
		return strings.Compare(a.Action, b.Action)
	})
	return out
}

// WriteKeyBindings encodes the current bindings in the keys file format.
func (r *KeyRegistry) WriteKeyBindings(w io.Writer) error {
	return toml.NewEncoder(w).Encode(keysFile{Binding: r.ExportKeybindingConfig()})
}

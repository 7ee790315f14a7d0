package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// commandPrefix starts a command typed into the word field.
const commandPrefix = ":"

// maxSuggestDistance bounds how far a typo may be from a command name and
// still get a suggestion.
const maxSuggestDistance = 2

type commandID string

const (
	cmdPass       commandID = "pasar"
	cmdExchange   commandID = "cambiar"
	cmdRestart    commandID = "reiniciar"
	cmdRefresh    commandID = "actualizar"
	cmdHorizontal commandID = "h"
	cmdVertical   commandID = "v"
	cmdQuit       commandID = "salir"
)

type command struct {
	ID          commandID
	Aliases     []string
	Description string
}

var commands = []command{
	{ID: cmdPass, Aliases: []string{"pass"}, Description: "pasar el turno"},
	{ID: cmdExchange, Aliases: []string{"swap"}, Description: "entrar o salir del modo de cambio"},
	{ID: cmdRestart, Aliases: []string{"nueva"}, Description: "nueva partida (al terminar)"},
	{ID: cmdRefresh, Aliases: []string{"refresh"}, Description: "volver a leer el tablero"},
	{ID: cmdHorizontal, Aliases: []string{"horizontal"}, Description: "orientación horizontal"},
	{ID: cmdVertical, Aliases: []string{"vertical"}, Description: "orientación vertical"},
	{ID: cmdQuit, Aliases: []string{"q", "quit"}, Description: "salir"},
}

// isCommand reports whether the word field holds a command rather than a word.
func isCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), commandPrefix)
}

// parseCommand resolves ":name". When nothing matches, suggestion holds the
// closest command name within maxSuggestDistance, if any.
func parseCommand(input string) (cmd command, suggestion string, ok bool) {
	name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), commandPrefix)))
	if name == "" {
		return command{}, "", false
	}
	for _, c := range commands {
		if string(c.ID) == name {
			return c, "", true
		}
		for _, a := range c.Aliases {
			if a == name {
				return c, "", true
			}
		}
	}
	return command{}, suggest(name), false
}

func suggest(name string) string {
	type candidate struct {
		name string
		dist int
	}
	var found []candidate
	for _, c := range commands {
		names := append([]string{string(c.ID)}, c.Aliases...)
		for _, n := range names {
			// single letter commands would match almost any short typo
			if len(n) < 2 {
				continue
			}
			if d := levenshtein.ComputeDistance(name, n); d <= maxSuggestDistance {
				found = append(found, candidate{name: string(c.ID), dist: d})
			}
		}
	}
	if len(found) == 0 {
		return ""
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })
	return found[0].name
}

func unknownCommandText(input, suggestion string) string {
	name := strings.TrimSpace(input)
	if suggestion == "" {
		return fmt.Sprintf("Comando desconocido: %s", name)
	}
	return fmt.Sprintf("Comando desconocido: %s (¿quisiste decir %s%s?)", name, commandPrefix, suggestion)
}

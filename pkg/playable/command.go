package playable

import (
	"strings"
)

// CommandMarker prefixes every command
const CommandMarker = "/"

// CommandKind classifies inbound text
type CommandKind int

// CommandKind constants
const (
	CommandChat CommandKind = iota
	CommandUnknown
	CommandScore
	CommandDraw
	CommandStay
	CommandUse
	CommandReady
	CommandUnready
	CommandPlayers
	CommandSave
	CommandHelp
)

var commandNames = map[string]CommandKind{
	"score":   CommandScore,
	"draw":    CommandDraw,
	"stay":    CommandStay,
	"use":     CommandUse,
	"ready":   CommandReady,
	"unready": CommandUnready,
	"players": CommandPlayers,
	"save":    CommandSave,
	"help":    CommandHelp,
}

// Command is a parsed line of inbound text
type Command struct {
	Kind CommandKind
	// Name is the lower-cased command token without the marker
	Name string
	Args []string
	// Text is the trimmed original text
	Text string
}

// ParseCommand classifies a line of text
// Text not starting with the command marker is chat
func ParseCommand(text string) Command {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, CommandMarker) {
		return Command{Kind: CommandChat, Text: text}
	}

	fields := strings.Fields(strings.TrimPrefix(text, CommandMarker))
	if len(fields) == 0 {
		return Command{Kind: CommandUnknown, Text: text}
	}

	name := strings.ToLower(fields[0])
	kind, ok := commandNames[name]
	if !ok {
		kind = CommandUnknown
	}

	return Command{
		Kind: kind,
		Name: name,
		Args: fields[1:],
		Text: text,
	}
}

// Arg returns the argument at i, or an empty string
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}

	return c.Args[i]
}

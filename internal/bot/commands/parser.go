package commands

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/robalyx/frost/internal/bot/constants"
	"github.com/robalyx/frost/internal/mute"
)

// Kind identifies what a message command does.
type Kind int

const (
	KindSuspend Kind = iota
	KindRestore
	KindRemaining
	KindSelfMuteTime
	KindSweepInterval
	KindMuteRole
	KindModRole
)

// Command is a parsed message command.
type Command struct {
	Kind Kind
	// Name is the word the command was invoked with, lowercased.
	Name      string
	Intensity mute.Intensity
	// Mentions holds mentioned user IDs in order of first appearance.
	Mentions []uint64
	// Args holds every word after the command name that is not a mention.
	Args []string
}

var (
	mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

	suspendNames = map[string]struct{}{
		constants.MuteCommandName:   {},
		constants.BanishCommandName: {},
		constants.FreezeCommandName: {},
		constants.HogtieCommandName: {},
	}

	fixedKinds = map[string]Kind{
		constants.MuteTimeCommandName:     KindRemaining,
		constants.BanishTimeCommandName:   KindRemaining,
		constants.SelfMuteTimeCommandName: KindSelfMuteTime,
		constants.MuteIntervalCommandName: KindSweepInterval,
		constants.BanishIntervalName:      KindSweepInterval,
		constants.MuteRoleCommandName:     KindMuteRole,
		constants.ModRoleCommandName:      KindModRole,
	}
)

// Parse reads a message command. It returns false if the content does not start
// with the prefix or names no known command.
func Parse(prefix, content string) (*Command, bool) {
	if prefix == "" {
		prefix = constants.DefaultPrefix
	}

	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, prefix) {
		return nil, false
	}

	// Mentions written without spaces still count as separate words
	content = mentionPattern.ReplaceAllString(strings.TrimPrefix(content, prefix), " $0 ")

	fields := strings.Fields(content)
	if len(fields) == 0 {
		return nil, false
	}

	name := strings.ToLower(fields[0])
	cmd := &Command{Name: name}

	if kind, ok := fixedKinds[name]; ok {
		cmd.Kind = kind
	} else if !parseSuspendName(name, cmd) {
		return nil, false
	}

	seen := make(map[uint64]struct{})
	for _, field := range fields[1:] {
		if match := mentionPattern.FindStringSubmatch(field); match != nil && match[0] == field {
			id, err := strconv.ParseUint(match[1], 10, 64)
			if err != nil {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				cmd.Mentions = append(cmd.Mentions, id)
			}
			continue
		}
		cmd.Args = append(cmd.Args, field)
	}

	return cmd, true
}

// parseSuspendName recognizes suspend and restore names with their intensity prefixes.
func parseSuspendName(name string, cmd *Command) bool {
	base := name
	cmd.Kind = KindSuspend

	if rest, ok := strings.CutPrefix(base, constants.RestorePrefix); ok {
		if _, known := suspendNames[rest]; known {
			cmd.Kind = KindRestore
			return true
		}
	}

	switch {
	case strings.HasPrefix(base, constants.SuperPrefix):
		cmd.Intensity = mute.IntensityExtended
		base = strings.TrimPrefix(base, constants.SuperPrefix)
	case strings.HasPrefix(base, constants.MegaPrefix):
		cmd.Intensity = mute.IntensityMaximum
		base = strings.TrimPrefix(base, constants.MegaPrefix)
	}

	_, ok := suspendNames[base]
	return ok
}

package constants

const (
	// DefaultPrefix starts every message command when none is configured.
	DefaultPrefix = "!"

	// Suspend commands.
	MuteCommandName   = "mute"
	BanishCommandName = "banish"
	FreezeCommandName = "freeze"
	HogtieCommandName = "hogtie"

	// Intensity prefixes.
	SuperPrefix = "super"
	MegaPrefix  = "mega"

	// Restore commands carry this prefix.
	RestorePrefix = "un"

	// Queries and settings.
	MuteTimeCommandName     = "mutetime"
	BanishTimeCommandName   = "banishtime"
	SelfMuteTimeCommandName = "selfmutetime"
	MuteIntervalCommandName = "muteinterval"
	BanishIntervalName      = "banishinterval"
	MuteRoleCommandName     = "muterole"
	ModRoleCommandName      = "modrole"

	// ModRoleAdd and ModRoleRemove are the modrole subcommands.
	ModRoleAdd    = "add"
	ModRoleRemove = "remove"

	// Limits for per-guild settings, in minutes.
	MaxSelfMuteMinutes = 7 * 24 * 60
	MaxIntervalMinutes = 24 * 60

	// Replies longer than this are cut to fit a Discord message.
	MaxMessageLength = 2000
)

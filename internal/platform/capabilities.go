package platform

import (
	"context"
	"slices"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// MemberCache is the part of the disgo cache used for capability checks.
type MemberCache interface {
	Member(guildID snowflake.ID, userID snowflake.ID) (discord.Member, bool)
	MemberPermissions(member discord.Member) discord.Permissions
	Role(guildID snowflake.ID, roleID snowflake.ID) (discord.Role, bool)
}

// MemberFetcher loads members missing from the cache.
type MemberFetcher interface {
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
}

// Capabilities decides who counts as a moderator. A member is privileged with the
// Administrator permission, a configured mod role, or a role named like one of the
// fallback mod role names.
type Capabilities struct {
	selfID        uint64
	cache         MemberCache
	fetcher       MemberFetcher
	settings      GuildSettingsSource
	fallbackNames []string
	logger        *zap.Logger
}

// NewCapabilities creates Capabilities for the bot user selfID.
func NewCapabilities(
	selfID uint64, cache MemberCache, fetcher MemberFetcher, settings GuildSettingsSource,
	fallbackNames []string, logger *zap.Logger,
) *Capabilities {
	return &Capabilities{
		selfID:        selfID,
		cache:         cache,
		fetcher:       fetcher,
		settings:      settings,
		fallbackNames: fallbackNames,
		logger:        logger.Named("capabilities"),
	}
}

// IsServiceAccount reports whether the member is the bot itself.
func (c *Capabilities) IsServiceAccount(memberID uint64) bool {
	return memberID == c.selfID
}

// IsPrivileged reports whether the member may moderate. Members that cannot be
// looked up are treated as ordinary.
func (c *Capabilities) IsPrivileged(ctx context.Context, guildID, memberID uint64) bool {
	member, ok := c.member(ctx, guildID, memberID)
	if !ok {
		return false
	}

	if c.cache.MemberPermissions(member).Has(discord.PermissionAdministrator) {
		return true
	}

	settings, err := c.settings.GetGuildSettings(ctx, guildID)
	if err != nil {
		c.logger.Warn("Failed to load guild settings for capability check",
			zap.Uint64("guildID", guildID), zap.Error(err))
	}

	for _, roleID := range member.RoleIDs {
		if settings != nil && settings.IsModRole(uint64(roleID)) {
			return true
		}
		if c.matchesFallbackName(guildID, roleID) {
			return true
		}
	}

	return false
}

func (c *Capabilities) member(ctx context.Context, guildID, memberID uint64) (discord.Member, bool) {
	if member, ok := c.cache.Member(snowflake.ID(guildID), snowflake.ID(memberID)); ok {
		return member, true
	}

	member, err := c.fetcher.GetMember(snowflake.ID(guildID), snowflake.ID(memberID), rest.WithCtx(ctx))
	if err != nil {
		c.logger.Debug("Failed to fetch member",
			zap.Uint64("guildID", guildID),
			zap.Uint64("memberID", memberID),
			zap.Error(err))
		return discord.Member{}, false
	}

	return *member, true
}

func (c *Capabilities) matchesFallbackName(guildID uint64, roleID snowflake.ID) bool {
	if len(c.fallbackNames) == 0 {
		return false
	}

	role, ok := c.cache.Role(snowflake.ID(guildID), roleID)
	if !ok {
		return false
	}

	return slices.ContainsFunc(c.fallbackNames, func(name string) bool {
		return strings.EqualFold(name, role.Name)
	})
}

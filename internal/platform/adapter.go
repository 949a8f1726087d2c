package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/frost/internal/database/types"
	"github.com/robalyx/frost/internal/mute"
	"github.com/robalyx/frost/pkg/utils"
	"go.uber.org/zap"
)

// MemberRoles is the part of the disgo REST client used to change member roles.
type MemberRoles interface {
	AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
}

// GuildSettingsSource loads stored per-guild settings.
type GuildSettingsSource interface {
	GetGuildSettings(ctx context.Context, guildID uint64) (*types.GuildSettings, error)
}

// Adapter suspends members by giving them the guild's mute role.
type Adapter struct {
	roles    MemberRoles
	settings GuildSettingsSource
	retry    utils.RetryOptions
	logger   *zap.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithRetryOptions overrides the backoff used for transport failures.
func WithRetryOptions(opts utils.RetryOptions) AdapterOption {
	return func(a *Adapter) {
		opts.Retryable = isTransport
		a.retry = opts
	}
}

// NewAdapter creates an Adapter.
func NewAdapter(roles MemberRoles, settings GuildSettingsSource, logger *zap.Logger, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		roles:    roles,
		settings: settings,
		retry:    utils.GetPlatformRetryOptions(isTransport),
		logger:   logger.Named("platform"),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Suspend adds the mute role. The expiry is enforced by the expiry loop, not the platform.
func (a *Adapter) Suspend(ctx context.Context, guildID, memberID uint64, _ *time.Time) error {
	roleID, err := a.muteRole(ctx, guildID)
	if err != nil {
		return err
	}

	return utils.WithRetryNoResult(ctx, func() error {
		return classifyError(a.roles.AddMemberRole(
			snowflake.ID(guildID), snowflake.ID(memberID), snowflake.ID(roleID), rest.WithCtx(ctx),
		))
	}, a.retry)
}

// Restore removes the mute role. A member or role that no longer exists counts as restored.
func (a *Adapter) Restore(ctx context.Context, guildID, memberID uint64) error {
	roleID, err := a.muteRole(ctx, guildID)
	if err != nil {
		return err
	}

	return utils.WithRetryNoResult(ctx, func() error {
		err := a.roles.RemoveMemberRole(
			snowflake.ID(guildID), snowflake.ID(memberID), snowflake.ID(roleID), rest.WithCtx(ctx),
		)
		if isNotFound(err) {
			a.logger.Debug("Member or mute role gone, treating as restored",
				zap.Uint64("guildID", guildID),
				zap.Uint64("memberID", memberID))
			return nil
		}
		return classifyError(err)
	}, a.retry)
}

func (a *Adapter) muteRole(ctx context.Context, guildID uint64) (uint64, error) {
	settings, err := a.settings.GetGuildSettings(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to load mute role: %w", mute.ErrOther, err)
	}
	if settings.MuteRoleID == 0 {
		return 0, fmt.Errorf("%w: %w", mute.ErrOther, ErrMuteRoleNotConfigured)
	}
	return settings.MuteRoleID, nil
}

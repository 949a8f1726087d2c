package platform_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/frost/internal/database/types"
	"github.com/robalyx/frost/internal/mute"
	"github.com/robalyx/frost/internal/platform"
	"github.com/robalyx/frost/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	guildID    = uint64(500)
	memberID   = uint64(42)
	muteRoleID = uint64(900)
	modRoleID  = uint64(901)
	adminRole  = uint64(902)
	namedRole  = uint64(903)
)

type roleCall struct {
	add     bool
	guildID snowflake.ID
	userID  snowflake.ID
	roleID  snowflake.ID
}

type fakeRoles struct {
	mu    sync.Mutex
	errs  []error
	calls []roleCall
}

func (r *fakeRoles) next(call roleCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if len(r.errs) == 0 {
		return nil
	}
	err := r.errs[0]
	r.errs = r.errs[1:]
	return err
}

func (r *fakeRoles) AddMemberRole(guildID, userID, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	return r.next(roleCall{add: true, guildID: guildID, userID: userID, roleID: roleID})
}

func (r *fakeRoles) RemoveMemberRole(guildID, userID, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	return r.next(roleCall{guildID: guildID, userID: userID, roleID: roleID})
}

type fakeSettings struct {
	settings *types.GuildSettings
	err      error
}

func (s fakeSettings) GetGuildSettings(_ context.Context, guildID uint64) (*types.GuildSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.settings == nil {
		return &types.GuildSettings{GuildID: guildID}, nil
	}
	clone := *s.settings
	return &clone, nil
}

// restError builds an error the way the disgo REST client does.
func restError(status int) error {
	rq, _ := http.NewRequest(http.MethodPut, "https://discord.com/api/v10/guilds/500/members/42/roles/900", nil)
	rs := &http.Response{StatusCode: status, Status: fmt.Sprintf("%d %s", status, http.StatusText(status))}
	body := fmt.Sprintf(`{"code":%d,"message":%q}`, discordCode(status), http.StatusText(status))
	return rest.NewError(rq, nil, rs, []byte(body))
}

func discordCode(status int) int {
	switch status {
	case http.StatusForbidden:
		return 50013
	case http.StatusNotFound:
		return 10007
	default:
		return 0
	}
}

func fastRetry() platform.AdapterOption {
	return platform.WithRetryOptions(utils.RetryOptions{
		MaxElapsedTime:  time.Second,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxRetries:      2,
	})
}

func TestAdapterSuspend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		errs      []error
		wantCause mute.Cause
		wantCalls int
	}{
		{name: "success", wantCalls: 1},
		{name: "forbidden", errs: []error{restError(http.StatusForbidden)}, wantCause: mute.CausePermissionDenied, wantCalls: 1},
		{name: "not found", errs: []error{restError(http.StatusNotFound)}, wantCause: mute.CauseOther, wantCalls: 1},
		{
			name:      "transient then success",
			errs:      []error{restError(http.StatusBadGateway), restError(http.StatusTooManyRequests)},
			wantCalls: 3,
		},
		{
			name: "transport exhausted",
			errs: []error{
				restError(http.StatusServiceUnavailable),
				restError(http.StatusServiceUnavailable),
				restError(http.StatusServiceUnavailable),
			},
			wantCause: mute.CauseTransport,
			wantCalls: 3,
		},
		{name: "unknown error", errs: []error{errors.New("boom")}, wantCause: mute.CauseOther, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			roles := &fakeRoles{errs: tt.errs}
			settings := fakeSettings{settings: &types.GuildSettings{GuildID: guildID, MuteRoleID: muteRoleID}}
			adapter := platform.NewAdapter(roles, settings, zap.NewNop(), fastRetry())

			err := adapter.Suspend(context.Background(), guildID, memberID, nil)
			assert.Equal(t, tt.wantCause, mute.CauseOf(err))
			require.Len(t, roles.calls, tt.wantCalls)
			assert.True(t, roles.calls[0].add)
			assert.Equal(t, snowflake.ID(muteRoleID), roles.calls[0].roleID)
			assert.Equal(t, snowflake.ID(memberID), roles.calls[0].userID)
		})
	}
}

func TestAdapterRestore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		errs      []error
		wantCause mute.Cause
	}{
		{name: "success"},
		{name: "member gone", errs: []error{restError(http.StatusNotFound)}},
		{name: "forbidden", errs: []error{restError(http.StatusForbidden)}, wantCause: mute.CausePermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			roles := &fakeRoles{errs: tt.errs}
			settings := fakeSettings{settings: &types.GuildSettings{GuildID: guildID, MuteRoleID: muteRoleID}}
			adapter := platform.NewAdapter(roles, settings, zap.NewNop(), fastRetry())

			err := adapter.Restore(context.Background(), guildID, memberID)
			assert.Equal(t, tt.wantCause, mute.CauseOf(err))
			require.Len(t, roles.calls, 1)
			assert.False(t, roles.calls[0].add)
		})
	}
}

func TestAdapterRestErrorForms(t *testing.T) {
	t.Parallel()

	forbidden := rest.NewError(nil, nil, &http.Response{StatusCode: http.StatusForbidden}, []byte(`{"code":50013,"message":"x"}`))
	gone := rest.NewError(nil, nil, &http.Response{StatusCode: http.StatusNotFound}, []byte(`{"code":10007,"message":"x"}`))

	tests := []struct {
		name      string
		restore   bool
		err       error
		wantCause mute.Cause
	}{
		{name: "value suspend", err: forbidden, wantCause: mute.CausePermissionDenied},
		{name: "wrapped value suspend", err: fmt.Errorf("request: %w", forbidden), wantCause: mute.CausePermissionDenied},
		{
			name:      "pointer suspend",
			err:       &rest.Error{Response: &http.Response{StatusCode: http.StatusForbidden}},
			wantCause: mute.CausePermissionDenied,
		},
		{name: "value restore of departed member", restore: true, err: gone},
		{name: "without response", err: rest.Error{Message: "x", Code: 1}, wantCause: mute.CauseOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			roles := &fakeRoles{errs: []error{tt.err}}
			settings := fakeSettings{settings: &types.GuildSettings{GuildID: guildID, MuteRoleID: muteRoleID}}
			adapter := platform.NewAdapter(roles, settings, zap.NewNop(), fastRetry())

			var err error
			if tt.restore {
				err = adapter.Restore(context.Background(), guildID, memberID)
			} else {
				err = adapter.Suspend(context.Background(), guildID, memberID, nil)
			}

			assert.Equal(t, tt.wantCause, mute.CauseOf(err))
			if tt.wantCause == 0 {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdapterWithoutMuteRole(t *testing.T) {
	t.Parallel()

	roles := &fakeRoles{}
	adapter := platform.NewAdapter(roles, fakeSettings{}, zap.NewNop(), fastRetry())

	err := adapter.Suspend(context.Background(), guildID, memberID, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrMuteRoleNotConfigured)
	assert.Equal(t, mute.CauseOther, mute.CauseOf(err))
	assert.Empty(t, roles.calls)
}

type fakeCache struct {
	members map[snowflake.ID]discord.Member
	roles   map[snowflake.ID]discord.Role
}

func (c *fakeCache) Member(_ snowflake.ID, userID snowflake.ID) (discord.Member, bool) {
	member, ok := c.members[userID]
	return member, ok
}

func (c *fakeCache) MemberPermissions(member discord.Member) discord.Permissions {
	if len(member.RoleIDs) > 0 && member.RoleIDs[0] == snowflake.ID(adminRole) {
		return discord.PermissionAdministrator
	}
	return discord.Permissions(0)
}

func (c *fakeCache) Role(_ snowflake.ID, roleID snowflake.ID) (discord.Role, bool) {
	role, ok := c.roles[roleID]
	return role, ok
}

type fakeFetcher struct {
	member *discord.Member
}

func (f fakeFetcher) GetMember(_, _ snowflake.ID, _ ...rest.RequestOpt) (*discord.Member, error) {
	if f.member == nil {
		return nil, restError(http.StatusNotFound)
	}
	return f.member, nil
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	cache := &fakeCache{
		members: map[snowflake.ID]discord.Member{
			1: {RoleIDs: []snowflake.ID{snowflake.ID(adminRole)}},
			2: {RoleIDs: []snowflake.ID{snowflake.ID(modRoleID)}},
			3: {RoleIDs: []snowflake.ID{snowflake.ID(namedRole)}},
			4: {RoleIDs: []snowflake.ID{snowflake.ID(muteRoleID)}},
		},
		roles: map[snowflake.ID]discord.Role{
			snowflake.ID(namedRole):  {Name: "Administration"},
			snowflake.ID(muteRoleID): {Name: "Antarctica"},
		},
	}
	fetched := &discord.Member{RoleIDs: []snowflake.ID{snowflake.ID(modRoleID)}}
	settings := fakeSettings{settings: &types.GuildSettings{GuildID: guildID, ModRoleIDs: []uint64{modRoleID}}}

	caps := platform.NewCapabilities(99, cache, fakeFetcher{member: fetched}, settings,
		[]string{"administration"}, zap.NewNop())

	tests := []struct {
		name     string
		memberID uint64
		want     bool
	}{
		{name: "administrator", memberID: 1, want: true},
		{name: "configured mod role", memberID: 2, want: true},
		{name: "fallback role name", memberID: 3, want: true},
		{name: "ordinary member", memberID: 4, want: false},
		{name: "fetched on cache miss", memberID: 5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, caps.IsPrivileged(context.Background(), guildID, tt.memberID))
		})
	}

	assert.True(t, caps.IsServiceAccount(99))
	assert.False(t, caps.IsServiceAccount(1))
}

func TestCapabilitiesUnknownMember(t *testing.T) {
	t.Parallel()

	caps := platform.NewCapabilities(99, &fakeCache{}, fakeFetcher{}, fakeSettings{}, nil, zap.NewNop())
	assert.False(t, caps.IsPrivileged(context.Background(), guildID, 7))
}

package types

import (
	"slices"
	"time"

	"github.com/uptrace/bun"
)

// GuildSettings stores per-guild moderation preferences.
// Zero values mean "use the configured default".
type GuildSettings struct {
	bun.BaseModel `bun:"table:guild_settings,alias:gs"`

	GuildID              uint64    `bun:",pk"`                // Discord guild ID
	SelfMuteMinutes      int       `bun:",notnull,default:0"` // Self-mute length for unauthorized invokers
	SweepIntervalMinutes int       `bun:",notnull,default:0"` // How often expired mutes are restored
	MuteRoleID           uint64    `bun:",notnull,default:0"` // Role applied to muted members
	ModRoleIDs           []uint64  `bun:"mod_role_ids"`       // Roles whose holders may moderate (stored as JSON)
	UpdatedAt            time.Time `bun:",nullzero,notnull,default:current_timestamp"`

	modRoleMap map[uint64]struct{} `bun:"-"` // In-memory map for O(1) lookups
}

// IsModRole checks if the role grants moderation rights.
func (s *GuildSettings) IsModRole(roleID uint64) bool {
	if s.modRoleMap == nil || len(s.modRoleMap) != len(s.ModRoleIDs) {
		s.modRoleMap = make(map[uint64]struct{}, len(s.ModRoleIDs))
		for _, id := range s.ModRoleIDs {
			s.modRoleMap[id] = struct{}{}
		}
	}

	_, exists := s.modRoleMap[roleID]
	return exists
}

// HasModRole checks if any of the given roles grants moderation rights.
func (s *GuildSettings) HasModRole(roleIDs []uint64) bool {
	return slices.ContainsFunc(roleIDs, s.IsModRole)
}

// AddModRole adds a role to the moderator list. Returns false if it was already present.
func (s *GuildSettings) AddModRole(roleID uint64) bool {
	if slices.Contains(s.ModRoleIDs, roleID) {
		return false
	}
	s.ModRoleIDs = append(s.ModRoleIDs, roleID)
	s.modRoleMap = nil
	return true
}

// RemoveModRole removes a role from the moderator list. Returns false if it was absent.
func (s *GuildSettings) RemoveModRole(roleID uint64) bool {
	idx := slices.Index(s.ModRoleIDs, roleID)
	if idx < 0 {
		return false
	}
	s.ModRoleIDs = slices.Delete(s.ModRoleIDs, idx, idx+1)
	s.modRoleMap = nil
	return true
}

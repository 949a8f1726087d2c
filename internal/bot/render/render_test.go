package render_test

import (
	"testing"
	"time"

	"github.com/robalyx/frost/internal/bot/render"
	"github.com/robalyx/frost/internal/mute"
	"github.com/stretchr/testify/assert"
)

func TestSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "less than a second"},
		{time.Second, "1 second"},
		{10 * time.Minute, "10 minutes"},
		{26*time.Hour + 5*time.Minute, "1 day, 2 hours and 5 minutes"},
		{7 * 24 * time.Hour, "7 days"},
		{time.Hour + time.Second, "1 hour and 1 second"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, render.Span(tt.d))
	}
}

func TestMentions(t *testing.T) {
	t.Parallel()

	assert.Empty(t, render.Mentions(nil))
	assert.Equal(t, "<@1>", render.Mentions([]uint64{1}))
	assert.Equal(t, "<@1> and <@2>", render.Mentions([]uint64{1, 2}))
	assert.Equal(t, "<@1>, <@2> and <@3>", render.Mentions([]uint64{1, 2, 3}))
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	until := time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC)

	tests := []struct {
		name string
		out  *mute.Outcome
		want string
	}{
		{
			name: "single with duration",
			out: &mute.Outcome{
				Category:  mute.CategorySingle,
				Succeeded: []uint64{10},
				Duration:  mute.Resolution{Span: 10 * time.Minute, Until: &until},
			},
			want: "<@2> <@10> has been muted for 10 minutes.",
		},
		{
			name: "multi indefinite",
			out:  &mute.Outcome{Category: mute.CategoryMulti, Succeeded: []uint64{10, 11}},
			want: "<@2> <@10> and <@11> have been muted indefinitely.",
		},
		{
			name: "partial failure",
			out: &mute.Outcome{
				Category:  mute.CategorySingleFail,
				Succeeded: []uint64{10},
				Failed:    []mute.Failure{{MemberID: 11, Cause: mute.CausePermissionDenied}},
				Causes:    mute.CausePermissionDenied,
			},
			want: "<@2> <@10> muted indefinitely, but failed to mute <@11> due to **missing permissions**.",
		},
		{
			name: "privileged",
			out:  &mute.Outcome{Category: mute.CategorySinglePrivileged, Rejected: []uint64{3}},
			want: "<@2> <@3> is a moderator and can't be muted.",
		},
		{
			name: "invalid restore",
			out:  &mute.Outcome{Category: mute.CategoryInvalidRestore},
			want: "<@2> There's nobody here I can unmute.",
		},
		{
			name: "restore fails",
			out: &mute.Outcome{
				Category: mute.CategoryRestoreFails,
				Failed:   []mute.Failure{{MemberID: 10}, {MemberID: 11}},
				Causes:   mute.CauseTransport | mute.CauseOther,
			},
			want: "<@2> Failed to unmute <@10> and <@11> due to **a connection problem and something else**.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, render.Outcome(2, tt.out))
		})
	}
}

func TestUnauthorized(t *testing.T) {
	t.Parallel()

	until := time.Date(2025, 6, 1, 12, 20, 0, 0, time.UTC)
	out := &mute.UnauthorizedOutcome{
		Category: mute.UnauthorizedMixed,
		Others:   []uint64{11},
		Duration: mute.Resolution{Span: 20 * time.Minute, Until: &until},
	}

	assert.Equal(t,
		"<@10> You tried to mute yourself and <@11>. Only you got muted for 20 minutes.",
		render.Unauthorized(10, out))

	failed := &mute.UnauthorizedOutcome{Category: mute.UnauthorizedFail, Cause: mute.CauseTransport}
	assert.Equal(t,
		"<@10> You're not allowed to do that, and I couldn't even mute you due to **a connection problem**.",
		render.Unauthorized(10, failed))
}

func TestRemaining(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<@10> You're not muted right now.",
		render.Remaining(10, 10, mute.Remaining{State: mute.NotMuted}))
	assert.Equal(t, "<@10> You have about **an eternity** left to go.",
		render.Remaining(10, 10, mute.Remaining{State: mute.MutedIndefinitely}))
	assert.Equal(t, "<@2> <@10> has about **1 hour and 30 minutes** left to go.",
		render.Remaining(2, 10, mute.Remaining{State: mute.MuteActive, Left: 90 * time.Minute}))
	assert.Equal(t, "<@2> <@10> is due for unmuting. Hold on a sec.",
		render.Remaining(2, 10, mute.Remaining{State: mute.MuteDue}))
}

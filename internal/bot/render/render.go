package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/robalyx/frost/internal/bot/constants"
	"github.com/robalyx/frost/internal/mute"
)

// Outcome turns the result of a suspend or restore command into a reply.
func Outcome(invoker uint64, out *mute.Outcome) string {
	victims := Mentions(out.Succeeded)
	fails := Mentions(out.FailedMembers())
	rejected := Mentions(out.Rejected)
	errs := Causes(out.Causes)
	span := timestamp(out.Duration)

	var msg string
	switch out.Category {
	case mute.CategoryEmptyRequest:
		msg = "You need to mention who should be muted."
	case mute.CategoryServiceOnly:
		msg = "I'm not going to mute myself."
	case mute.CategoryServiceWithSelf:
		msg = "I'm not muting myself, and you're not getting off that easy either."
	case mute.CategoryServiceWithOthers:
		msg = "I'm not muting myself, so " + rejected + " got lucky this time."
	case mute.CategorySelfPrivileged:
		msg = "You can't mute yourself, you're a moderator."
	case mute.CategorySinglePrivileged:
		msg = rejected + " is a moderator and can't be muted."
	case mute.CategoryMultiPrivileged:
		msg = rejected + " can't be muted, so nobody was."
	case mute.CategorySingle:
		msg = victims + " has been muted" + span + "."
	case mute.CategoryMulti:
		msg = victims + " have been muted" + span + "."
	case mute.CategoryFail, mute.CategoryFails:
		msg = "Failed to mute " + fails + " due to " + errs + "."
	case mute.CategorySingleFail, mute.CategorySingleFails, mute.CategoryMultiFail, mute.CategoryMultiFails:
		msg = victims + " muted" + span + ", but failed to mute " + fails + " due to " + errs + "."
	case mute.CategoryRestoreSingle:
		msg = victims + " has been unmuted."
	case mute.CategoryRestoreMulti:
		msg = victims + " have been unmuted."
	case mute.CategoryRestoreFail, mute.CategoryRestoreFails:
		msg = "Failed to unmute " + fails + " due to " + errs + "."
	case mute.CategoryRestoreSingleFail, mute.CategoryRestoreSingleFails,
		mute.CategoryRestoreMultiFail, mute.CategoryRestoreMultiFails:
		msg = victims + " unmuted, but failed to unmute " + fails + " due to " + errs + "."
	case mute.CategoryInvalidRestore:
		msg = "There's nobody here I can unmute."
	default:
		msg = "Something happened, but I'm not sure what."
	}

	return reply(invoker, msg)
}

// Unauthorized turns the result of a self-mute punishment into a reply.
func Unauthorized(invoker uint64, out *mute.UnauthorizedOutcome) string {
	span := timestamp(out.Duration)
	others := Mentions(out.Others)

	var msg string
	switch out.Category {
	case mute.UnauthorizedNone:
		msg = "You're not allowed to mute anyone. Enjoy your own mute" + span + "."
	case mute.UnauthorizedSelf:
		msg = "Muting yourself? Gladly" + span + "."
	case mute.UnauthorizedUser:
		msg = "You tried to mute " + others + ". You're the one muted" + span + " instead."
	case mute.UnauthorizedMixed:
		msg = "You tried to mute yourself and " + others + ". Only you got muted" + span + "."
	case mute.UnauthorizedFail:
		msg = "You're not allowed to do that, and I couldn't even mute you due to " + Causes(out.Cause) + "."
	default:
		msg = "You're not allowed to do that!"
	}

	return reply(invoker, msg)
}

// Remaining turns a remaining-time query into a reply.
func Remaining(invoker, memberID uint64, r mute.Remaining) string {
	subject, verb := "You're", "You have"
	if memberID != invoker {
		subject = Mention(memberID) + " is"
		verb = Mention(memberID) + " has"
	}

	var msg string
	switch r.State {
	case mute.NotMuted:
		msg = subject + " not muted right now."
	case mute.MuteDue:
		msg = subject + " due for unmuting. Hold on a sec."
	case mute.MutedIndefinitely:
		msg = verb + " about **an eternity** left to go."
	default:
		msg = verb + " about **" + Span(r.Left) + "** left to go."
	}

	return reply(invoker, msg)
}

// Causes describes a set of failure causes.
func Causes(c mute.Cause) string {
	permission := c.Has(mute.CausePermissionDenied)
	transport := c.Has(mute.CauseTransport)
	other := c.Has(mute.CauseOther)

	switch {
	case permission && transport && other:
		return "**a wild mix of errors**"
	case permission && transport:
		return "**missing permissions and a connection problem**"
	case transport && other:
		return "**a connection problem and something else**"
	case permission && other:
		return "**missing permissions and something else**"
	case transport:
		return "**a connection problem**"
	case permission:
		return "**missing permissions**"
	default:
		return "**an unidentified error**"
	}
}

// Mention formats a user mention.
func Mention(id uint64) string {
	return "<@" + strconv.FormatUint(id, 10) + ">"
}

// Mentions joins user mentions as "a, b and c".
func Mentions(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = Mention(id)
	}
	return joinList(parts)
}

// Span formats a duration as "2 days, 3 hours and 5 minutes".
func Span(d time.Duration) string {
	if d < time.Second {
		return "less than a second"
	}

	units := []struct {
		size time.Duration
		name string
	}{
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
		{time.Second, "second"},
	}

	var parts []string
	for _, unit := range units {
		n := d / unit.size
		if n == 0 {
			continue
		}
		d -= n * unit.size

		part := strconv.FormatInt(int64(n), 10) + " " + unit.name
		if n != 1 {
			part += "s"
		}
		parts = append(parts, part)
	}

	return joinList(parts)
}

func timestamp(r mute.Resolution) string {
	if r.Indefinite() {
		return " indefinitely"
	}
	return " for " + Span(r.Span)
}

func joinList(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

func reply(invoker uint64, msg string) string {
	text := Mention(invoker) + " " + msg
	if len(text) > constants.MaxMessageLength {
		text = text[:constants.MaxMessageLength-3] + "..."
	}
	return text
}

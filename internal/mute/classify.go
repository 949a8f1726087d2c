package mute

import "context"

// Request describes one suspend or restore invocation.
type Request struct {
	GuildID   uint64
	Invoker   uint64
	Targets   []uint64
	Restore   bool
	Intensity Intensity
	// Tokens holds the raw words of the command that may contain a duration.
	Tokens []string
	// System marks requests raised by the expiry loop; capability exclusions do not apply.
	System bool
}

// Plan is the pre-processing decision for a request. When Final is set the
// category is already decided and no target is attempted.
type Plan struct {
	Category Category
	Final    bool
	Eligible []uint64
	Rejected []uint64
}

// Classify decides which targets of a request are attempted. Checks run in a fixed
// order and the first match wins: empty request, service account targeted, privileged
// member targeted. A service account together with a moderator is reported as a
// service rejection.
func Classify(ctx context.Context, req Request, caps Capabilities) Plan {
	targets := uniqueTargets(req.Targets)

	if req.Restore {
		return classifyRestore(ctx, req, targets, caps)
	}

	if len(targets) == 0 {
		return Plan{Category: CategoryEmptyRequest, Final: true}
	}

	// The bot never suspends itself
	var (
		others          []uint64
		serviceTargeted bool
	)
	for _, target := range targets {
		if caps.IsServiceAccount(target) {
			serviceTargeted = true
			continue
		}
		others = append(others, target)
	}

	if serviceTargeted {
		plan := Plan{Final: true, Rejected: others}
		switch {
		case len(others) == 0:
			plan.Category = CategoryServiceOnly
		case len(others) == 1 && others[0] == req.Invoker:
			plan.Category = CategoryServiceWithSelf
		default:
			plan.Category = CategoryServiceWithOthers
		}
		return plan
	}

	// Moderators are rejected outright, and nobody else in the request is attempted
	var privileged []uint64
	for _, target := range targets {
		if caps.IsPrivileged(ctx, req.GuildID, target) {
			privileged = append(privileged, target)
		}
	}

	if len(privileged) > 0 {
		plan := Plan{Final: true, Rejected: privileged}
		switch {
		case len(targets) == 1 && targets[0] == req.Invoker:
			plan.Category = CategorySelfPrivileged
		case len(targets) == 1:
			plan.Category = CategorySinglePrivileged
		default:
			plan.Category = CategoryMultiPrivileged
		}
		return plan
	}

	return Plan{Eligible: targets}
}

// classifyRestore keeps only ordinary members unless the request comes from the system.
func classifyRestore(ctx context.Context, req Request, targets []uint64, caps Capabilities) Plan {
	var plan Plan

	if req.System {
		plan.Eligible = targets
	} else {
		for _, target := range targets {
			if caps.IsServiceAccount(target) || caps.IsPrivileged(ctx, req.GuildID, target) {
				plan.Rejected = append(plan.Rejected, target)
				continue
			}
			plan.Eligible = append(plan.Eligible, target)
		}
	}

	if len(plan.Eligible) == 0 {
		plan.Category = CategoryInvalidRestore
		plan.Final = true
	}

	return plan
}

// aggregateTable maps [restore][successes][failures] to a category, where counts
// are bucketed as 0, 1 and more than one.
var aggregateTable = [2][3][3]Category{
	{
		{CategoryEmptyRequest, CategoryFail, CategoryFails},
		{CategorySingle, CategorySingleFail, CategorySingleFails},
		{CategoryMulti, CategoryMultiFail, CategoryMultiFails},
	},
	{
		{CategoryInvalidRestore, CategoryRestoreFail, CategoryRestoreFails},
		{CategoryRestoreSingle, CategoryRestoreSingleFail, CategoryRestoreSingleFails},
		{CategoryRestoreMulti, CategoryRestoreMultiFail, CategoryRestoreMultiFails},
	},
}

// Aggregate classifies the result of attempting every eligible target.
func Aggregate(succeeded, failed int, restore bool) Category {
	r := 0
	if restore {
		r = 1
	}
	return aggregateTable[r][bucket(succeeded)][bucket(failed)]
}

func bucket(n int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 1
	default:
		return 2
	}
}

// uniqueTargets drops repeated members while keeping first-seen order.
func uniqueTargets(targets []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(targets))
	result := make([]uint64, 0, len(targets))
	for _, target := range targets {
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		result = append(result, target)
	}
	return result
}

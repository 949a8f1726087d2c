package mute

// Category is the single outcome tag of a suspension request.
//
//go:generate go tool enumer -type=Category -trimprefix=Category -transform=snake
type Category int

const (
	CategoryEmptyRequest Category = iota
	CategoryServiceOnly
	CategoryServiceWithSelf
	CategoryServiceWithOthers
	CategorySelfPrivileged
	CategorySinglePrivileged
	CategoryMultiPrivileged
	CategorySingle
	CategoryMulti
	CategoryFail
	CategoryFails
	CategorySingleFail
	CategorySingleFails
	CategoryMultiFail
	CategoryMultiFails
	CategoryRestoreSingle
	CategoryRestoreMulti
	CategoryRestoreFail
	CategoryRestoreFails
	CategoryRestoreSingleFail
	CategoryRestoreSingleFails
	CategoryRestoreMultiFail
	CategoryRestoreMultiFails
	CategoryInvalidRestore
)

// IsServiceRejection reports whether the request was refused for targeting the bot.
func (c Category) IsServiceRejection() bool {
	return c == CategoryServiceOnly || c == CategoryServiceWithSelf || c == CategoryServiceWithOthers
}

// IsRestore reports whether the category belongs to a restore request.
func (c Category) IsRestore() bool {
	return c >= CategoryRestoreSingle && c <= CategoryInvalidRestore
}

// UnauthorizedCategory tags the outcome of a suspend attempted by a member without
// moderation rights. Such members are suspended themselves instead.
//
//go:generate go tool enumer -type=UnauthorizedCategory -trimprefix=Unauthorized -transform=snake -addprefix=user_
type UnauthorizedCategory int

const (
	UnauthorizedNone UnauthorizedCategory = iota
	UnauthorizedSelf
	UnauthorizedUser
	UnauthorizedMixed
	UnauthorizedFail
)

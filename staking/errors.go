// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "errors"

// Kind classifies operation failures. Every failed precondition maps onto
// exactly one kind, so callers can dispatch without string matching.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindState
	KindAuthorization
	KindLiquidity
	KindPaused
)

// Error an operation failure with a kind attached.
type Error struct {
	kind Kind
	msg  string
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the failure class.
func (e *Error) Kind() Kind {
	return e.kind
}

// Operation failures. Messages follow the staking contract's revert reasons.
var (
	ErrNonPositiveAmount = newError(KindValidation, "stake a positive number of tokens")
	ErrUnknownPackage    = newError(KindValidation, "there is no staking package with the declared name, or the staking package is poorly formated")
	ErrUnknownRewardType = newError(KindValidation, "reward type not known: 0 is native token, 1 is CLIQ")
	ErrNotNativeReward   = newError(KindValidation, "use CheckStakeCliqReward for stakes accumulating reward in CLIQ")
	ErrNotCliqReward     = newError(KindValidation, "use CheckStakeReward for stakes accumulating reward in the native token")

	ErrStakeNotDefined = newError(KindNotFound, "the stake you are searching for is not defined")

	ErrAlreadyWithdrawn = newError(KindState, "stake already withdrawn")
	ErrBlockedPeriod    = newError(KindState, "cannot unstake sooner than the blocked time")

	ErrNotRewardProvider = newError(KindAuthorization, "caller does not have the REWARD_PROVIDER role")
	ErrNotMaintainer     = newError(KindAuthorization, "caller does not have the Maintainer role")

	ErrInsufficientNativeLiquidity = newError(KindLiquidity, "not enough liquidity in the contract for the reward to be paid")
	ErrInsufficientCliqLiquidity   = newError(KindLiquidity, "not enough CLIQ in the contract to pay the reward right now")
	ErrInsufficientPool            = newError(KindLiquidity, "cannot withdraw this amount from the reward pool")

	ErrPaused = newError(KindPaused, "staking is paused")
)

// KindOf extracts the failure kind of err, or 0 for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsState reports whether err is a state-machine failure.
func IsState(err error) bool { return KindOf(err) == KindState }

// IsAuthorization reports whether err is a missing-role failure.
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }

// IsLiquidity reports whether err is a liquidity failure.
func IsLiquidity(err error) bool { return KindOf(err) == KindLiquidity }

// IsPaused reports whether err is the paused gate.
func IsPaused(err error) bool { return KindOf(err) == KindPaused }

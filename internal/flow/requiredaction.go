package flow

import (
	"authgate/internal/realm/models"
)

// EvaluateRequiredActions applies realm policy to a user's pending actions
// and returns the resulting ordered set. The function is pure: the user's own
// set is never mutated, which makes the "first pending action is
// authoritative" rule a property of the inputs alone.
//
// Rules, each applied independently and idempotently:
//   - a realm requiring one-time-password credentials adds CONFIGURE_TOTP
//     for users without one configured
//   - a realm requiring verified email adds VERIFY_EMAIL for users whose
//     email is unverified
//
// Actions already pending stay pending; nothing is ever dropped here.
func EvaluateRequiredActions(realm *models.Realm, user *models.User) models.ActionSet {
	actions := user.RequiredActions.Clone()
	if realm.RequiresCredential(models.CredentialTOTP) && !user.TOTPConfigured {
		actions.Add(models.ActionConfigureTOTP)
	}
	if realm.VerifyEmail && !user.EmailVerified {
		actions.Add(models.ActionVerifyEmail)
	}
	return actions
}

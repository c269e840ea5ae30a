package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"authgate/internal/realm/models"
)

func TestEvaluateRequiredActions(t *testing.T) {
	tests := []struct {
		name  string
		realm *models.Realm
		user  *models.User
		want  []models.RequiredAction
	}{
		{
			name:  "no policy, no pending actions",
			realm: &models.Realm{Name: "acme"},
			user:  &models.User{EmailVerified: true},
			want:  nil,
		},
		{
			name: "totp required and not configured",
			realm: &models.Realm{
				Name:                "acme",
				RequiredCredentials: []models.CredentialType{models.CredentialTOTP},
			},
			user: &models.User{EmailVerified: true},
			want: []models.RequiredAction{models.ActionConfigureTOTP},
		},
		{
			name: "totp required and already configured",
			realm: &models.Realm{
				Name:                "acme",
				RequiredCredentials: []models.CredentialType{models.CredentialTOTP},
			},
			user: &models.User{TOTPConfigured: true, EmailVerified: true},
			want: nil,
		},
		{
			name:  "verify email for unverified user",
			realm: &models.Realm{Name: "acme", VerifyEmail: true},
			user:  &models.User{},
			want:  []models.RequiredAction{models.ActionVerifyEmail},
		},
		{
			name: "both policies apply in evaluation order",
			realm: &models.Realm{
				Name:                "acme",
				VerifyEmail:         true,
				RequiredCredentials: []models.CredentialType{models.CredentialTOTP},
			},
			user: &models.User{},
			want: []models.RequiredAction{models.ActionConfigureTOTP, models.ActionVerifyEmail},
		},
		{
			name:  "already pending actions keep their position",
			realm: &models.Realm{Name: "acme", VerifyEmail: true},
			user: &models.User{
				RequiredActions: models.NewActionSet(models.ActionVerifyEmail),
			},
			want: []models.RequiredAction{models.ActionVerifyEmail},
		},
		{
			name: "pending action stays first when policy adds more",
			realm: &models.Realm{
				Name:                "acme",
				RequiredCredentials: []models.CredentialType{models.CredentialTOTP},
			},
			user: &models.User{
				RequiredActions: models.NewActionSet(models.ActionVerifyEmail),
			},
			want: []models.RequiredAction{models.ActionVerifyEmail, models.ActionConfigureTOTP},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateRequiredActions(tt.realm, tt.user)
			assert.Equal(t, tt.want, unwrapActions(got))
		})
	}
}

func TestEvaluateRequiredActionsIsPure(t *testing.T) {
	realm := &models.Realm{
		Name:                "acme",
		VerifyEmail:         true,
		RequiredCredentials: []models.CredentialType{models.CredentialTOTP},
	}
	user := &models.User{}

	got := EvaluateRequiredActions(realm, user)
	assert.Equal(t, 2, got.Len())
	assert.True(t, user.RequiredActions.Empty(), "evaluation must not mutate the user's own set")
}

func TestEvaluateRequiredActionsIsIdempotent(t *testing.T) {
	realm := &models.Realm{Name: "acme", VerifyEmail: true}
	user := &models.User{}

	first := EvaluateRequiredActions(realm, user)
	second := EvaluateRequiredActions(realm, user)
	assert.Equal(t, first.All(), second.All())
	assert.Equal(t, 1, second.Len())
}

func unwrapActions(s models.ActionSet) []models.RequiredAction {
	if s.Empty() {
		return nil
	}
	return s.All()
}

package flow

import (
	"net/http"

	realmmodels "authgate/internal/realm/models"
)

// ResultKind discriminates the terminal outputs of the orchestrator.
type ResultKind string

const (
	// ResultRequiredAction instructs the caller to render the form for the
	// named required action; the issued code travels with the form.
	ResultRequiredAction ResultKind = "required_action"
	// ResultConsentRequired instructs the caller to render the oauth grant
	// form with the partitioned role request.
	ResultConsentRequired ResultKind = "consent_required"
	// ResultRedirect carries a finished 302, for both success and error
	// redirects.
	ResultRedirect ResultKind = "redirect"
	// ResultDirectGrant is the sentinel for a confidential client that
	// supplied no redirect target: the grant is completed by a collaborator
	// outside this core. Deliberately not a redirect.
	ResultDirectGrant ResultKind = "direct_grant"
)

// Result is the orchestrator's HTTP-level outcome. Exactly one kind's fields
// are populated.
type Result struct {
	Kind ResultKind

	// Required-action render instruction.
	Action realmmodels.RequiredAction
	User   *realmmodels.User

	// Consent render instruction.
	Client           *realmmodels.Client
	RealmRoles       []realmmodels.Role
	ApplicationRoles map[string][]realmmodels.Role

	// Code is the access code value carried by render instructions and the
	// direct-grant sentinel.
	Code string

	// Redirect response.
	Status   int
	Location string
}

func redirectResult(location string) *Result {
	return &Result{Kind: ResultRedirect, Status: http.StatusFound, Location: location}
}

package audit

import (
	"time"
)

// Action names the milestone an event records.
type Action string

const (
	// ActionLogin marks a completed authorization that produced a redirect
	// with an access code.
	ActionLogin Action = "login"
	// ActionCodeIssued marks access code issuance, correlated by code id.
	ActionCodeIssued Action = "code_issued"
	// ActionSendVerifyEmail marks a verification email being triggered by a
	// pending VERIFY_EMAIL required action.
	ActionSendVerifyEmail Action = "send_verify_email"
)

// Event is emitted from domain logic at specific milestones. Events are
// observability, not control flow: their absence on an error path is never
// security-relevant. CodeID correlates events for one authorization attempt
// without ever carrying the code value itself.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Realm     string    `json:"realm"`
	ClientID  string    `json:"client_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	CodeID    string    `json:"code_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

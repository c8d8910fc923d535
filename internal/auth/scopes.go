package auth

const (
	ScopeOpenID        = "openid"
	ScopeProfile       = "profile"
	ScopeEmail         = "email"
	ScopeWorkflowRead  = "workflows:read"
	ScopeWorkflowRun   = "workflows:run"
	ScopeWorkflowWrite = "workflows:write"
)

// AllScopes defines the full set of scopes used by the Swagger UI / Frontend
var AllScopes = []string{
	ScopeOpenID,
	ScopeProfile,
	ScopeEmail,
	ScopeWorkflowRead,
	ScopeWorkflowRun,
	ScopeWorkflowWrite,
}

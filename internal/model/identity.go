package model

import "github.com/zgsm-ai/tool-reply/internal/utils"

// Identity carries who issued a formatting request, extracted from headers.
// Used for logging and metrics labels only; this service performs no
// authorization.
type Identity struct {
	RequestID string `json:"request_id"`
	AgentID   string `json:"agent_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Caller    string `json:"caller"`
	AuthToken string `json:"-"`
}

// NewIdentity builds an Identity, parsing the user name (unverified) from
// the Authorization token when one is present
func NewIdentity(requestID, agentID, userID, caller, authToken string) Identity {
	userName := "unknown"
	if authToken != "" {
		userName = utils.ExtractUserNameFromToken(authToken)
	}

	return Identity{
		RequestID: requestID,
		AgentID:   agentID,
		UserID:    userID,
		UserName:  userName,
		Caller:    caller,
		AuthToken: authToken,
	}
}

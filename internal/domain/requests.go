package domain

// CreatePollRequest is the structured payload for poll creation. The
// transport layer has already checked field presence and syntax; the service
// re-validates the domain constraints before persisting.
type CreatePollRequest struct {
	Visibility     string   `json:"visibility"`
	Mode           string   `json:"mode"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	ExpirationDays int      `json:"expiration"`
}

// CastVoteRequest selects options of a poll by code.
type CastVoteRequest struct {
	PollCode    string   `json:"poll"`
	OptionCodes []string `json:"options"`
}

// InviteRequest invites a voter, by username, into a poll.
type InviteRequest struct {
	PollCode string `json:"poll"`
	Username string `json:"username"`
}

// RegisterRequest creates a voter account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest authenticates a voter by username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ListScope selects which poll listing to page through.
type ListScope string

const (
	ScopePublic    ListScope = "public"
	ScopePrivate   ListScope = "private"
	ScopeCreatedBy ListScope = "created"
)

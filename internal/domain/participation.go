package domain

import "time"

// Participation entitles a voter to view and vote in a poll. At most one
// exists per (voter, poll); it is created explicitly (creator at poll
// creation, invitee via invite) or implicitly on a first public-poll vote.
type Participation struct {
	VoterID     int64     `json:"-"`
	PollID      int64     `json:"-"`
	Code        string    `json:"id"`
	VoterCode   string    `json:"voter"`
	PollCode    string    `json:"poll"`
	TimeCreated time.Time `json:"timeCreated"`
	TimeUpdated time.Time `json:"timeUpdated"`
}

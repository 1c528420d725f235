package domain

import "time"

// Vote records that a voter voted in a poll. At most one exists per
// (voter, poll); its creation is the single event that increments the tally
// of every chosen option.
type Vote struct {
	VoterID     int64     `json:"-"`
	PollID      int64     `json:"-"`
	Code        string    `json:"id"`
	VoterCode   string    `json:"voter"`
	PollCode    string    `json:"poll"`
	TimeCreated time.Time `json:"timeCreated"`
	TimeUpdated time.Time `json:"timeUpdated"`
}

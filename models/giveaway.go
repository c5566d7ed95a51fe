package models

import (
	"time"
)

// Giveaway represents an open prize draw announced by an administrator
type Giveaway struct {
	ID           string
	PrizeAmount  int64
	CreatedBy    int64
	CreatedAt    time.Time
	EndsAt       time.Time
	Participants []int64 // join order, each user at most once

	// Seq is the creation order assigned by the store.
	Seq int64
}

// Clone returns a deep copy safe to hand out of the store
func (g *Giveaway) Clone() *Giveaway {
	if g == nil {
		return nil
	}
	c := *g
	c.Participants = append([]int64(nil), g.Participants...)
	return &c
}

// HasParticipant checks if the user already joined
func (g *Giveaway) HasParticipant(userID int64) bool {
	for _, id := range g.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// AddParticipant appends the user, returning false if they already joined
func (g *Giveaway) AddParticipant(userID int64) bool {
	if g.HasParticipant(userID) {
		return false
	}
	g.Participants = append(g.Participants, userID)
	return true
}

// ParticipantCount returns the number of entrants
func (g *Giveaway) ParticipantCount() int {
	return len(g.Participants)
}

// IsExpired reports whether the advisory deadline has passed
func (g *Giveaway) IsExpired(now time.Time) bool {
	return !now.Before(g.EndsAt)
}

// JoinResult is returned after a successful giveaway entry
type JoinResult struct {
	GiveawayID       string
	ParticipantCount int
	PrizeAmount      int64
	EndsAt           time.Time
}

// DrawResult is the terminal outcome of a draw. Cancelled is set when
// nobody joined; otherwise the winner and their new balance are filled in.
type DrawResult struct {
	GiveawayID       string
	PrizeAmount      int64
	Cancelled        bool
	WinnerID         int64
	WinnerName       string
	WinnerBalance    int64
	ParticipantCount int
}

package models

import (
	"time"
)

// GiveawayStatus represents the lifecycle state of a giveaway.
type GiveawayStatus string

const (
	// GiveawayStatusPendingReview is the pre-launch review stage; no registry
	// entry exists yet and no one can join.
	GiveawayStatusPendingReview GiveawayStatus = "pending_review"
	// GiveawayStatusActive means the entry window is open.
	GiveawayStatusActive GiveawayStatus = "active"
	// GiveawayStatusClosed means the draw ran (or was about to run); the
	// record has been removed from the registry.
	GiveawayStatusClosed GiveawayStatus = "closed"
	// GiveawayStatusCancelled is absorbing: review torn down or announcement
	// deleted, no draw.
	GiveawayStatusCancelled GiveawayStatus = "cancelled"
)

// CloseReason records what ended a giveaway.
type CloseReason string

const (
	CloseReasonExpired CloseReason = "expired"
	CloseReasonManual  CloseReason = "manual"
)

// Giveaway is one pending or active giveaway. The registry owns active
// records; only snapshots leave it.
type Giveaway struct {
	ID           string         `json:"id"`
	ChannelID    string         `json:"channel_id"`
	Prize        string         `json:"prize"`
	WinnersCount int            `json:"winners_count"`
	RequiredRole string         `json:"required_role,omitempty"` // empty = open entry
	HostID       string         `json:"host_id"`
	Duration     time.Duration  `json:"duration"`
	ImageURL     string         `json:"image_url,omitempty"`
	Entries      []string       `json:"entries"`
	Status       GiveawayStatus `json:"status"`
	StartedAt    time.Time      `json:"started_at"`
	EndsAt       time.Time      `json:"ends_at"`
}

// HasEntry reports whether userID already holds an entry.
func (g *Giveaway) HasEntry(userID string) bool {
	for _, id := range g.Entries {
		if id == userID {
			return true
		}
	}
	return false
}

// AddEntry inserts userID, keeping entries unique. Returns false on duplicate.
func (g *Giveaway) AddEntry(userID string) bool {
	if g.HasEntry(userID) {
		return false
	}
	g.Entries = append(g.Entries, userID)
	return true
}

// SetDuration resets the entry window to d from now. The remaining countdown
// is replaced, not extended.
func (g *Giveaway) SetDuration(d time.Duration, now time.Time) {
	g.Duration = d
	g.EndsAt = now.Add(d)
}

// HasEnded reports whether the entry window has elapsed.
func (g *Giveaway) HasEnded(now time.Time) bool {
	return !now.Before(g.EndsAt)
}

// Clone returns a deep copy so registry snapshots cannot alias live state.
func (g *Giveaway) Clone() *Giveaway {
	cp := *g
	cp.Entries = make([]string, len(g.Entries))
	copy(cp.Entries, g.Entries)
	return &cp
}

// Winner is one drawn participant.
type Winner struct {
	UserID string `json:"user_id"`
	Place  int    `json:"place"`
}

// ClosedGiveaway is the archived form of a finished giveaway, kept for a
// bounded time so reroll does not have to parse rendered messages.
type ClosedGiveaway struct {
	ID           string      `json:"id"`
	ChannelID    string      `json:"channel_id"`
	Prize        string      `json:"prize"`
	WinnersCount int         `json:"winners_count"`
	HostID       string      `json:"host_id"`
	Entries      []string    `json:"entries"`
	Winners      []Winner    `json:"winners"`
	Reason       CloseReason `json:"reason"`
	EndedAt      time.Time   `json:"ended_at"`
}

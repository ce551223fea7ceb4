package model

import "time"

// ClaimAction is what a seat wants to do with a pending discard
type ClaimAction string

const (
	ClaimChi  ClaimAction = "chi"
	ClaimPeng ClaimAction = "peng"
	ClaimGang ClaimAction = "gang"
	ClaimHu   ClaimAction = "hu"
)

// ParseClaimAction validates an action name
func ParseClaimAction(s string) (ClaimAction, error) {
	a := ClaimAction(s)
	if a.Priority() == 0 {
		return "", ErrInvalidAction
	}
	return a, nil
}

// Priority ranks actions: hu > gang > peng > chi. Unknown actions rank 0.
func (a ClaimAction) Priority() int {
	switch a {
	case ClaimHu:
		return 4
	case ClaimGang:
		return 3
	case ClaimPeng:
		return 2
	case ClaimChi:
		return 1
	default:
		return 0
	}
}

// ClaimRecord is one claim recorded against a pending discard
type ClaimRecord struct {
	Seat        Seat        `json:"seat"`
	Action      ClaimAction `json:"action"`
	Tiles       []Tile      `json:"tiles,omitempty"`
	SubmittedAt time.Time   `json:"submitted_at"`
	Distance    int         `json:"seat_distance"`
	// Sequence breaks ties between claims submitted at the same instant
	Sequence int  `json:"sequence"`
	Injected bool `json:"injected,omitempty"`
}

// Outranks reports whether c should be chosen over other
func (c ClaimRecord) Outranks(other ClaimRecord) bool {
	if pc, po := c.Action.Priority(), other.Action.Priority(); pc != po {
		return pc > po
	}
	if c.Distance != other.Distance {
		return c.Distance < other.Distance
	}
	if !c.SubmittedAt.Equal(other.SubmittedAt) {
		return c.SubmittedAt.Before(other.SubmittedAt)
	}
	return c.Sequence < other.Sequence
}

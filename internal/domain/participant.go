package domain

import "time"

// Participant is a person tracked across events. IsVisitor starts true and
// flips to false permanently once the participant records their second
// present attendance; it never reverts.
type Participant struct {
	ID        string
	Name      string
	IsVisitor bool
	BirthDate *time.Time
	CreatedAt time.Time
}

// MemberPromotionThreshold is the number of recorded presences after which a
// visitor becomes a member.
const MemberPromotionThreshold = 2

package battle

import "time"

// Participant is a per-room membership record. It is distinct from an
// account: one account may map to participant records across different
// room sessions, and guests have no account at all.
type Participant struct {
	ID              string     `json:"participant_id"`
	AccountUsername string     `json:"account_username,omitempty"` // empty for guests
	SessionNonce    string     `json:"-"`                          // guest reconnection key
	DisplayName     string     `json:"display_name"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	Score           int        `json:"score"`
	IsHost          bool       `json:"is_host"`
	Connected       bool       `json:"connected"`
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at,omitempty"`
}

// IdentityKey returns the durable key used to rebind a reconnecting
// transport to this participant record.
func (p *Participant) IdentityKey() string {
	if p.AccountUsername != "" {
		return "user:" + p.AccountUsername
	}
	return "nonce:" + p.SessionNonce
}

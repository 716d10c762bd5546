package model

import (
	"time"

	"gorm.io/gorm"
)

type SessionStage string

const (
	StageMain       SessionStage = "MAIN"
	StageBreakout   SessionStage = "BREAKOUT"
	StageReflection SessionStage = "REFLECTION"
	StagePaused     SessionStage = "PAUSED"
)

type ParticipantStatus string

const (
	ParticipantActive     ParticipantStatus = "ACTIVE"
	ParticipantWaiting    ParticipantStatus = "WAITING"
	ParticipantInBreakout ParticipantStatus = "IN_BREAKOUT"
	ParticipantLeft       ParticipantStatus = "LEFT"
)

// Session is one mediation conversation. A session with ParentSessionID set
// is a breakout of that parent.
type Session struct {
	ID              string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           *string      `gorm:"size:255" json:"title"`
	IsSolo          bool         `gorm:"not null;default:false" json:"isSolo"`
	ParentSessionID *string      `gorm:"type:varchar(36);index" json:"parentSessionId"`
	Stage           SessionStage `gorm:"type:varchar(16);not null;default:'MAIN'" json:"stage"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`

	Breakouts    []Session            `gorm:"foreignKey:ParentSessionID;constraint:OnDelete:SET NULL" json:"-"`
	Participants []SessionParticipant `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"participants"`
	Messages     []Message            `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

// HasParticipant reports whether userID holds a participation row, whatever its status.
func (s *Session) HasParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// SessionPath is the client route for a session.
func SessionPath(sessionID string) string {
	return "/session/" + sessionID
}

type SessionParticipant struct {
	ID        string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	SessionID string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_participant_session_user" json:"sessionId"`
	UserID    string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_participant_session_user;index" json:"userId"`
	JoinedAt  time.Time         `gorm:"autoCreateTime" json:"joinedAt"`
	Status    ParticipantStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'" json:"status"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *SessionParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

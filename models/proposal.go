package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proposal lifecycle states. A proposal starts pending and moves to
// accepted or rejected at most once.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Proposal types — selects which scripted message the client renders.
const (
	TypeMarriage = "marriage"
	TypeLove     = "love"
)

const (
	GenderMale      = "male"
	GenderFemale    = "female"
	GenderNonBinary = "non-binary"
)

// Reviewer decisions accepted by the response endpoint.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

type Proposal struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UniqueSlug      string     `gorm:"uniqueIndex;not null;size:160" json:"unique_slug"`
	ProposerName    string     `gorm:"not null;size:100" json:"proposer_name"`
	PartnerName     string     `gorm:"not null;size:100" json:"partner_name"`
	ProposerGender  string     `gorm:"not null;size:20" json:"proposer_gender"`
	PartnerGender   string     `gorm:"not null;size:20" json:"partner_gender"`
	ProposalType    string     `gorm:"not null;size:20" json:"proposal_type"` // marriage, love
	CustomMessage   string     `gorm:"size:500" json:"custom_message,omitempty"`
	NotifyEmail     string     `gorm:"size:255" json:"-"`
	Status          string     `gorm:"default:pending;size:20" json:"status"` // pending, accepted, rejected
	ResponseMessage string     `json:"response_message,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Pending reports whether the proposal is still waiting for a response.
func (p *Proposal) Pending() bool {
	return p.Status == StatusPending
}

// Request structs
type CreateProposalRequest struct {
	ProposerName   string `json:"proposer_name"`
	PartnerName    string `json:"partner_name"`
	ProposerGender string `json:"proposer_gender"`
	PartnerGender  string `json:"partner_gender"`
	ProposalType   string `json:"proposal_type"`
	CustomMessage  string `json:"custom_message"`
	NotifyEmail    string `json:"notify_email"`
}

type RespondRequest struct {
	Decision string `json:"decision"` // accept, reject
	Message  string `json:"message"`
}

// Response structs
type CreatedProposalResponse struct {
	Proposal Proposal `json:"proposal"`
	ShareURL string   `json:"share_url"`
}

type ProposalStatusResponse struct {
	ID              uuid.UUID  `json:"id"`
	Status          string     `json:"status"`
	ResponseMessage string     `json:"response_message,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

func (p *Proposal) ToStatusResponse() ProposalStatusResponse {
	return ProposalStatusResponse{
		ID:              p.ID,
		Status:          p.Status,
		ResponseMessage: p.ResponseMessage,
		RespondedAt:     p.RespondedAt,
	}
}

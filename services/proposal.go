package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"proposalcard-backend/models"
	"proposalcard-backend/store"

	"github.com/google/uuid"
)

const maxMessageRunes = 500

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ProposalService implements the creation flow, slug resolution and the
// response flow on top of a Store.
type ProposalService struct {
	store  store.Store
	notify func(email string, p *models.Proposal)
}

func NewProposalService(st store.Store) *ProposalService {
	return &ProposalService{store: st}
}

// OnResponse registers a callback invoked (in its own goroutine) after a
// response is recorded for a proposal that carries a notify email.
func (s *ProposalService) OnResponse(fn func(email string, p *models.Proposal)) {
	s.notify = fn
}

// Create validates the input, derives the share slug and persists the new
// proposal as pending. The returned record carries the final slug.
func (s *ProposalService) Create(ctx context.Context, req models.CreateProposalRequest) (*models.Proposal, error) {
	req.ProposerName = strings.TrimSpace(req.ProposerName)
	req.PartnerName = strings.TrimSpace(req.PartnerName)
	req.NotifyEmail = strings.TrimSpace(req.NotifyEmail)

	var missing []string
	if req.ProposerName == "" {
		missing = append(missing, "proposer_name")
	}
	if req.PartnerName == "" {
		missing = append(missing, "partner_name")
	}
	if !validGender(req.ProposerGender) {
		missing = append(missing, "proposer_gender")
	}
	if !validGender(req.PartnerGender) {
		missing = append(missing, "partner_gender")
	}
	if req.ProposalType != models.TypeMarriage && req.ProposalType != models.TypeLove {
		missing = append(missing, "proposal_type")
	}
	if utf8.RuneCountInString(req.CustomMessage) > maxMessageRunes {
		missing = append(missing, "custom_message")
	}
	if req.NotifyEmail != "" && !emailRe.MatchString(req.NotifyEmail) {
		missing = append(missing, "notify_email")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	p := &models.Proposal{
		ID:             uuid.New(),
		ProposerName:   req.ProposerName,
		PartnerName:    req.PartnerName,
		ProposerGender: req.ProposerGender,
		PartnerGender:  req.PartnerGender,
		ProposalType:   req.ProposalType,
		CustomMessage:  req.CustomMessage,
		NotifyEmail:    req.NotifyEmail,
		Status:         models.StatusPending,
	}

	// Partner name plus the first id group keeps the link readable while
	// guaranteeing uniqueness. On the off chance of a collision, retry once
	// with the full id before giving up — a record is never persisted
	// without its slug.
	p.UniqueSlug = slugify(req.PartnerName) + "-" + strings.SplitN(p.ID.String(), "-", 2)[0]
	err := s.store.Insert(ctx, p)
	if errors.Is(err, store.ErrDuplicateSlug) {
		p.UniqueSlug = slugify(req.PartnerName) + "-" + p.ID.String()
		err = s.store.Insert(ctx, p)
	}
	if err != nil {
		return nil, storeFailure(err)
	}
	return p, nil
}

// Resolve turns a share-link path token into a record. Slugs are the
// preferred public identifier, but raw-id links and legacy links that
// appended the full id after the partner name must keep working. Malformed
// tokens never error; they resolve to ErrNotFound.
func (s *ProposalService) Resolve(ctx context.Context, token string) (*models.Proposal, error) {
	p, err := s.store.GetBySlug(ctx, token)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, storeFailure(err)
	}

	if id, perr := uuid.Parse(token); perr == nil {
		return s.getByID(ctx, id)
	}
	if len(token) > 36 {
		if id, perr := uuid.Parse(token[len(token)-36:]); perr == nil {
			return s.getByID(ctx, id)
		}
	}
	return nil, ErrNotFound
}

func (s *ProposalService) getByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure(err)
	}
	return p, nil
}

// Respond applies the one allowed lifecycle transition. The pending
// precondition is enforced by the store's conditional update, so a second
// submission — even a concurrent one — fails with ErrInvalidState.
func (s *ProposalService) Respond(ctx context.Context, token, decision, message string) (*models.Proposal, error) {
	var status string
	switch decision {
	case models.DecisionAccept:
		status = models.StatusAccepted
	case models.DecisionReject:
		status = models.StatusRejected
	default:
		return nil, &ValidationError{Fields: []string{"decision"}}
	}
	if utf8.RuneCountInString(message) > maxMessageRunes {
		return nil, &ValidationError{Fields: []string{"message"}}
	}

	p, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !p.Pending() {
		return nil, ErrInvalidState
	}

	now := time.Now().UTC()
	applied, err := s.store.CompleteResponse(ctx, p.ID, status, message, now)
	if err != nil {
		return nil, storeFailure(err)
	}
	if !applied {
		// Someone else answered between our read and the update.
		return nil, ErrInvalidState
	}

	p.Status = status
	p.ResponseMessage = message
	p.RespondedAt = &now

	if p.NotifyEmail != "" && s.notify != nil {
		go s.notify(p.NotifyEmail, p)
	}
	return p, nil
}

func validGender(g string) bool {
	switch g {
	case models.GenderMale, models.GenderFemale, models.GenderNonBinary:
		return true
	}
	return false
}

// slugify lower-cases the name, collapses whitespace runs to single
// hyphens and drops anything that is not URL-safe.
func slugify(name string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		case r == ' ', r == '\t', r == '-', r == '_':
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "proposal"
	}
	return s
}

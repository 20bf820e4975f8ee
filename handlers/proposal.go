package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"proposalcard-backend/config"
	"proposalcard-backend/database"
	"proposalcard-backend/models"
	"proposalcard-backend/services"
	"proposalcard-backend/utils"
	"proposalcard-backend/watch"

	"github.com/gin-gonic/gin"
)

const (
	longPollInterval   = 2 * time.Second
	longPollDefaultSec = 25
	longPollMaxSec     = 60
)

var proposalService *services.ProposalService

// Init wires the handlers to the proposal service. Called once from main
// (and from tests) before the routes are served.
func Init(svc *services.ProposalService) {
	proposalService = svc
}

// POST /api/proposals
func CreateProposal(c *gin.Context) {
	var req models.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	proposal, err := proposalService.Create(c.Request.Context(), req)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Proposal created", models.CreatedProposalResponse{
		Proposal: *proposal,
		ShareURL: shareURL(proposal),
	})
}

// GET /api/proposals/:token
func GetProposal(c *gin.Context) {
	proposal, err := proposalService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	countView(c.Request.Context(), proposal)

	utils.SuccessResponse(c, http.StatusOK, "", proposal)
}

// GET /api/proposals/:token/status — lightweight fetch for pollers
func GetProposalStatus(c *gin.Context) {
	proposal, err := proposalService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", proposal.ToStatusResponse())
}

// GET /api/proposals/:token/wait?timeout=25 — holds the request until the
// record changes or the timeout elapses. Still pull-based: the server just
// runs the polling loop so the client doesn't have to.
func GetProposalWait(c *gin.Context) {
	proposal, err := proposalService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	timeoutSec, err := strconv.Atoi(c.DefaultQuery("timeout", strconv.Itoa(longPollDefaultSec)))
	if err != nil || timeoutSec < 1 || timeoutSec > longPollMaxSec {
		utils.BadRequest(c, fmt.Sprintf("timeout must be between 1 and %d seconds", longPollMaxSec))
		return
	}

	if !proposal.Pending() {
		// Terminal already; nothing further will change.
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"changed": false, "proposal": proposal})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	id := proposal.ID
	w := watch.New(longPollInterval, func(ctx context.Context) (*models.Proposal, error) {
		return proposalService.Resolve(ctx, id.String())
	})
	w.SetBaseline(proposal)
	w.Start(ctx)
	defer w.Stop()

	select {
	case updated, ok := <-w.Updates():
		if ok {
			utils.SuccessResponse(c, http.StatusOK, "", gin.H{"changed": true, "proposal": updated})
			return
		}
	case <-ctx.Done():
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"changed": false, "proposal": proposal})
}

// GET /api/proposals/:token/stats
func GetProposalStats(c *gin.Context) {
	proposal, err := proposalService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	var views int64
	if database.Redis != nil {
		views, _ = database.Redis.Get(c.Request.Context(), viewsKey(proposal)).Int64()
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"views":           views,
		"status":          proposal.Status,
		"waiting_seconds": int64(time.Since(proposal.CreatedAt).Seconds()),
	})
}

// POST /api/proposals/:token/response
func SubmitResponse(c *gin.Context) {
	var req models.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	proposal, err := proposalService.Respond(c.Request.Context(), c.Param("token"), req.Decision, req.Message)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Response recorded", proposal)
}

func shareURL(p *models.Proposal) string {
	return fmt.Sprintf("%s/proposal/%s", config.AppConfig.AppURL, p.UniqueSlug)
}

func countView(ctx context.Context, p *models.Proposal) {
	if database.Redis == nil {
		return
	}
	database.Redis.Incr(ctx, viewsKey(p))
}

func viewsKey(p *models.Proposal) string {
	return "proposal:views:" + p.ID.String()
}

// Maps the service error taxonomy onto HTTP so the client can tell a bad
// link from an already-answered proposal from a transient outage.
func renderServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.BadRequest(c, verr.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, "Proposal link is invalid or expired")
	case errors.Is(err, services.ErrInvalidState):
		utils.Conflict(c, "This proposal has already been responded to")
	case errors.Is(err, services.ErrStoreUnavailable):
		utils.ServiceUnavailable(c, "Temporary storage error, please try again")
	default:
		utils.InternalError(c, "Something went wrong")
	}
}

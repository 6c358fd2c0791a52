package api

import (
	"context"
	"net/http"

	"buildquote/internal/domain/actor"
	reqdto "buildquote/internal/handler/dto/request"
	resdto "buildquote/internal/handler/dto/response"
	"buildquote/internal/handler/httperr"
	"buildquote/internal/handler/middleware"
	"buildquote/internal/usecase/commands"
	"buildquote/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RfqHandler struct {
	cmds       commands.RfqCommands
	acceptCmds commands.AcceptanceCommands
	q          queries.RfqQueries
	quoteQ     queries.QuoteQueries
}

func NewRfqHandler(
	cmds commands.RfqCommands,
	acceptCmds commands.AcceptanceCommands,
	q queries.RfqQueries,
	quoteQ queries.QuoteQueries,
) *RfqHandler {
	return &RfqHandler{cmds: cmds, acceptCmds: acceptCmds, q: q, quoteQ: quoteQ}
}

// @Summary Create RFQ
// @Description Create a quotation request, match suppliers, and notify them
// @Tags rfqs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRfqRequest true "Create RFQ request"
// @Success 201 {object} resdto.CreateRfqResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /rfqs [post]
func (h *RfqHandler) Create(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateRfqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.CreateRfq(c.Request.Context(), actorID, req.ToInput())
	if err != nil {
		httperr.AbortWithWorkflowError(c, err, "Create RFQ failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromCreateRfqResult(result))
}

// @Summary Get RFQ
// @Description Get a full RFQ with items and recipient statuses
// @Tags rfqs
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 200 {object} resdto.RfqResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rfqs/{id} [get]
func (h *RfqHandler) Get(c *gin.Context) {
	rfqID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetActorRole(c)

	view, err := h.q.GetRfq(c.Request.Context(), actorID, role == actor.RoleSupplier, rfqID)
	if err != nil {
		httperr.AbortWithWorkflowError(c, err, "Get RFQ failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromRfqView(view))
}

// @Summary List RFQs
// @Description List the caller's RFQs: requested ones for builders, invited ones for suppliers
// @Tags rfqs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.RfqSummaryResponse
// @Failure 401 {object} map[string]string
// @Router /rfqs [get]
func (h *RfqHandler) List(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetActorRole(c)

	var (
		views []queries.RfqSummaryView
		err   error
	)
	if role == actor.RoleSupplier {
		views, err = h.q.ListForSupplier(c.Request.Context(), actorID)
	} else {
		views, err = h.q.ListByRequester(c.Request.Context(), actorID)
	}
	if err != nil {
		httperr.AbortWithWorkflowError(c, err, "List RFQs failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rfqs": resdto.FromRfqSummaries(views)})
}

// @Summary List quotes for an RFQ
// @Description Side-by-side comparison of all quotes on the requester's RFQ
// @Tags rfqs
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 200 {array} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rfqs/{id}/quotes [get]
func (h *RfqHandler) ListQuotes(c *gin.Context) {
	rfqID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	views, err := h.quoteQ.ListByRfq(c.Request.Context(), actorID, rfqID)
	if err != nil {
		httperr.AbortWithWorkflowError(c, err, "List quotes failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": resdto.FromQuoteViews(views)})
}

// @Summary Accept quote
// @Description Accept one quote; all other submitted quotes are rejected atomically
// @Tags rfqs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Param quoteId path string true "Quote ID"
// @Param request body reqdto.AcceptQuoteRequest false "Acceptance details"
// @Success 200 {object} resdto.AcceptQuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /rfqs/{id}/quotes/{quoteId}/accept [post]
func (h *RfqHandler) AcceptQuote(c *gin.Context) {
	rfqID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	quoteID, err := uuid.Parse(c.Param("quoteId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quote id", nil)
		return
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.AcceptQuoteRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
			return
		}
	}

	result, err := h.acceptCmds.AcceptQuote(c.Request.Context(), actorID, commands.AcceptQuoteInput{
		RfqID:                rfqID,
		QuoteID:              quoteID,
		DeliveryInstructions: req.DeliveryInstructions,
	})
	if err != nil {
		httperr.AbortWithWorkflowError(c, err, "Accept quote failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromAcceptQuoteResult(result))
}

// @Summary Cancel RFQ
// @Tags rfqs
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /rfqs/{id}/cancel [post]
func (h *RfqHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cmds.CancelRfq)
}

// @Summary Confirm order
// @Description Move an accepted RFQ to ordered
// @Tags rfqs
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /rfqs/{id}/confirm-order [post]
func (h *RfqHandler) ConfirmOrder(c *gin.Context) {
	h.transition(c, h.cmds.ConfirmOrder)
}

// @Summary Mark delivered
// @Description Move an ordered RFQ to delivered
// @Tags rfqs
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /rfqs/{id}/delivered [post]
func (h *RfqHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.cmds.MarkDelivered)
}

func (h *RfqHandler) transition(c *gin.Context, fn func(ctx context.Context, requesterID, rfqID uuid.UUID) error) {
	rfqID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	if err := fn(c.Request.Context(), actorID, rfqID); err != nil {
		httperr.AbortWithWorkflowError(c, err, "RFQ transition failed")
		return
	}
	c.Status(http.StatusNoContent)
}

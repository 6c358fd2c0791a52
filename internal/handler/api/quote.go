package api

import (
	"context"
	"net/http"

	reqdto "buildquote/internal/handler/dto/request"
	resdto "buildquote/internal/handler/dto/response"
	"buildquote/internal/handler/httperr"
	"buildquote/internal/handler/middleware"
	"buildquote/internal/usecase/commands"
	"buildquote/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuoteHandler struct {
	cmds commands.QuoteCommands
	q    queries.QuoteQueries
}

func NewQuoteHandler(cmds commands.QuoteCommands, q queries.QuoteQueries) *QuoteHandler {
	return &QuoteHandler{cmds: cmds, q: q}
}

// @Summary Submit quote
// @Description Submit a quote on an invited RFQ, or replace a previously submitted one
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Param request body reqdto.SubmitQuoteRequest true "Submit quote request"
// @Success 201 {object} resdto.SubmitQuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /rfqs/{id}/quotes [post]
func (h *QuoteHandler) Submit(c *gin.Context) {
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
	var req reqdto.SubmitQuoteRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	result, err := h.cmds.SubmitQuote(c.Request.Context(), actorID, req.ToInput(rfqID))
	if err != nil {
		httperr.AbortWithWorkflowError(c, err, "Submit quote failed")
		return
	}
	status := http.StatusCreated
	if result.Replaced {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromSubmitQuoteResult(result))
}

// @Summary Get own quote
// @Description Get the caller's quote on an RFQ
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rfqs/{id}/quotes/mine [get]
func (h *QuoteHandler) GetOwn(c *gin.Context) {
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
	view, err := h.q.GetOwn(c.Request.Context(), actorID, rfqID)
	if err != nil {
		httperr.AbortWithWorkflowError(c, err, "Get quote failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteView(view))
}

// @Summary Mark RFQ viewed
// @Description Record that the supplier opened the RFQ
// @Tags quotes
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /rfqs/{id}/viewed [post]
func (h *QuoteHandler) MarkViewed(c *gin.Context) {
	h.recipientAction(c, h.cmds.MarkViewed)
}

// @Summary Decline RFQ
// @Description Record that the supplier will not quote
// @Tags quotes
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /rfqs/{id}/decline [post]
func (h *QuoteHandler) Decline(c *gin.Context) {
	h.recipientAction(c, h.cmds.DeclineRfq)
}

func (h *QuoteHandler) recipientAction(c *gin.Context, fn func(ctx context.Context, supplierID, rfqID uuid.UUID) error) {
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
		httperr.AbortWithWorkflowError(c, err, "RFQ recipient action failed")
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	resdto "buildquote/internal/handler/dto/response"
	"buildquote/internal/handler/httperr"
	"buildquote/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	q queries.NotificationQueries
}

func NewNotificationHandler(q queries.NotificationQueries) *NotificationHandler {
	return &NotificationHandler{q: q}
}

// @Summary Delivery log
// @Description List notification delivery attempts for a subject (admin only)
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param subject_type query string true "rfq | quote | acceptance"
// @Param subject_id query string true "Subject ID"
// @Success 200 {array} resdto.DeliveryLogResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /notifications/delivery-log [get]
func (h *NotificationHandler) DeliveryLog(c *gin.Context) {
	subjectType := c.Query("subject_type")
	if subjectType == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, "subject_type is required", nil)
		return
	}
	subjectID, err := uuid.Parse(c.Query("subject_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid subject_id", nil)
		return
	}

	views, err := h.q.ListBySubject(c.Request.Context(), subjectType, subjectID)
	if err != nil {
		httperr.AbortWithWorkflowError(c, err, "List delivery log failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": resdto.FromDeliveryLogViews(views)})
}

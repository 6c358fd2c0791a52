package response

import (
	"time"

	"buildquote/internal/usecase/queries"

	"github.com/google/uuid"
)

type DeliveryLogResponse struct {
	ID          int64     `json:"id"`
	SubjectType string    `json:"subjectType"`
	SubjectID   uuid.UUID `json:"subjectId"`
	Channel     string    `json:"channel"`
	Recipient   string    `json:"recipient"`
	AttemptedAt time.Time `json:"attemptedAt"`
	Success     bool      `json:"success"`
	ErrorDetail string    `json:"errorDetail,omitempty"`
}

func FromDeliveryLogViews(views []queries.DeliveryLogView) []DeliveryLogResponse {
	out := make([]DeliveryLogResponse, 0, len(views))
	for _, v := range views {
		out = append(out, DeliveryLogResponse{
			ID:          v.ID,
			SubjectType: v.SubjectType,
			SubjectID:   v.SubjectID,
			Channel:     v.Channel,
			Recipient:   v.Recipient,
			AttemptedAt: v.AttemptedAt,
			Success:     v.Success,
			ErrorDetail: v.ErrorDetail,
		})
	}
	return out
}

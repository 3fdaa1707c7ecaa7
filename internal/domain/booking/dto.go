package booking

type UpdateAttendanceRequest struct {
	Status string `json:"status" binding:"required,oneof=unset attended no_show"`
}

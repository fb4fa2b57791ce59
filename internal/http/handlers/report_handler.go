// Read-only views derived from the tracker state.
//
//   - GET /schedule/today
//   - GET /stats/today
//   - GET /analytics?days=N
//   - GET /insights
//   - GET /interactions
//   - GET /reminders/due
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-med-tracker/internal/analytics"
	"github.com/tbourn/go-med-tracker/internal/domain"
	"github.com/tbourn/go-med-tracker/internal/utils"
)

// maxAnalyticsDays bounds the ?days window.
const maxAnalyticsDays = 366

// ScheduleResponse is today's dose schedule.
type ScheduleResponse struct {
	Date  string                   `json:"date"`
	Items []analytics.ScheduleItem `json:"items"`
}

// DueRemindersResponse lists the medications due at the current minute.
type DueRemindersResponse struct {
	At          string              `json:"at"`
	Medications []domain.Medication `json:"medications"`
	Message     string              `json:"message,omitempty"`
}

// TodaySchedule godoc
// @ID          todaySchedule
// @Summary     Today's schedule
// @Description One item per medication and reminder time, ordered by time of day, with taken and overdue flags.
// @Tags        Reports
// @Produce     json
// @Success     200  {object}  handlers.ScheduleResponse
// @Router      /schedule/today [get]
func (h *Handlers) TodaySchedule(c *gin.Context) {
	ok(c, http.StatusOK, ScheduleResponse{
		Date:  analytics.DateOf(h.tracker.Clock()),
		Items: h.tracker.TodaySchedule(c.Request.Context()),
	})
}

// TodayStats godoc
// @ID          todayStats
// @Summary     Today's adherence
// @Tags        Reports
// @Produce     json
// @Success     200  {object}  analytics.DayStats
// @Router      /stats/today [get]
func (h *Handlers) TodayStats(c *gin.Context) {
	ok(c, http.StatusOK, h.tracker.TodayStats(c.Request.Context()))
}

// Analytics godoc
// @ID          analytics
// @Summary     Adherence analytics
// @Description Adherence per day over a trailing window, per-medication rollups and the mood trend.
// @Tags        Reports
// @Produce     json
// @Param       days  query     int  false  "Trailing window in days (0 uses the configured default)"  minimum(0)  maximum(366)
// @Success     200   {object}  services.AnalyticsReport
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Router      /analytics [get]
func (h *Handlers) Analytics(c *gin.Context) {
	days, err := utils.AtoiRange(c.Query("days"), 0, 0, maxAnalyticsDays)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("days: %v", err))
		return
	}
	ok(c, http.StatusOK, h.tracker.Analytics(c.Request.Context(), days))
}

// Insights godoc
// @ID          insights
// @Summary     Insights summary
// @Description Overall adherence, average mood, side-effect frequency, category breakdown, upcoming refills and recommendations.
// @Tags        Reports
// @Produce     json
// @Success     200  {object}  services.InsightsReport
// @Router      /insights [get]
func (h *Handlers) Insights(c *gin.Context) {
	ok(c, http.StatusOK, h.tracker.Insights(c.Request.Context()))
}

// Interactions godoc
// @ID          interactions
// @Summary     Drug interactions
// @Description Known interactions among the current medications and their count by severity.
// @Tags        Reports
// @Produce     json
// @Success     200  {object}  services.InteractionsReport
// @Router      /interactions [get]
func (h *Handlers) Interactions(c *gin.Context) {
	ok(c, http.StatusOK, h.tracker.Interactions(c.Request.Context()))
}

// DueReminders godoc
// @ID          dueReminders
// @Summary     Reminders due now
// @Description Medications with a reminder time equal to the current minute.
// @Tags        Reminders
// @Produce     json
// @Success     200  {object}  handlers.DueRemindersResponse
// @Router      /reminders/due [get]
func (h *Handlers) DueReminders(c *gin.Context) {
	now := h.tracker.Clock()
	due := h.tracker.DueAt(now)
	resp := DueRemindersResponse{At: now.Format(domain.TimeLayout), Medications: due}
	if len(due) > 0 {
		resp.Message = analytics.GeneralReminderMessage(len(due))
	}
	ok(c, http.StatusOK, resp)
}

package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frago0312/fg-ripetizioni/internal/auth"
	"github.com/frago0312/fg-ripetizioni/internal/availability"
	availHttp "github.com/frago0312/fg-ripetizioni/internal/availability/http"
	"github.com/frago0312/fg-ripetizioni/internal/closure"
	closureHttp "github.com/frago0312/fg-ripetizioni/internal/closure/http"
	"github.com/frago0312/fg-ripetizioni/internal/lesson"
	"github.com/frago0312/fg-ripetizioni/internal/pkg/request"
	"github.com/frago0312/fg-ripetizioni/internal/pkg/response"
	"github.com/frago0312/fg-ripetizioni/internal/pricing"
	"github.com/frago0312/fg-ripetizioni/internal/student"
)

type Handler struct {
	service      lesson.Service
	students     student.Service
	closures     closure.Service
	availability availability.Service
	zone         *time.Location
}

func NewHandler(
	service lesson.Service,
	students student.Service,
	closures closure.Service,
	availabilitySvc availability.Service,
	zone *time.Location,
) *Handler {
	return &Handler{
		service:      service,
		students:     students,
		closures:     closures,
		availability: availabilitySvc,
		zone:         zone,
	}
}

func (h *Handler) isTutor(c *gin.Context) bool {
	st, err := h.students.GetByID(c.Request.Context(), auth.GetUserID(c))
	return err == nil && st.IsTutor
}

// POST /v1/lessons
func (h *Handler) Create(c *gin.Context) {
	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, h.zone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date or time"})
		return
	}

	l, err := h.service.Request(c.Request.Context(), lesson.CreateRequest{
		StudentID:     auth.GetUserID(c),
		Start:         start,
		DurationHours: req.DurationHours,
		Location:      pricing.Location(req.Location),
		Note:          req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewLessonResponse(l))
}

// GET /v1/lessons
func (h *Handler) ListMine(c *gin.Context) {
	lessons, outstanding, err := h.service.ListByStudent(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MyLessonsResponse{
		Items:       newLessonList(lessons),
		Outstanding: outstanding.StringFixed(2),
	})
}

// GET /v1/lessons/:id
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if l.StudentID != auth.GetUserID(c) && !h.isTutor(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewLessonResponse(l))
}

// GET /v1/slots?date=YYYY-MM-DD
func (h *Handler) FreeSlots(c *gin.Context) {
	var req request.ByDateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter must be YYYY-MM-DD"})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, h.zone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter must be YYYY-MM-DD"})
		return
	}

	slots, err := h.service.FreeSlots(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := DaySlotsResponse{
		Date:  slots.Date.Format("2006-01-02"),
		Slots: slots.Slots,
		Note:  slots.Note,
	}
	if resp.Slots == nil {
		resp.Slots = []string{}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) transition(c *gin.Context, target lesson.Status) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	l, err := h.service.Transition(c.Request.Context(), req.ID, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewLessonResponse(l))
}

// POST /v1/lessons/:id/confirm
func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, lesson.StatusConfirmed)
}

// POST /v1/lessons/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, lesson.StatusRejected)
}

// POST /v1/lessons/:id/paid
func (h *Handler) MarkPaid(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	l, err := h.service.MarkPaid(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewLessonResponse(l))
}

// POST /v1/students/:id/payments
func (h *Handler) SettlePayments(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	count, total, err := h.service.BulkMarkPaid(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, SettlePaymentsResponse{
		Count:       count,
		TotalAmount: total.StringFixed(2),
	})
}

// GET /v1/tutor/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	dash, err := h.service.TutorDashboard(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	today := time.Now().In(h.zone)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, h.zone)
	closures, err := h.closures.ListUpcoming(ctx, today)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, err := h.availability.List(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := DashboardResponse{
		Pending:       newLessonList(dash.Pending),
		Upcoming:      newLessonList(dash.Upcoming),
		MonthEarnings: dash.MonthEarnings.StringFixed(2),
		Closures:      make([]closureHttp.ClosureResponse, len(closures)),
		Availability:  make([]availHttp.EntryResponse, len(entries)),
	}
	for i, cl := range closures {
		resp.Closures[i] = closureHttp.NewClosureResponse(cl)
	}
	for i, e := range entries {
		resp.Availability[i] = availHttp.NewEntryResponse(e)
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/tutor/export?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) ExportCSV(c *gin.Context) {
	var from, to *time.Time
	filename := "lessons_export"

	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, h.zone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = &t
		filename += "_from_" + v
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, h.zone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		// Upper bound is exclusive at day granularity.
		t = t.AddDate(0, 0, 1)
		to = &t
		filename += "_to_" + v
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))

	if err := h.service.ExportCSV(c.Request.Context(), from, to, c.Writer); err != nil {
		response.Error(c, err)
	}
}

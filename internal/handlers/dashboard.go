package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"clinic-management-server/internal/models"
	"clinic-management-server/internal/reports"
	"clinic-management-server/internal/utils"
)

// DashboardHandler serves the doctor and owner dashboard views: the filtered
// patient list plus the collections summary.
type DashboardHandler struct {
	DB  *mongo.Database
	Loc *time.Location
}

// NewDashboardHandler creates a new DashboardHandler. loc is the reporting
// timezone used for all calendar comparisons.
func NewDashboardHandler(db *mongo.Database, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{DB: db, Loc: loc}
}

// DashboardResponse carries the display list and the collection sums.
type DashboardResponse struct {
	Patients []models.Patient `json:"patients"`
	Summary  reports.Summary  `json:"summary"`
}

// DoctorDashboard returns the doctor view. The patient list is date- and
// tab-filtered, but the summary is computed over the full collection: the
// doctor dashboard always shows clinic-wide collections regardless of the
// selected filter.
func (h *DashboardHandler) DoctorDashboard(c *gin.Context) {
	h.dashboard(c, []reports.Tab{reports.TabPendingOpds, reports.TabCompletedOpds, reports.TabAll}, false)
}

// OwnerDashboard returns the owner view. Both the patient list and the
// summary reflect the selected date filter and tab.
func (h *DashboardHandler) OwnerDashboard(c *gin.Context) {
	h.dashboard(c, []reports.Tab{reports.TabAll, reports.TabTodayAppointments, reports.TabFutureAppointments}, true)
}

func (h *DashboardHandler) dashboard(c *gin.Context, allowedTabs []reports.Tab, summarizeFiltered bool) {
	filter, err := reports.ParseDateFilter(c.Query("dateFilter"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	tab, err := reports.ParseTab(c.Query("tab"), allowedTabs...)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	now := time.Now()

	var customStart, customEnd time.Time
	if filter == reports.FilterCustom {
		customStart, err = time.ParseInLocation("2006-01-02", c.Query("startDate"), h.Loc)
		if err != nil {
			utils.BadRequest(c, "startDate must be a YYYY-MM-DD date")
			return
		}
		customEnd, err = time.ParseInLocation("2006-01-02", c.Query("endDate"), h.Loc)
		if err != nil {
			utils.BadRequest(c, "endDate must be a YYYY-MM-DD date")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	all, err := fetchAllPatients(ctx, h.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch patients for dashboard")
		utils.InternalServerError(c, "Failed to fetch patients")
		return
	}

	start, end, windowed := reports.Window(filter, now, customStart, customEnd, h.Loc)
	scoped := reports.FilterByDate(all, start, end, windowed)
	scoped = reports.FilterByTab(scoped, tab, now, h.Loc)
	scoped = reports.SortByUpdatedAt(scoped)

	summarySource := all
	if summarizeFiltered {
		summarySource = scoped
	}

	if scoped == nil {
		scoped = []models.Patient{}
	}

	utils.Success(c, DashboardResponse{
		Patients: scoped,
		Summary:  reports.Summarize(summarySource, now, h.Loc),
	})
}

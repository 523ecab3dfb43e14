package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Parameter validation happens before any store access, so a nil database is
// fine for the bad-request paths.
func testDashboardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(nil, time.UTC)
	router := gin.New()
	router.GET("/dashboard/doctor", h.DoctorDashboard)
	router.GET("/dashboard/owner", h.OwnerDashboard)
	return router
}

func TestDashboardRejectsUnknownDateFilter(t *testing.T) {
	router := testDashboardRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/doctor?dateFilter=3days", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardRejectsForeignTab(t *testing.T) {
	router := testDashboardRouter()

	// Appointment tabs belong to the owner view only.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/doctor?tab=todayAppointments", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// And lead tabs belong to the doctor view.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/dashboard/owner?tab=pendingOpds", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardCustomFilterRequiresDates(t *testing.T) {
	router := testDashboardRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/owner?dateFilter=custom", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/dashboard/owner?dateFilter=custom&startDate=2024-06-01&endDate=June+10", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

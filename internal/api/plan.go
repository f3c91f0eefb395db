package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hydromate/backend/internal/service"
	"github.com/hydromate/backend/internal/types"
)

// PlanHandler handles hydration plan requests
type PlanHandler struct {
	plans    *service.PlanService
	profiles service.IProfileService
}

// NewPlanHandler creates a new PlanHandler instance
func NewPlanHandler(plans *service.PlanService, profiles service.IProfileService) *PlanHandler {
	return &PlanHandler{plans: plans, profiles: profiles}
}

// ResolvePlan handles POST /plans/resolve: return today's plan if it
// exists, otherwise generate, persist and schedule reminders. "saved" is
// false when the plan could not be persisted; the plan itself is still
// returned so the user is not blocked.
func (h *PlanHandler) ResolvePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// Both coordinates are optional, so an absent body is a valid request.
	var req types.ResolvePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not set up"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	plan, saved, err := h.plans.ResolvePlan(c.Request.Context(), profile, req.Latitude, req.Longitude)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan, "saved": saved})
}

// TodayPlan handles GET /plans/today: lookup only, no generation.
func (h *PlanHandler) TodayPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	plan, err := h.plans.LookupPlan(c.Request.Context(), userID, h.plans.Today())
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no plan for today"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/services"
)

type PlanHandler struct {
	svc    *services.PlanService
	logger zerolog.Logger
}

func NewPlanHandler(svc *services.PlanService, logger zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		svc:    svc,
		logger: logger.With().Str("component", "plan_handler").Logger(),
	}
}

type createPlanRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Template    string                 `json:"template"`
	Schedule    *domain.WeeklySchedule `json:"schedule"`
}

// Omitted fields are kept. An empty description clears it.
type updatePlanRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Schedule    *domain.WeeklySchedule `json:"schedule"`
	Version     int                    `json:"version"`
}

type applyTemplateRequest struct {
	Template    string `json:"template"`
	EatingStart string `json:"eating_start"`
	EatingEnd   string `json:"eating_end"`
}

type updateDayRequest struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Active *bool  `json:"active"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/plans")
	{
		plans.GET("", h.List)
		plans.POST("", h.Create)
		plans.GET("/active", h.Active)
		plans.GET("/sync", h.Sync)
		plans.GET("/templates", h.Templates)
		plans.GET("/:id", h.Get)
		plans.PUT("/:id", h.Update)
		plans.DELETE("/:id", h.Delete)
		plans.POST("/:id/activate", h.Activate)
		plans.POST("/:id/duplicate", h.Duplicate)
		plans.POST("/:id/template", h.ApplyTemplate)
		plans.PATCH("/:id/days/:day", h.UpdateDay)
		plans.GET("/:id/summary", h.Summary)
	}
}

func (h *PlanHandler) userID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "user context missing"})
		return "", false
	}
	return userID, true
}

// writeError maps domain errors onto status codes.
func (h *PlanHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrPlanConflict):
		c.JSON(http.StatusConflict, errorResponse{
			Error:   "version conflict",
			Message: "plan has been modified elsewhere, please sync",
		})

	default:
		_ = c.Error(err)
		h.logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// List godoc
// @Summary  List the caller's plans
// @Tags     plans
// @Produce  json
// @Success  200 {array} domain.SchedulePlan
// @Security BearerAuth
// @Router   /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	plans, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if plans == nil {
		plans = []*domain.SchedulePlan{}
	}

	c.JSON(http.StatusOK, plans)
}

// Create godoc
// @Summary  Create a plan from a template, a full week or the 16:8 default
// @Description Sending both template and schedule is rejected with 400.
// @Tags     plans
// @Accept   json
// @Produce  json
// @Param    plan body createPlanRequest true "Plan"
// @Success  201 {object} domain.SchedulePlan
// @Failure  400 {object} errorResponse
// @Security BearerAuth
// @Router   /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	plan, err := h.svc.Create(c.Request.Context(), services.CreatePlanInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Template:    req.Template,
		Schedule:    req.Schedule,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// Active godoc
// @Summary  Get the caller's active plan
// @Tags     plans
// @Produce  json
// @Success  200 {object} domain.SchedulePlan
// @Failure  404 {object} errorResponse
// @Security BearerAuth
// @Router   /plans/active [get]
func (h *PlanHandler) Active(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	plan, err := h.svc.Active(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// Sync godoc
// @Summary  Plans changed or deleted since last_sync
// @Tags     plans
// @Produce  json
// @Param    last_sync query string false "RFC3339 timestamp"
// @Success  200 {object} map[string]interface{}
// @Security BearerAuth
// @Router   /plans/sync [get]
func (h *PlanHandler) Sync(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var lastSync time.Time
	if raw := c.Query("last_sync"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid last_sync format, use RFC3339"})
			return
		}
		lastSync = parsed
	}

	changes, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if changes == nil {
		changes = []*domain.SchedulePlan{}
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   changes,
		"timestamp": time.Now().UTC(),
	})
}

// Templates godoc
// @Summary  Built-in quick templates
// @Tags     plans
// @Produce  json
// @Success  200 {array} domain.Template
// @Security BearerAuth
// @Router   /plans/templates [get]
func (h *PlanHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Templates())
}

// Get godoc
// @Summary  Get one plan
// @Tags     plans
// @Produce  json
// @Param    id path string true "Plan ID"
// @Success  200 {object} domain.SchedulePlan
// @Failure  404 {object} errorResponse
// @Security BearerAuth
// @Router   /plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	plan, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// Update godoc
// @Summary  Rename a plan or replace its week
// @Tags     plans
// @Accept   json
// @Produce  json
// @Param    id   path string            true "Plan ID"
// @Param    plan body updatePlanRequest true "Changes"
// @Success  200 {object} domain.SchedulePlan
// @Failure  409 {object} errorResponse
// @Security BearerAuth
// @Router   /plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	plan, err := h.svc.Update(c.Request.Context(), services.UpdatePlanInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Schedule:    req.Schedule,
		Version:     req.Version,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// Delete godoc
// @Summary  Delete a plan
// @Tags     plans
// @Param    id path string true "Plan ID"
// @Success  204
// @Failure  404 {object} errorResponse
// @Security BearerAuth
// @Router   /plans/{id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Activate godoc
// @Summary  Make a plan the caller's only active plan
// @Tags     plans
// @Produce  json
// @Param    id path string true "Plan ID"
// @Success  200 {array} domain.SchedulePlan
// @Failure  404 {object} errorResponse
// @Security BearerAuth
// @Router   /plans/{id}/activate [post]
func (h *PlanHandler) Activate(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	plans, err := h.svc.Activate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// Duplicate godoc
// @Summary  Copy a plan
// @Tags     plans
// @Produce  json
// @Param    id path string true "Plan ID"
// @Success  201 {object} domain.SchedulePlan
// @Security BearerAuth
// @Router   /plans/{id}/duplicate [post]
func (h *PlanHandler) Duplicate(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	dup, err := h.svc.Duplicate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dup)
}

// ApplyTemplate godoc
// @Summary  Apply a quick template or a custom window to every day
// @Tags     plans
// @Accept   json
// @Produce  json
// @Param    id       path string               true "Plan ID"
// @Param    template body applyTemplateRequest true "Template slug or explicit window"
// @Success  200 {object} domain.SchedulePlan
// @Failure  400 {object} errorResponse
// @Security BearerAuth
// @Router   /plans/{id}/template [post]
func (h *PlanHandler) ApplyTemplate(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req applyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	plan, err := h.svc.ApplyTemplate(c.Request.Context(), services.ApplyTemplateInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Template:    req.Template,
		EatingStart: req.EatingStart,
		EatingEnd:   req.EatingEnd,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// UpdateDay godoc
// @Summary  Edit one day's window bound or rest-day flag
// @Tags     plans
// @Accept   json
// @Produce  json
// @Param    id   path string           true "Plan ID"
// @Param    day  path string           true "Weekday name"
// @Param    body body updateDayRequest true "Field and value, or active flag"
// @Success  200 {object} domain.SchedulePlan
// @Failure  400 {object} errorResponse
// @Security BearerAuth
// @Router   /plans/{id}/days/{day} [patch]
func (h *PlanHandler) UpdateDay(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	plan, err := h.svc.UpdateDay(c.Request.Context(), services.UpdateDayInput{
		ID:     c.Param("id"),
		UserID: userID,
		Day:    c.Param("day"),
		Field:  req.Field,
		Value:  req.Value,
		Active: req.Active,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// Summary godoc
// @Summary  Weekly fasting totals over active days
// @Tags     plans
// @Produce  json
// @Param    id path string true "Plan ID"
// @Success  200 {object} domain.WeeklySummary
// @Security BearerAuth
// @Router   /plans/{id}/summary [get]
func (h *PlanHandler) Summary(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

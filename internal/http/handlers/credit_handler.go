// Credit HTTP handlers.
//
// This file exposes REST endpoints for the daily usage allowance:
//   - GET  /credits           (current balance)
//   - POST /credits/upgrade   (switch plan, refills the allowance)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sectionforge/go-section-backend/internal/domain"
	"github.com/sectionforge/go-section-backend/internal/services"
)

// UpgradePlanRequest is the JSON payload for switching plans.
type UpgradePlanRequest struct {
	// Plan is the target tier: free, pro, or business.
	Plan string `json:"plan" binding:"required" example:"pro"`
}

// GetCredits godoc
// @ID          getCredits
// @Summary     Get credit balance
// @Description Returns the user's current balance, applying the daily reset when due. A first-time user receives the free plan's default allowance.
// @Tags        Credits
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID"  example(user123)
//
// @Success     200  {object}  handlers.CreditsInfo
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /credits [get]
func (h *Handlers) GetCredits(c *gin.Context) {
	bal, err := h.creditSvc.Get(c.Request.Context(), userIDOrDemo(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, creditsInfo(bal))
}

// UpgradePlan godoc
// @ID          upgradePlan
// @Summary     Switch plan
// @Description Moves the user to the named plan. The new allowance takes effect immediately as a full refill.
// @Tags        Credits
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID"  example(user123)
// @Param       body       body    handlers.UpgradePlanRequest  true  "Target plan"
//
// @Success     200  {object}  handlers.CreditsInfo
// @Failure     400  {object}  handlers.ErrorResponse "Unknown plan"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /credits/upgrade [post]
func (h *Handlers) UpgradePlan(c *gin.Context) {
	var req UpgradePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	plan := domain.Plan(strings.ToLower(strings.TrimSpace(req.Plan)))
	bal, err := h.creditSvc.Upgrade(c.Request.Context(), userIDOrDemo(c), plan)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPlan) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidPlan, "plan must be one of: free, pro, business")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, creditsInfo(bal))
}

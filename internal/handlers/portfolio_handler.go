package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockfolio/internal/services"
)

// PortfolioHandler handles valuation-related requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetDashboard returns the full portfolio valuation.
// @Summary     Portfolio dashboard
// @Description Per-asset valuations and portfolio totals for the current user
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard "Portfolio dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.portfolioService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetAssetOverview returns the valuation detail for one asset.
// @Summary     Asset overview
// @Description Valuation, quote detail, and per-transaction figures for one asset
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} services.AssetOverview "Asset overview"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/overview [get]
func (h *PortfolioHandler) GetAssetOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.portfolioService.GetAssetOverview(c.Request.Context(), userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
	"stockfolio/internal/services"
)

// AssetHandler handles asset-related requests.
type AssetHandler struct {
	assetService services.AssetServicer
	quotes       services.QuoteProvider
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer, quotes services.QuoteProvider) *AssetHandler {
	return &AssetHandler{assetService: assetService, quotes: quotes}
}

// CreateAssetRequest represents the request payload for creating an asset.
type CreateAssetRequest struct {
	Symbol   string           `json:"symbol" binding:"required,ticker"`
	Name     string           `json:"name" binding:"max=200"`
	Exchange string           `json:"exchange" binding:"max=40"`
	Kind     models.AssetKind `json:"kind" binding:"omitempty,asset_kind"`
}

// SymbolResponse represents a successful symbol lookup.
type SymbolResponse struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// CreateAsset handles adding a new tracked asset.
// @Summary     Create asset
// @Description Start tracking a ticker; missing name/exchange is auto-filled from a symbol lookup
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Symbol already tracked"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), userID, req.Symbol, req.Name, req.Exchange, req.Kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

// ListAssets returns the user's tracked assets.
// @Summary     List assets
// @Description Get a paginated list of the user's tracked assets
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	assets, err := h.assetService.GetUserAssets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

// GetAsset returns a single asset.
// @Summary     Get asset
// @Description Get one tracked asset by ID
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Asset "Asset"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
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

	asset, err := h.assetService.GetAssetByID(userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

// DeleteAsset removes an asset and its transactions.
// @Summary     Delete asset
// @Description Delete an asset, cascading to its transactions
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     204 "Asset deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
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

	if err := h.assetService.DeleteAsset(userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LookupSymbol validates a ticker symbol against the market-data source.
// @Summary     Look up symbol
// @Description Validate a ticker and return its name and exchange
// @Tags        symbols
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} SymbolResponse "Symbol found"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Symbol not found"
// @Router      /symbols/{symbol} [get]
func (h *AssetHandler) LookupSymbol(c *gin.Context) {
	symbol := marketdata.NormalizeSymbol(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.ErrInvalidSymbol)
		return
	}

	resolved, ok := h.quotes.Resolve(c.Request.Context(), symbol)
	if !ok {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Symbol not found"))
		return
	}

	c.JSON(http.StatusOK, SymbolResponse{
		Symbol:   symbol,
		Name:     resolved.Name,
		Exchange: resolved.Exchange,
	})
}

package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/portfolio_tracker/internal/converter/httpConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/httpModel"
	"github.com/KotFed0t/portfolio_tracker/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/portfolio_tracker/internal/service"
	"github.com/KotFed0t/portfolio_tracker/internal/service/portfolioService"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/rest/middleware"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	portfolioNotFoundMsg = "Portfolio not found"
	assetNotFoundMsg     = "Asset not found"
	addAssetFailedMsg    = "failed to add asset"
	internalErrMsg       = "internal server error"
)

type PortfolioService interface {
	ListPortfolios(ctx context.Context, ownerID string) (model.OwnerPortfolios, error)
	CreatePortfolio(ctx context.Context, ownerID string, req portfolioService.NewPortfolio) (model.Portfolio, error)
	AddAsset(ctx context.Context, ownerID string, portfolioID uuid.UUID, req portfolioService.NewAsset) (model.Portfolio, error)
	RemoveAsset(ctx context.Context, ownerID string, portfolioID, assetID uuid.UUID) (model.Portfolio, error)
	GetPerformance(ctx context.Context, userID string, portfolioID uuid.UUID) (model.PerformanceView, error)
	GetPerformanceReport(ctx context.Context, userID string, portfolioID uuid.UUID) (fileBytes []byte, fileExtension string, err error)
}

type Controller struct {
	portfolioService PortfolioService
}

func NewController(portfolioService PortfolioService) *Controller {
	return &Controller{portfolioService: portfolioService}
}

func (ctrl *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (ctrl *Controller) ListPortfolios(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	list, err := ctrl.portfolioService.ListPortfolios(ctx, c.GetString(middleware.UserIDKey))
	if err != nil {
		ctrl.respondError(ctx, c, err, internalErrMsg)
		return
	}

	c.JSON(http.StatusOK, httpConverter.ConvertPortfolioList(list))
}

func (ctrl *Controller) CreatePortfolio(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	var req httpModel.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpModel.Error{Error: "Invalid request: " + err.Error()})
		return
	}

	portfolio, err := ctrl.portfolioService.CreatePortfolio(ctx, c.GetString(middleware.UserIDKey), portfolioService.NewPortfolio{
		Name:              req.Name,
		IsFamilyPortfolio: req.IsFamilyPortfolio,
		FamilyMemberID:    req.FamilyMemberID,
	})
	if err != nil {
		ctrl.respondError(ctx, c, err, internalErrMsg)
		return
	}

	c.JSON(http.StatusCreated, httpConverter.ConvertPortfolio(portfolio))
}

func (ctrl *Controller) AddAsset(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	portfolioID, ok := parseID(c, "portfolioId", portfolioNotFoundMsg)
	if !ok {
		return
	}

	var req httpModel.AddAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpModel.Error{Error: "Invalid request: " + err.Error()})
		return
	}

	portfolio, err := ctrl.portfolioService.AddAsset(ctx, c.GetString(middleware.UserIDKey), portfolioID, portfolioService.NewAsset{
		Symbol:       req.Symbol,
		Quantity:     decimal.NewFromFloat(req.Quantity),
		AveragePrice: decimal.NewFromFloat(req.AveragePrice),
	})
	if err != nil {
		ctrl.respondError(ctx, c, err, addAssetFailedMsg)
		return
	}

	c.JSON(http.StatusCreated, httpConverter.ConvertPortfolio(portfolio))
}

func (ctrl *Controller) RemoveAsset(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	portfolioID, ok := parseID(c, "portfolioId", portfolioNotFoundMsg)
	if !ok {
		return
	}
	assetID, ok := parseID(c, "assetId", assetNotFoundMsg)
	if !ok {
		return
	}

	portfolio, err := ctrl.portfolioService.RemoveAsset(ctx, c.GetString(middleware.UserIDKey), portfolioID, assetID)
	if err != nil {
		ctrl.respondError(ctx, c, err, internalErrMsg)
		return
	}

	c.JSON(http.StatusOK, httpConverter.ConvertPortfolio(portfolio))
}

func (ctrl *Controller) GetPerformance(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	portfolioID, ok := parseID(c, "portfolioId", portfolioNotFoundMsg)
	if !ok {
		return
	}

	view, err := ctrl.portfolioService.GetPerformance(ctx, c.GetString(middleware.UserIDKey), portfolioID)
	if err != nil {
		ctrl.respondError(ctx, c, err, internalErrMsg)
		return
	}

	c.JSON(http.StatusOK, httpConverter.ConvertPerformance(view))
}

func (ctrl *Controller) GetPerformanceReport(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	portfolioID, ok := parseID(c, "portfolioId", portfolioNotFoundMsg)
	if !ok {
		return
	}

	fileBytes, ext, err := ctrl.portfolioService.GetPerformanceReport(ctx, c.GetString(middleware.UserIDKey), portfolioID)
	if err != nil {
		ctrl.respondError(ctx, c, err, internalErrMsg)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="performance-`+portfolioID.String()+ext+`"`)
	c.Data(http.StatusOK, xlsxGenerator.ContentType, fileBytes)
}

// respondError maps service errors to statuses; fallbackMsg is used for unexpected failures.
func (ctrl *Controller) respondError(ctx context.Context, c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, httpModel.Error{Error: err.Error()})
	case errors.Is(err, service.ErrAssetNotFound):
		c.JSON(http.StatusNotFound, httpModel.Error{Error: assetNotFoundMsg})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, httpModel.Error{Error: portfolioNotFoundMsg})
	case errors.Is(err, service.ErrPriceUnavailable):
		c.JSON(http.StatusBadGateway, httpModel.Error{Error: addAssetFailedMsg})
	default:
		slog.Error(
			"request failed",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("path", c.FullPath()),
			slog.String("err", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, httpModel.Error{Error: fallbackMsg})
	}
}

// parseID answers 404 itself for ids that can't exist.
func parseID(c *gin.Context, param, notFoundMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusNotFound, httpModel.Error{Error: notFoundMsg})
		return uuid.Nil, false
	}
	return id, true
}

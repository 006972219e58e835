package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/performanceCalculator"
	"github.com/KotFed0t/portfolio_tracker/internal/service"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreatePortfolio(ctx context.Context, portfolio model.Portfolio) error
	GetPortfolio(ctx context.Context, portfolioID uuid.UUID) (model.Portfolio, error)
	GetPortfoliosByOwner(ctx context.Context, ownerID string) ([]model.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio model.Portfolio) error
}

type PriceResolver interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, views []model.PerformanceView) (fileBytes []byte, fileExtension string, err error)
}

type Clock interface {
	Now() time.Time
}

// Locker serializes read-modify-write of one portfolio with the price sweep.
type Locker interface {
	Lock(portfolioID uuid.UUID) (unlock func())
}

type NewPortfolio struct {
	Name              string
	IsFamilyPortfolio bool
	FamilyMemberID    *string
}

type NewAsset struct {
	Symbol       string
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
}

type PortfolioService struct {
	repo      Repository
	prices    PriceResolver
	generator ReportGenerator
	locks     Locker
	clock     Clock
}

func New(repo Repository, prices PriceResolver, generator ReportGenerator, locks Locker, clock Clock) *PortfolioService {
	return &PortfolioService{
		repo:      repo,
		prices:    prices,
		generator: generator,
		locks:     locks,
		clock:     clock,
	}
}

func (s *PortfolioService) ListPortfolios(ctx context.Context, ownerID string) (res model.OwnerPortfolios, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ListPortfolios"

	slog.Debug("ListPortfolios start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ownerID", ownerID))
	defer func() {
		slog.Debug("ListPortfolios finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolios, err := s.repo.GetPortfoliosByOwner(ctx, ownerID)
	if err != nil {
		slog.Error("got error from repo.GetPortfoliosByOwner", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.OwnerPortfolios{}, err
	}

	res = model.OwnerPortfolios{Own: []model.Portfolio{}, Family: []model.Portfolio{}}
	for _, p := range portfolios {
		if p.IsFamilyPortfolio {
			res.Family = append(res.Family, p)
		} else {
			res.Own = append(res.Own, p)
		}
	}

	return res, nil
}

func (s *PortfolioService) CreatePortfolio(ctx context.Context, ownerID string, req NewPortfolio) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreatePortfolio"

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ownerID", ownerID))
	defer func() {
		slog.Debug("CreatePortfolio finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Portfolio{}, fmt.Errorf("%w: name is required", service.ErrValidation)
	}

	var familyMemberID *string
	if req.IsFamilyPortfolio {
		if req.FamilyMemberID == nil || strings.TrimSpace(*req.FamilyMemberID) == "" {
			return model.Portfolio{}, fmt.Errorf("%w: familyMemberId is required for a family portfolio", service.ErrValidation)
		}
		member := strings.TrimSpace(*req.FamilyMemberID)
		familyMemberID = &member
	}

	now := s.clock.Now()
	portfolio := model.Portfolio{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Name:              name,
		IsFamilyPortfolio: req.IsFamilyPortfolio,
		FamilyMemberID:    familyMemberID,
		Assets:            []model.Asset{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.CreatePortfolio(ctx, portfolio); err != nil {
		slog.Error("got error from repo.CreatePortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Portfolio{}, err
	}

	return portfolio, nil
}

// AddAsset resolves the symbol price right away so the new asset starts with one history point.
func (s *PortfolioService) AddAsset(ctx context.Context, ownerID string, portfolioID uuid.UUID, req NewAsset) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AddAsset"

	slog.Debug("AddAsset start", slog.String("rqID", rqID), slog.String("op", op), slog.String("portfolioID", portfolioID.String()))
	defer func() {
		slog.Debug("AddAsset finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	symbol := model.NormalizeSymbol(req.Symbol)
	switch {
	case symbol == "":
		return model.Portfolio{}, fmt.Errorf("%w: symbol is required", service.ErrValidation)
	case !req.Quantity.IsPositive():
		return model.Portfolio{}, fmt.Errorf("%w: quantity must be positive", service.ErrValidation)
	case !req.AveragePrice.IsPositive():
		return model.Portfolio{}, fmt.Errorf("%w: averagePrice must be positive", service.ErrValidation)
	}

	unlock := s.locks.Lock(portfolioID)
	defer unlock()

	portfolio, err := s.ownedPortfolio(ctx, ownerID, portfolioID)
	if err != nil {
		return model.Portfolio{}, err
	}

	price, err := s.prices.GetPrice(ctx, symbol)
	if err != nil {
		slog.Error("got error from prices.GetPrice", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return model.Portfolio{}, fmt.Errorf("%w: %w", service.ErrPriceUnavailable, err)
	}

	now := s.clock.Now()
	portfolio.Assets = append(portfolio.Assets, model.Asset{
		ID:           uuid.New(),
		Symbol:       symbol,
		Quantity:     req.Quantity,
		AveragePrice: req.AveragePrice,
		CurrentPrice: price,
		PriceHistory: []model.PricePoint{{Date: now, Price: price}},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	portfolio.UpdatedAt = now

	if err = s.save(ctx, portfolio); err != nil {
		return model.Portfolio{}, err
	}

	return portfolio, nil
}

func (s *PortfolioService) RemoveAsset(ctx context.Context, ownerID string, portfolioID, assetID uuid.UUID) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RemoveAsset"

	slog.Debug("RemoveAsset start", slog.String("rqID", rqID), slog.String("op", op), slog.String("portfolioID", portfolioID.String()), slog.String("assetID", assetID.String()))
	defer func() {
		slog.Debug("RemoveAsset finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	unlock := s.locks.Lock(portfolioID)
	defer unlock()

	portfolio, err := s.ownedPortfolio(ctx, ownerID, portfolioID)
	if err != nil {
		return model.Portfolio{}, err
	}

	idx := slices.IndexFunc(portfolio.Assets, func(a model.Asset) bool { return a.ID == assetID })
	if idx < 0 {
		return model.Portfolio{}, fmt.Errorf("%w: %s", service.ErrAssetNotFound, assetID)
	}

	portfolio.Assets = slices.Delete(portfolio.Assets, idx, idx+1)
	portfolio.UpdatedAt = s.clock.Now()

	if err = s.save(ctx, portfolio); err != nil {
		return model.Portfolio{}, err
	}

	return portfolio, nil
}

func (s *PortfolioService) GetPerformance(ctx context.Context, userID string, portfolioID uuid.UUID) (model.PerformanceView, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPerformance"

	slog.Debug("GetPerformance start", slog.String("rqID", rqID), slog.String("op", op), slog.String("portfolioID", portfolioID.String()))
	defer func() {
		slog.Debug("GetPerformance finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolio, err := s.readablePortfolio(ctx, userID, portfolioID)
	if err != nil {
		return model.PerformanceView{}, err
	}

	return performanceCalculator.ComputePortfolio(portfolio), nil
}

func (s *PortfolioService) GetPerformanceReport(ctx context.Context, userID string, portfolioID uuid.UUID) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPerformanceReport"

	view, err := s.GetPerformance(ctx, userID, portfolioID)
	if err != nil {
		return nil, "", err
	}

	fileBytes, fileExtension, err = s.generator.Generate(ctx, []model.PerformanceView{view})
	if err != nil {
		slog.Error("got error from generator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	return fileBytes, fileExtension, nil
}

func (s *PortfolioService) getPortfolio(ctx context.Context, portfolioID uuid.UUID) (model.Portfolio, error) {
	portfolio, err := s.repo.GetPortfolio(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Portfolio{}, service.ErrNotFound
		}
		slog.Error(
			"got error from repo.GetPortfolio",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("portfolioID", portfolioID.String()),
			slog.String("err", err.Error()),
		)
		return model.Portfolio{}, err
	}
	return portfolio, nil
}

// ownedPortfolio hides portfolios of other owners behind ErrNotFound.
func (s *PortfolioService) ownedPortfolio(ctx context.Context, ownerID string, portfolioID uuid.UUID) (model.Portfolio, error) {
	portfolio, err := s.getPortfolio(ctx, portfolioID)
	if err != nil {
		return model.Portfolio{}, err
	}
	if portfolio.OwnerID != ownerID {
		return model.Portfolio{}, service.ErrNotFound
	}
	return portfolio, nil
}

func (s *PortfolioService) readablePortfolio(ctx context.Context, userID string, portfolioID uuid.UUID) (model.Portfolio, error) {
	portfolio, err := s.getPortfolio(ctx, portfolioID)
	if err != nil {
		return model.Portfolio{}, err
	}
	if !portfolio.CanRead(userID) {
		return model.Portfolio{}, service.ErrNotFound
	}
	return portfolio, nil
}

func (s *PortfolioService) save(ctx context.Context, portfolio model.Portfolio) error {
	err := s.repo.SavePortfolio(ctx, portfolio)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		slog.Error("got error from repo.SavePortfolio", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return err
	}
	return nil
}

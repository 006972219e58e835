package alphaVantageApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

type AlphaVantageApi struct {
	client *resty.Client
	apiKey string
}

func New(cfg *config.Config) *AlphaVantageApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.AlphaVantageApi.Url)
	return &AlphaVantageApi{client: client, apiKey: cfg.API.AlphaVantageApi.ApiKey}
}

func (a *AlphaVantageApi) FetchPrice(ctx context.Context, baseSymbol string) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AlphaVantageApi.FetchPrice"
	params := map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   baseSymbol,
		"apikey":   a.apiKey,
	}

	slog.Debug("start AlphaVantageApi.FetchPrice request", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", baseSymbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get("/query")
	if err != nil {
		slog.Error("error while dialing AlphaVantageApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return decimal.Zero, fmt.Errorf("%w: %s", externalApi.ErrTransport, err.Error())
	}

	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("%w: status %d for %s", externalApi.ErrTransport, resp.StatusCode(), baseSymbol)
	}

	quote := globalQuoteResponse{}
	if err = json.Unmarshal(resp.Body(), &quote); err != nil {
		slog.Error("can't unmarshall response into globalQuoteResponse", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return decimal.Zero, fmt.Errorf("%w: %s", externalApi.ErrTransport, err.Error())
	}

	// лимит запросов приходит с кодом 200
	if quote.Note != "" || quote.Information != "" {
		msg := strings.TrimSpace(quote.Note + " " + quote.Information)
		slog.Warn("AlphaVantageApi rate limited", slog.String("rqID", rqID), slog.String("op", op), slog.String("msg", msg))
		return decimal.Zero, fmt.Errorf("%w: rate limited: %s", externalApi.ErrTransport, msg)
	}

	if quote.GlobalQuote.Price == "" {
		return decimal.Zero, externalApi.ErrNotFound
	}

	price, err := decimal.NewFromString(quote.GlobalQuote.Price)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, externalApi.ErrNotFound
	}

	slog.Debug("AlphaVantageApi.FetchPrice request complete", slog.String("rqID", rqID), slog.String("op", op), slog.String("price", price.String()))

	return price, nil
}

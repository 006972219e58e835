package screenerApi

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const (
	priceBlockSelector = "div.flex.flex-align-center"
	rupeeSign          = "₹"
)

var priceCleaner = strings.NewReplacer(rupeeSign, "", ",", "")

// ScreenerApi scrapes the last traded price from a company page.
type ScreenerApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *ScreenerApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.ScreenerApi.Url).
		SetHeader("User-Agent", "Mozilla/5.0")
	return &ScreenerApi{client: client}
}

func (a *ScreenerApi) FetchPrice(ctx context.Context, baseSymbol string) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ScreenerApi.FetchPrice"
	url := fmt.Sprintf("/company/%s/", strings.ToLower(baseSymbol))

	slog.Debug("start ScreenerApi.FetchPrice request", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", baseSymbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		Get(url)
	if err != nil {
		slog.Error("error while dialing ScreenerApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return decimal.Zero, fmt.Errorf("%w: %s", externalApi.ErrTransport, err.Error())
	}

	if resp.StatusCode() == http.StatusNotFound {
		slog.Warn("ScreenerApi has no company page for symbol", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", baseSymbol))
		return decimal.Zero, fmt.Errorf("%w: no company page for %s", externalApi.ErrNotFound, baseSymbol)
	}

	if resp.IsError() {
		slog.Warn("ScreenerApi responded with error status", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return decimal.Zero, fmt.Errorf("%w: status %d for %s", externalApi.ErrTransport, resp.StatusCode(), baseSymbol)
	}

	price, err := parsePrice(resp.Body())
	if err != nil {
		slog.Warn("can't parse price from ScreenerApi page", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", baseSymbol), slog.String("err", err.Error()))
		return decimal.Zero, err
	}

	slog.Debug("ScreenerApi.FetchPrice request complete", slog.String("rqID", rqID), slog.String("op", op), slog.String("price", price.String()))

	return price, nil
}

// parsePrice returns the first rupee-denominated span inside a price block.
func parsePrice(body []byte) (decimal.Decimal, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: parse html: %s", externalApi.ErrTransport, err.Error())
	}

	var (
		price decimal.Decimal
		found bool
	)

	doc.Find(priceBlockSelector).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		if !strings.Contains(block.Text(), rupeeSign) {
			return true
		}

		raw := strings.TrimSpace(block.Find("span").First().Text())
		parsed, err := decimal.NewFromString(strings.TrimSpace(priceCleaner.Replace(raw)))
		if err != nil {
			return true
		}

		price, found = parsed, true
		return false
	})

	if !found {
		return decimal.Zero, externalApi.ErrNotFound
	}

	return price, nil
}

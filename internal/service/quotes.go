package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"giraffe/internal/ledger"
)

// ErrNoQuote means the source answered but had no usable price.
var ErrNoQuote = errors.New("no quote available")

// Quote is a last price with the instrument's display name.
type Quote struct {
	Price decimal.Decimal
	Name  string
}

// QuoteProvider fetches market data. Failures are expected and callers
// degrade to "no price" rather than propagating them.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
	RangeReturn(ctx context.Context, symbol string, start, end time.Time) (decimal.Decimal, error)
}

// YahooQuotes reads the Yahoo Finance v8 chart endpoint. No retries, no
// backoff: a failed fetch is logged by the caller and skipped.
type YahooQuotes struct {
	cli     *http.Client
	baseURL string
}

func NewYahooQuotes() *YahooQuotes {
	return &YahooQuotes{
		cli:     &http.Client{Timeout: 8 * time.Second},
		baseURL: "https://query1.finance.yahoo.com",
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				ShortName          string  `json:"shortName"`
				LongName           string  `json:"longName"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

func (y *YahooQuotes) fetchChart(ctx context.Context, url string) (*chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "giraffe/1.0")

	resp, err := y.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote source http %d", resp.StatusCode)
	}

	var raw chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// Quote returns the last price and display name for a ticker. Price falls
// back from the market price through the previous close to the last
// non-null intraday close.
func (y *YahooQuotes) Quote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", y.baseURL, symbol)
	raw, err := y.fetchChart(ctx, url)
	if err != nil {
		return Quote{}, err
	}
	if len(raw.Chart.Result) == 0 {
		return Quote{}, ErrNoQuote
	}
	res := raw.Chart.Result[0]

	price := res.Meta.RegularMarketPrice
	if price == 0 {
		price = res.Meta.PreviousClose
	}
	if price == 0 && len(res.Indicators.Quote) > 0 {
		for _, c := range res.Indicators.Quote[0].Close {
			if c != nil {
				price = *c
			}
		}
	}
	if price == 0 {
		return Quote{}, ErrNoQuote
	}

	name := res.Meta.ShortName
	if name == "" {
		name = res.Meta.LongName
	}
	if name == "" {
		name = symbol
	}
	return Quote{Price: decimal.NewFromFloat(price), Name: name}, nil
}

// RangeReturn is the point-to-point percentage between the first and last
// daily close of symbol over [start, end], used for the benchmark line.
func (y *YahooQuotes) RangeReturn(ctx context.Context, symbol string, start, end time.Time) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		y.baseURL, strings.ToUpper(symbol), start.Unix(), end.Unix()+86400)
	raw, err := y.fetchChart(ctx, url)
	if err != nil {
		return decimal.Zero, err
	}
	if len(raw.Chart.Result) == 0 || len(raw.Chart.Result[0].Indicators.Quote) == 0 {
		return decimal.Zero, ErrNoQuote
	}

	closes := []float64{}
	for _, c := range raw.Chart.Result[0].Indicators.Quote[0].Close {
		if c != nil {
			closes = append(closes, *c)
		}
	}
	if len(closes) < 2 {
		return decimal.Zero, ErrNoQuote
	}
	return ledger.PointToPointReturn(
		decimal.NewFromFloat(closes[0]),
		decimal.NewFromFloat(closes[len(closes)-1])), nil
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yahooStub(t *testing.T, body string, status int) *YahooQuotes {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	y := NewYahooQuotes()
	y.baseURL = srv.URL
	return y
}

func TestQuote_MarketPrice(t *testing.T) {
	y := yahooStub(t, `{"chart":{"result":[{"meta":{"regularMarketPrice":187.45,"shortName":"Apple Inc."}}]}}`, http.StatusOK)

	q, err := y.Quote(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(187.45)), "price %s", q.Price)
	assert.Equal(t, "Apple Inc.", q.Name)
}

func TestQuote_FallsBackToPreviousClose(t *testing.T) {
	y := yahooStub(t, `{"chart":{"result":[{"meta":{"previousClose":101.5,"longName":"Some Corp"}}]}}`, http.StatusOK)

	q, err := y.Quote(context.Background(), "SOME")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(101.5)))
	assert.Equal(t, "Some Corp", q.Name)
}

func TestQuote_FallsBackToLastClose(t *testing.T) {
	y := yahooStub(t, `{"chart":{"result":[{"meta":{},"indicators":{"quote":[{"close":[10.0,null,12.5]}]}}]}}`, http.StatusOK)

	q, err := y.Quote(context.Background(), "THIN")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(12.5)), "price %s", q.Price)
	// No name anywhere: the symbol stands in.
	assert.Equal(t, "THIN", q.Name)
}

func TestQuote_EmptyResult(t *testing.T) {
	y := yahooStub(t, `{"chart":{"result":[]}}`, http.StatusOK)

	_, err := y.Quote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNoQuote)
}

func TestQuote_HTTPError(t *testing.T) {
	y := yahooStub(t, `not found`, http.StatusNotFound)

	_, err := y.Quote(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestRangeReturn(t *testing.T) {
	y := yahooStub(t, `{"chart":{"result":[{"meta":{},"indicators":{"quote":[{"close":[400.0,null,410.0,440.0]}]}}]}}`, http.StatusOK)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	ret, err := y.RangeReturn(context.Background(), "SPY", start, end)
	require.NoError(t, err)
	assert.True(t, ret.Equal(decimal.NewFromInt(10)), "return %s", ret)
}

func TestRangeReturn_TooFewCloses(t *testing.T) {
	y := yahooStub(t, `{"chart":{"result":[{"meta":{},"indicators":{"quote":[{"close":[400.0]}]}}]}}`, http.StatusOK)

	_, err := y.RangeReturn(context.Background(), "SPY", time.Now().AddDate(0, -1, 0), time.Now())
	assert.ErrorIs(t, err, ErrNoQuote)
}

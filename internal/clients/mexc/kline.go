package mexc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vadiminshakov/gbdtbot/internal/domain"
)

// positions of kline fields in the array returned by /klines
const (
	klineOpenTime = iota
	klineOpen
	klineHigh
	klineLow
	klineClose
	klineVolume
	klineCloseTime
	klineQuoteVolume

	klineFields
)

// KlinesRequest parameters of a klines query. Zero values are omitted.
type KlinesRequest struct {
	Symbol    string
	Interval  domain.Interval
	StartTime int64
	EndTime   int64
	Limit     int
}

func parseKlines(raw []byte) ([]domain.Candle, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	candles := make([]domain.Candle, 0, len(rows))
	for i, row := range rows {
		c, err := parseKlineRow(row)
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		candles = append(candles, c)
	}

	return candles, nil
}

func parseKlineRow(row []json.RawMessage) (domain.Candle, error) {
	if len(row) < klineFields {
		return domain.Candle{}, fmt.Errorf("expected %d fields, got %d", klineFields, len(row))
	}

	var (
		c   domain.Candle
		err error
	)
	if c.OpenTime, err = rawInt(row[klineOpenTime]); err != nil {
		return c, fmt.Errorf("open time: %w", err)
	}
	if c.CloseTime, err = rawInt(row[klineCloseTime]); err != nil {
		return c, fmt.Errorf("close time: %w", err)
	}

	floats := []struct {
		idx  int
		dst  *float64
		name string
	}{
		{klineOpen, &c.Open, "open"},
		{klineHigh, &c.High, "high"},
		{klineLow, &c.Low, "low"},
		{klineClose, &c.Close, "close"},
		{klineVolume, &c.Volume, "volume"},
		{klineQuoteVolume, &c.QuoteVolume, "quote volume"},
	}
	for _, f := range floats {
		if *f.dst, err = rawFloat(row[f.idx]); err != nil {
			return c, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	return c, nil
}

// rawNumber unquotes a JSON string or returns a bare number literal.
func rawNumber(raw json.RawMessage) (string, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func rawInt(raw json.RawMessage) (int64, error) {
	s, err := rawNumber(raw)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

func rawFloat(raw json.RawMessage) (float64, error) {
	s, err := rawNumber(raw)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

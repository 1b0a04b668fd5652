package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ImpulseScan/internal/domain/models"
	drepo "ImpulseScan/internal/domain/repository"
	"ImpulseScan/pkg/logger"

	"github.com/shopspring/decimal"
)

// UniverseResolver builds the list of instruments to scan: the top N swaps
// by quote volume plus the listed watch-list symbols.
type UniverseResolver struct {
	market drepo.MarketData
	cfg    ScanConfig
	log    *logger.Logger
}

func NewUniverseResolver(market drepo.MarketData, cfg ScanConfig, l *logger.Logger) *UniverseResolver {
	return &UniverseResolver{market: market, cfg: cfg, log: l.Component("universe")}
}

// Resolve returns a deduplicated, ascending list of instrument IDs. Any
// exchange failure yields ErrUniverseResolution and no partial list.
func (r *UniverseResolver) Resolve(ctx context.Context) ([]string, error) {
	insts, err := r.market.Instruments(ctx, r.cfg.InstType)
	if err != nil {
		return nil, fmt.Errorf("%w: instruments: %w", models.ErrUniverseResolution, err)
	}
	valid := ValidSet(insts, r.cfg.QuoteCcy)

	tickers, err := r.market.Tickers(ctx, r.cfg.InstType)
	if err != nil {
		return nil, fmt.Errorf("%w: tickers: %w", models.ErrUniverseResolution, err)
	}

	top, err := SelectTopN(tickers, valid, r.cfg.TopN)
	if err != nil {
		return nil, fmt.Errorf("%w: tickers: %w", models.ErrUniverseResolution, err)
	}

	watch := make([]string, 0, len(r.cfg.Watchlist))
	for _, sym := range r.cfg.Watchlist {
		if id, ok := MapCandidate(sym, r.cfg.QuoteCcy, valid); ok {
			watch = append(watch, id)
		}
	}

	universe := MergeUniverse(top, watch)
	r.log.Info("universe resolved",
		logger.Int("valid", len(valid)),
		logger.Int("top", len(top)),
		logger.Int("watchlist", len(watch)),
		logger.Int("total", len(universe)),
	)
	return universe, nil
}

// ValidSet is the set of instrument IDs settled in quoteCcy.
func ValidSet(insts []models.Instrument, quoteCcy string) map[string]struct{} {
	valid := make(map[string]struct{}, len(insts))
	for _, in := range insts {
		if in.SettleCcy == quoteCcy {
			valid[in.InstID] = struct{}{}
		}
	}
	return valid
}

// MapCandidate maps a base symbol to its swap ID when that swap is listed.
func MapCandidate(base, quote string, valid map[string]struct{}) (string, bool) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return "", false
	}
	id := base + "-" + quote + "-SWAP"
	if _, ok := valid[id]; !ok {
		return "", false
	}
	return id, true
}

type rankedTicker struct {
	instID string
	volume decimal.Decimal
}

// SelectTopN ranks valid tickers by quote volume, descending, and keeps n.
// Equal volumes keep exchange order. A valid ticker whose volume cannot be
// read fails the whole selection.
func SelectTopN(tickers []models.Ticker, valid map[string]struct{}, n int) ([]string, error) {
	ranked := make([]rankedTicker, 0, len(tickers))
	for _, t := range tickers {
		if _, ok := valid[t.InstID]; !ok {
			continue
		}
		vol, err := t.QuoteVolume()
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rankedTicker{instID: t.InstID, volume: vol})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].volume.GreaterThan(ranked[j].volume)
	})
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	top := make([]string, len(ranked))
	for i, rt := range ranked {
		top[i] = rt.instID
	}
	return top, nil
}

// MergeUniverse unions the lists, drops duplicates and sorts ascending.
func MergeUniverse(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

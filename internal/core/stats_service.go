package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StatsPeriod selects the dashboard window.
type StatsPeriod string

const (
	PeriodToday StatsPeriod = "today"
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
	PeriodAll   StatsPeriod = "all"
)

func (p StatsPeriod) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return true
	}
	return false
}

// Stats summarizes the orders whose date_creation falls inside the period.
type Stats struct {
	Period        StatsPeriod         `json:"period"`
	OrderCount    int                 `json:"order_count"`
	Revenue       decimal.Decimal     `json:"revenue"`
	PaidCount     int                 `json:"paid_count"`
	UnpaidCount   int                 `json:"unpaid_count"`
	AverageOrder  decimal.Decimal     `json:"average_order"`
	StatusCounts  map[OrderStatus]int `json:"status_counts"`
	PrevRevenue   decimal.Decimal     `json:"previous_revenue"`
	RevenueGrowth *float64            `json:"revenue_growth_pct"`
}

// StatsService computes the dashboard figures.
type StatsService interface {
	GetStats(ctx context.Context, period StatsPeriod) (*Stats, error)
}

type statsService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewStatsService(pool *pgxpool.Pool) StatsService {
	return &statsService{pool: pool, now: time.Now}
}

// periodBounds returns the [from, to) window for the period and the matching
// previous window used for growth comparison. A zero from means unbounded.
func periodBounds(now time.Time, period StatsPeriod) (from, to, prevFrom, prevTo time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodToday:
		return day, day.AddDate(0, 0, 1), day.AddDate(0, 0, -1), day
	case PeriodWeek:
		// Weeks start on Monday.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), start.AddDate(0, 0, -7), start
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), start.AddDate(0, -1, 0), start
	default:
		return time.Time{}, time.Time{}, time.Time{}, time.Time{}
	}
}

func (s *statsService) GetStats(ctx context.Context, period StatsPeriod) (*Stats, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidOrder, period)
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	from, to, prevFrom, prevTo := periodBounds(s.now(), period)

	st := &Stats{Period: period}
	var nOrdered, nPreparing, nDelivered int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*),
		       COALESCE(sum(montant_total), 0),
		       count(*) FILTER (WHERE is_paid),
		       count(*) FILTER (WHERE NOT is_paid),
		       count(*) FILTER (WHERE status = 'ordered'),
		       count(*) FILTER (WHERE status = 'preparing'),
		       count(*) FILTER (WHERE status = 'delivered')
		FROM commandes
		WHERE ($1::date IS NULL OR date_creation >= $1)
		  AND ($2::date IS NULL OR date_creation < $2)
	`, dateParam(from), dateParam(to)).Scan(
		&st.OrderCount, &st.Revenue, &st.PaidCount, &st.UnpaidCount,
		&nOrdered, &nPreparing, &nDelivered,
	)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", classify(err))
	}
	st.StatusCounts = map[OrderStatus]int{
		StatusOrdered:   nOrdered,
		StatusPreparing: nPreparing,
		StatusDelivered: nDelivered,
	}

	if st.OrderCount > 0 {
		st.AverageOrder = st.Revenue.Div(decimal.NewFromInt(int64(st.OrderCount))).Round(2)
	}

	if period == PeriodAll {
		return st, nil
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(montant_total), 0)
		FROM commandes
		WHERE date_creation >= $1 AND date_creation < $2
	`, prevFrom.Format("2006-01-02"), prevTo.Format("2006-01-02")).Scan(&st.PrevRevenue)
	if err != nil {
		return nil, fmt.Errorf("query previous period revenue: %w", classify(err))
	}
	if st.PrevRevenue.IsPositive() {
		growth, _ := st.Revenue.Sub(st.PrevRevenue).
			Div(st.PrevRevenue).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		st.RevenueGrowth = &growth
	}
	return st, nil
}

func dateParam(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

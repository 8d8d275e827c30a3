package usecase

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/satiscrm/crm-api/internal/entity"
)

type ForecastData struct {
	TotalValue      float64 `json:"total_value"`
	WeightedValue   float64 `json:"weighted_value"`
	DealCount       int     `json:"deal_count"`
	AverageDealSize float64 `json:"average_deal_size"`
	ConversionRate  float64 `json:"conversion_rate"` // percent, won / (won+lost)
}

type ActivityKPIs struct {
	Daily   int            `json:"daily"`
	Weekly  int            `json:"weekly"`
	Monthly int            `json:"monthly"`
	ByType  map[string]int `json:"by_type"`
}

type DashboardStats struct {
	Forecast ForecastData `json:"forecast"`
	KPIs     ActivityKPIs `json:"activity_kpis"`
}

// DashboardUseCase aggregates forecast and activity figures for the
// dashboard endpoint. Both reads are independent and joined before the
// response is built.
type DashboardUseCase struct {
	deals      entity.DealRepositoryInterface
	activities entity.ActivityRepositoryInterface
	logger     *log.Logger
	now        func() time.Time
}

func NewDashboardUseCase(
	deals entity.DealRepositoryInterface,
	activities entity.ActivityRepositoryInterface,
	logger *log.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{deals: deals, activities: activities, logger: logger, now: time.Now}
}

func (uc *DashboardUseCase) Execute(ctx context.Context, organizationID, ownerID string) (*DashboardStats, error) {
	type dealsResult struct {
		deals []*entity.Deal
		err   error
	}
	type activitiesResult struct {
		activities []*entity.Activity
		err        error
	}

	dealsCh := make(chan dealsResult, 1)
	activitiesCh := make(chan activitiesResult, 1)

	go func() {
		deals, err := uc.deals.ListByOrganization(ctx, organizationID)
		dealsCh <- dealsResult{deals, err}
	}()
	go func() {
		activities, err := uc.activities.ListByOrganization(ctx, organizationID, ownerID)
		activitiesCh <- activitiesResult{activities, err}
	}()

	dr := <-dealsCh
	ar := <-activitiesCh

	if dr.err != nil {
		uc.logger.Error("dashboard deals query failed", "organization_id", organizationID, "err", dr.err)
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load deals: " + dr.err.Error()}
	}
	if ar.err != nil {
		uc.logger.Error("dashboard activities query failed", "organization_id", organizationID, "err", ar.err)
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load activities: " + ar.err.Error()}
	}

	return &DashboardStats{
		Forecast: CalculateForecast(dr.deals),
		KPIs:     CalculateActivityKPIs(ar.activities, uc.now()),
	}, nil
}

// CalculateForecast sums open deals at face and probability-weighted value
// and derives the historical won-rate from closed deals.
func CalculateForecast(deals []*entity.Deal) ForecastData {
	var f ForecastData
	var won, closed int

	for _, d := range deals {
		switch d.Status {
		case entity.DealStatusOpen:
			f.TotalValue += d.Value
			f.WeightedValue += d.WeightedValue()
			f.DealCount++
		case entity.DealStatusWon:
			won++
			closed++
		case entity.DealStatusLost:
			closed++
		}
	}

	if f.DealCount > 0 {
		f.AverageDealSize = f.TotalValue / float64(f.DealCount)
	}
	if closed > 0 {
		f.ConversionRate = float64(won) / float64(closed) * 100
	}
	return f
}

// CalculateActivityKPIs counts activities in the trailing day, week and
// 30-day month, grouped by type.
func CalculateActivityKPIs(activities []*entity.Activity, now time.Time) ActivityKPIs {
	kpis := ActivityKPIs{ByType: map[string]int{}}

	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	for _, a := range activities {
		if a.CreatedAt.After(dayAgo) {
			kpis.Daily++
		}
		if a.CreatedAt.After(weekAgo) {
			kpis.Weekly++
		}
		if a.CreatedAt.After(monthAgo) {
			kpis.Monthly++
		}

		typ := a.ActivityType
		if typ == "" {
			typ = "Other"
		}
		kpis.ByType[typ]++
	}
	return kpis
}

// ConvertCurrency crosses an amount through USD using a rate table keyed by
// currency code, where each rate is units per USD.
func ConvertCurrency(amount float64, from, to string, rates map[string]float64) float64 {
	if from == to {
		return amount
	}
	base := amount
	if from != "USD" {
		rate, ok := rates[from]
		if !ok || rate == 0 {
			return 0
		}
		base = amount / rate
	}
	if to == "USD" {
		return base
	}
	rate, ok := rates[to]
	if !ok {
		return 0
	}
	return base * rate
}

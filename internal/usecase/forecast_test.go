package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/satiscrm/crm-api/internal/entity"
)

func TestCalculateForecastWeighting(t *testing.T) {
	deals := []*entity.Deal{
		{Status: entity.DealStatusOpen, Value: 1000, CloseProbability: entity.CloseProbabilityLow},
		{Status: entity.DealStatusOpen, Value: 1000, CloseProbability: entity.CloseProbabilityMedium},
		{Status: entity.DealStatusOpen, Value: 1000, CloseProbability: entity.CloseProbabilityHigh},
	}

	f := CalculateForecast(deals)

	assert.Equal(t, 3000.0, f.TotalValue)
	assert.Equal(t, 250.0+500.0+750.0, f.WeightedValue)
	assert.Equal(t, 3, f.DealCount)
	assert.Equal(t, 1000.0, f.AverageDealSize)
}

func TestCalculateForecastConversionRate(t *testing.T) {
	deals := []*entity.Deal{
		{Status: entity.DealStatusWon, Value: 500},
		{Status: entity.DealStatusWon, Value: 500},
		{Status: entity.DealStatusLost, Value: 500},
		{Status: entity.DealStatusLost, Value: 500},
		{Status: entity.DealStatusOnHold, Value: 500},
	}

	f := CalculateForecast(deals)

	assert.Equal(t, 50.0, f.ConversionRate)
	// Closed and on-hold deals do not contribute to the open forecast.
	assert.Equal(t, 0, f.DealCount)
	assert.Equal(t, 0.0, f.TotalValue)
}

func TestCalculateForecastEmpty(t *testing.T) {
	f := CalculateForecast(nil)

	assert.Equal(t, 0.0, f.TotalValue)
	assert.Equal(t, 0.0, f.AverageDealSize)
	assert.Equal(t, 0.0, f.ConversionRate)
}

func TestCalculateForecastUnknownProbabilityDefaultsToMedium(t *testing.T) {
	deals := []*entity.Deal{
		{Status: entity.DealStatusOpen, Value: 2000, CloseProbability: ""},
	}

	f := CalculateForecast(deals)

	assert.Equal(t, 1000.0, f.WeightedValue)
}

func TestCalculateActivityKPIs(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	activities := []*entity.Activity{
		{ActivityType: "call", CreatedAt: now.Add(-2 * time.Hour)},
		{ActivityType: "call", CreatedAt: now.Add(-3 * 24 * time.Hour)},
		{ActivityType: "email", CreatedAt: now.Add(-20 * 24 * time.Hour)},
		{ActivityType: "", CreatedAt: now.Add(-1 * time.Hour)},
	}

	kpis := CalculateActivityKPIs(activities, now)

	assert.Equal(t, 2, kpis.Daily)
	assert.Equal(t, 3, kpis.Weekly)
	assert.Equal(t, 4, kpis.Monthly)
	assert.Equal(t, 2, kpis.ByType["call"])
	assert.Equal(t, 1, kpis.ByType["email"])
	assert.Equal(t, 1, kpis.ByType["Other"])
}

func TestDashboardUseCaseJoinsBothReads(t *testing.T) {
	ctx := context.Background()
	deals := new(MockDealRepository)
	activities := new(MockActivityRepository)

	deals.On("ListByOrganization", ctx, "org-1").Return([]*entity.Deal{
		{Status: entity.DealStatusOpen, Value: 100, CloseProbability: entity.CloseProbabilityHigh},
	}, nil)
	activities.On("ListByOrganization", ctx, "org-1", "user-1").Return([]*entity.Activity{
		{ActivityType: "meeting", CreatedAt: time.Now().Add(-time.Hour)},
	}, nil)

	uc := NewDashboardUseCase(deals, activities, log.New(io.Discard))
	stats, err := uc.Execute(ctx, "org-1", "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 100.0, stats.Forecast.TotalValue)
	assert.Equal(t, 1, stats.KPIs.Daily)
}

func TestConvertCurrencyThroughUSD(t *testing.T) {
	rates := map[string]float64{"TRY": 32.0, "EUR": 0.92}

	assert.InDelta(t, 100.0, ConvertCurrency(100, "USD", "USD", rates), 0.0001)
	assert.InDelta(t, 3200.0, ConvertCurrency(100, "USD", "TRY", rates), 0.0001)
	assert.InDelta(t, 100.0, ConvertCurrency(3200, "TRY", "USD", rates), 0.0001)
	assert.InDelta(t, 92.0, ConvertCurrency(3200, "TRY", "EUR", rates), 0.0001)
	// Unknown currency degrades to zero rather than guessing.
	assert.Equal(t, 0.0, ConvertCurrency(100, "XXX", "USD", rates))
}

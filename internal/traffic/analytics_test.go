package traffic_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/talgya/shopkeep/internal/customer"
	"github.com/talgya/shopkeep/internal/session"
	"github.com/talgya/shopkeep/internal/shop"
	"github.com/talgya/shopkeep/internal/traffic"
)

func visitAt(hour int, arch customer.Archetype, dur time.Duration, tx *shop.Transaction) traffic.Record {
	r := traffic.Record{
		CustomerID:           uuid.New(),
		CustomerName:         "Visitor",
		Archetype:            arch,
		EnteredAt:            time.Date(2026, 8, 30, hour, 12, 0, 0, time.UTC),
		Duration:             dur,
		Satisfaction:         session.SatNeutral,
		CompletedTransaction: tx,
	}
	if tx != nil {
		r.MadePurchase = true
		r.Amount = tx.Price
	}
	return r
}

func TestComputeEmptyHistory(t *testing.T) {
	a := traffic.Compute(nil)
	assert.Zero(t, a.TotalVisits)
	assert.Zero(t, a.ConversionRate)
	assert.Equal(t, -1, a.PeakHour)
	assert.Empty(t, a.ByArchetype)
}

func TestComputeAggregates(t *testing.T) {
	tx1 := &shop.Transaction{Price: 40, Timestamp: time.Now()}
	tx2 := &shop.Transaction{Price: 60, Timestamp: time.Now()}
	records := []traffic.Record{
		visitAt(9, customer.ArchCasual, 2*time.Minute, nil),
		visitAt(14, customer.ArchNoble, 4*time.Minute, tx1),
		visitAt(14, customer.ArchCasual, 6*time.Minute, tx2),
		visitAt(17, customer.ArchVeteran, 4*time.Minute, nil),
	}

	a := traffic.Compute(records)
	assert.Equal(t, 4, a.TotalVisits)
	assert.Equal(t, 2, a.Purchases)
	assert.InDelta(t, 0.5, a.ConversionRate, 1e-9)
	assert.InDelta(t, 100, a.TotalRevenue, 1e-9)
	assert.Equal(t, 4*time.Minute, a.AvgDuration)
	assert.Equal(t, 14, a.PeakHour)
	assert.Equal(t, map[string]int{"casual": 2, "noble": 1, "veteran": 1}, a.ByArchetype)
}

func TestPeakHourEarliestWinsTies(t *testing.T) {
	records := []traffic.Record{
		visitAt(8, customer.ArchCasual, time.Minute, nil),
		visitAt(19, customer.ArchCasual, time.Minute, nil),
	}
	a := traffic.Compute(records)
	assert.Equal(t, 8, a.PeakHour)
}

func TestPurchaseFlagMatchesTransaction(t *testing.T) {
	records := []traffic.Record{
		visitAt(10, customer.ArchMerchant, time.Minute, &shop.Transaction{Price: 25}),
		visitAt(11, customer.ArchNovice, time.Minute, nil),
	}
	for _, r := range records {
		assert.Equal(t, r.MadePurchase, r.CompletedTransaction != nil)
	}
	a := traffic.Compute(records)
	assert.Equal(t, 1, a.Purchases)
	assert.InDelta(t, 25, a.TotalRevenue, 1e-9)
}

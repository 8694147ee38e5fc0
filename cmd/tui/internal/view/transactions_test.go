package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTransactionsModel_ApplyFilter(t *testing.T) {
	m := NewTransactionsModel(nil, uuid.New())
	now := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)

	assert.True(t, m.filter.Unconfirmed)
	assert.Nil(t, m.filter.StartDate)

	m.unconfirmedOnly = false
	m.timeframe = TimeframeThisMonth
	m.applyFilter(now)

	assert.False(t, m.filter.Unconfirmed)
	if assert.NotNil(t, m.filter.StartDate) && assert.NotNil(t, m.filter.EndDate) {
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *m.filter.StartDate)
		assert.Equal(t, time.Date(2026, 3, 12, 23, 59, 59, 0, time.UTC), *m.filter.EndDate)
	}

	m.timeframe = TimeframeAll
	m.applyFilter(now)

	assert.Nil(t, m.filter.StartDate)
	assert.Nil(t, m.filter.EndDate)
}

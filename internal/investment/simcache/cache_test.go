package simcache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investr-engine/internal/common/logger"
	"investr-engine/internal/models"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func testLoan() models.LoanInput {
	return models.LoanInput{
		PropertyPrice: 200000, DownPayment: 40000, MortgageRate: 5,
		RentalIncome: 1200, AppreciationRate: 3, Years: 10,
	}
}

func testResult() *models.MortgageSimulationResult {
	return &models.MortgageSimulationResult{
		MonthlyPayment: 1697.05, FutureValue: 268783.28, TotalRentIncome: 144000,
		TotalMortgagePaid: 203645.79, NetProfit: 9137.49, ROI: 22.84, AnnualCashflow: -5964.58,
	}
}

func TestKey(t *testing.T) {
	a := Key(testLoan())
	assert.True(t, strings.HasPrefix(a, "mortgage:sim:"))
	assert.Len(t, a, len("mortgage:sim:")+64)
	assert.Equal(t, a, Key(testLoan()))

	other := testLoan()
	other.Years = 15
	assert.NotEqual(t, a, Key(other))
}

func TestCache_RoundTrip(t *testing.T) {
	mr, client := setupRedis(t)
	c := New(client, 10*time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	_, ok := c.Get(ctx, testLoan())
	assert.False(t, ok)

	c.Put(ctx, testLoan(), testResult())

	got, ok := c.Get(ctx, testLoan())
	require.True(t, ok)
	assert.Equal(t, testResult(), got)
	assert.Equal(t, 10*time.Minute, mr.TTL(Key(testLoan())))

	mr.FastForward(11 * time.Minute)
	_, ok = c.Get(ctx, testLoan())
	assert.False(t, ok)
}

func TestCache_CorruptEntry(t *testing.T) {
	mr, client := setupRedis(t)
	c := New(client, 0, logger.NewNoOpLogger())

	require.NoError(t, mr.Set(Key(testLoan()), "{not json"))
	_, ok := c.Get(context.Background(), testLoan())
	assert.False(t, ok)
}

func TestCache_RedisErrorsDegrade(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := New(client, time.Minute, logger.NewNoOpLogger())
	ctx := context.Background()
	key := Key(testLoan())

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	_, ok := c.Get(ctx, testLoan())
	assert.False(t, ok)

	data, _ := json.Marshal(testResult())
	mock.ExpectSet(key, data, time.Minute).SetErr(errors.New("connection refused"))
	c.Put(ctx, testLoan(), testResult())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_NilClient(t *testing.T) {
	c := New(nil, time.Minute, logger.NewNoOpLogger())
	_, ok := c.Get(context.Background(), testLoan())
	assert.False(t, ok)
	c.Put(context.Background(), testLoan(), testResult())

	var nilCache *Cache
	_, ok = nilCache.Get(context.Background(), testLoan())
	assert.False(t, ok)
}

func TestCache_GetOrCompute(t *testing.T) {
	mr, client := setupRedis(t)
	c := New(client, time.Minute, logger.NewNoOpLogger())
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context, in models.LoanInput) (*models.MortgageSimulationResult, error) {
		calls++
		return testResult(), nil
	}

	res, cached, err := c.GetOrCompute(ctx, testLoan(), compute)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, testResult(), res)
	assert.True(t, mr.Exists(Key(testLoan())))

	res, cached, err = c.GetOrCompute(ctx, testLoan(), compute)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, testResult(), res)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrCompute_ErrorNotStored(t *testing.T) {
	mr, client := setupRedis(t)
	c := New(client, time.Minute, logger.NewNoOpLogger())

	boom := errors.New("invalid loan")
	res, cached, err := c.GetOrCompute(context.Background(), testLoan(),
		func(context.Context, models.LoanInput) (*models.MortgageSimulationResult, error) {
			return nil, boom
		})

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, res)
	assert.False(t, cached)
	assert.Empty(t, mr.Keys())
}

func TestCache_GetOrCompute_WithoutRedis(t *testing.T) {
	var nilCache *Cache
	calls := 0
	compute := func(context.Context, models.LoanInput) (*models.MortgageSimulationResult, error) {
		calls++
		return testResult(), nil
	}

	for i := 0; i < 2; i++ {
		res, cached, err := nilCache.GetOrCompute(context.Background(), testLoan(), compute)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, testResult(), res)
	}
	assert.Equal(t, 2, calls)
}

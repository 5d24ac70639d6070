// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investr-engine/internal/api"
	"investr-engine/internal/common/config"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/investment/engine"
	"investr-engine/internal/investment/features"
	"investr-engine/internal/investment/history"
	"investr-engine/internal/investment/model"
	"investr-engine/internal/investment/sampling"
	"investr-engine/internal/investment/simcache"
	"investr-engine/internal/models"
	"investr-engine/pkg/registry"

	rr "investr-engine/internal/workers/investment/record-recommendation"
	sm "investr-engine/internal/workers/investment/simulate-mortgage"
)

const projectRoot = "../.."

// stack is the in-process deployment: real config, artifact and registry,
// with miniredis, sqlmock and a fake search cluster standing in for services.
type stack struct {
	cfg      *config.Config
	engine   *engine.Engine
	registry *registry.ActivityRegistry
	router   http.Handler
	redis    *redis.Client
	mr       *miniredis.Miniredis
	sqlMock  sqlmock.Sqlmock
	recorder *history.Recorder

	mu      sync.Mutex
	indexed []string
}

func setupStack(t *testing.T, src sampling.Source) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)

	cfg, err := config.LoadFromFile(filepath.Join(projectRoot, "configs", "config.yaml"))
	require.NoError(t, err)

	adapter, err := model.Load(filepath.Join(projectRoot, cfg.Model.ArtifactPath), features.V1, log)
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(filepath.Join(projectRoot, cfg.Model.RegistryPath))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := &stack{cfg: cfg, registry: reg, redis: rdb, mr: mr, sqlMock: mock}

	es := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.indexed = append(s.indexed, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	t.Cleanup(es.Close)

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{es.URL}})
	require.NoError(t, err)

	s.engine = engine.New(adapter, src, log)
	s.recorder = history.NewRecorder(
		history.NewPostgresStore(db),
		history.NewElasticsearchIndexer(esClient, cfg.History.Index),
		log,
	)
	s.router = api.NewRouter(s.engine, api.Options{
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
		Cache:          simcache.New(rdb, time.Duration(cfg.Cache.SimulationTTL)*time.Second, log),
		Checks: map[string]api.ReadinessCheck{
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	}, log)
	return s
}

func (s *stack) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *stack) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestFullE2E(t *testing.T) {
	s := setupStack(t, sampling.Fixed(0.99))
	log := logger.NewTestLogger(t)

	t.Run("probes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, s.get("/health").Code)
		assert.Equal(t, http.StatusOK, s.get("/ready").Code)
	})

	var rec models.RecommendationResponse
	t.Run("recommend over HTTP", func(t *testing.T) {
		w := s.post(t, "/api/recommend", map[string]interface{}{
			"title":         "2 bed flat for sale, Bow, London E3",
			"price":         "300,000",
			"bedrooms":      "2",
			"bathrooms":     1,
			"sizeSqFeetMax": 600,
			"property_type": "flat",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))

		assert.Equal(t, models.LabelBuy, rec.Recommendation)
		assert.Equal(t, models.RegionEast, rec.Region)
		assert.Equal(t, 300000.0, rec.PriceProjection[0])
		assert.Len(t, rec.PriceProjection, 6)
		assert.True(t, rec.ShowGrowthChart != rec.ShowROIChart)
	})

	t.Run("record through the worker", func(t *testing.T) {
		require.NotEmpty(t, rec.RecommendationID)

		schema, err := s.registry.InputValidator(rr.TaskType)
		require.NoError(t, err)
		h := rr.NewHandler(rr.LoadConfig(s.cfg.Workers[rr.TaskType]), s.recorder, schema, log)

		s.sqlMock.ExpectExec("INSERT INTO recommendation_history").
			WithArgs(rec.RecommendationID, "2 bed flat for sale, Bow, London E3", 300000.0,
				rec.Region, rec.Recommendation, rec.Confidence, rec.ROI, rec.GrowthRate,
				rec.ModelVersion, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		out, err := h.Execute(context.Background(), map[string]interface{}{
			"recommendationId": rec.RecommendationID,
			"propertyTitle":    "2 bed flat for sale, Bow, London E3",
			"price":            300000.0,
			"region":           rec.Region,
			"recommendation":   rec.Recommendation,
			"confidence":       rec.Confidence,
			"roi":              rec.ROI,
			"growthRate":       rec.GrowthRate,
			"modelVersion":     rec.ModelVersion,
		})
		require.NoError(t, err)
		assert.True(t, out.Recorded)
		assert.NoError(t, s.sqlMock.ExpectationsWereMet())

		s.mu.Lock()
		defer s.mu.Unlock()
		require.Len(t, s.indexed, 1)
		assert.True(t, strings.HasSuffix(s.indexed[0], "/property-recommendations/_doc/"+rec.RecommendationID), s.indexed[0])
	})

	t.Run("simulate via worker then API cache", func(t *testing.T) {
		loan := map[string]interface{}{
			"property_price":    200000,
			"down_payment":      40000,
			"mortgage_rate":     5,
			"rental_income":     1200,
			"appreciation_rate": 3,
			"years":             10,
		}

		schema, err := s.registry.InputValidator(sm.TaskType)
		require.NoError(t, err)
		h := sm.NewHandler(sm.LoadConfig(s.cfg.Workers[sm.TaskType], s.cfg.Cache), s.engine, s.redis, schema, log)

		out, err := h.Execute(context.Background(), loan)
		require.NoError(t, err)
		assert.False(t, out.Cached)
		assert.Equal(t, 1697.05, out.MonthlyPayment)
		assert.Equal(t, 22.84, out.ROI)

		w := s.post(t, "/api/simulate", loan)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp api.SimulationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Cached)
		assert.Equal(t, out.MortgageSimulationResult, resp.MortgageSimulationResult)
	})
}

func TestE2E_AvoidPath(t *testing.T) {
	s := setupStack(t, sampling.Fixed(0))

	w := s.post(t, "/api/recommend", map[string]interface{}{
		"title":         "3 bed house, Mayfair, London W1",
		"price":         950000,
		"bedrooms":      3,
		"bathrooms":     2,
		"sizeSqFeetMax": 1400,
		"property_type": "House",
		"region":        "Central",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rec models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, models.LabelAvoid, rec.Recommendation)
	assert.Equal(t, models.RegionCentral, rec.Region)
	assert.Equal(t, 2.0, rec.GrowthRate)
}

func TestE2E_InvalidRequestsAreRejected(t *testing.T) {
	s := setupStack(t, sampling.Fixed(0.5))

	w := s.post(t, "/api/simulate", map[string]interface{}{
		"property_price":    200000,
		"down_payment":      0,
		"mortgage_rate":     5,
		"rental_income":     1200,
		"appreciation_rate": 3,
		"years":             10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	assert.Zero(t, len(s.mr.Keys()))
}

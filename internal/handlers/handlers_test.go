package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrodyn-platform/internal/models"
	"astrodyn-platform/internal/repository"
	"astrodyn-platform/internal/services"
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/frames"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
)

const arcsecRad = math.Pi / (180.0 * 3600.0)

// fakeRepo serves canned coverage and dataset answers.
type fakeRepo struct {
	coverage  map[iau.Convention]*models.CoverageSummary
	datasets  []*models.EOPDataset
	healthErr error
}

func (f *fakeRepo) CreateDataset(ctx context.Context, dataset *models.EOPDataset) error {
	return nil
}

func (f *fakeRepo) GetDataset(ctx context.Context, id int64) (*models.EOPDataset, error) {
	return nil, errors.NewNotFoundError("eop_dataset %d", id)
}

func (f *fakeRepo) ListDatasets(ctx context.Context, filter repository.DatasetFilter) ([]*models.EOPDataset, int, error) {
	start := filter.Offset
	if start > len(f.datasets) {
		start = len(f.datasets)
	}
	end := start + filter.Limit
	if end > len(f.datasets) {
		end = len(f.datasets)
	}
	return f.datasets[start:end], len(f.datasets), nil
}

func (f *fakeRepo) InsertEntriesBatch(ctx context.Context, entries []models.EOPEntryRow) error {
	return nil
}

func (f *fakeRepo) EntriesForConvention(ctx context.Context, convention iau.Convention) ([]models.EOPEntryRow, error) {
	return nil, nil
}

func (f *fakeRepo) CoverageForConvention(ctx context.Context, convention iau.Convention) (*models.CoverageSummary, error) {
	if summary, ok := f.coverage[convention]; ok {
		copied := *summary
		return &copied, nil
	}
	return nil, errors.NewNotFoundError("no stored coverage for %s", convention)
}

func (f *fakeRepo) HealthCheck(ctx context.Context) error {
	return f.healthErr
}

func staticEntries(conv iau.Convention, startMJD float64, days int) []eop.Entry {
	converter := conv.NutationCorrectionConverter()
	entries := make([]eop.Entry, 0, days)
	for d := 0; d < days; d++ {
		entries = append(entries, eop.NewEntryFromEquinox(converter, startMJD+float64(d),
			0.2+0.0005*float64(d), 0.0012,
			0.05*arcsecRad, 0.30*arcsecRad,
			-0.052*arcsecRad, -0.004*arcsecRad))
	}
	return entries
}

// newTestRouter wires the full API against a registry fed by static Earth
// orientation data and the given repository fake.
func newTestRouter(t *testing.T, repo repository.EOPRepository) *mux.Router {
	t.Helper()

	reg := frames.NewRegistry(frames.Options{})
	for _, conv := range iau.Conventions {
		reg.AddEOPLoaders(conv, eop.StaticLoader{Entries: staticEntries(conv, 51535, 21)})
	}

	logger := logging.NewNop()
	collector := metrics.NewCollectorWith("astro_handlers_test", prometheus.NewRegistry())

	transformService := services.NewTransformService(reg, logger, collector)
	coverageService := services.NewCoverageService(repo, 5.0, logger, collector)
	handler := NewFrameHandler(transformService, coverageService, repo, logger, collector)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func doGET(t *testing.T, router *mux.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetFramesListsVocabulary(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	rec := doGET(t, router, "/api/frames")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data  []models.FrameInfo `json:"data"`
		Count int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(frames.AllKeys()), body.Count)
	require.Len(t, body.Data, body.Count)

	byKey := make(map[string]models.FrameInfo, len(body.Data))
	for _, info := range body.Data {
		byKey[info.Key] = info
	}

	assert.True(t, byKey["GCRF"].PseudoInertial)
	assert.Empty(t, byKey["GCRF"].Parent)
	assert.Equal(t, "GCRF", byKey["EME2000"].Parent)
	assert.False(t, byKey["ITRF/2010 accurate EOP"].PseudoInertial)
}

func TestGetTransformComputesEarthRotation(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	query := url.Values{}
	query.Set("from", "J2000")
	query.Set("to", "ITRF2008")
	query.Set("date", "2000-01-01T12:00:00Z")

	rec := doGET(t, router, "/api/transform?"+query.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.TransformResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "EME2000", resp.From)
	assert.Equal(t, "ITRF/2010 accurate EOP", resp.To)
	assert.True(t, resp.Interpolated)

	norm := 0.0
	for _, q := range resp.Rotation {
		norm += q * q
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-12)
	assert.NotZero(t, resp.RotationRate[2])
}

func TestGetTransformRawSkipsInterpolation(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	query := url.Values{}
	query.Set("from", "GCRF")
	query.Set("to", frames.TODKey(iau.Conventions1996, false).String())
	query.Set("date", "2000-01-01T12:00:00Z")
	query.Set("raw", "true")

	rec := doGET(t, router, "/api/transform?"+query.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.TransformResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Interpolated)
}

func TestGetTransformRejectsBadRequests(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	cases := []struct {
		name   string
		target string
	}{
		{"missing date", "/api/transform?from=GCRF&to=J2000"},
		{"unknown frame", "/api/transform?from=BOGUS&to=GCRF&date=2000-01-01T12:00:00Z"},
		{"malformed date", "/api/transform?from=GCRF&to=J2000&date=yesterday"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doGET(t, router, tc.target)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, http.StatusBadRequest, errResp.Code)
			assert.Equal(t, "Bad Request", errResp.Error)
			assert.NotEmpty(t, errResp.Message)
		})
	}
}

func TestPostTransformMapsState(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	reqBody := models.TransformRequest{
		From:     "GCRF",
		To:       frames.ITRFKey(iau.Conventions2010, false).String(),
		Date:     "2000-01-01T12:00:00Z",
		Position: &[3]float64{7000e3, 0, 0},
		Velocity: &[3]float64{0, 7.5e3, 0},
	}
	buf, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/transform", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.TransformResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Position)
	require.NotNil(t, resp.PVVelocity)

	mapped := math.Sqrt(resp.Position[0]*resp.Position[0] +
		resp.Position[1]*resp.Position[1] +
		resp.Position[2]*resp.Position[2])
	assert.InDelta(t, 7000e3, mapped, 1e-3)
}

func TestPostTransformRejectsBadBody(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/transform", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEOPReturnsTabulatedValues(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	query := url.Values{}
	query.Set("convention", "2010")
	query.Set("date", "2000-01-01T00:00:00Z")
	query.Set("simple", "true")

	rec := doGET(t, router, "/api/eop?"+query.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var values models.EOPValues
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &values))
	assert.Equal(t, "2010", values.Convention)
	assert.InDelta(t, 51544.0, values.MJD, 1e-9)
	assert.InDelta(t, 0.2+0.0005*9, values.DUT1, 1e-9)
	assert.InDelta(t, 0.05*arcsecRad, values.PoleX, 1e-15)
	assert.NotZero(t, values.DX)
}

func TestGetEOPRejectsBadRequests(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	rec := doGET(t, router, "/api/eop?convention=1999&date=2000-01-01T00:00:00Z")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGET(t, router, "/api/eop?convention=2010")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCoverageReportsStoredSpans(t *testing.T) {
	repo := &fakeRepo{coverage: map[iau.Convention]*models.CoverageSummary{
		iau.Conventions1996: {Convention: "1996", StartMJD: 51535, EndMJD: 51555, EntryCount: 21, LargestGapDays: 1},
		iau.Conventions2010: {Convention: "2010", StartMJD: 51535, EndMJD: 51600, EntryCount: 10, LargestGapDays: 7.5},
	}}
	router := newTestRouter(t, repo)

	rec := doGET(t, router, "/api/eop/coverage?convention=1996")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary models.CoverageSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.True(t, summary.Continuous)
	assert.Equal(t, 21, summary.EntryCount)

	rec = doGET(t, router, "/api/eop/coverage?convention=2010")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.False(t, summary.Continuous)

	rec = doGET(t, router, "/api/eop/coverage?convention=2003")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doGET(t, router, "/api/eop/coverage?convention=1999")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGET(t, router, "/api/eop/coverage")
	require.Equal(t, http.StatusOK, rec.Code)
	var sweep struct {
		Data  []models.CoverageSummary `json:"data"`
		Count int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sweep))
	assert.Equal(t, 2, sweep.Count)
	require.Len(t, sweep.Data, 2)
}

func TestGetDatasetsPaginates(t *testing.T) {
	repo := &fakeRepo{datasets: []*models.EOPDataset{
		{ID: 1, Convention: "2010", Source: "eopc04_08_IAU2000.62", Format: models.DatasetFormatC04, EntryCount: 366},
		{ID: 2, Convention: "2003", Source: "eopc04_08_IAU2000.62", Format: models.DatasetFormatC04, EntryCount: 366},
		{ID: 3, Convention: "1996", Source: "eopc04_08.62", Format: models.DatasetFormatC04, EntryCount: 366},
	}}
	router := newTestRouter(t, repo)

	rec := doGET(t, router, "/api/eop/datasets?limit=2&page=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data       []models.EOPDataset `json:"data"`
		Total      int                 `json:"total"`
		Page       int                 `json:"page"`
		Limit      int                 `json:"limit"`
		TotalPages int                 `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 2, body.TotalPages)
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(3), body.Data[0].ID)
}

func TestHealthCheckReportsStoreState(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	rec := doGET(t, router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["status"])

	router = newTestRouter(t, &fakeRepo{healthErr: errors.New("connection refused")})
	rec = doGET(t, router, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status["status"])
}

func TestOpenAPISpecDescribesRoutes(t *testing.T) {
	router := newTestRouter(t, &fakeRepo{})

	rec := doGET(t, router, "/api/docs/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var spec map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, "3.0.0", spec["openapi"])

	paths, ok := spec["paths"].(map[string]interface{})
	require.True(t, ok)
	for _, path := range []string{"/api/frames", "/api/transform", "/api/eop", "/api/eop/coverage", "/api/eop/datasets", "/health"} {
		assert.Contains(t, paths, path)
	}

	rec = doGET(t, router, "/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

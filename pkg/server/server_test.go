package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjk624/shinryeong/pkg/models/api"
	"github.com/yjk624/shinryeong/pkg/runtime/app"
	"github.com/yjk624/shinryeong/pkg/services/config"
)

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var v T
		err := json.Unmarshal(data, &v)
		return v, err
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Geocoder.Provider = config.ProviderGazetteer

	services, err := app.New(ctx, cfg)
	require.NoError(t, err)

	router := ConfigureRouter(Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Assembler: services.Assembler,
			Converter: services.Converter,
			Places:    services.Gazetteer,
			Logger:    logger,
		},
	})
	return httptest.NewServer(router)
}

func TestWebAPI_Endpoints(t *testing.T) {
	testServer := newTestServer(t)
	defer testServer.Close()

	minji := api.BirthRequest{Name: "Minji", Date: "1990-05-15", Time: "14:30", Gender: "male", Place: "Seoul"}
	jiho := api.BirthRequest{Name: "Jiho", Date: "1992-11-03", Time: "08:00", Gender: "female", Place: "부산"}

	tests := []struct {
		name           string
		method         string
		path           string
		body           any
		expectedStatus int
		parseResponse  func([]byte) (interface{}, error)
		check          func(t *testing.T, v interface{})
	}{
		{
			name:           "CreateChart",
			method:         http.MethodPost,
			path:           "/api/v1/charts",
			body:           minji,
			expectedStatus: http.StatusOK,
			parseResponse:  unmarshalResponse[api.Report](),
			check: func(t *testing.T, v interface{}) {
				r := v.(api.Report)
				require.Len(t, r.Charts, 1)
				var keys []string
				for _, p := range r.Charts[0].Pillars {
					keys = append(keys, p.Key)
				}
				assert.Equal(t, []string{"gyeong-o", "sin-sa", "gyeong-jin", "gye-mi"}, keys)
				assert.Equal(t, "forward", r.Charts[0].Luck.Direction)
				assert.Len(t, r.Sections, 8)
			},
		},
		{
			name:           "CreateChart_UnknownPlace",
			method:         http.MethodPost,
			path:           "/api/v1/charts",
			body:           api.BirthRequest{Name: "Minji", Date: "1990-05-15", Time: "14:30", Gender: "male", Place: "Atlantis"},
			expectedStatus: http.StatusUnprocessableEntity,
			parseResponse:  unmarshalResponse[api.Error](),
			check: func(t *testing.T, v interface{}) {
				e := v.(api.Error)
				assert.Equal(t, "location_not_resolved", e.Kind)
				assert.Equal(t, "Minji", e.Subject)
			},
		},
		{
			name:           "CreateCompatibility",
			method:         http.MethodPost,
			path:           "/api/v1/compatibility",
			body:           api.CompatibilityRequest{A: minji, B: jiho},
			expectedStatus: http.StatusOK,
			parseResponse:  unmarshalResponse[api.Report](),
			check: func(t *testing.T, v interface{}) {
				r := v.(api.Report)
				require.NotNil(t, r.Compatibility)
				assert.GreaterOrEqual(t, r.Compatibility.Score, 0)
				assert.LessOrEqual(t, r.Compatibility.Score, 100)
				assert.Equal(t, "compat_summary", r.Sections[len(r.Sections)-1].Category)
			},
		},
		{
			name:           "LunarToSolar",
			method:         http.MethodGet,
			path:           "/api/v1/calendar/solar?date=1990-04-21",
			expectedStatus: http.StatusOK,
			parseResponse:  unmarshalResponse[api.CalendarDate](),
			check: func(t *testing.T, v interface{}) {
				assert.Equal(t, "1990-05-15", v.(api.CalendarDate).Solar)
			},
		},
		{
			name:           "SolarToLunar_InvalidDate",
			method:         http.MethodGet,
			path:           "/api/v1/calendar/lunar?date=invalid-date",
			expectedStatus: http.StatusBadRequest,
			parseResponse:  unmarshalResponse[api.Error](),
			check: func(t *testing.T, v interface{}) {
				assert.Equal(t, "input_incomplete", v.(api.Error).Kind)
			},
		},
		{
			name:           "ListPlaces",
			method:         http.MethodGet,
			path:           "/api/v1/places",
			expectedStatus: http.StatusOK,
			parseResponse:  unmarshalResponse[[]string](),
			check: func(t *testing.T, v interface{}) {
				assert.Contains(t, v.([]string), "Seoul")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != nil {
				data, err := json.Marshal(tt.body)
				require.NoError(t, err)
				body = bytes.NewReader(data)
			}
			req, err := http.NewRequest(tt.method, testServer.URL+tt.path, body)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			v, err := tt.parseResponse(data)
			require.NoError(t, err)
			tt.check(t, v)
		})
	}
}

func TestWebAPI_NotFound(t *testing.T) {
	testServer := newTestServer(t)
	defer testServer.Close()

	resp, err := http.Get(testServer.URL + "/api/v1/horoscope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

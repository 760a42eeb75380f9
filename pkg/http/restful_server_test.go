package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	_ "liyu1981.xyz/thp-sensor-service/pkg/testing"

	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/db"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
	"liyu1981.xyz/thp-sensor-service/pkg/notify"
	notifymocks "liyu1981.xyz/thp-sensor-service/pkg/notify/mocks"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor/mocks"
	"liyu1981.xyz/thp-sensor-service/pkg/threshold"
)

func setupTestServerWithLimiter(t *testing.T, limiter *sensor.RateLimiterStore) (*RestfulServer, *mocks.MockINotifier) {
	ctrl := gomock.NewController(t)
	mockINotifier := mocks.NewMockINotifier(ctrl)

	dbInstance := db.GetInstance(db.UseMemorySqliteDialector())
	require.NoError(t, dbInstance.Conn.Where("1 = 1").Delete(&models.Reading{}).Error)

	sensorObj := sensor.Sensor{Db: *dbInstance}
	sensorObj.WithServices(sensor.ServiceOpts{
		Reading:  sensorObj.GetIReading(),
		Notifier: mockINotifier,
	})

	gin.SetMode(gin.TestMode)
	rs := &RestfulServer{
		Server:           gin.New(),
		Sensor:           &sensorObj,
		RateLimiterStore: limiter,
	}

	rs.Setup()

	return rs, mockINotifier
}

func setupTestServer(t *testing.T) *RestfulServer {
	// default we use no limiter
	rs, mockINotifier := setupTestServerWithLimiter(t, nil)
	mockINotifier.EXPECT().CheckAndNotify(gomock.Any()).AnyTimes()
	return rs
}

func doJSON(rs *RestfulServer, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		payload = b
	default:
		payload, _ = json.Marshal(b)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func livingRoom(temp float64) ReadingRequest {
	return ReadingRequest{
		Location:           "Living Room",
		TemperatureCelsius: temp,
		HumidityPercent:    55,
		PressureHpa:        1010,
	}
}

func TestHealthCheck(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	w := doJSON(rs, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestNotFoundRoute(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	w := doJSON(rs, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found."}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	w := doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(22))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(rs, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `thp_readings_ingested_total{source="http"}`)
}

func TestPostReading(t *testing.T) {
	common.SetTestLoggerNop()

	rs, mockINotifier := setupTestServerWithLimiter(t, nil)
	mockINotifier.EXPECT().
		CheckAndNotify(gomock.Any()).
		Do(func(r *models.Reading) {
			assert.Equal(t, "Kitchen", r.Location)
		}).
		Times(1)

	req := livingRoom(31.5)
	req.Location = "  Kitchen  "
	w := doJSON(rs, http.MethodPost, "/api/sensor", req)

	require.Equal(t, http.StatusCreated, w.Code)

	var reading models.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reading))
	_, err := uuid.Parse(reading.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Kitchen", reading.Location)
	assert.Equal(t, 31.5, reading.TemperatureCelsius)
	assert.False(t, reading.Timestamp.IsZero())

	var stored models.Reading
	require.NoError(t, rs.Sensor.Db.Conn.First(&stored, "id = ?", reading.ID).Error)
	assert.Equal(t, 55.0, stored.HumidityPercent)
}

func TestPostReading_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	cases := map[string][]byte{
		"empty payload":    []byte("{}"),
		"blank location":   []byte(`{"location":"   ","temperatureCelsius":20,"humidityPercent":50,"pressureHpa":1000}`),
		"missing pressure": []byte(`{"location":"Hall","temperatureCelsius":20,"humidityPercent":50}`),
		"word temperature": []byte(`{"location":"Hall","temperatureCelsius":"hot","humidityPercent":50,"pressureHpa":1000}`),
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(rs, http.MethodPost, "/api/sensor", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	var count int64
	require.NoError(t, rs.Sensor.Db.Conn.Model(&models.Reading{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostReading_StoreError(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	ctrl := gomock.NewController(t)
	mockIReading := mocks.NewMockIReading(ctrl)
	rs.Sensor.Reading = mockIReading
	mockIReading.EXPECT().
		CreateReading(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("just causing error")).
		Times(1)

	w := doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(20))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListReadings(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	for i := range 12 {
		w := doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(float64(20+i)))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	{
		w := doJSON(rs, http.MethodGet, "/api/sensor", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var readings []models.Reading
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
		assert.Len(t, readings, 10)
	}

	{
		w := doJSON(rs, http.MethodGet, "/api/sensor?page=2&limit=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var readings []models.Reading
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
		assert.Len(t, readings, 5)
	}

	{
		w := doJSON(rs, http.MethodGet, "/api/sensor?page=9", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	}
}

func TestListReadings_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	for _, query := range []string{"page=0", "limit=0", "limit=101", "page=abc", "limit=-3"} {
		w := doJSON(rs, http.MethodGet, "/api/sensor?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}

	ctrl := gomock.NewController(t)
	mockIReading := mocks.NewMockIReading(ctrl)
	rs.Sensor.Reading = mockIReading
	mockIReading.EXPECT().
		ListReadings(gomock.Eq(1), gomock.Eq(100)).
		Return(nil, fmt.Errorf("just causing error")).
		Times(1)

	w := doJSON(rs, http.MethodGet, "/api/sensor?limit=100", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetUpdateDeleteReading(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	w := doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(25))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(rs, http.MethodGet, "/api/sensor/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	update := livingRoom(26.5)
	update.Location = "Bedroom"
	w = doJSON(rs, http.MethodPut, "/api/sensor/"+created.ID, update)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Bedroom", updated.Location)
	assert.Equal(t, 26.5, updated.TemperatureCelsius)

	w = doJSON(rs, http.MethodDelete, "/api/sensor/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(rs, http.MethodGet, "/api/sensor/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Reading not found."}`, w.Body.String())
}

func TestGetUpdateDeleteReading_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	missing := uuid.NewString()

	assert.Equal(t, http.StatusNotFound, doJSON(rs, http.MethodGet, "/api/sensor/"+missing, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(rs, http.MethodPut, "/api/sensor/"+missing, livingRoom(20)).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(rs, http.MethodDelete, "/api/sensor/"+missing, nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(rs, http.MethodPut, "/api/sensor/"+missing, []byte("{}")).Code)

	ctrl := gomock.NewController(t)
	mockIReading := mocks.NewMockIReading(ctrl)
	rs.Sensor.Reading = mockIReading
	mockIReading.EXPECT().
		GetReading(gomock.Eq(missing)).
		Return(nil, fmt.Errorf("just causing error")).
		Times(1)

	assert.Equal(t, http.StatusInternalServerError, doJSON(rs, http.MethodGet, "/api/sensor/"+missing, nil).Code)
}

func TestPostReading_NotifiesOnBreach(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	mockChannel := notifymocks.NewMockChannel(ctrl)
	mockChannel.EXPECT().
		Send(gomock.Any(), gomock.Eq("+639170000000"), gomock.Eq("+15550000000"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, body string) (models.DeliveryReceipt, error) {
			assert.True(t, strings.HasPrefix(body, "Temperature above 30°C.\n\n"))
			assert.Contains(t, body, "Location: Living Room")
			return models.DeliveryReceipt{ConfirmationToken: "SM123"}, nil
		}).
		Times(1)

	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Channel:   mockChannel,
		Recipient: "+639170000000",
		Sender:    "+15550000000",
	})
	notifier := notify.NewNotifier(
		threshold.Config{TemperatureCelsius: 30, HumidityPercent: 70, PressureHpa: 1020},
		notify.NewEvaluator(nil),
		dispatcher,
	)

	rs := setupTestServer(t)
	rs.Sensor.Notifier = notifier

	w := doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(29))
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(45))
	require.Equal(t, http.StatusCreated, w.Code)

	dispatcher.Wait()
	assert.Equal(t, notify.Stats{Dispatched: 1, Sent: 1}, dispatcher.Stats())
}

func TestPostReadingWithLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs, mockINotifier := setupTestServerWithLimiter(t, sensor.NewRateLimiterStore(2, 2))
	mockINotifier.EXPECT().CheckAndNotify(gomock.Any()).Times(4)

	// 3 requests in quick succession, only 2 should be allowed
	for i := range 3 {
		w := doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(20))
		if i < 2 {
			require.Equal(t, http.StatusCreated, w.Code, "request %d should be allowed", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, w.Code, "request %d should be rate limited", i+1)
		}
	}

	// other locations have their own bucket
	other := livingRoom(20)
	other.Location = "Garage"
	require.Equal(t, http.StatusCreated, doJSON(rs, http.MethodPost, "/api/sensor", other).Code)

	w := doJSON(rs, http.MethodPost, "/api/limiter/Living%20Room", LimiterRequest{Rate: 2, Burst: 2})
	require.Equal(t, http.StatusOK, w.Code, "limiter request should be allowed")

	w = doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(20))
	require.Equal(t, http.StatusCreated, w.Code, "request after limiter reset should be allowed")
}

func TestPostLimiter_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs, _ := setupTestServerWithLimiter(t, sensor.NewRateLimiterStore(2, 2))

	w := doJSON(rs, http.MethodPost, "/api/limiter/Hall", []byte("{}"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs, _ := setupTestServerWithLimiter(t, sensor.NewRateLimiterStore(0, 0))
	id := uuid.NewString()

	// nothing should pass below
	assert.Equal(t, http.StatusTooManyRequests, doJSON(rs, http.MethodPost, "/api/sensor", livingRoom(20)).Code)
	assert.Equal(t, http.StatusTooManyRequests, doJSON(rs, http.MethodPut, "/api/sensor/"+id, livingRoom(20)).Code)
	assert.Equal(t, http.StatusTooManyRequests, doJSON(rs, http.MethodGet, "/api/sensor", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doJSON(rs, http.MethodGet, "/api/sensor/"+id, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doJSON(rs, http.MethodDelete, "/api/sensor/"+id, nil).Code)
}

func TestSetLimiter_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t) // default without limiter store

	// without limiter store setting a limiter is accepted but has no effect
	w := doJSON(rs, http.MethodPost, "/api/limiter/Hall", LimiterRequest{Rate: 2, Burst: 2})
	require.Equal(t, http.StatusOK, w.Code, "limiter request should be allowed")
	assert.Contains(t, w.Body.String(), "No effect")

	w = doJSON(rs, http.MethodGet, "/api/sensor", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/faizmokh/angkat/internal/files"
	"github.com/faizmokh/angkat/internal/schedule"
	"github.com/faizmokh/angkat/internal/tracker"
	"github.com/faizmokh/angkat/internal/training"
)

// TestMain runs goleak after all tests in the package to detect goroutine leaks.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) (*Server, *tracker.Tracker) {
	t.Helper()
	mgr, err := files.NewManager(t.TempDir())
	require.NoError(t, err)
	tr, err := tracker.Open(context.Background(), mgr, schedule.Default(), tracker.Options{})
	require.NoError(t, err)
	return New(tr), tr
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func setPath(day, exercise string, set int, field string) string {
	return "/api/logs/" + url.PathEscape(day) + "/" + url.PathEscape(exercise) + "/" + strconv.Itoa(set) + "/" + field
}

func TestUpdateSetAndReadLogs(t *testing.T) {
	s, tr := newTestServer(t)

	rec := do(t, s, http.MethodPut, setPath("Monday", "Bench Press", 0, "weight"), `{"value":"80"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"weight":"80","reps":""}`, rec.Body.String())

	rec = do(t, s, http.MethodPut, setPath("monday", "bench press", 0, "REPS"), `{"value":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, training.SetRecord{Weight: "80", Reps: "5"}, tr.Record("Monday", "Bench Press", 0))

	rec = do(t, s, http.MethodGet, "/api/logs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"Monday":{"Bench Press":{"0":{"weight":"80","reps":"5"}}}}`, rec.Body.String())

	assert.Equal(t, float64(2), testutil.ToFloat64(s.Metrics().CounterUpdates))
}

func TestUpdateSetExerciseWithSlash(t *testing.T) {
	s, tr := newTestServer(t)
	exercise := "4×800m Intervals @ 6:00/km"

	rec := do(t, s, http.MethodPut, setPath("Wednesday", exercise, 3, "weight"), `{"value":"0"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "0", tr.Record("Wednesday", exercise, 3).Weight)
}

func TestUpdateSetRejectsBadRequests(t *testing.T) {
	s, tr := newTestServer(t)

	cases := map[string]struct {
		target string
		body   string
		status int
	}{
		"set too high":   {target: setPath("Monday", "Bench Press", 4, "weight"), body: `{"value":"1"}`, status: http.StatusBadRequest},
		"set not number": {target: "/api/logs/Monday/Bench%20Press/one/weight", body: `{"value":"1"}`, status: http.StatusBadRequest},
		"bad field":      {target: setPath("Monday", "Bench Press", 0, "tempo"), body: `{"value":"1"}`, status: http.StatusBadRequest},
		"bad body":       {target: setPath("Monday", "Bench Press", 0, "weight"), body: `not json`, status: http.StatusBadRequest},
		"missing value":  {target: setPath("Monday", "Bench Press", 0, "weight"), body: `{}`, status: http.StatusBadRequest},
		"unknown day":    {target: setPath("Someday", "Bench Press", 0, "weight"), body: `{"value":"1"}`, status: http.StatusNotFound},
		"wrong exercise": {target: setPath("Tuesday", "Bench Press", 0, "weight"), body: `{"value":"1"}`, status: http.StatusNotFound},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPut, tc.target, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	assert.True(t, tr.Snapshot().Empty())
}

func TestScheduleAndExercises(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var days []scheduleDay
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &days))
	require.Len(t, days, schedule.DaysPerWeek)
	assert.Equal(t, "Monday", days[0].Day)
	assert.Equal(t, []string{"Bench Press", "Dumbbell Shoulder Press", "Triceps Pushdowns"}, days[0].Exercises)

	rec = do(t, s, http.MethodGet, "/api/exercises", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var exercises []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exercises))
	assert.Equal(t, schedule.Default().ExerciseOptions(), exercises)
}

func TestChart(t *testing.T) {
	s, tr := newTestServer(t)
	ctx := context.Background()

	rec := do(t, s, http.MethodGet, "/api/chart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	for _, u := range []struct {
		day, exercise string
		set           int
		field         training.Field
		value         string
	}{
		{"Monday", "Bench Press", 0, training.FieldWeight, "80"},
		{"Monday", "Bench Press", 0, training.FieldReps, "10"},
		{"Friday", "Back Squat", 0, training.FieldWeight, "100"},
	} {
		_, err := tr.Update(ctx, u.day, u.exercise, u.set, u.field, u.value)
		require.NoError(t, err)
	}

	rec = do(t, s, http.MethodGet, "/api/chart?exercise="+url.QueryEscape("Bench Press"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"label":"Monday - Bench Press","avgWeight":80,"avgReps":10}]`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/chart", "")
	var points []training.ChartPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, 2)
}

func TestChartWithHugeWeightsStillEncodes(t *testing.T) {
	s, tr := newTestServer(t)
	ctx := context.Background()

	for set := 0; set < 2; set++ {
		_, err := tr.Update(ctx, "Monday", "Bench Press", set, training.FieldWeight, "1e308")
		require.NoError(t, err)
	}
	_, err := tr.Update(ctx, "Friday", "Back Squat", 0, training.FieldWeight, "100")
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/chart", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var points []training.ChartPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 2)
	assert.Equal(t, 1e308, points[0].AvgWeight)
	assert.Equal(t, 100.0, points[1].AvgWeight)
}

func TestPreferences(t *testing.T) {
	s, tr := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"darkMode":false}`, rec.Body.String())

	rec = do(t, s, http.MethodPut, "/api/preferences", `{"darkMode":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"darkMode":true}`, rec.Body.String())
	assert.True(t, tr.DarkMode())

	rec = do(t, s, http.MethodPut, "/api/preferences", `{"dark":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSV(t *testing.T) {
	s, tr := newTestServer(t)
	_, err := tr.Update(context.Background(), "Monday", "Bench Press", 1, training.FieldWeight, "80,5")
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/training_log.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="training_log.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Day,Exercise,Set,Weight,Reps\nMonday,Bench Press,2,\"80,5\",\n", rec.Body.String())

	rec = do(t, s, http.MethodGet, "/training_log.csv?raw=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Day,Exercise,Set,Weight,Reps\nMonday,Bench Press,2,80,5,\n", rec.Body.String())

	rec = do(t, s, http.MethodGet, "/training_log.csv?raw=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, float64(2), testutil.ToFloat64(s.Metrics().CounterExports))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	do(t, s, http.MethodGet, "/api/schedule", "")
	do(t, s, http.MethodPut, setPath("Monday", "Bench Press", 9, "weight"), `{"value":"1"}`)

	assert.Equal(t, float64(1), testutil.ToFloat64(s.Metrics().CounterRequests.WithLabelValues("schedule", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.Metrics().CounterRequests.WithLabelValues("update-set", "PUT", "400")))

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `angkat_server_requests{method="GET",route="schedule",status="200"} 1`)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, listener)
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + listener.Addr().String() + "/api/exercises")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	cancel()
	require.NoError(t, <-done)
}

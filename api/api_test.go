package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/schedule"
	"github.com/dmm8rgbc4y-sudo/jantomo/middleware"
	"github.com/dmm8rgbc4y-sudo/jantomo/model"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("database.driver", "sqlite")
	viper.Set("database.path", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	viper.Set("maintenance.key", "test-maintenance-key")
	viper.Set("maintenance.retention_days", 90)
	viper.Set("limits.requests_per_second", 1000)
	viper.Set("limits.burst", 1000)
	viper.Set("app.log_level", "error")

	a, err := NewRouter()
	require.NoError(t, err)
	return a
}

func doJSON(t *testing.T, a *API, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func deviceCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.CookieName && c.Value != "" {
			return c
		}
	}

	t.Fatal("no device token cookie in response")
	return nil
}

func register(t *testing.T, a *API, username, pin string) *http.Cookie {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/api/users", gin.H{"username": username, "pin": pin}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return deviceCookie(t, w)
}

func TestRegisterLoginAuthFlow(t *testing.T) {
	a := newTestAPI(t)

	cookie := register(t, a, "seiichi", "1234")

	// The fresh cookie authenticates
	w := doJSON(t, a, http.MethodHead, "/api/validate", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// No cookie at all
	w = doJSON(t, a, http.MethodHead, "/api/validate", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Login rotates the token, the old cookie dies
	w = doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{"username": "seiichi", "pin": "1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fresh := deviceCookie(t, w)

	w = doJSON(t, a, http.MethodHead, "/api/validate", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, a, http.MethodHead, "/api/validate", nil, fresh)
	assert.Equal(t, http.StatusOK, w.Code)

	// Logout revokes only the presented token
	w = doJSON(t, a, http.MethodGet, "/api/users/logout", nil, fresh)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, a, http.MethodHead, "/api/validate", nil, fresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginFailures(t *testing.T) {
	a := newTestAPI(t)

	register(t, a, "seiichi", "1234")

	w := doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{"username": "seiichi", "pin": "9999"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{"username": "nobody", "pin": "1234"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{"username": "seiichi", "pin": "12"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, a, http.MethodPost, "/api/users", gin.H{"username": "seiichi", "pin": "1234"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWeeklyScenario(t *testing.T) {
	a := newTestAPI(t)

	alice := register(t, a, "alice", "1234")
	bob := register(t, a, "bob", "5678")

	monday := schedule.DateStrings(schedule.WeekDates(time.Now(), 0))[0]

	w := doJSON(t, a, http.MethodPost, "/api/schedule/save", []gin.H{{"date": monday, "slot": "day"}}, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, a, http.MethodPost, "/api/schedule/save", []gin.H{{"date": monday, "slot": "night"}}, bob)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, a, http.MethodPost, "/api/friends/request", gin.H{"username": "bob"}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Bob sees the request and accepts it
	w = doJSON(t, a, http.MethodGet, "/api/friends/pending-count", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 1}`, w.Body.String())

	w = doJSON(t, a, http.MethodGet, "/api/friends/inbox", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)

	var inbox struct {
		Requests []struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	require.Len(t, inbox.Requests, 1)
	assert.Equal(t, "alice", inbox.Requests[0].Username)

	w = doJSON(t, a, http.MethodPost, "/api/friends/inbox", gin.H{"action": "accept", "from_user_id": inbox.Requests[0].ID}, bob)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Alice's weekly view has Monday as [alice day, bob night], in order
	w = doJSON(t, a, http.MethodGet, "/api/schedule/weekly?week=0", nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var weekly struct {
		Dates []string                       `json:"dates"`
		Data  map[string][]schedule.DayEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &weekly))
	require.Len(t, weekly.Dates, 7)
	assert.Equal(t, monday, weekly.Dates[0])

	assert.Equal(t, []schedule.DayEntry{
		{Name: "alice", Slot: "day"},
		{Name: "bob", Slot: "night"},
	}, weekly.Data[monday])
}

func TestScheduleSaveReportsChanges(t *testing.T) {
	a := newTestAPI(t)

	alice := register(t, a, "alice", "1234")

	week := schedule.DateStrings(schedule.WeekDates(time.Now(), 0))

	w := doJSON(t, a, http.MethodPost, "/api/schedule/save", []gin.H{
		{"date": week[0], "slot": "day"},
		{"date": week[1], "slot": "both"},
	}, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"changes": 2}`, w.Body.String())

	// Re-submitting the same grid changes nothing
	w = doJSON(t, a, http.MethodPost, "/api/schedule/save", []gin.H{
		{"date": week[0], "slot": "day"},
		{"date": week[1], "slot": "both"},
	}, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"changes": 0}`, w.Body.String())

	w = doJSON(t, a, http.MethodGet, "/api/schedule?week=0", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched struct {
		Slots map[string]string `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, map[string]string{week[0]: "day", week[1]: "both"}, fetched.Slots)
}

func TestOversizedRegisterIsRejectedWithoutMutation(t *testing.T) {
	a := newTestAPI(t)

	// 2 MiB of padding blows the 1 MiB limit on the users group
	padded := gin.H{
		"username": "seiichi",
		"pin":      "1234",
		"padding":  strings.Repeat("a", 2<<20),
	}

	w := doJSON(t, a, http.MethodPost, "/api/users", padded, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Request body size exceeds limit"}`, w.Body.String())

	// The rejected registration must not have created the user
	w = doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{"username": "seiichi", "pin": "1234"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaintenanceCleanup(t *testing.T) {
	a := newTestAPI(t)

	w := doJSON(t, a, http.MethodGet, "/api/maintenance/cleanup?key=wrong", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	register(t, a, "seiichi", "1234")

	// Cutoff is the local calendar day, same one the weekly views use.
	// An entry exactly on the cutoff stays, one day older goes.
	onCutoff := time.Now().AddDate(0, 0, -90).Format(schedule.DateLayout)
	older := time.Now().AddDate(0, 0, -91).Format(schedule.DateLayout)

	_, err := a.Schedules.Upsert(1, onCutoff, model.SlotDay)
	require.NoError(t, err)
	_, err = a.Schedules.Upsert(1, older, model.SlotNight)
	require.NoError(t, err)

	w = doJSON(t, a, http.MethodGet, "/api/maintenance/cleanup?key=test-maintenance-key", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"deleted_entries": 1, "deleted_tokens": 0}`, w.Body.String())

	kept, err := a.Schedules.GetRange([]uint{1}, []string{onCutoff, older})
	require.NoError(t, err)
	assert.Equal(t, map[schedule.Key]string{{UserID: 1, Date: onCutoff}: model.SlotDay}, kept)
}

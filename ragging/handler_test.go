package ragging

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (http.Handler, *MemoryStore) {
	store := NewMemoryStore()
	h := NewReportHandler(NewReportService(store, slog.New(slog.DiscardHandler)))
	r := chi.NewRouter()
	r.Route("/api/ragging-reports", h.RegisterRoutes)
	return r, store
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/ragging-reports", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReportHandler_AnonymousKeepsVictimName(t *testing.T) {
	h, store := newTestRouter()

	rec := post(h, `{"victimName":"V","location":"Canteen","description":"Harassed","isAnonymous":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 1, got["id"])
	assert.Equal(t, "V", got["victimName"])
	assert.Equal(t, true, got["isAnonymous"])
	assert.Nil(t, got["imageUrl"])

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "V", all[0].VictimName)
	assert.True(t, all[0].IsAnonymous)
}

func TestReportHandler_Defaults(t *testing.T) {
	h, store := newTestRouter()

	rec := post(h, `{"victimName":"V","location":"Hostel","description":"D","imageUrl":"https://img/r.png"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	all := store.All()
	require.Len(t, all, 1)
	assert.False(t, all[0].IsAnonymous)
	require.NotNil(t, all[0].ImageURL)
	assert.Equal(t, "https://img/r.png", *all[0].ImageURL)
}

func TestReportHandler_Validation(t *testing.T) {
	h, store := newTestRouter()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing victim name", `{"location":"L","description":"D"}`, `{"message":"victimName is required","field":"victimName"}`},
		{"missing location", `{"victimName":"V","description":"D"}`, `{"message":"location is required","field":"location"}`},
		{"missing description", `{"victimName":"V","location":"L"}`, `{"message":"description is required","field":"description"}`},
		{"wrong type", `{"victimName":"V","location":"L","description":"D","isAnonymous":"yes"}`, `{"message":"isAnonymous must be a boolean","field":"isAnonymous"}`},
		{"not an object", `[1,2]`, `{"message":"invalid request body"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
	assert.Empty(t, store.All(), "nothing is persisted on validation failure")
}

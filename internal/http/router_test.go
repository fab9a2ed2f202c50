package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	bakeryHttp "github.com/MrJamesThe3rd/bakery/internal/http"
	"github.com/MrJamesThe3rd/bakery/internal/http/auth"
	"github.com/MrJamesThe3rd/bakery/internal/storage/file"
)

type server struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newServer(t *testing.T, opts bakeryHttp.Options) *server {
	t.Helper()

	store, err := file.New(t.TempDir())
	require.NoError(t, err)

	b := book.New(store, book.Options{})
	require.NoError(t, b.Load(context.Background()))

	return &server{t: t, handler: bakeryHttp.New(b, opts)}
}

func (s *server) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)

		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestRouter_DeliveryPaymentFlow(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{})

	rec := s.do(http.MethodPost, "/api/v1/deliveries", map[string]any{
		"date":          "05/01/2024",
		"shop":          "Hodan",
		"item":          "Buskut",
		"quantity":      10,
		"perPieceCents": 150,
		"paidCents":     1000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[map[string]any](t, rec)
	assert.Equal(t, "2024-05-01", created["date"])
	assert.EqualValues(t, 1500, created["totalCents"])

	rec = s.do(http.MethodGet, "/api/v1/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[map[string]any](t, rec)
	assert.EqualValues(t, 500, summary["remaining"])
	assert.Equal(t, "owed", summary["state"])

	rec = s.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"date":        "2024-05-02",
		"type":        "payment",
		"amountCents": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/summary", nil)
	summary = decode[map[string]any](t, rec)
	assert.EqualValues(t, 0, summary["remaining"])
	assert.Equal(t, "settled", summary["state"])
}

func TestRouter_DeliveryEditAndUndo(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{})

	rec := s.do(http.MethodPost, "/api/v1/deliveries", map[string]any{
		"date": "2024-05-01", "shop": "Hodan", "item": "Buskut", "quantity": 2, "perPieceCents": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	id := decode[map[string]any](t, rec)["id"].(string)

	rec = s.do(http.MethodPatch, "/api/v1/deliveries/"+id, map[string]any{"field": "quantity", "value": "5"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 500, decode[map[string]any](t, rec)["totalCents"])

	rec = s.do(http.MethodDelete, "/api/v1/deliveries/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/deliveries/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/deliveries?search=hodan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(http.MethodPost, "/api/v1/deliveries/undo", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_Errors(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{})

	type testCase struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "MissingShop",
			method:     http.MethodPost,
			path:       "/api/v1/deliveries",
			body:       map[string]any{"date": "2024-05-01", "item": "Buskut", "quantity": 1},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "BadDate",
			method:     http.MethodPost,
			path:       "/api/v1/deliveries",
			body:       map[string]any{"date": "yesterday", "shop": "Hodan", "item": "Buskut", "quantity": 1},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "UnknownDelivery",
			method:     http.MethodPatch,
			path:       "/api/v1/deliveries/nope",
			body:       map[string]any{"field": "notes", "value": "x"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "BadTransactionType",
			method:     http.MethodPost,
			path:       "/api/v1/transactions",
			body:       map[string]any{"date": "2024-05-01", "type": "gift", "amountCents": 10},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "IncompatibleUnit",
			method:     http.MethodPost,
			path:       "/api/v1/purchases",
			body:       map[string]any{"date": "2024-05-01", "item": "Flour", "qty": 1, "unit": "gallon", "totalCents": 100},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "OverflowingQuantity",
			method:     http.MethodPost,
			path:       "/api/v1/purchases",
			body:       map[string]any{"date": "2024-05-01", "item": "Milk", "qty": 1e308, "unit": "gallon", "totalCents": 100},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "NothingToCalculate",
			method:     http.MethodPost,
			path:       "/api/v1/calculator",
			body:       map[string]any{"pieces": 10},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "UnknownRegistry",
			method:     http.MethodGet,
			path:       "/api/v1/registry/shops",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "EmptyExport",
			method:     http.MethodGet,
			path:       "/api/v1/export?format=csv",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "UnknownExportFormat",
			method:     http.MethodGet,
			path:       "/api/v1/export?format=pdf",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(tc.method, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_Registry(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{})

	rec := s.do(http.MethodPost, "/api/v1/registry/categories", map[string]any{"name": "Sambuus"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, decode[[]string](t, rec), "Sambuus")

	rec = s.do(http.MethodPost, "/api/v1/registry/categories", map[string]any{"name": "SAMBUUS"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/registry/categories/Sambuus", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_Snapshots(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{})

	rec := s.do(http.MethodPost, "/api/v1/deliveries", map[string]any{
		"date": "2024-05-01", "shop": "Hodan", "item": "Buskut", "quantity": 1, "perPieceCents": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/snapshots", map[string]any{"name": "Before"})
	require.Equal(t, http.StatusCreated, rec.Code)

	snap := decode[map[string]any](t, rec)
	id := snap["id"].(string)
	assert.EqualValues(t, 1, snap["deliveries"])

	rec = s.do(http.MethodDelete, "/api/v1/deliveries", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/snapshots/"+id+"/restore?mode=append", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/deliveries", nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(http.MethodPost, "/api/v1/snapshots/"+id+"/restore?mode=merge", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/snapshots/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/snapshots/"+id+"/purge", map[string]any{"confirm": "delete"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/snapshots/"+id+"/purge", map[string]any{"confirm": "DELETE"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/snapshots?deleted=true", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestRouter_PurchaseSaves(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{})

	rec := s.do(http.MethodPost, "/api/v1/purchases", map[string]any{
		"date": "2024-05-01", "item": "Flour", "qty": 10, "unit": "lb", "totalCents": 700,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/purchases/saves", map[string]any{"name": "Week 1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	save := decode[map[string]any](t, rec)
	id := save["id"].(string)
	assert.Equal(t, "Week 1", save["name"])
	assert.Len(t, save["purchases"], 1)

	rec = s.do(http.MethodDelete, "/api/v1/purchases", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/purchases/saves/"+id+"/restore?mode=append", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/purchases/saves/"+id+"/restore", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/purchases", nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1, "replace drops the appended copy")

	rec = s.do(http.MethodPost, "/api/v1/purchases/saves/"+id+"/restore?mode=merge", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/purchases/saves/"+id, map[string]any{"confirm": "yes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/purchases/saves/"+id, map[string]any{"confirm": "DELETE"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/purchases/saves", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestRouter_ImportAndExport(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "deliveries.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "Date,Shop,Item,Qty,Price,Paid\n2024-05-01,Hodan,Buskut,10,1.50,10\n2024-05-02,Ayan,Doolsho,,2.00,0\n")
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("header", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, res["added"])
	assert.EqualValues(t, 1, res["invalid"])

	rec = s.do(http.MethodGet, "/api/v1/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bakery-deliveries-")

	out := strings.TrimPrefix(rec.Body.String(), "\ufeff")
	assert.Contains(t, out, "Hodan")
	assert.Contains(t, out, "Totals")

	rec = s.do(http.MethodGet, "/api/v1/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = s.do(http.MethodPost, "/api/v1/import/undo", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/deliveries", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestRouter_Auth(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{JWTSecret: "secret"})

	rec := s.do(http.MethodGet, "/api/v1/summary", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.IssueToken("secret", "operator", time.Hour, time.Now())
	require.NoError(t, err)

	s.token = token

	rec = s.do(http.MethodGet, "/api/v1/summary", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.token = ""

	rec = s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	s := newServer(t, bakeryHttp.Options{})

	s.do(http.MethodGet, "/api/v1/summary", nil)

	rec := s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bakery_http_requests_total")
}

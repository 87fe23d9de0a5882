package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"gcovdata/internal/logger"
	"gcovdata/pkg/gcda"
)

func newTestEcho() *echo.Echo {
	server := NewServer(NewPacketStore(), logger.JSON(io.Discard, 0))
	e := echo.New()
	server.Register(e)
	return e
}

func testFileImage(t *testing.T) []byte {
	t.Helper()
	actual := uint32(2)
	data, err := gcda.EncodeFile(&gcda.Packet{
		Version:  113,
		Checksum: 0xdeadbeef,
		Entries: []gcda.Entry{
			&gcda.FunctionBlock{
				Ident:        7,
				LineChecksum: 0x11,
				CFGChecksum:  0x22,
				Groups:       []gcda.ArcGroup{{Counters: []uint64{1, 2, 3}}},
			},
			&gcda.ObjectSummary{Runs: 3, ActualRuns: &actual},
		},
	})
	if err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	return data
}

func doRequest(t *testing.T, e *echo.Echo, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, "application/octet-stream")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPacketLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	image := testFileImage(t)

	createRec := doRequest(t, e, http.MethodPost, "/v1/packets?name=app.gcda", image)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", createRec.Code, createRec.Body.String())
	}

	var created PacketDetail
	if err := json.Unmarshal(createRec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected packet id")
	}
	if created.Name != "app.gcda" {
		t.Fatalf("unexpected name: %q", created.Name)
	}
	if created.Version != 113 {
		t.Fatalf("unexpected version: %d", created.Version)
	}
	if created.Functions != 1 {
		t.Fatalf("expected 1 function, got %d", created.Functions)
	}
	if len(created.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(created.Records))
	}
	if created.Records[0].Kind != "function" {
		t.Fatalf("expected function record first, got %q", created.Records[0].Kind)
	}

	getRec := doRequest(t, e, http.MethodGet, "/v1/packets/"+created.ID, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d body=%s", getRec.Code, getRec.Body.String())
	}

	listRec := doRequest(t, e, http.MethodGet, "/v1/packets", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list status: got %d body=%s", listRec.Code, listRec.Body.String())
	}
	var list ListResponse
	if err := json.Unmarshal(listRec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].ID != created.ID {
		t.Fatalf("unexpected listing: %+v", list.Data)
	}

	delRec := doRequest(t, e, http.MethodDelete, "/v1/packets/"+created.ID, nil)
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d body=%s", delRec.Code, delRec.Body.String())
	}
	if !strings.Contains(delRec.Body.String(), `"deleted":true`) {
		t.Fatalf("delete response missing deleted=true: %s", delRec.Body.String())
	}

	getDeletedRec := doRequest(t, e, http.MethodGet, "/v1/packets/"+created.ID, nil)
	if getDeletedRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d body=%s", getDeletedRec.Code, getDeletedRec.Body.String())
	}
}

func TestRawRoundTrip(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	image := testFileImage(t)

	createRec := doRequest(t, e, http.MethodPost, "/v1/packets", image)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", createRec.Code, createRec.Body.String())
	}
	var created PacketDetail
	if err := json.Unmarshal(createRec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	rawRec := doRequest(t, e, http.MethodGet, "/v1/packets/"+created.ID+"/raw", nil)
	if rawRec.Code != http.StatusOK {
		t.Fatalf("raw status: got %d", rawRec.Code)
	}
	if !bytes.Equal(rawRec.Body.Bytes(), image) {
		t.Fatalf("raw image does not match upload:\n got %x\nwant %x", rawRec.Body.Bytes(), image)
	}
}

func TestCreateValidationErrors(t *testing.T) {
	t.Parallel()

	e := newTestEcho()

	rec := doRequest(t, e, http.MethodPost, "/v1/packets", []byte{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "empty request body") {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}

	rec = doRequest(t, e, http.MethodPost, "/v1/packets", []byte("not a counter file"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for garbage body, got %d body=%s", rec.Code, rec.Body.String())
	}

	longName := strings.Repeat("x", 256)
	rec = doRequest(t, e, http.MethodPost, "/v1/packets?name="+longName, testFileImage(t))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized name, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNotFoundResponses(t *testing.T) {
	t.Parallel()

	e := newTestEcho()

	for _, path := range []string{"/v1/packets/pkt_missing", "/v1/packets/pkt_missing/raw"} {
		rec := doRequest(t, e, http.MethodGet, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", path, rec.Code)
		}
	}

	rec := doRequest(t, e, http.MethodDelete, "/v1/packets/pkt_missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing delete, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doRequest(t, e, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected healthz body: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	doRequest(t, e, http.MethodPost, "/v1/packets", testFileImage(t))

	rec := doRequest(t, e, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `gcovdata_decodes_total{status="success"} 1`) {
		t.Fatalf("expected decode counter in metrics output, got:\n%s", body)
	}
	if !strings.Contains(body, "gcovdata_packets_stored 1") {
		t.Fatalf("expected stored gauge in metrics output, got:\n%s", body)
	}
}

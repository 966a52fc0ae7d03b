package main

import (
	"bytes"
	"encoding/csv"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub/internal/catalog"
	"servicehub/internal/classifier"
	"servicehub/internal/ingest"
	"servicehub/internal/services"
	"servicehub/pkg/models"
)

func newTestAPI(t *testing.T) (*httptest.Server, *catalog.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := catalog.NewStore(catalog.DefaultBaseline())
	co := ingest.NewCoordinator(store, classifier.New(classifier.DefaultPolicy()), nil, nil)
	router := services.NewRouter(services.RouterOptions{
		Handler: services.NewHandler(store, co, nil),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func execute(t *testing.T, api string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", api}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCSVRecords(t *testing.T) {
	in := "service_name, category ,paybill\n" +
		"kplc prepaid,Utilities,888880\n" +
		"  ,  ,  \n" +
		"Nairobi Water,,\n" +
		"short row\n"

	recs, err := csvRecords(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"service_name": "kplc prepaid", "category": "Utilities", "paybill": "888880"},
		{"service_name": "Nairobi Water"},
		{"service_name": "short row"},
	}, recs)

	_, err = csvRecords(strings.NewReader(""))
	assert.ErrorContains(t, err, "missing header row")
}

func TestRenderTable(t *testing.T) {
	got := renderTable([][]string{
		{"NAME", "COST"},
		{"Kplc", "Ksh 1"},
		{"Nairobi Water", "N/A"},
	})
	assert.Equal(t, "NAME           COST\nKplc           Ksh 1\nNairobi Water  N/A\n", got)

	long := strings.Repeat("x", 60)
	got = renderTable([][]string{{long, "y"}})
	assert.Contains(t, got, "...")
	assert.NotContains(t, got, long)
}

func TestWebsocketURL(t *testing.T) {
	u, err := websocketURL("http://localhost:8080/", "/ws")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws", u)

	u, err = websocketURL("https://catalog.example.com", "/ws")
	require.NoError(t, err)
	assert.Equal(t, "wss://catalog.example.com/ws", u)

	_, err = websocketURL("not a url", "/ws")
	assert.Error(t, err)
}

func TestServicesList(t *testing.T) {
	srv, _ := newTestAPI(t)

	out, err := execute(t, srv.URL, "services", "list", "--category", "banking")
	require.NoError(t, err)
	assert.Contains(t, out, "Equity Bank (Mobile)")
	assert.Contains(t, out, "KCB Bank (Mobile)")
	assert.NotContains(t, out, "Passport")

	out, err = execute(t, srv.URL, "services", "list", "--search", "nothing-matches-this")
	require.NoError(t, err)
	assert.Equal(t, "No services found.\n", out)
}

func TestServicesGet(t *testing.T) {
	srv, _ := newTestAPI(t)

	out, err := execute(t, srv.URL, "services", "get", "dstv kenya")
	require.NoError(t, err)
	assert.Contains(t, out, `"paybill_number": "444900"`)

	_, err = execute(t, srv.URL, "services", "get", "Unknown Thing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service not found")
}

func TestIngestCSVThenExport(t *testing.T) {
	srv, store := newTestAPI(t)
	dir := t.TempDir()

	batch := filepath.Join(dir, "batch.csv")
	require.NoError(t, os.WriteFile(batch, []byte(
		"service_name,category,paybill\nkplc prepaid,utilities,888880\nwidth: 100%,,\n"), 0o644))

	out, err := execute(t, srv.URL, "ingest", batch)
	require.NoError(t, err)
	assert.Equal(t, "accepted 1 service(s)\n", out)
	assert.Len(t, store.Current(), 6)

	exported := filepath.Join(dir, "out", "services.csv")
	_, err = execute(t, srv.URL, "export", "--format", "csv", "--out", exported)
	require.NoError(t, err)

	f, err := os.Open(exported)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"Kplc Prepaid", "Utilities", "888880", models.DefaultAccount,
		models.DefaultCost, models.NoRequirements, models.DefaultProcessSteps, models.NoSourceURL}, rows[6])
}

func TestIngestRejected(t *testing.T) {
	srv, store := newTestAPI(t)

	batch := filepath.Join(t.TempDir(), "junk.json")
	require.NoError(t, os.WriteFile(batch, []byte(`[{"service_name": "z-index: 3"}]`), 0o644))

	_, err := execute(t, srv.URL, "ingest", batch)
	require.Error(t, err)
	assert.Equal(t, "batch rejected: no valid records", err.Error())
	assert.Equal(t, catalog.DefaultBaseline(), store.Current())
}

func TestRefreshNotConfigured(t *testing.T) {
	srv, _ := newTestAPI(t)

	_, err := execute(t, srv.URL, "refresh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(503)")
}

func TestCategories(t *testing.T) {
	srv, _ := newTestAPI(t)

	out, err := execute(t, srv.URL, "categories")
	require.NoError(t, err)
	assert.Equal(t, "Banking\nEntertainment\nGovernment\n", out)
}

func TestExportUnknownFormat(t *testing.T) {
	srv, _ := newTestAPI(t)

	_, err := execute(t, srv.URL, "export", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

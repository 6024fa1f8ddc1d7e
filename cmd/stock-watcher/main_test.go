package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v8/finance/chart/2330.TW":
			_, _ = w.Write([]byte(`{"chart":{"result":[{"indicators":{"quote":[{"close":[600.0,605.0]}]}}],"error":null}}`))
		case r.URL.Path == "/v8/finance/chart/AAPL":
			_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL","longName":"Apple Inc.","regularMarketPrice":189.5},"indicators":{"quote":[{}]}}],"error":null}}`))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tw_stock_list.json"),
		[]byte(`[{"symbol":"2330.TW","name":"台積電"}]`), 0o644))

	t.Setenv("YAHOO_FINANCE_BASE_URL", server.URL)
	t.Setenv("YAHOO_FINANCE_MAX_REQUEST_PER_MINUTE", "0")
	t.Setenv("WATCHLIST_LOOKUP_PATH", filepath.Join(dir, "tw_stock_list.json"))
	return filepath.Join(dir, "stocks.json")
}

func execute(t *testing.T, watchlist, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--watchlist", watchlist}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_AddListRun(t *testing.T) {
	watchlist := setupCLI(t)

	out, err := execute(t, watchlist, "", "add", "台積電", "--target", "600")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added 2330.TW (台積電) to Uncategorized, target >= 600.00.")

	out, err = execute(t, watchlist, "aapl\n150\n", "add", "--condition", "<=", "--category", "US")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Set a target price for AAPL")
	assert.Contains(t, out, "Added AAPL (Apple Inc.) to US, target <= 150.00.")

	_, err = execute(t, watchlist, "", "add", "AAPL", "--target", "170")
	assert.Error(t, err)

	out, err = execute(t, watchlist, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2330.TW")
	assert.Contains(t, out, "Apple Inc.")

	out, err = execute(t, watchlist, "", "run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Checking 2 entries...")
	assert.Contains(t, out, "Target reached! 2330.TW (台積電) current: 605.00 >= target: 600.00")
	assert.Contains(t, out, "  -> AAPL current: 189.50, condition: <= 150.00")
	assert.Contains(t, out, "Check finished: 2 checked, 1 matched, 0 unavailable.")

	data, err := os.ReadFile(watchlist)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"condition": "<="`)
}

func TestCLI_EditMoveRemove(t *testing.T) {
	watchlist := setupCLI(t)
	for _, sym := range []string{"A", "B"} {
		_, err := execute(t, watchlist, "", "add", sym, "--target", "1")
		require.NoError(t, err)
	}

	out, err := execute(t, watchlist, "", "move", "B", "up")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, " B "), strings.Index(out, " A "))

	out, err = execute(t, watchlist, "", "edit", "A", "--target", "2.5", "--category", "Mine")
	require.NoError(t, err, out)
	assert.Contains(t, out, "target >= 2.50, category Mine")

	_, err = execute(t, watchlist, "", "edit", "A")
	assert.Error(t, err)

	out, err = execute(t, watchlist, "", "remove", "--category", "Mine")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 entries from Mine.")

	_, err = execute(t, watchlist, "", "remove", "A")
	assert.Error(t, err)

	out, err = execute(t, watchlist, "", "remove", "B")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed B from the watchlist.")

	out, err = execute(t, watchlist, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Your watchlist is empty.")
}

func TestCLI_UsageErrors(t *testing.T) {
	watchlist := setupCLI(t)

	out, err := execute(t, watchlist, "")
	assert.ErrorIs(t, err, errMissingCommand)
	assert.Contains(t, out, "Usage:")

	_, err = execute(t, watchlist, "", "move", "A")
	assert.Error(t, err)

	_, err = execute(t, watchlist, "", "add", "AAPL", "--target", "abc")
	assert.Error(t, err)

	_, err = execute(t, watchlist, "", "nope")
	assert.Error(t, err)
}

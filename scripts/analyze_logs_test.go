package scripts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `{"level":"info","msg":"request","path":"/v1/products","status":200}
{"level":"info","msg":"request","path":"/v1/products","status":200}
{"level":"warn","msg":"request","path":"/v1/orders","status":404}
{"level":"info","msg":"User logged in: Jane@Example.com"}
{"level":"warn","msg":"Login attempt failed for jane@example.com"}
{"level":"info","msg":"Order ORD-1001 placed by user 7"}
{"level":"error","msg":"Failed to load order 12: record not found"}
{"level":"error","msg":"Failed to load order 99: timeout"}
not json at all

`

func TestAnalyzeLogs(t *testing.T) {
	stats, err := AnalyzeLogs(strings.NewReader(sampleLog))
	require.NoError(t, err)

	assert.Equal(t, 9, stats.Lines)
	assert.Equal(t, 1, stats.Unparsed)
	assert.Equal(t, 3, stats.Requests)
	assert.Equal(t, 1, stats.FailedRequests)
	assert.Equal(t, map[int]int{200: 2, 404: 1}, stats.StatusCounts)
	assert.Equal(t, 2, stats.PathCounts["/v1/products"])
	assert.Equal(t, 1, stats.LoginSuccess)
	assert.Equal(t, 1, stats.LoginFailures)
	assert.Equal(t, 2, stats.UserActivities["jane@example.com"])
	assert.Equal(t, 1, stats.OrdersPlaced)
	assert.Equal(t, 2, stats.TotalErrors)
	assert.Equal(t, 2, stats.TotalWarnings)
	assert.Equal(t, map[string]int{"Failed to load order <n>": 2}, stats.ErrorPatterns)
}

func TestPrintReport(t *testing.T) {
	stats, err := AnalyzeLogs(strings.NewReader(sampleLog))
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintReport(&buf, stats)
	out := buf.String()
	assert.Contains(t, out, "=== Log Analysis Report ===")
	assert.Contains(t, out, "Failed (4xx/5xx): 1")
	assert.Contains(t, out, "Failed to load order <n>: 2 occurrences")
	assert.Contains(t, out, "/v1/products: 2 requests")
	assert.Contains(t, out, "jane@example.com: 2 activities")
}

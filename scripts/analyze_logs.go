// Package scripts holds operator tooling run through the storesphere CLI.
package scripts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogStats summarises a JSON log produced with LOG_FORMAT=json
type LogStats struct {
	Lines          int
	Unparsed       int
	TotalErrors    int
	TotalWarnings  int
	Requests       int
	FailedRequests int
	LoginSuccess   int
	LoginFailures  int
	OrdersPlaced   int
	StatusCounts   map[int]int
	PathCounts     map[string]int
	UserActivities map[string]int
	ErrorPatterns  map[string]int
}

type logLine struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	numberRegex = regexp.MustCompile(`\b\d+\b`)
)

// AnalyzeLogs reads one JSON entry per line. Lines that are not JSON are counted and skipped.
func AnalyzeLogs(r io.Reader) (*LogStats, error) {
	stats := &LogStats{
		StatusCounts:   map[int]int{},
		PathCounts:     map[string]int{},
		UserActivities: map[string]int{},
		ErrorPatterns:  map[string]int{},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		stats.Lines++

		var entry logLine
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			stats.Unparsed++
			continue
		}

		switch entry.Level {
		case "error":
			stats.TotalErrors++
			stats.ErrorPatterns[errorPattern(entry.Msg)]++
		case "warn":
			stats.TotalWarnings++
		}

		if entry.Msg == "request" {
			stats.Requests++
			stats.StatusCounts[entry.Status]++
			stats.PathCounts[entry.Path]++
			if entry.Status >= 400 {
				stats.FailedRequests++
			}
			continue
		}

		switch {
		case strings.HasPrefix(entry.Msg, "User logged in"):
			stats.LoginSuccess++
			extractUserActivity(entry.Msg, stats)
		case strings.HasPrefix(entry.Msg, "Login attempt failed"):
			stats.LoginFailures++
			extractUserActivity(entry.Msg, stats)
		case strings.HasPrefix(entry.Msg, "Order ") && strings.Contains(entry.Msg, " placed by "):
			stats.OrdersPlaced++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	return stats, nil
}

func extractUserActivity(msg string, stats *LogStats) {
	if email := emailRegex.FindString(msg); email != "" {
		stats.UserActivities[strings.ToLower(email)]++
	}
}

// errorPattern keeps the message before the first ':' with ids and emails masked,
// so the same failure for different records groups together
func errorPattern(msg string) string {
	if i := strings.Index(msg, ":"); i > 0 {
		msg = msg[:i]
	}
	msg = emailRegex.ReplaceAllString(msg, "<email>")
	msg = numberRegex.ReplaceAllString(msg, "<n>")
	return strings.TrimSpace(msg)
}

type counted struct {
	key   string
	count int
}

func topN(m map[string]int, limit int) []counted {
	out := make([]counted, 0, len(m))
	for k, v := range m {
		out = append(out, counted{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PrintReport writes a plain text report of stats
func PrintReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "=== Log Analysis Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Lines: %d (unparsed %d)\n", stats.Lines, stats.Unparsed)

	fmt.Fprintln(w, "\n1. Requests:")
	fmt.Fprintf(w, "   Total: %d\n", stats.Requests)
	fmt.Fprintf(w, "   Failed (4xx/5xx): %d\n", stats.FailedRequests)
	codes := make([]int, 0, len(stats.StatusCounts))
	for code := range stats.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "   %d: %d\n", code, stats.StatusCounts[code])
	}

	fmt.Fprintln(w, "\n2. Authentication:")
	fmt.Fprintf(w, "   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Fprintf(w, "   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Fprintln(w, "\n3. Orders Placed:", stats.OrdersPlaced)

	fmt.Fprintln(w, "\n4. Errors:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)
	fmt.Fprintf(w, "   Total Warnings: %d\n", stats.TotalWarnings)
	for _, e := range topN(stats.ErrorPatterns, 5) {
		fmt.Fprintf(w, "   %s: %d occurrences\n", e.key, e.count)
	}

	fmt.Fprintln(w, "\n5. Busiest Routes:")
	for _, p := range topN(stats.PathCounts, 5) {
		fmt.Fprintf(w, "   %s: %d requests\n", p.key, p.count)
	}

	fmt.Fprintln(w, "\n6. Most Active Users:")
	for _, u := range topN(stats.UserActivities, 5) {
		fmt.Fprintf(w, "   %s: %d activities\n", u.key, u.count)
	}
}

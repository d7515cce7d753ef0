package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// requestPattern weights one API path in the generated traffic mix.
type requestPattern struct {
	Path   string
	Weight int
}

// Default request mix based on realistic catalog usage
var defaultRequestPatterns = []requestPattern{
	{"/api/v1/alarms", 30},                               // 30% - Catalog listing
	{"/api/v1/alarms/search?q=severity:critical", 15},    // 15% - Fielded searches
	{"/api/v1/alarms/search?q=cause:software_error", 10}, // 10% - Cause searches
	{"/api/v1/alarms/search?q=link", 5},                  //  5% - Free-text searches
	{"/api/v1/export/constants", 15},                     // 15% - Cached constant renders
	{"/api/v1/export/csv", 15},                           // 15% - Cached CSV renders
	{"/catalog/status", 10},                              // 10% - Status polling
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "KLAXON-CORE base URL")
	duration := flag.Duration("duration", time.Minute, "Test duration")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	token := flag.String("token", "", "Bearer token when auth is enabled")
	outputFile := flag.String("output", "loadtest-results.json", "Output file for results")

	flag.Parse()

	if *workers <= 0 {
		log.Fatalf("workers must be positive, got %d", *workers)
	}

	totalWeight := 0
	for _, p := range defaultRequestPatterns {
		totalWeight += p.Weight
	}

	client := &http.Client{Timeout: 15 * time.Second}

	var successful, failed int64
	latencies := make([][]time.Duration, *workers)

	fmt.Printf("Starting load test with %d workers for %v against %s...\n", *workers, *duration, *baseURL)

	start := time.Now()
	deadline := start.Add(*duration)

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(start.UnixNano() + int64(id)))
			for time.Now().Before(deadline) {
				path := pickPattern(rng, totalWeight)
				reqStart := time.Now()
				ok := doGet(client, *baseURL+path, *token)
				latencies[id] = append(latencies[id], time.Since(reqStart))
				if ok {
					atomic.AddInt64(&successful, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}
			}
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)

	var all []time.Duration
	for _, ls := range latencies {
		all = append(all, ls...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	totalQueries := successful + failed
	var avg, p95, p99 time.Duration
	if len(all) > 0 {
		var sum time.Duration
		for _, d := range all {
			sum += d
		}
		avg = sum / time.Duration(len(all))
		p95 = all[len(all)*95/100]
		p99 = all[len(all)*99/100]
	}
	qps := float64(totalQueries) / elapsed.Seconds()

	fmt.Printf("\nLoad Test Results:\n")
	fmt.Printf("================\n")
	fmt.Printf("Duration: %v\n", elapsed)
	fmt.Printf("Total Requests: %d\n", totalQueries)
	fmt.Printf("Successful Requests: %d\n", successful)
	fmt.Printf("Failed Requests: %d\n", failed)
	fmt.Printf("Average Latency: %v\n", avg)
	fmt.Printf("95th Percentile: %v\n", p95)
	fmt.Printf("99th Percentile: %v\n", p99)
	fmt.Printf("QPS: %.2f\n", qps)

	if err := saveResultsToFile(*outputFile, elapsed, totalQueries, successful, failed, avg, p95, p99, qps); err != nil {
		log.Printf("Failed to save results to file: %v", err)
	} else {
		fmt.Printf("Results saved to %s\n", *outputFile)
	}
}

// pickPattern selects one path from the weighted request mix.
func pickPattern(rng *rand.Rand, totalWeight int) string {
	n := rng.Intn(totalWeight)
	for _, p := range defaultRequestPatterns {
		if n < p.Weight {
			return p.Path
		}
		n -= p.Weight
	}
	return defaultRequestPatterns[0].Path
}

func doGet(client *http.Client, url, token string) bool {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func saveResultsToFile(filename string, elapsed time.Duration, total, successful, failed int64, avg, p95, p99 time.Duration, qps float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, `{
  "duration": "%v",
  "total_requests": %d,
  "successful_requests": %d,
  "failed_requests": %d,
  "avg_latency": "%v",
  "p95_latency": "%v",
  "p99_latency": "%v",
  "qps": %.2f
}
`, elapsed, total, successful, failed, avg, p95, p99, qps)
	return err
}

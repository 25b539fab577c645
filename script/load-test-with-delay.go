// Load test for the ledger. It posts deposits, withdrawals and transfers
// across the given accounts of one user and reports throughput and latency.
//
//	go run ./script -token "$ACCESS_TOKEN" -accounts id1,id2 -c 10 -n 500
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// transactionRequest is the body of POST /api/v1/transactions
type transactionRequest struct {
	FromAccountID   string `json:"from_account_id,omitempty"`
	ToAccountID     string `json:"to_account_id,omitempty"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	TransactionType string `json:"transaction_type"`
	Description     string `json:"description"`
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

// testResult contains metrics for a single request
type testResult struct {
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	ErrorCode    string
}

// testStats contains aggregated test statistics
type testStats struct {
	sync.Mutex
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	ScenarioStats      map[string]int
}

// scenario builds one kind of ledger request
type scenario struct {
	Name  string
	Build func(accounts []string, amount string) transactionRequest
}

var scenarios = []scenario{
	{"deposit", func(accounts []string, amount string) transactionRequest {
		return transactionRequest{ToAccountID: pick(accounts), Amount: amount, TransactionType: "deposit"}
	}},
	{"withdrawal", func(accounts []string, amount string) transactionRequest {
		return transactionRequest{FromAccountID: pick(accounts), Amount: amount, TransactionType: "withdrawal"}
	}},
	{"transfer", func(accounts []string, amount string) transactionRequest {
		from := pick(accounts)
		to := pick(accounts)
		for len(accounts) > 1 && to == from {
			to = pick(accounts)
		}
		return transactionRequest{FromAccountID: from, ToAccountID: to, Amount: amount, TransactionType: "transfer"}
	}},
}

var amounts = []string{"5.00", "12.50", "40.00", "99.99"}

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	accountsFlag := flag.String("accounts", "", "Comma-separated account ids owned by the token's user")
	token := flag.String("token", os.Getenv("FB_ACCESS_TOKEN"), "Bearer access token")
	currency := flag.String("currency", "USD", "Currency of the accounts")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	var accounts []string
	for _, id := range strings.Split(*accountsFlag, ",") {
		if id = strings.TrimSpace(id); id != "" {
			accounts = append(accounts, id)
		}
	}
	if len(accounts) == 0 || *token == "" {
		fmt.Fprintln(os.Stderr, "-accounts and -token are required")
		os.Exit(2)
	}

	fmt.Printf("Load testing %d accounts with %d goroutines, %d requests, %d ms delay\n",
		len(accounts), *concurrency, *totalRequests, *delayMs)

	stats := &testStats{
		TotalRequests: *totalRequests,
		ErrorCounts:   make(map[string]int),
		ScenarioStats: make(map[string]int),
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
	}

	jobs := make(chan int, *totalRequests)
	results := make(chan testResult, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(workerID, *baseURL, *token, *currency, *delayMs, accounts, jobs, results, stats)
		}(i)
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	done := make(chan struct{})
	go func() {
		for result := range results {
			stats.Lock()
			if result.Success {
				stats.SuccessfulRequests++
			} else {
				stats.FailedRequests++
				stats.ErrorCounts[result.ErrorCode]++
			}
			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.Unlock()
		}
		close(done)
	}()

	startTime := time.Now()
	wg.Wait()
	close(results)
	<-done
	stats.TotalTime = time.Since(startTime)

	printResults(stats)
}

func worker(id int, baseURL, token, currency string, delayMs int, accounts []string,
	jobs <-chan int, results chan<- testResult, stats *testStats) {

	client := &http.Client{Timeout: 10 * time.Second}

	for jobID := range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		sc := scenarios[rand.Intn(len(scenarios))]
		body := sc.Build(accounts, pick(amounts))
		body.Currency = currency
		body.Description = fmt.Sprintf("load-test worker=%d job=%d", id, jobID)

		stats.Lock()
		stats.ScenarioStats[sc.Name]++
		stats.Unlock()

		payload, err := json.Marshal(body)
		if err != nil {
			results <- testResult{ErrorCode: err.Error()}
			continue
		}
		req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/transactions", bytes.NewReader(payload))
		if err != nil {
			results <- testResult{ErrorCode: err.Error()}
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		start := time.Now()
		resp, err := client.Do(req)
		result := testResult{ResponseTime: time.Since(start)}
		if err != nil {
			result.ErrorCode = "transport error"
			results <- result
			continue
		}

		result.StatusCode = resp.StatusCode
		result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
		if !result.Success {
			var body errorResponse
			_ = json.NewDecoder(resp.Body).Decode(&body)
			result.ErrorCode = fmt.Sprintf("%d %s", resp.StatusCode, body.Error.Code)
		}
		_ = resp.Body.Close()

		results <- result
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *testStats) {
	sorted := append([]time.Duration(nil), stats.ResponseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	var avg time.Duration
	if len(sorted) > 0 {
		avg = total / time.Duration(len(sorted))
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful Requests: %d\n", stats.SuccessfulRequests)
	fmt.Printf("Failed Requests:     %d\n", stats.FailedRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f req/s\n", float64(stats.TotalRequests)/stats.TotalTime.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average: %v\n", avg)
	fmt.Printf("P50:     %v\n", percentile(sorted, 50))
	fmt.Printf("P90:     %v\n", percentile(sorted, 90))
	fmt.Printf("P99:     %v\n", percentile(sorted, 99))

	fmt.Println("\n----------------- SCENARIOS -----------------")
	for name, count := range stats.ScenarioStats {
		fmt.Printf("%-12s: %d\n", name, count)
	}

	// Insufficient funds and limit errors are expected under random load
	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERRORS -----------------")
		for code, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", code, count)
		}
	}
}

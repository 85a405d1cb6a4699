package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	CatalogURL    string
	UserURL       string
	EnrollmentURL string
	Students      int
	Concurrency   int
	Capacity      int
}

// LoadTestResult holds the results of load testing
type LoadTestResult struct {
	TotalRequests     int
	Created           int
	Rejected          int
	Failed            int
	AvgResponseTimeMs float64
	MaxResponseTimeMs int64
	MinResponseTimeMs int64
	ThroughputRPS     float64
	ByStatus          map[int]int
	FinalEnrolled     int
	StoredEnrollments int64
}

// LoadTester races many students for the seats of one course.
type LoadTester struct {
	config    LoadTestConfig
	client    *http.Client
	course    string
	students  []string
	results   LoadTestResult
	mutex     sync.Mutex
	startTime time.Time
}

var loadTestConfig LoadTestConfig

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Race concurrent enrollments against one course",
	Long: `Create one course and a batch of students, then enroll them all into
the course concurrently. The report compares the catalog's final enrolled
count with the capacity and with the enrollment service's own count.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lt := NewLoadTester(loadTestConfig)
		if err := lt.Initialize(); err != nil {
			return err
		}
		lt.Run()
		return lt.Collect()
	},
}

func init() {
	rootCmd.AddCommand(loadtestCmd)
	f := loadtestCmd.Flags()
	f.StringVar(&loadTestConfig.CatalogURL, "catalog-url", "http://localhost:8081", "catalog service base URL")
	f.StringVar(&loadTestConfig.UserURL, "user-url", "http://localhost:8082", "user service base URL")
	f.StringVar(&loadTestConfig.EnrollmentURL, "enrollment-url", "http://localhost:8083", "enrollment service base URL")
	f.IntVar(&loadTestConfig.Students, "students", 100, "number of students competing for the course")
	f.IntVar(&loadTestConfig.Concurrency, "concurrent", 20, "maximum in-flight enrollment requests")
	f.IntVar(&loadTestConfig.Capacity, "capacity", 30, "seats in the course")
}

// NewLoadTester creates a new load tester
func NewLoadTester(config LoadTestConfig) *LoadTester {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &LoadTester{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		results: LoadTestResult{
			ByStatus: make(map[int]int),
		},
	}
}

// Initialize creates the course and the students.
func (lt *LoadTester) Initialize() error {
	run := strings.ToUpper(uuid.NewString()[:8])
	lt.course = "LT-" + run

	status, err := lt.postJSON(lt.config.CatalogURL+"/api/courses", map[string]any{
		"code":     lt.course,
		"title":    "Load test " + run,
		"capacity": lt.config.Capacity,
	})
	if err != nil || status != http.StatusCreated {
		return fmt.Errorf("create course %s: status %d: %v", lt.course, status, err)
	}

	for i := 0; i < lt.config.Students; i++ {
		id := fmt.Sprintf("LT%s-%04d", run, i)
		status, err := lt.postJSON(lt.config.UserURL+"/api/students", map[string]any{
			"studentId": id,
			"name":      "Load Tester " + id,
			"major":     "Load Testing",
			"grade":     1,
			"email":     strings.ToLower(id) + "@loadtest.local",
		})
		if err != nil || status != http.StatusCreated {
			return fmt.Errorf("create student %s: status %d: %v", id, status, err)
		}
		lt.students = append(lt.students, id)
	}

	fmt.Printf("Created course %s (%d seats) and %d students\n", lt.course, lt.config.Capacity, len(lt.students))
	return nil
}

// Run sends one enrollment per student with bounded concurrency.
func (lt *LoadTester) Run() {
	fmt.Printf("Enrolling %d students with %d concurrent requests...\n", len(lt.students), lt.config.Concurrency)

	lt.startTime = time.Now()
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, lt.config.Concurrency)

	for _, studentID := range lt.students {
		wg.Add(1)
		go func(studentID string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			start := time.Now()
			status, err := lt.postJSON(lt.config.EnrollmentURL+"/api/enrollments", map[string]string{
				"courseId":  lt.course,
				"studentId": studentID,
			})
			lt.record(status, err, time.Since(start))
		}(studentID)
	}

	wg.Wait()
	lt.results.ThroughputRPS = float64(lt.results.TotalRequests) / time.Since(lt.startTime).Seconds()
}

// Collect reads back the catalog and enrollment counts and prints the report.
func (lt *LoadTester) Collect() error {
	// Give queued propagation a moment to land.
	time.Sleep(500 * time.Millisecond)

	var course struct {
		Data struct {
			Enrolled int `json:"enrolled"`
		} `json:"data"`
	}
	if err := lt.getJSON(lt.config.CatalogURL+"/api/courses/code/"+lt.course, &course); err != nil {
		return err
	}
	lt.results.FinalEnrolled = course.Data.Enrolled

	var count struct {
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	if err := lt.getJSON(lt.config.EnrollmentURL+"/api/enrollments/course/"+lt.course+"/count", &count); err != nil {
		return err
	}
	lt.results.StoredEnrollments = count.Data.Count

	lt.printResults()
	return nil
}

func (lt *LoadTester) record(status int, err error, elapsed time.Duration) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	ms := elapsed.Milliseconds()
	if ms > lt.results.MaxResponseTimeMs {
		lt.results.MaxResponseTimeMs = ms
	}
	if lt.results.MinResponseTimeMs == 0 || ms < lt.results.MinResponseTimeMs {
		lt.results.MinResponseTimeMs = ms
	}
	n := float64(lt.results.TotalRequests)
	lt.results.AvgResponseTimeMs = (lt.results.AvgResponseTimeMs*(n-1) + float64(ms)) / n

	switch {
	case err != nil:
		lt.results.Failed++
	case status == http.StatusCreated:
		lt.results.Created++
	case status == http.StatusConflict:
		lt.results.Rejected++
	default:
		lt.results.Failed++
	}
	lt.results.ByStatus[status]++
}

func (lt *LoadTester) printResults() {
	r := lt.results
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("Course %s, capacity %d\n", lt.course, lt.config.Capacity)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("Requests:   %d (%.2f req/s)\n", r.TotalRequests, r.ThroughputRPS)
	fmt.Printf("Created:    %d\n", r.Created)
	fmt.Printf("Rejected:   %d (409)\n", r.Rejected)
	fmt.Printf("Failed:     %d\n", r.Failed)
	fmt.Printf("Latency:    avg %.2f ms, min %d ms, max %d ms\n", r.AvgResponseTimeMs, r.MinResponseTimeMs, r.MaxResponseTimeMs)

	statuses := make([]int, 0, len(r.ByStatus))
	for s := range r.ByStatus {
		statuses = append(statuses, s)
	}
	sort.Ints(statuses)
	fmt.Println("By status:")
	for _, s := range statuses {
		fmt.Printf("  %d: %d\n", s, r.ByStatus[s])
	}

	fmt.Printf("\nStored enrollments: %d\n", r.StoredEnrollments)
	fmt.Printf("Catalog enrolled:   %d\n", r.FinalEnrolled)
	if r.StoredEnrollments > int64(lt.config.Capacity) {
		fmt.Printf("Over capacity by %d: concurrent requests read the same seat count\n", r.StoredEnrollments-int64(lt.config.Capacity))
	}
	if int64(r.FinalEnrolled) != r.StoredEnrollments {
		fmt.Printf("Catalog drifted by %d; the next unenrollment from this course recounts it\n", r.StoredEnrollments-int64(r.FinalEnrolled))
	}
}

func (lt *LoadTester) postJSON(url string, payload any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	resp, err := lt.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (lt *LoadTester) getJSON(url string, out any) error {
	resp, err := lt.client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

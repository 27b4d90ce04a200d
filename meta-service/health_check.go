package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-dtos"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const appName = "meta-service"

var defaultTargets = []string{
	"http://localhost:8080/health", // inventory-service
	"http://localhost:8081/health", // auth-service
}

func main() {
	utils.InitLogger(appName)
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file loaded")
	}

	targets := defaultTargets
	if raw := os.Getenv("HEALTH_TARGETS"); raw != "" {
		targets = splitTargets(raw)
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8090"
	}

	checker := newHealthChecker(targets, 2*time.Second)
	http.Handle("/health", checker)
	utils.Logger.Infof("Starting %s on port %s, checking %v", appName, port, targets)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		utils.Logger.Fatal("meta-service failed to start:", err)
	}
}

type healthChecker struct {
	client  *http.Client
	targets []string
}

func newHealthChecker(targets []string, timeout time.Duration) *healthChecker {
	return &healthChecker{client: &http.Client{Timeout: timeout}, targets: targets}
}

// ServeHTTP probes every target concurrently and answers 200 only when
// all of them answer 200.
func (h *healthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := h.check(r.Context())

	resp := dtos.HealthCheckResponse{Status: "OK", Checks: checks}
	for _, status := range checks {
		if status != "OK" {
			resp.Status = "Unhealthy"
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *healthChecker) check(ctx context.Context) map[string]string {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(h.targets))
	)
	for _, url := range h.targets {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			status := h.probe(ctx, u)
			if status != "OK" {
				utils.Logger.WithField("target", u).Warnf("(Health Check) Service unhealthy: %s", status)
			}
			mu.Lock()
			results[u] = status
			mu.Unlock()
		}(url)
	}
	wg.Wait()
	return results
}

func (h *healthChecker) probe(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err.Error()
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err.Error()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return http.StatusText(resp.StatusCode)
	}
	return "OK"
}

func splitTargets(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

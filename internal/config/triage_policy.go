package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

type TriagePolicy struct {
	MaxConcurrency     int
	MaxRecords         int
	AnalyzeLimit       int
	PreviewByteBudget  int
	PollIntervalMillis int
	PollMaxWaitMillis  int
	RecordTimeoutMilli int
	RunTimeoutMillis   int
	ProviderRatePerSec float64
	RequestBudget      int64
}

var triagePolicyCache struct {
	mu      sync.RWMutex
	path    string
	exists  bool
	modTime int64
	policy  TriagePolicy
}

func DefaultTriagePolicy() TriagePolicy {
	return TriagePolicy{
		MaxConcurrency:     5,
		MaxRecords:         20,
		AnalyzeLimit:       0, // 0 means classify every record
		PreviewByteBudget:  8 << 10,
		PollIntervalMillis: 500,
		PollMaxWaitMillis:  60_000,
		RecordTimeoutMilli: 45_000,
		RunTimeoutMillis:   300_000,
		ProviderRatePerSec: 4,
		RequestBudget:      0, // 0 means auto-calculate
	}
}

// LoadTriagePolicy reads optional top-level keys from ".leakscout.yaml":
// max_concurrency: 5
// max_records: 20
// analyze_limit: 0
// preview_byte_budget: 8192
// poll_interval_ms: 500
// poll_max_wait_ms: 60000
// record_timeout_ms: 45000
// run_timeout_ms: 300000
// provider_rate_per_sec: 4
// request_budget: 200
func LoadTriagePolicy() TriagePolicy {
	p := DefaultTriagePolicy()
	path := ".leakscout.yaml"
	absPath, err := filepath.Abs(path)
	if err == nil {
		path = absPath
	}

	st, statErr := os.Stat(path)
	if statErr != nil {
		triagePolicyCache.mu.RLock()
		if triagePolicyCache.path == path && !triagePolicyCache.exists {
			cached := triagePolicyCache.policy
			triagePolicyCache.mu.RUnlock()
			return cached
		}
		triagePolicyCache.mu.RUnlock()
		triagePolicyCache.mu.Lock()
		triagePolicyCache.path = path
		triagePolicyCache.exists = false
		triagePolicyCache.modTime = 0
		triagePolicyCache.policy = p
		triagePolicyCache.mu.Unlock()
		return p
	}

	modTime := st.ModTime().UnixNano()
	triagePolicyCache.mu.RLock()
	if triagePolicyCache.path == path && triagePolicyCache.exists && triagePolicyCache.modTime == modTime {
		cached := triagePolicyCache.policy
		triagePolicyCache.mu.RUnlock()
		return cached
	}
	triagePolicyCache.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return p
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch key {
		case "max_concurrency":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				p.MaxConcurrency = n
			}
		case "max_records":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				p.MaxRecords = n
			}
		case "analyze_limit":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				p.AnalyzeLimit = n
			}
		case "preview_byte_budget":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				p.PreviewByteBudget = n
			}
		case "poll_interval_ms":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				p.PollIntervalMillis = n
			}
		case "poll_max_wait_ms":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				p.PollMaxWaitMillis = n
			}
		case "record_timeout_ms":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				p.RecordTimeoutMilli = n
			}
		case "run_timeout_ms":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				p.RunTimeoutMillis = n
			}
		case "provider_rate_per_sec":
			if f64, err := strconv.ParseFloat(value, 64); err == nil && f64 > 0 {
				p.ProviderRatePerSec = f64
			}
		case "request_budget":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
				p.RequestBudget = n
			}
		}
	}

	triagePolicyCache.mu.Lock()
	triagePolicyCache.path = path
	triagePolicyCache.exists = true
	triagePolicyCache.modTime = modTime
	triagePolicyCache.policy = p
	triagePolicyCache.mu.Unlock()
	return p
}

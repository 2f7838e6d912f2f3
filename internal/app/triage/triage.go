package triage

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/leakscout/leakscout/internal/app/output"
	"github.com/leakscout/leakscout/internal/app/ui"
	"github.com/leakscout/leakscout/internal/classify"
	"github.com/leakscout/leakscout/internal/config"
	"github.com/leakscout/leakscout/internal/engine"
	"github.com/leakscout/leakscout/internal/intelx"
	msges "github.com/leakscout/leakscout/internal/messages"
	"github.com/leakscout/leakscout/internal/report"
	"github.com/leakscout/leakscout/internal/target"
)

// Options carries the command-line overrides for one triage run. Zero values
// defer to the policy file and its defaults.
type Options struct {
	JSONOutput   bool
	HTMLOutput   bool
	Verbose      bool
	MaxRecords   int
	AnalyzeLimit int
	TimeoutSec   int
	Concurrency  int
}

// searchProvider is the leak-index surface the pipeline depends on.
type searchProvider interface {
	Resolve(ctx context.Context, term string) ([]intelx.Record, *intelx.Session, error)
	FetchPreview(ctx context.Context, rec intelx.Record) intelx.Preview
}

type recordClassifier interface {
	Classify(ctx context.Context, p intelx.Preview) report.Classification
}

// RunTriage drives the full pipeline for one target: search, preview fetch,
// classification, aggregation, and report output.
func RunTriage(rawTarget string, opts Options) error {
	tgt, err := target.Parse(rawTarget)
	if err != nil {
		return err
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	policy := config.LoadTriagePolicy()
	applyOverrides(&policy, opts)

	providerClient, llmClient, metrics := buildClients(policy)

	ix := intelx.NewClient(creds.IntelXBaseURL, creds.IntelXKey, intelx.Options{
		HTTPClient:        providerClient,
		MaxResults:        policy.MaxRecords,
		PreviewByteBudget: policy.PreviewByteBudget,
		PollInterval:      millis(policy.PollIntervalMillis),
		PollMaxWait:       millis(policy.PollMaxWaitMillis),
	})
	classifier := classify.New(creds, llmClient)

	ctx, stop := ui.WaitForCancel(context.Background())
	defer stop()
	runCtx, cancel := context.WithTimeout(ctx, millis(policy.RunTimeoutMillis))
	defer cancel()

	startTime := time.Now()
	rep, err := run(runCtx, tgt, ix, classifier, policy, metrics, opts.Verbose)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Printf("\n%s%s%s\n", ui.ColorYellow, msges.GetUIMessage("SearchCancelled"), ui.ColorReset)
	}

	elapsed := time.Since(startTime).Seconds()
	fmt.Printf("\n%s%s%s\n", ui.ColorGreen, msges.GetUIMessage("TriageComplete"), ui.ColorReset)
	fmt.Printf("%sTriage completed in %.2fs%s\n", ui.ColorGray, elapsed, ui.ColorReset)

	output.PrintReport(rep)

	if opts.JSONOutput {
		if err := output.SaveJSONReport(rep); err != nil {
			fmt.Printf("%s\n", msges.GetUIMessage("JSONReportFailed", err))
		}
	}
	if opts.HTMLOutput {
		if err := output.SaveHTMLReport(rep); err != nil {
			fmt.Printf("%s\n", msges.GetUIMessage("HTMLReportFailed", err))
		}
	}
	return nil
}

// run executes the pipeline against already-constructed providers and
// returns the finished report. The only error it surfaces is a failed
// search; every later stage degrades per record instead.
func run(ctx context.Context, tgt target.Target, provider searchProvider, classifier recordClassifier, policy config.TriagePolicy, metrics *engine.MetricsTransport, verbose bool) (*report.Report, error) {
	startTime := time.Now()

	fmt.Printf("%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("Target", tgt.Raw, tgt.Kind), ui.ColorReset)
	fmt.Printf("%s%s%s\n", ui.ColorGray, msges.GetUIMessage("StatusSearching"), ui.ColorReset)

	records, session, err := provider.Resolve(ctx, tgt.Raw)
	if err != nil {
		return nil, err
	}
	fmt.Printf("%s%s%s\n", ui.ColorGreen,
		msges.GetUIMessage("SearchComplete", len(records), session.Polls), ui.ColorReset)

	analyzeLimit := policy.AnalyzeLimit
	if analyzeLimit > 0 && analyzeLimit < len(records) {
		fmt.Printf("%s%s%s\n", ui.ColorYellow, msges.GetUIMessage("AnalyzeCapped", analyzeLimit), ui.ColorReset)
	}

	classifications := make([]report.Classification, len(records))
	classified := make([]bool, len(records))

	if len(records) > 0 {
		workers := policy.MaxConcurrency
		if workers < 1 {
			workers = 1
		}
		if workers > len(records) {
			workers = len(records)
		}
		fmt.Printf("%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("AnalyzingRecords", len(records), workers), ui.ColorReset)
		output.PrintTriageProgress(0, len(records), "Analyzing", "")

		recordTimeout := millis(policy.RecordTimeoutMilli)
		var completedCount int32

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, rec := range records {
			i, rec := i, rec
			g.Go(func() error {
				defer func() {
					n := atomic.AddInt32(&completedCount, 1)
					output.PrintTriageProgress(int(n), len(records), "Analyzing", rec.Name)
				}()

				if gctx.Err() != nil {
					return nil
				}
				if analyzeLimit > 0 && i >= analyzeLimit {
					classifications[i] = report.FallbackClassification()
					classified[i] = true
					return nil
				}

				recCtx, recCancel := context.WithTimeout(gctx, recordTimeout)
				defer recCancel()

				preview := provider.FetchPreview(recCtx, rec)
				if verbose && preview.Availability == report.PreviewAvailable {
					output.PrintPreviewEcho(rec.Name, preview.Content)
				}
				classifications[i] = classifier.Classify(recCtx, preview)
				classified[i] = true
				return nil
			})
		}
		_ = g.Wait()
		fmt.Println()
	}

	unfinished := 0
	for _, done := range classified {
		if !done {
			unfinished++
		}
	}
	if unfinished > 0 && ctx.Err() == context.DeadlineExceeded {
		fmt.Printf("%s%s%s\n", ui.ColorYellow, msges.GetUIMessage("RunDeadlineHit", unfinished), ui.ColorReset)
	}

	metas := make([]report.RecordMeta, len(records))
	byID := make(map[string]report.Classification, len(records))
	for i, rec := range records {
		metas[i] = rec.Meta()
		if classified[i] {
			byID[rec.SystemID] = classifications[i]
		}
	}

	findings := report.Aggregate(metas, byID)
	for i := range findings {
		findings[i] = report.SanitizeFinding(findings[i])
	}

	rep := &report.Report{
		Target:        tgt.Raw,
		TargetKind:    string(tgt.Kind),
		SessionStatus: string(session.Status),
		SessionID:     session.ID,
		Polls:         session.Polls,
		RecordCount:   len(records),
		Summary:       report.Summarize(findings),
		Findings:      findings,
		StartTime:     startTime,
		EndTime:       time.Now(),
	}
	if metrics != nil {
		rep.Requests, rep.RequestTime = metrics.Snapshot()
	}
	return rep, nil
}

// buildClients assembles the run's transport stack: metrics innermost, the
// shared request budget above it, and one token bucket pacing every outbound
// call. Both providers draw from the same limiter so local concurrency never
// translates into provider-side throttling.
func buildClients(policy config.TriagePolicy) (providerClient, llmClient *http.Client, metrics *engine.MetricsTransport) {
	providerClient = engine.NewHTTPClient(true, nil)
	llmClient = engine.NewHTTPClient(true, nil)
	metrics = &engine.MetricsTransport{Base: providerClient.Transport}

	requestBudget := policy.RequestBudget
	if requestBudget == 0 {
		requestBudget = int64(20 + policy.MaxRecords*4)
	}
	budget := &engine.RequestBudgetTransport{Base: metrics, Max: requestBudget}

	burst := int(policy.ProviderRatePerSec)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(policy.ProviderRatePerSec), burst)
	providerClient.Transport = &engine.RateLimitTransport{Base: budget, Limiter: limiter}
	llmClient.Transport = &engine.RateLimitTransport{Base: budget, Limiter: limiter}
	return providerClient, llmClient, metrics
}

func applyOverrides(policy *config.TriagePolicy, opts Options) {
	if opts.MaxRecords > 0 {
		policy.MaxRecords = opts.MaxRecords
	}
	if opts.AnalyzeLimit > 0 {
		policy.AnalyzeLimit = opts.AnalyzeLimit
	}
	if opts.TimeoutSec > 0 {
		policy.RunTimeoutMillis = opts.TimeoutSec * 1000
	}
	if opts.Concurrency > 0 {
		policy.MaxConcurrency = opts.Concurrency
	}
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

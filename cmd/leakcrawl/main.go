package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/leakcrawl/pkg/analyze"
	"github.com/Sriram-PR/leakcrawl/pkg/config"
	"github.com/Sriram-PR/leakcrawl/pkg/crawler"
	"github.com/Sriram-PR/leakcrawl/pkg/fetch"
	"github.com/Sriram-PR/leakcrawl/pkg/parse"
	"github.com/Sriram-PR/leakcrawl/pkg/report"
	"github.com/Sriram-PR/leakcrawl/pkg/storage"
	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Channel to listen for OS signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		logrus.Warnf("Received signal: %v. Stopping crawl and writing partial reports...", sig)
		cancel()

		// Allow force exit on second signal or timeout
		select {
		case sig = <-sigChan:
			logrus.Warnf("Received second signal: %v. Forcing exit.", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logrus.Warn("Graceful shutdown period exceeded after signal. Forcing exit.")
			os.Exit(1)
		}
	}()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

// run executes one crawl and returns the process exit code
func run(ctx context.Context, args []string, logOut io.Writer) int {
	// --- Early Initialization & Flags ---
	log := logrus.New()
	log.SetOutput(logOut)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	flags := flag.NewFlagSet("leakcrawl", flag.ContinueOnError)
	flags.SetOutput(logOut)
	configFileFlag := flags.String("config", "config.yaml", "Path to YAML config file")
	logLevelFlag := flags.String("loglevel", "info", "Log level (debug, info, warn, error)")
	workersFlag := flags.Int("workers", 0, "Number of concurrent workers (overrides num_workers)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// --- Logger Configuration ---
	level, err := logrus.ParseLevel(*logLevelFlag)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", *logLevelFlag, err)
	} else {
		log.SetLevel(level)
	}

	// --- Load & Validate Configuration ---
	log.Infof("Loading configuration from %s", *configFileFlag)
	appCfg, err := config.LoadConfig(*configFileFlag)
	if err != nil {
		log.WithField("category", utils.CategorizeError(err)).Errorf("Cannot start: %v", err)
		return 1
	}
	if *workersFlag > 0 {
		appCfg.NumWorkers = *workersFlag
	}
	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.WithField("category", utils.CategorizeError(err)).Errorf("Cannot start: %v", err)
		return 1
	}
	logAppConfig(appCfg, log)

	// --- Patterns ---
	rawPatterns, err := config.LoadPatterns(appCfg.RegexFile)
	if err != nil {
		log.WithField("category", utils.CategorizeError(err)).Errorf("Cannot start: %v", err)
		return 1
	}
	patterns, patternErrs := analyze.CompilePatterns(rawPatterns)
	for _, perr := range patternErrs {
		log.WithField("category", utils.CategorizeError(perr)).Warnf("Skipping pattern: %v", perr)
	}
	if patterns.Len() == 0 {
		log.Warn("No usable regex patterns; reports will contain no matches.")
	}

	// ===========================================================
	// == Initialize Components ==
	// ===========================================================
	crawlLog := log.WithField("crawl_id", uuid.NewString())

	store, err := storage.New(appCfg.VisitedStore, crawlLog.WithField("component", "store"))
	if err != nil {
		crawlLog.Errorf("Failed to initialize visited store: %v", err)
		return 1
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			crawlLog.Warnf("Closing visited store: %v", cerr)
		}
	}()

	fetchLog := crawlLog.WithField("component", "fetch")
	httpClient := fetch.NewClient(appCfg.HTTPClientSettings, fetchLog)
	seedHost := parse.HostOf(appCfg.BaseURL)
	fetcher := fetch.NewFetcher(httpClient, fetch.Options{
		UserAgent:    appCfg.UserAgent,
		Timeout:      appCfg.RequestTimeout,
		MaxBodyBytes: appCfg.MaxPageSizeBytes,
		InScope:      func(host string) bool { return parse.IsInScope(seedHost, host) },
	}, fetchLog)

	crawlerInstance, err := crawler.NewCrawler(appCfg, patterns, store, fetcher, crawlLog.WithField("component", "crawler"))
	if err != nil {
		crawlLog.Errorf("Failed to initialize crawler: %v", err)
		return 1
	}

	// ===========================================================
	// == Crawl & Report ==
	// ===========================================================
	result, runErr := crawlerInstance.Run(ctx)
	if result == nil {
		crawlLog.Errorf("Crawl produced no result: %v", runErr)
		return 1
	}

	writer := report.NewWriter(crawlLog.WithField("component", "report"))
	paths := report.Paths{
		Detailed: appCfg.OutputFile,
		Sorted:   appCfg.SortedOutputFile,
		NoURL:    appCfg.NoURLOutputFile,
	}
	if err := writer.WriteAll(paths, result.CrawledURLs, result.Pages); err != nil {
		crawlLog.Errorf("Report generation failed: %v", err)
		return 1
	}

	// --- Exit ---
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			crawlLog.Warn("Crawl cancelled gracefully; reports cover the pages visited so far.")
			return 0
		}
		crawlLog.Errorf("Crawl finished with error: %v", runErr)
		return 1
	}

	crawlLog.Infof("Crawl completed successfully. %d URL(s) crawled, %d failed.", len(result.CrawledURLs), len(result.Failed))
	return 0
}

// logAppConfig logs the effective configuration
func logAppConfig(appCfg *config.AppConfig, log *logrus.Logger) {
	log.Infof("Config: BaseURL:%s, Depth:%d, Advanced:%t, Workers:%d, Order:%s, Store:%s",
		appCfg.BaseURL, appCfg.MaxDepth(), appCfg.Advanced, appCfg.NumWorkers, appCfg.TraversalOrder, appCfg.VisitedStore)
	log.Infof("Config Files: Regex:%s, Output:%s, Sorted:%s, NoURL:%s",
		appCfg.RegexFile, appCfg.OutputFile, appCfg.SortedOutputFile, appCfg.NoURLOutputFile)
	log.Infof("Config Fetch: Timeout:%v, MaxPageSize:%d bytes, UserAgent:'%s'",
		appCfg.RequestTimeout, appCfg.MaxPageSizeBytes, appCfg.UserAgent)
	log.Infof("Config HTTP Client: MaxIdle:%d, MaxIdlePerHost:%d, IdleTimeout:%v, TLSTimeout:%v, DialerTimeout:%v, MaxRedirects:%d",
		appCfg.HTTPClientSettings.MaxIdleConns, appCfg.HTTPClientSettings.MaxIdleConnsPerHost,
		appCfg.HTTPClientSettings.IdleConnTimeout, appCfg.HTTPClientSettings.TLSHandshakeTimeout,
		appCfg.HTTPClientSettings.DialerTimeout, appCfg.HTTPClientSettings.MaxRedirects)
}

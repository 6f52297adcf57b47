package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"birdwatch/internal/modkit"
	"birdwatch/internal/modkit/module"
	"birdwatch/internal/platform/config"
	"birdwatch/internal/platform/logger"
	"birdwatch/internal/platform/store"

	policiesrepo "birdwatch/internal/services/api/policies/repo"
	policiessvc "birdwatch/internal/services/api/policies/service"
	scanmod "birdwatch/internal/services/scan/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	polCfg := root.Prefix("POLICY_")

	l := logger.Get()

	// Flags (same spirit as the API, but one synchronous run)
	var (
		fUsers  = flag.String("usernames", "", "comma-separated usernames to scan (required)")
		fPolicy = flag.String("policy", "", "policy pack name (required)")
		fConc   = flag.Int("concurrency", 8, "per-user classification concurrency")
		fSample = flag.String("sample", "", "optional local JSON file of posts instead of the live API")
	)
	flag.Parse()

	usernames := splitCSV(*fUsers)
	if len(usernames) == 0 || *fPolicy == "" {
		fmt.Fprintln(os.Stderr, "usage: birdwatch-scan -usernames acme,globex -policy social_media")
		os.Exit(2)
	}

	chURL := chCfg.MayString("DBURL", "")

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "birdwatch",
			ClientTag:  "scan",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	// Export as env so the module can also read via FromConfig.
	mustSetEnv("SCAN_CONCURRENCY", fmt.Sprintf("%d", *fConc))
	mustSetEnv("SCAN_SAMPLE_FILE", *fSample)

	rules := policiessvc.New(policiesrepo.NewFS(polCfg.MayString("DIR", "./policies")))

	mod := scanmod.New(deps, rules)
	module.Register(mod.Name(), mod.Ports())

	ports := module.MustPortsOf[scanmod.Ports](mod)

	results, err := ports.Trigger.Run(context.Background(), usernames, *fPolicy)
	if err != nil {
		l.Fatal().Err(err).Msg("scan run failed")
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("%-20s FAILED  %v\n", res.Username, res.Err)
			continue
		}
		fmt.Printf("%-20s fetched=%d violations=%d malformed=%d\n",
			res.Username, res.Fetched, res.Violations, res.Malformed)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

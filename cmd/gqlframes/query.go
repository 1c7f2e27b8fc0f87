package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gqlframes/internal/config"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
	logpkg "github.com/kailas-cloud/gqlframes/internal/logger"
	chiTransport "github.com/kailas-cloud/gqlframes/internal/transport/chi"
	dsuc "github.com/kailas-cloud/gqlframes/internal/usecase/datasource"
)

// targetFlags are shared by the one-shot commands.
type targetFlags struct {
	datasource string
	url        string
	basicAuth  string
	validate   bool
	queryFile  string
	dataPath   string
	from       string
	to         string
}

func (f *targetFlags) registerDatasource(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.datasource, "datasource", "", "Configured datasource name")
	cmd.Flags().StringVar(&f.url, "url", "", "Ad-hoc GraphQL endpoint URL (no config needed)")
	cmd.Flags().StringVar(&f.basicAuth, "basic-auth", "", "Authorization header value for --url")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "Parse the query before sending it (with --url)")
}

func (f *targetFlags) register(cmd *cobra.Command) {
	f.registerDatasource(cmd)
	cmd.Flags().StringVar(&f.queryFile, "query-file", "", "File holding the GraphQL query (- for stdin)")
	cmd.Flags().StringVar(&f.dataPath, "data-path", "", "Dot-separated path to the documents")
	cmd.Flags().StringVar(&f.from, "from", "", "Range start: RFC3339, epoch ms or a duration like 6h (ago)")
	cmd.Flags().StringVar(&f.to, "to", "", "Range end: RFC3339, epoch ms or a duration (ago); default now")
}

// service resolves the datasource from --url or the config file.
func (f *targetFlags) service(logger *zap.Logger) (*dsuc.Service, error) {
	if f.url != "" {
		ds := config.DatasourceConfig{
			URL:           f.url,
			BasicAuth:     f.basicAuth,
			TimeoutSec:    30,
			ValidateQuery: f.validate,
		}
		return buildService("adhoc", ds, query.Default(), logger), nil
	}
	if f.datasource == "" {
		return nil, errors.New("either --datasource or --url is required")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	registry, _ := buildRegistry(cfg, logger)
	return registry.Get(f.datasource)
}

func (f *targetFlags) queryText(stdin io.Reader) (string, error) {
	if f.queryFile == "" {
		return "", nil
	}
	if f.queryFile == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(filepath.Clean(f.queryFile))
	if err != nil {
		return "", fmt.Errorf("read query file: %w", err)
	}
	return string(b), nil
}

// timeRange returns nil when neither bound is given.
func (f *targetFlags) timeRange(now time.Time) (*query.TimeRange, error) {
	if f.from == "" && f.to == "" {
		return nil, nil
	}
	to := now
	if f.to != "" {
		t, err := parseInstant(f.to, now)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		to = t
	}
	from := to.Add(-time.Hour)
	if f.from != "" {
		t, err := parseInstant(f.from, now)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		from = t
	}
	return &query.TimeRange{From: from.UTC(), To: to.UTC()}, nil
}

// parseInstant accepts RFC3339, epoch milliseconds or a duration before now.
func parseInstant(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", s)
}

func cliLogger() (*zap.Logger, error) {
	return logpkg.NewCLILogger(logLevel)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	queryFlags targetFlags
	groupBy    string
	aliasBy    string
	refID      string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one target query and print the frames as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := cliLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		svc, err := queryFlags.service(logger)
		if err != nil {
			return err
		}
		text, err := queryFlags.queryText(cmd.InOrStdin())
		if err != nil {
			return err
		}
		rng, err := queryFlags.timeRange(time.Now())
		if err != nil {
			return err
		}

		frames, err := svc.Query(cmd.Context(), query.Request{
			Targets: []query.Query{{
				RefID:     refID,
				QueryText: text,
				DataPath:  queryFlags.dataPath,
				GroupBy:   groupBy,
				AliasBy:   aliasBy,
			}},
			Range: rng,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), chiTransport.QueryResponse{Frames: chiTransport.FramesToDTO(frames)})
	},
}

var (
	annotationFlags targetFlags
	annTitle        string
	annText         string
	annTags         string
)

var annotationsCmd = &cobra.Command{
	Use:   "annotations",
	Short: "Run an annotation query and print the events as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := cliLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		svc, err := annotationFlags.service(logger)
		if err != nil {
			return err
		}
		text, err := annotationFlags.queryText(cmd.InOrStdin())
		if err != nil {
			return err
		}
		rng, err := annotationFlags.timeRange(time.Now())
		if err != nil {
			return err
		}

		events, err := svc.AnnotationQuery(cmd.Context(), query.AnnotationRequest{
			Annotation: query.Query{
				QueryText:       text,
				DataPath:        annotationFlags.dataPath,
				AnnotationTitle: annTitle,
				AnnotationText:  annText,
				AnnotationTags:  annTags,
			},
			Range: rng,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(),
			chiTransport.AnnotationResponse{Annotations: chiTransport.EventsToDTO(events)})
	},
}

var testFlags targetFlags

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Probe a datasource and print its status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := cliLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		svc, err := testFlags.service(logger)
		if err != nil {
			return err
		}

		st := svc.TestDatasource(cmd.Context())
		if err := printJSON(cmd.OutOrStdout(), chiTransport.StatusResponse{
			Status:  string(st.State),
			Message: st.Message,
		}); err != nil {
			return err
		}
		if st.State != dsuc.StateSuccess {
			return fmt.Errorf("datasource test failed: %s", st.Message)
		}
		return nil
	},
}

func init() {
	queryFlags.register(queryCmd)
	queryCmd.Flags().StringVar(&groupBy, "group-by", "", "Comma-separated fields to split series by")
	queryCmd.Flags().StringVar(&aliasBy, "alias-by", "", "Column title template ($field_<name>, $fieldName)")
	queryCmd.Flags().StringVar(&refID, "ref-id", "A", "Reference id stamped on every frame")

	annotationFlags.register(annotationsCmd)
	annotationsCmd.Flags().StringVar(&annTitle, "title", "", "Event title template")
	annotationsCmd.Flags().StringVar(&annText, "text", "", "Event text template")
	annotationsCmd.Flags().StringVar(&annTags, "tags", "", "Comma-separated tag templates")

	testFlags.registerDatasource(testCmd)

	rootCmd.AddCommand(queryCmd, annotationsCmd, testCmd)
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/fieldnotes/internal/logging"
	"github.com/pdiddy/fieldnotes/internal/record"
	"github.com/pdiddy/fieldnotes/internal/resolve"
	"github.com/pdiddy/fieldnotes/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "fieldnotes/0.1"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [citations...]",
	Short: "Resolve DOI citations into formatted reference text",
	Long: `Resolve partitions citation strings the way the recorder does: strings
with a DOI registry prefix ("10.xxxx/...") are looked up via doi.org content
negotiation; everything else passes through as literal reference text. The
merged, sorted reference list is printed or written to a YAML file.

Citations come from the command line or from a YAML file ("citations:"
list) given with --file.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("file", "", "YAML file with a citations list")
	resolveCmd.Flags().String("out", "", "write resolved references to a YAML file instead of stdout")
	resolveCmd.Flags().String("format", "text", "output format: text or csl")
	resolveCmd.Flags().String("style", "apa", "citation style for text output")
	resolveCmd.Flags().String("locale", "en-US", "citation locale for text output")
	resolveCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	resolveCmd.Flags().Duration("delay", 0, "delay between consecutive lookups (default 1s)")
	resolveCmd.Flags().String("cache-dir", "", "directory for the citation cache (disabled when empty)")
	resolveCmd.Flags().String("mailto", "", "contact address advertised in the User-Agent header")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	citations := args
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		rf, err := resolve.ReadRefsFile(file)
		if err != nil {
			return err
		}
		citations = append(citations, rf.Citations...)
	}
	if len(citations) == 0 {
		return fmt.Errorf("provide one or more citations, or --file with a citations list")
	}

	cfg := resolverConfig(cmd)

	log := logging.Default()
	client := resolve.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg, log)
	if cfg.CacheDir != "" {
		cache, err := resolve.OpenCache(cfg.CacheDir)
		if err != nil {
			return err
		}
		defer cache.Close()
		client.SetCache(cache)
	}

	outFormat, _ := cmd.Flags().GetString("format")
	switch outFormat {
	case "text":
		return resolveText(cmd, client, log, citations)
	case "csl":
		return resolveCSL(cmd, client, citations)
	default:
		return fmt.Errorf("unknown format %q: use text or csl", outFormat)
	}
}

// resolveText runs the citations through the recorder pipeline and prints
// the merged, sorted reference list.
func resolveText(cmd *cobra.Command, client *resolve.Client, log *logging.Logger, citations []string) error {
	rec := record.NewRecorder(client, log)
	rec.Cite(citations...)

	refs, err := rec.CollectReferences(cmd.Context())
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := resolve.WriteResolvedFile(out, len(citations), refs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d reference(s) to %s\n", len(refs), out)
		return nil
	}
	for _, ref := range refs {
		fmt.Println(ref)
	}
	return nil
}

// resolveCSL looks up only the DOI-shaped citations and emits CSL-YAML.
func resolveCSL(cmd *cobra.Command, client *resolve.Client, citations []string) error {
	var dois []string
	seen := make(map[string]bool)
	for _, c := range citations {
		if resolve.IsDOI(c) && !seen[c] {
			seen[c] = true
			dois = append(dois, c)
		}
	}
	if len(dois) == 0 {
		return fmt.Errorf("no DOI identifiers among the given citations")
	}

	items, err := client.ResolveCSL(cmd.Context(), dois)
	if err != nil {
		return err
	}

	w := os.Stdout
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return resolve.WriteCSL(items, w)
}

// resolverConfig assembles the resolver settings from flags and loaded
// secrets.
func resolverConfig(cmd *cobra.Command) types.ResolverConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	style, _ := cmd.Flags().GetString("style")
	locale, _ := cmd.Flags().GetString("locale")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")

	mailto, _ := cmd.Flags().GetString("mailto")
	mailto = secretDefault("crossref-mailto", mailto)
	userAgent := defaultUserAgent
	if mailto != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", defaultUserAgent, mailto)
	}

	return types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		Style:        style,
		Locale:       locale,
		RequestDelay: delay,
		PlusToken:    secretDefault("crossref-plus-api-token", ""),
		CacheDir:     cacheDir,
	}
}

package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/digidem/mapeo-config-renderer/internal/config"
	"github.com/digidem/mapeo-config-renderer/internal/logging"
	"github.com/digidem/mapeo-config-renderer/internal/mapeo"
)

var (
	inspectProtocol string
	inspectHostname string
	inspectPort     string
	inspectQuery    string
	inspectCategory string
)

// categories are the top-level keys of the aggregated configuration.
var categories = []string{"presets", "fields", "messages", "defaults", "metadata", "stylesheet", "_format"}

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Print the aggregated configuration as JSON",
	Long: `Read the configuration in dir and print it the way /api/config serves it.

Use --category to print one part of it, or --query to select values with a
JSONPath expression such as '$.presets[*].name'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectProtocol, "protocol", "", "Protocol for icon URLs (http or https)")
	inspectCmd.Flags().StringVar(&inspectHostname, "hostname", "", "Hostname for icon URLs")
	inspectCmd.Flags().StringVar(&inspectPort, "port", "", "Port for icon URLs")
	inspectCmd.Flags().StringVarP(&inspectQuery, "query", "q", "", "JSONPath expression to apply")
	inspectCmd.Flags().StringVarP(&inspectCategory, "category", "c", "", "Only print this category")
}

func runInspect(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(argDir(args))
	if err != nil {
		return err
	}
	if debug {
		settings.Debug = true
	}
	initLogging(settings.LogLevel, settings.Debug)

	opts := []mapeo.Option{}
	if settings.Debug {
		opts = append(opts, mapeo.WithLogger(mapeo.NewVerboseLogger(logging.Component("mapeo"))))
	}
	reader := mapeo.NewReader(opts...)

	urlOpts := mapeo.URLOptions{
		Protocol: inspectProtocol,
		Hostname: inspectHostname,
		Port:     inspectPort,
	}
	if urlOpts.Protocol != "" && urlOpts.Hostname == "" {
		urlOpts.Hostname = settings.Hostname
	}
	if urlOpts.Protocol != "" && urlOpts.Port == "" {
		urlOpts.Port = strconv.Itoa(settings.Port)
	}

	cfg, err := reader.Config(cmd.Context(), settings.ConfigDir, urlOpts)
	if err != nil {
		return err
	}

	out, err := selectOutput(cfg, inspectCategory, inspectQuery)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// selectOutput narrows the configuration to one category and then applies
// the JSONPath query. A query always yields a list of matches.
func selectOutput(cfg *mapeo.Configuration, category, query string) (any, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var root any
	root, err = oj.Parse(raw)
	if err != nil {
		return nil, err
	}

	if category != "" {
		known := false
		for _, c := range categories {
			if c == category {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown category %q (want one of %v)", category, categories)
		}
		root = root.(map[string]any)[category]
	}

	if query == "" {
		return root, nil
	}
	x, err := jp.ParseString(query)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", query, err)
	}
	results := x.Get(root)
	if results == nil {
		results = []any{}
	}
	return results, nil
}

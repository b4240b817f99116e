package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/excursiongpt/apiprobe/internal/auth"
	"github.com/excursiongpt/apiprobe/internal/common"
	"github.com/excursiongpt/apiprobe/internal/probe"
)

var rootCmd = &cobra.Command{
	Use:   "apiprobe",
	Short: "Exercise the Excursion GPT REST API and report per-endpoint conformance",
	Long: "apiprobe dispatches a declarative catalog of endpoint test cases against a\n" +
		"running Excursion GPT service and classifies every answer as PASS, AUTH\n" +
		"REQUIRED or FAIL. Endpoint failures show up in the printed report, not in\n" +
		"the exit code; only an unknown test name or a broken catalog exits non-zero.",
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog's test case names",
	RunE: func(*cobra.Command, []string) error {
		_, catalog, _, err := loadSetup()
		if err != nil {
			return err
		}
		for _, tc := range catalog {
			authMark := ""
			if tc.RequiresAuth {
				authMark = " [auth]"
			}
			fmt.Printf("%-25s %-6s %s%s\n", tc.Name, string(tc.Method), tc.Path, authMark)
		}
		return nil
	},
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle (runProbe -> loadSetup -> rootCmd).
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runProbe(cmd.Context())
	}

	// Defaults
	v := viper.GetViper()
	v.SetDefault("url", probe.DefaultBaseURL)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "")

	// Environment variables support: APIPROBE_URL, APIPROBE_TOKEN, ...
	v.SetEnvPrefix("APIPROBE")
	v.AutomaticEnv()
	// Bind flags via Cobra and then bind to Viper
	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to a config yaml")
	rootCmd.PersistentFlags().String("url", v.GetString("url"), "base URL of the target service")
	rootCmd.PersistentFlags().String("token", v.GetString("token"), "bearer token to attach to every request")
	rootCmd.PersistentFlags().String("catalog", v.GetString("catalog"), "path to a YAML catalog (default: built-in suite)")
	rootCmd.PersistentFlags().String("log-level", v.GetString("log_level"), "error, warn, info or debug")
	rootCmd.PersistentFlags().String("log-format", v.GetString("log_format"), "text, json or color")
	rootCmd.PersistentFlags().Bool("legacy", false, "also probe the deprecated /api prefix routes")
	rootCmd.Flags().String("test", "", "run only the named test case")

	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
	_ = v.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = v.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("legacy", rootCmd.PersistentFlags().Lookup("legacy"))
	_ = v.BindPFlag("test", rootCmd.Flags().Lookup("test"))

	rootCmd.AddCommand(listCmd)
}

// loadSetup resolves the config document, catalog and runner shared by
// the run and list paths. Flag and env values win over the document.
func loadSetup() (*ConfigDoc, probe.Catalog, *probe.Runner, error) {
	v := viper.GetViper()

	var doc ConfigDoc
	if path := strings.TrimSpace(v.GetString("config")); path != "" {
		if err := doc.Load(path); err != nil {
			return nil, nil, nil, err
		}
	}

	common.SetDefaultLogger(buildLogger(&doc, v))
	logger := common.GetLogger().WithComponent("main")

	baseURL := strings.TrimSpace(v.GetString("url"))
	urlFromFlag := rootCmd.PersistentFlags().Changed("url")
	if doc.BaseURL != "" && baseURL == probe.DefaultBaseURL && !urlFromFlag {
		baseURL = doc.BaseURL
	}

	catalogPath := strings.TrimSpace(v.GetString("catalog"))
	if catalogPath == "" {
		catalogPath = doc.Catalog
	}
	catalog := probe.DefaultCatalog()
	if catalogPath != "" {
		loaded, err := probe.LoadCatalog(catalogPath)
		if err != nil {
			return nil, nil, nil, err
		}
		catalog = loaded
		logger.Info("loaded catalog", "path", catalogPath, "cases", len(catalog))
	}
	if v.GetBool("legacy") {
		catalog = append(catalog, probe.LegacyCatalog()...)
	}

	runner := probe.NewRunner(baseURL, catalog)
	hc, err := doc.BuildClient()
	if err != nil {
		return nil, nil, nil, err
	}
	runner.Client = hc.New()

	token := strings.TrimSpace(v.GetString("token"))
	if token == "" {
		token = doc.Token
	}
	if token != "" {
		installToken(runner.Auth, token, logger)
	}

	return &doc, catalog, runner, nil
}

func buildLogger(doc *ConfigDoc, v *viper.Viper) *common.Logger {
	if f := strings.TrimSpace(v.GetString("log_format")); f != "" {
		doc.Logging.Format = f
	}
	return doc.BuildLogger(strings.TrimSpace(v.GetString("log_level")))
}

func installToken(ac *auth.Context, token string, logger *common.Logger) {
	ac.Set(token)
	logger.Info("using authentication token", "token", common.Preview(token))
	if exp, err := auth.PeekExpiry(token); err == nil {
		if exp.Before(time.Now()) {
			logger.Warn("token is expired, auth-gated endpoints will likely answer 401",
				"expired_at", exp)
		} else {
			logger.Debug("token expiry", "expires_at", exp)
		}
	}
}

func runProbe(ctx context.Context) error {
	_, _, runner, err := loadSetup()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if name := strings.TrimSpace(viper.GetString("test")); name != "" {
		outcome, verdict, err := runner.RunOne(ctx, name)
		if err != nil {
			return err
		}
		printOutcome(name, outcome, verdict)
		return nil
	}

	report, err := runner.RunAll(ctx)
	if err != nil {
		return err
	}
	report.Render(os.Stdout, common.IsTerminal(os.Stdout))
	return nil
}

func printOutcome(name string, o probe.Outcome, v probe.Verdict) {
	fmt.Printf("%s: %s (status %d)\n", name, v, o.StatusCode)
	switch {
	case o.TransportErr != "":
		fmt.Printf("transport error: %s\n", o.TransportErr)
	case o.Body.IsJSON():
		if pretty, err := json.MarshalIndent(o.Body.JSON, "", "  "); err == nil {
			fmt.Println(string(pretty))
		}
	case o.Body.Text != "":
		fmt.Println(o.Body.Text)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

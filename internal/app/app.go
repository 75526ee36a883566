// CLI entrypoint logic for the insights command, kept separate from main
// so command execution is testable with an injected output writer.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	insights_client "github.com/ibm-storage/go-insights-client"
	"github.com/ibm-storage/go-insights-client/core"
)

// Environment variables overriding the credentials file. When both are set
// the file is not consulted at all.
const (
	EnvApiKey   = "SI_API_KEY"
	EnvTenantID = "SI_TENANT_ID"
)

// CLI defines the command-line interface parsed by Kong.
type CLI struct {
	Creds       string        `help:"Path to credentials file containing apikey and tenantid" default:"creds"`
	StorageType string        `name:"storage-type" help:"Storage type filter (block, filer, object). Use blank for all." default:"block"`
	Host        string        `help:"Storage Insights API host" default:"${default_host}"`
	Insecure    bool          `help:"Skip TLS certificate verification"`
	Timeout     time.Duration `help:"HTTP request timeout" default:"30s"`
	EnvFile     string        `name:"env-file" help:"Path to .env file"`
	JsonOut     string        `name:"json-out" help:"Write the raw storage systems JSON payload to PATH"`
	TokenOut    string        `name:"token-out" help:"Write the obtained API token to PATH"`
	Table       bool          `help:"Print the storage systems summary table to stdout"`
	TableOut    string        `name:"table-out" help:"Write the summary table to PATH"`
	Limit       *int          `help:"Limit the number of rows displayed in the table"`
	Quiet       bool          `short:"q" help:"Suppress non-essential console output"`
	Version     bool          `help:"Show version information"`
}

// Dependencies holds injected dependencies for command execution.
type Dependencies struct {
	Out io.Writer
}

// Run parses the arguments and executes the fetch pipeline.
// Returns 0 on success, 1 on any credential, auth or fetch failure.
// Optional output write failures are reported as warnings and do not
// change the exit code.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("insights"),
		kong.Description("Interact with IBM Storage Insights tenant APIs"),
		kong.Vars{"default_host": core.DefaultHost},
	)
	if err != nil {
		return exitWithError(out, err)
	}
	if _, err = parser.Parse(args); err != nil {
		return exitWithError(out, err)
	}

	if cli.Version {
		fmt.Fprintln(out, core.ClientVersion())
		return 0
	}

	loadEnvFile(cli.EnvFile, out)

	apiKey, tenantID := os.Getenv(EnvApiKey), os.Getenv(EnvTenantID)
	if apiKey == "" || tenantID == "" {
		creds, err := insights_client.LoadCredentials(cli.Creds)
		if err != nil {
			return exitWithError(out, err)
		}
		if apiKey == "" {
			apiKey = creds.ApiKey
		}
		if tenantID == "" {
			tenantID = creds.TenantID
		}
	}

	if !cli.Quiet {
		fmt.Fprintf(out, "Using tenant: %s\n", tenantID)
	}

	config := &insights_client.TenantConfig{
		Host:      cli.Host,
		ApiKey:    apiKey,
		TenantID:  tenantID,
		SslVerify: !cli.Insecure,
		Timeout:   &cli.Timeout,
	}
	rest, err := insights_client.NewRest(config)
	if err != nil {
		return exitWithError(out, err)
	}

	if cli.TokenOut != "" {
		if err := writeOutput(cli.TokenOut, rest.Token().Value+"\n", 0o600); err != nil {
			fmt.Fprintf(out, "Warning: %v\n", err)
		} else if !cli.Quiet {
			fmt.Fprintf(out, "Wrote token to %s\n", cli.TokenOut)
		}
	}

	if !cli.Quiet {
		fmt.Fprintf(out, "Token expiration (UTC): %s\n", rest.Token().ExpirationTime().Format(time.RFC3339))
	}

	payload, err := rest.StorageSystems.ListRawByType(cli.StorageType)
	if err != nil {
		return exitWithError(out, err)
	}
	systems, err := core.ExtractData(payload)
	if err != nil {
		return exitWithError(out, err)
	}

	if !cli.Quiet {
		summaryType := stringOr(payload["storageType"], stringOr(cli.StorageType, "all"))
		fmt.Fprintf(out, "Retrieved %d storage systems (storageType=%s)\n", len(systems), summaryType)
	}

	if cli.JsonOut != "" {
		if err := writeOutput(cli.JsonOut, payload.PrettyJson("  ")+"\n", 0o644); err != nil {
			fmt.Fprintf(out, "Warning: %v\n", err)
		} else if !cli.Quiet {
			fmt.Fprintf(out, "Wrote JSON payload to %s\n", cli.JsonOut)
		}
	}

	if cli.Table || cli.TableOut != "" {
		// Absent --limit renders every row; --limit 0 renders only the header.
		limit := -1
		if cli.Limit != nil {
			limit = *cli.Limit
		}
		tableText := insights_client.BuildStatusTable(systems, limit)
		if cli.Table {
			fmt.Fprintln(out, tableText)
		}
		if cli.TableOut != "" {
			if err := writeOutput(cli.TableOut, tableText+"\n", 0o644); err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
			} else if !cli.Quiet {
				fmt.Fprintf(out, "Wrote table to %s\n", cli.TableOut)
			}
		}
	}

	return 0
}

// loadEnvFile loads an explicit env file, or .env from the working
// directory when present. Failures are warnings: credentials may still come
// from the creds file.
func loadEnvFile(path string, out io.Writer) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", path, err)
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
		}
	}
}

// writeOutput writes a single optional output file all-or-nothing.
func writeOutput(path, content string, perm os.FileMode) error {
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return &core.OutputError{Path: path, Err: err}
	}
	return nil
}

func stringOr(val any, fallback string) string {
	if val == nil {
		return fallback
	}
	s := fmt.Sprint(val)
	if s == "" {
		return fallback
	}
	return s
}

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, "Error:", err)
	return 1
}

package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  agenda config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{reader: reader, out: out}
	cfg.Schedule.Provider = p.value("Provider (email or id, empty for anonymous)", cfg.Schedule.Provider)
	cfg.Schedule.DurationOnline = p.int("Online duration (minutes)", cfg.Schedule.DurationOnline)
	cfg.Schedule.DurationInPerson = p.int("In-person duration (minutes)", cfg.Schedule.DurationInPerson)
	cfg.Schedule.BufferMinutes = p.int("Buffer (minutes)", cfg.Schedule.BufferMinutes)
	cfg.Schedule.DefaultModality = p.value("Default modality (online, in_person)", cfg.Schedule.DefaultModality)
	cfg.Schedule.PreferredStart = p.value("Preferred start", cfg.Schedule.PreferredStart)
	cfg.Storage.Backend = p.value("Storage backend (sqlite, redis, postgres)", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		cfg.Storage.RedisAddr = p.value("Redis address", cfg.Storage.RedisAddr)
		cfg.Storage.RedisDB = p.int("Redis database", cfg.Storage.RedisDB)
	case config.BackendPostgres:
		cfg.Storage.PostgresURL = p.value("Postgres URL", cfg.Storage.PostgresURL)
	default:
		cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	}
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  provider           = %s\n", cfg.Schedule.Provider)
	fmt.Fprintf(out, "  duration_online    = %d\n", cfg.Schedule.DurationOnline)
	fmt.Fprintf(out, "  duration_in_person = %d\n", cfg.Schedule.DurationInPerson)
	fmt.Fprintf(out, "  buffer_minutes     = %d\n", cfg.Schedule.BufferMinutes)
	fmt.Fprintf(out, "  default_modality   = %s\n", cfg.Schedule.DefaultModality)
	fmt.Fprintf(out, "  preferred_start    = %s\n", cfg.Schedule.PreferredStart)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  backend            = %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		fmt.Fprintf(out, "  redis_addr         = %s\n", cfg.Storage.RedisAddr)
		fmt.Fprintf(out, "  redis_db           = %d\n", cfg.Storage.RedisDB)
	case config.BackendPostgres:
		fmt.Fprintf(out, "  postgres_url       = %s\n", redactURL(cfg.Storage.PostgresURL))
	default:
		fmt.Fprintf(out, "  db_path            = %s\n", cfg.Storage.DBPath)
	}
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme              = %s\n", cfg.UI.Theme)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level              = %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(out, "  file               = %s\n", cfg.Log.File)
	}
}

// redactURL hides the password of a connection URL.
func redactURL(u string) string {
	at := strings.LastIndex(u, "@")
	scheme := strings.Index(u, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return u
	}
	creds := u[scheme+3 : at]
	if user, _, ok := strings.Cut(creds, ":"); ok {
		return u[:scheme+3] + user + ":****" + u[at:]
	}
	return u
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

// prompter reads line-based answers, keeping the current value on empty input.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	input, _ := p.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) int(label string, current int) int {
	for {
		value := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", value)
	}
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/EdwinWenink/gnucash-scripts/internal/statement"
)

// DefaultFile is the config file looked up in the working directory when no
// --config flag is given.
const DefaultFile = "config.yml"

// Config represents the top-level config.yml configuration.
type Config struct {
	ReadOnly          bool            `yaml:"read_only"`
	CSVDelimiter      string          `yaml:"csv_delimiter"`
	SkipMalformedRows bool            `yaml:"skip_malformed_rows"`
	Locations         LocationsConfig `yaml:"locations"`
	Bank              BankConfig      `yaml:"bank"`
	Fields            FieldsConfig    `yaml:"fields,omitempty"`
}

// LocationsConfig points at the book and the statement to import. Dir is
// resolved relative to the user's home directory.
type LocationsConfig struct {
	Dir           string `yaml:"dir"`
	Book          string `yaml:"book"`
	BankStatement string `yaml:"bank_statement"`
}

// BankConfig names the bank accounts by their full hierarchical account
// names, and which of the two a statement is imported into.
type BankConfig struct {
	Checkings   string `yaml:"checkings"`
	Savings     string `yaml:"savings"`
	FromAccount string `yaml:"from_account"` // "checkings" (default) or "savings"
}

// FieldsConfig overrides the statement's CSV column names. Empty entries
// keep the ING defaults.
type FieldsConfig struct {
	Date           string `yaml:"date,omitempty"`
	Counterparty   string `yaml:"counterparty,omitempty"`
	Account        string `yaml:"account,omitempty"`
	CounterAccount string `yaml:"counter_account,omitempty"`
	Code           string `yaml:"code,omitempty"`
	Direction      string `yaml:"direction,omitempty"`
	Amount         string `yaml:"amount,omitempty"`
	SubType        string `yaml:"sub_type,omitempty"`
	Notes          string `yaml:"notes,omitempty"`
}

// Load reads a config.yml file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Locations.Book == "" {
		return fmt.Errorf("locations.book is required")
	}
	if c.Locations.BankStatement == "" {
		return fmt.Errorf("locations.bank_statement is required")
	}
	if c.Bank.Checkings == "" {
		return fmt.Errorf("bank.checkings is required")
	}
	switch c.Bank.FromAccount {
	case "", "checkings", "savings":
	default:
		return fmt.Errorf("bank.from_account must be \"checkings\" or \"savings\", got %q", c.Bank.FromAccount)
	}
	if c.Bank.FromAccount == "savings" && c.Bank.Savings == "" {
		return fmt.Errorf("bank.savings is required when bank.from_account is \"savings\"")
	}
	if len(c.CSVDelimiter) > 1 {
		return fmt.Errorf("csv_delimiter must be a single character, got %q", c.CSVDelimiter)
	}
	return nil
}

// BaseDir resolves locations.dir against the user's home directory.
func (c *Config) BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, c.Locations.Dir), nil
}

// BookPath returns the absolute path of the book file.
func (c *Config) BookPath() (string, error) {
	dir, err := c.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Locations.Book), nil
}

// StatementPath returns the absolute path of the bank statement CSV.
func (c *Config) StatementPath() (string, error) {
	dir, err := c.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Locations.BankStatement), nil
}

// TargetAccount returns the full name of the account this run imports into.
func (c *Config) TargetAccount() string {
	if c.Bank.FromAccount == "savings" {
		return c.Bank.Savings
	}
	return c.Bank.Checkings
}

// Delimiter returns the statement delimiter, defaulting to semicolon.
func (c *Config) Delimiter() rune {
	if c.CSVDelimiter == "" {
		return ';'
	}
	return rune(c.CSVDelimiter[0])
}

// FieldMapping returns the statement column mapping with any configured
// overrides applied.
func (c *Config) FieldMapping() statement.FieldMapping {
	m := statement.DefaultFieldMapping()
	f := c.Fields
	apply := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	apply(&m.Date, f.Date)
	apply(&m.Counterparty, f.Counterparty)
	apply(&m.Account, f.Account)
	apply(&m.CounterAccount, f.CounterAccount)
	apply(&m.Code, f.Code)
	apply(&m.Direction, f.Direction)
	apply(&m.Amount, f.Amount)
	apply(&m.SubType, f.SubType)
	apply(&m.Notes, f.Notes)
	return m
}

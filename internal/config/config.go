package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mandir-dev/mandir/internal/events"
)

// Config represents the top-level mandir.yaml configuration.
type Config struct {
	Temple   TempleConfig   `yaml:"temple"`
	Accounts AccountsConfig `yaml:"accounts"`
	Git      GitConfig      `yaml:"git"`
}

// TempleConfig identifies the trust that owns the books.
type TempleConfig struct {
	Name              string `yaml:"name"`
	TrustRegistration string `yaml:"trust_registration,omitempty"`
}

// AccountsConfig maps the event-mapping roles to chart account ids.
type AccountsConfig struct {
	Cash            int `yaml:"cash"`
	Bank            int `yaml:"bank"`
	AccountsPayable int `yaml:"accounts_payable"`
	DonationIncome  int `yaml:"donation_income"`
	SevaIncome      int `yaml:"seva_income"`
	CampaignIncome  int `yaml:"campaign_income"`
	PrasadamIncome  int `yaml:"prasadam_income"`
	EventExpense    int `yaml:"event_expense"`
	ProjectExpense  int `yaml:"project_expense"`
	GeneralExpense  int `yaml:"general_expense"`
}

// Directory converts the mapping block into the adapter's account directory.
func (a AccountsConfig) Directory() events.Directory {
	return events.Directory{
		Cash:            a.Cash,
		Bank:            a.Bank,
		AccountsPayable: a.AccountsPayable,
		DonationIncome:  a.DonationIncome,
		SevaIncome:      a.SevaIncome,
		CampaignIncome:  a.CampaignIncome,
		PrasadamIncome:  a.PrasadamIncome,
		EventExpense:    a.EventExpense,
		ProjectExpense:  a.ProjectExpense,
		GeneralExpense:  a.GeneralExpense,
	}
}

// GitConfig controls git integration for the books directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a mandir.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config wired to the default chart of accounts.
func Default(templeName string) *Config {
	return &Config{
		Temple: TempleConfig{
			Name: templeName,
		},
		Accounts: AccountsConfig{
			Cash:            1010,
			Bank:            1020,
			AccountsPayable: 2010,
			DonationIncome:  4010,
			SevaIncome:      4020,
			CampaignIncome:  4030,
			PrasadamIncome:  4040,
			EventExpense:    5020,
			ProjectExpense:  5060,
			GeneralExpense:  5070,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Mandir Ledger",
			AuthorEmail: "ledger@mandir.dev",
		},
	}
}

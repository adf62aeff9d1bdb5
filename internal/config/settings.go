package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every settings variable, e.g. TALLY_SOURCE_DIR.
const EnvPrefix = "tally"

// Settings are the run defaults taken from the environment. Flags override them.
type Settings struct {
	SourceDir string `envconfig:"SOURCE_DIR" default:"source_files"`
	DestDir   string `envconfig:"DEST_DIR" default:"dest_files"`
	RulesPath string `envconfig:"RULES" default:"config/category_mappings.yml"`
	From      string `envconfig:"FROM"` // YYYY-MM-DD, inclusive
	To        string `envconfig:"TO"`   // YYYY-MM-DD, inclusive
	Unmatched string `envconfig:"UNMATCHED" default:"error"`
	Workbook  bool   `envconfig:"XLSX" default:"false"`
}

// LoadSettings loads any of envFiles that exist, then processes TALLY_* variables.
// Variables already set in the environment win over .env files.
func LoadSettings(envFiles ...string) (*Settings, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &s, nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const scoringEnvPrefix = "SCORING_"

// LoadScoring layers an optional YAML file and SCORING_* env vars over target,
// which must be a pointer to a struct already holding its defaults. Keys that are
// absent from both sources leave the corresponding defaults untouched.
//
// Nested keys are reached from env with a double underscore:
// SCORING_RULES__CHURN_RECENCY_DAYS -> rules.churn_recency_days.
func LoadScoring(path string, target any) error {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("load scoring config %s: %w", path, err)
		}
	}

	envProvider := env.Provider(scoringEnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, scoringEnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return fmt.Errorf("load scoring env: %w", err)
	}

	if err := k.UnmarshalWithConf("", target, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("decode scoring config: %w", err)
	}

	return nil
}

package config

import (
	"tastebuddin/internal/tokens"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

// LoadSynonyms returns the built-in synonym table merged with the optional
// YAML file at path. The file maps a canonical token to its aliases:
//
//	synonyms:
//	  dairy: [milk, cheese, butter]
//	  treenuts: [almond, cashew]
func LoadSynonyms(path string) (map[string]string, error) {
	log := logger.New("config").Function("LoadSynonyms")

	synonyms := tokens.DefaultSynonyms()
	if path == "" {
		return synonyms, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, log.Err("failed to read allergen synonyms file", err, "path", path)
	}

	groups := v.GetStringMap("synonyms")
	for canonical, aliases := range groups {
		synonyms[canonical] = canonical
		for _, alias := range tokens.ParseList(aliases) {
			synonyms[alias] = canonical
		}
	}

	log.Info("Loaded allergen synonyms", "path", path, "groups", len(groups), "entries", len(synonyms))
	return synonyms, nil
}

// Canonicalizer builds the token canonicalizer for this configuration.
func (c Config) Canonicalizer() (*tokens.Canonicalizer, error) {
	synonyms, err := LoadSynonyms(c.AllergenSynonymsFile)
	if err != nil {
		return nil, err
	}
	return tokens.NewCanonicalizer(synonyms), nil
}

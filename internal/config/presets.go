package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"afmdash/domain/analysis"
	"afmdash/internal/errors"
)

// LoadPresetFile reads a YAML or TOML analysis preset. Fields the file omits
// keep their defaults; a filter family present in the file replaces the
// default family as a whole.
func LoadPresetFile(path string) (analysis.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Preset{}, errors.Wrapf(err, "read preset file %s", path)
	}
	return ParsePreset(filepath.Ext(path), data, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// ParsePreset decodes a preset document; ext selects the format
func ParsePreset(ext string, data []byte, fallbackName string) (analysis.Preset, error) {
	base := analysis.PresetFrom(fallbackName, analysis.DefaultState())
	doc := base
	doc.Filters = analysis.Filters{}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return analysis.Preset{}, errors.ConfigInvalid("invalid YAML preset: " + err.Error())
		}
	case ".toml":
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return analysis.Preset{}, errors.ConfigInvalid("invalid TOML preset: " + err.Error())
		}
		for _, key := range md.Undecoded() {
			if isFilterParamKey(key) {
				continue
			}
			return analysis.Preset{}, errors.ConfigInvalid("unknown TOML preset key " + key.String())
		}
	default:
		return analysis.Preset{}, errors.ConfigInvalid("preset file must be .yaml, .yml or .toml, got " + ext)
	}

	doc.Filters = mergeFamilies(base.Filters, doc.Filters)
	if strings.TrimSpace(doc.Name) == "" {
		doc.Name = fallbackName
	}
	if err := analysis.ValidatePresetName(doc.Name); err != nil {
		return analysis.Preset{}, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if doc.NumCurves < 0 {
		return analysis.Preset{}, errors.ConfigInvalid("num_curves must not be negative")
	}
	return doc, nil
}

func mergeFamilies(defaults, file analysis.Filters) analysis.Filters {
	pick := func(d, f analysis.FilterConfig) analysis.FilterConfig {
		if f != nil {
			return f
		}
		return d
	}
	return analysis.Filters{
		Regular:          pick(defaults.Regular, file.Regular),
		CPFilters:        pick(defaults.CPFilters, file.CPFilters),
		ForceModels:      pick(defaults.ForceModels, file.ForceModels),
		ElasticityModels: pick(defaults.ElasticityModels, file.ElasticityModels),
	}
}

// isFilterParamKey reports keys nested inside a known filter family, whose
// contents are free-form
func isFilterParamKey(key toml.Key) bool {
	if len(key) <= 2 || key[0] != "filters" {
		return false
	}
	_, known := analysis.Filters{}.Family(analysis.FilterFamily(key[1]))
	return known
}

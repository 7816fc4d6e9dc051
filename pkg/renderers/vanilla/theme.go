package vanilla

import (
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig derives renderer configuration from a manifest and optional
// variant. Variant tokens and asset files override the base ones; every
// token is also exposed as a --token CSS custom property.
func ThemeConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		return nil
	}
	tokens := copyStringMap(manifest.Tokens)
	partials := copyStringMap(manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := copyStringMap(manifest.Assets.Files)

	if v, ok := manifest.Variants[variant]; ok {
		tokens = mergeStringMaps(tokens, v.Tokens)
		partials = mergeStringMaps(partials, v.Templates)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
		files = mergeStringMaps(files, v.Assets.Files)
	} else {
		variant = ""
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// cssVarsStyle renders CSS custom properties as an inline style value with
// keys sorted for stable output.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.NewReplacer(";", "", "\"", "", "<", "", ">", "").Replace(vars[key])
		parts = append(parts, key+": "+strings.TrimSpace(value))
	}
	return strings.Join(parts, "; ")
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStringMaps(base, overrides map[string]string) map[string]string {
	if base == nil {
		base = make(map[string]string, len(overrides))
	}
	for key, value := range overrides {
		base[key] = value
	}
	return base
}

// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image/color"
	"sort"

	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// aliases maps short property names to their canonical names.
var aliases = map[string]string{
	"lw":     "linewidth",
	"aa":     "antialiased",
	"c":      "color",
	"ls":     "linestyle",
	"mec":    "markeredgecolor",
	"mew":    "markeredgewidth",
	"mfc":    "markerfacecolor",
	"mfcalt": "markerfacecoloralt",
	"ms":     "markersize",
}

// Props are drawing properties. Zero values mean unset.
type Props struct {
	LineWidth          float64
	Antialiased        *bool
	Color              string
	LineStyle          string
	MarkerEdgeColor    string
	MarkerEdgeWidth    float64
	MarkerFaceColor    string
	MarkerFaceColorAlt string
	MarkerSize         float64

	// Size is the scatter marker area ("s").
	Size float64

	// Extra holds properties with no field, by canonical name.
	Extra map[string]any
}

// NormalizeProps builds Props from user properties and defaults.
// Aliases in either map are replaced by their canonical names, with
// the alias winning if both are given. Defaults fill only the
// properties the user left unset.
func NormalizeProps(user, defaults map[string]any) (Props, error) {
	merged := canonical(user)
	for k, v := range canonical(defaults) {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	var p Props
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := p.set(k, merged[k]); err != nil {
			return Props{}, err
		}
	}
	return p, nil
}

func canonical(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, isAlias := aliases[k]; !isAlias {
			out[k] = v
		}
	}
	for k, v := range m {
		if name, ok := aliases[k]; ok {
			out[name] = v
		}
	}
	return out
}

func (p *Props) set(key string, v any) error {
	var err error
	switch key {
	case "linewidth":
		p.LineWidth, err = toFloat(key, v)
	case "markeredgewidth":
		p.MarkerEdgeWidth, err = toFloat(key, v)
	case "markersize":
		p.MarkerSize, err = toFloat(key, v)
	case "s":
		p.Size, err = toFloat(key, v)
	case "antialiased":
		b, ok := v.(bool)
		if !ok {
			return errors.Config("property %s must be a bool, got %T", key, v)
		}
		p.Antialiased = &b
	case "color":
		p.Color, err = toColor(key, v)
	case "markeredgecolor":
		p.MarkerEdgeColor, err = toColor(key, v)
	case "markerfacecolor":
		p.MarkerFaceColor, err = toColor(key, v)
	case "markerfacecoloralt":
		p.MarkerFaceColorAlt, err = toColor(key, v)
	case "linestyle":
		s, ok := v.(string)
		if !ok {
			return errors.Config("property %s must be a string, got %T", key, v)
		}
		p.LineStyle = s
	default:
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = v
	}
	return err
}

func toFloat(key string, v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, errors.Config("property %s must be a number, got %T", key, v)
}

func toColor(key string, v any) (string, error) {
	switch v := v.(type) {
	case string:
		if _, err := encode.ParseColor(v); err != nil {
			return "", errors.Wrap(errors.CodeConfig, err, "property %s", key)
		}
		return v, nil
	case color.Color:
		return encode.Hex(v), nil
	}
	return "", errors.Config("property %s must be a color, got %T", key, v)
}

// color returns p.Color parsed, or def if it is unset or invalid.
func (p Props) color(def color.Color) color.Color {
	c, err := encode.ParseColor(p.Color)
	if p.Color == "" || err != nil {
		return def
	}
	return c
}

package fields

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/energy-invoices/constants"
	"github.com/joseph-ayodele/energy-invoices/internal/common"
)

// Options is the extraction tuning. It can be loaded from a YAML file:
//
//	window: 3
//	layout:
//	  y_tolerance: 4
//	  column_hint: 'valor\s*\(r\$\)'
//	labels:
//	  muc: 'energia injetada muc'
type Options struct {
	Window int               `yaml:"window"`
	Layout LayoutOptions     `yaml:"layout"`
	Labels map[string]string `yaml:"labels"`
}

func DefaultOptions() Options {
	return Options{
		Window: DefaultWindow,
		Layout: DefaultLayoutOptions(),
	}
}

// LoadOptions reads a tuning file on top of the defaults. Keys missing from
// the file keep their default value.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if opts.Window < 0 {
		return opts, fmt.Errorf("parse rules %s: window must not be negative", path)
	}

	v := common.NewValidator()
	for _, key := range slices.Sorted(maps.Keys(opts.Labels)) {
		v.Field("labels."+key, opts.Labels[key], common.Required, common.Pattern)
	}
	if err := v.Err(common.CodeConfig); err != nil {
		return opts, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return opts, nil
}

// LabelSet returns the default labels with the overrides of o applied.
func (o Options) LabelSet() (LabelSet, error) {
	if len(o.Labels) == 0 {
		return DefaultLabels(), nil
	}
	overrides := make(map[constants.Field]string, len(o.Labels))
	for key, pattern := range o.Labels {
		field, ok := constants.Canonicalize(key)
		if !ok {
			return LabelSet{}, fmt.Errorf("unknown label field %q", key)
		}
		overrides[field] = pattern
	}
	return DefaultLabels().With(overrides)
}

// Strategies builds the ordered strategy list: line adjacency first, page
// position second.
func (o Options) Strategies(labels LabelSet) ([]Strategy, error) {
	layout, err := NewLayoutStrategy(labels, o.Layout)
	if err != nil {
		return nil, fmt.Errorf("column hint: %w", err)
	}
	return []Strategy{
		NewLineStrategy(labels, SearchOptions{Window: o.Window}),
		layout,
	}, nil
}

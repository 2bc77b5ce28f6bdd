package recipe

import (
	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/util"
)

// OptionDecl declares a single recipe option: its name, the values it may
// take and its default value.
type OptionDecl struct {
	Name    string
	Values  []string
	Default string
}

// OptionShared selects between static and shared linkage.
const OptionShared = "shared"

// OptionFPIC selects position-independent code. The option has no meaning on
// Windows-class targets and is removed from the option set there.
const OptionFPIC = "fPIC"

// DefaultOptionDecls returns the option set assumed by recipes that predate
// explicit option declarations.
func DefaultOptionDecls() []OptionDecl {
	return []OptionDecl{
		{Name: OptionShared, Values: []string{"true", "false"}, Default: "false"},
		{Name: OptionFPIC, Values: []string{"true", "false"}, Default: "true"},
	}
}

type option struct {
	values []string
	value  string
}

// Options is the effective option set of one packaging run. It is mutable
// until Freeze is called, which happens after the option resolution phase
// and before any other component reads it.
type Options struct {
	opts   util.OrderedMap[string, option]
	frozen bool
}

// NewOptions builds an option set from the given declarations, with every
// option at its default value.
func NewOptions(decls []OptionDecl) (*Options, error) {
	o := &Options{opts: util.NewOrderedMap[string, option]()}
	for _, decl := range decls {
		if _, ok := o.opts.Lookup(decl.Name); ok {
			return nil, &ConfigurationError{Field: decl.Name, Reason: "option declared more than once"}
		}
		if !contains(decl.Values, decl.Default) {
			return nil, &ConfigurationError{Field: decl.Name, Value: decl.Default, Reason: "default is not an allowed value"}
		}
		o.opts.Insert(decl.Name, option{values: decl.Values, value: decl.Default})
	}
	o.opts.AllowOverrides()
	return o, nil
}

// Has reports whether the option exists in the set.
func (o *Options) Has(name string) bool {
	_, ok := o.opts.Lookup(name)
	return ok
}

// Get returns the value of the option. Referencing an option that is absent
// from the set (e.g. fPIC on Windows) is a ConfigurationError: it signals a
// logic bug in the caller, not a user error.
func (o *Options) Get(name string) (string, error) {
	opt, ok := o.opts.Lookup(name)
	if !ok {
		return "", &ConfigurationError{Field: name, Reason: "option is not present on this platform"}
	}
	return opt.value, nil
}

// GetBool returns the value of a boolean option.
func (o *Options) GetBool(name string) (bool, error) {
	value, err := o.Get(name)
	if err != nil {
		return false, err
	}
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &ConfigurationError{Field: name, Value: value, Reason: "not a boolean option"}
}

// Set overrides the value of the option. Setting an unknown option, an
// unallowed value, or any option after the set has been frozen is a
// ConfigurationError.
func (o *Options) Set(name, value string) error {
	if o.frozen {
		return &ConfigurationError{Field: name, Value: value, Reason: "option set is frozen"}
	}
	opt, ok := o.opts.Lookup(name)
	if !ok {
		return &ConfigurationError{Field: name, Reason: "unknown option"}
	}
	if !contains(opt.values, value) {
		return &ConfigurationError{Field: name, Value: value, Reason: "not an allowed value"}
	}
	opt.value = value
	o.opts.Insert(name, opt)
	return nil
}

// Remove deletes the option from the set entirely. Downstream components
// must not reference a removed option.
func (o *Options) Remove(name string) error {
	if o.frozen {
		return &ConfigurationError{Field: name, Reason: "option set is frozen"}
	}
	o.opts.Remove(name)
	return nil
}

// Freeze makes the option set immutable. It is called once the option
// resolution phase is over; all later mutation attempts fail.
func (o *Options) Freeze() {
	o.frozen = true
}

// Frozen reports whether the option set has been frozen.
func (o *Options) Frozen() bool {
	return o.frozen
}

// Names returns the names of all present options in deterministic order.
func (o *Options) Names() []string {
	return o.opts.Keys()
}

// Map returns the option set as plain key/value pairs.
func (o *Options) Map() map[string]string {
	result := map[string]string{}
	for _, entry := range o.opts.Entries() {
		result[entry.Key] = entry.Value.value
	}
	return result
}

// ResolveOptions adjusts the option set to the target platform. Options that
// have no meaning on the target are removed rather than defaulted, so that
// any later reference to them is reported as a logic error.
func ResolveOptions(settings Settings, options *Options) error {
	if settings.IsWindows() && options.Has(OptionFPIC) {
		log.Debug("Removing option '%s': it has no meaning on %s.\n", OptionFPIC, settings.OS)
		if err := options.Remove(OptionFPIC); err != nil {
			return err
		}
	}
	return nil
}

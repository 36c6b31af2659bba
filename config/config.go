package config

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wippyai/dotnet-shim/errors"
	"github.com/wippyai/dotnet-shim/hostfxr"
	"github.com/wippyai/dotnet-shim/plugin"
	"github.com/wippyai/dotnet-shim/shim"
)

// EnvPrefix prefixes every environment variable, e.g. DOTNET_SHIM_PLUGIN_NAME.
const EnvPrefix = "DOTNET_SHIM"

// Flag names registered by BindFlags.
const (
	FlagConfig     = "config"
	FlagPlugin     = "plugin"
	FlagPluginDir  = "plugin-dir"
	FlagPluginType = "plugin-type"
	FlagDotnetRoot = "dotnet-root"
	FlagAppLocal   = "app-local"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
)

// flagKeys maps flags onto configuration keys.
var flagKeys = map[string]string{
	FlagPlugin:     "plugin.name",
	FlagPluginDir:  "plugin.dir",
	FlagPluginType: "plugin.type",
	FlagDotnetRoot: "runtime.dotnet_root",
	FlagAppLocal:   "runtime.app_local",
	FlagLogLevel:   "log.level",
	FlagLogFormat:  "log.format",
}

type Config struct {
	Plugin  PluginConfig  `mapstructure:"plugin"`
	Runtime RuntimeConfig `mapstructure:"runtime"`
	Log     LogConfig     `mapstructure:"log"`
}

type PluginConfig struct {
	Name string `mapstructure:"name" validate:"required,excludesall=/\\"`
	// Dir defaults to the directory of the running binary.
	Dir  string `mapstructure:"dir"`
	Type string `mapstructure:"type" validate:"omitempty,qualified"`
}

type RuntimeConfig struct {
	DotnetRoot string `mapstructure:"dotnet_root" validate:"omitempty,dir"`
	AppLocal   bool   `mapstructure:"app_local"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=auto console json"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Delegate types are spliced in before the assembly qualifier, so a type
	// without one cannot be dispatched to.
	_ = v.RegisterValidation("qualified", func(fl validator.FieldLevel) bool {
		_, err := plugin.DelegateTypeName(fl.Field().String(), plugin.OpInitialize.DelegateSuffix())
		return err == nil
	})
	return v
}

// BindFlags registers the harness flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "path to a YAML configuration file")
	fs.StringP(FlagPlugin, "p", "", "plugin name, e.g. Demo for <dir>/Demo/Demo.dll")
	fs.String(FlagPluginDir, "", "directory containing the plugin folder (default: binary directory)")
	fs.String(FlagPluginType, "", "assembly qualified plugin type (default: <name>.NativeInterop.Plugin, <name>)")
	fs.String(FlagDotnetRoot, "", ".NET installation root to load hostfxr from")
	fs.Bool(FlagAppLocal, false, "prefer a hosting library next to the plugin assembly")
	fs.String(FlagLogLevel, "info", "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, "auto", "log format: auto, console, json")
}

// Load resolves the configuration from fs, the environment and the file
// named by --config, then validates it. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("plugin.name", "")
	v.SetDefault("plugin.dir", "")
	v.SetDefault("plugin.type", "")
	v.SetDefault("runtime.dotnet_root", "")
	v.SetDefault("runtime.app_local", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "bind flag "+name)
				}
			}
		}
		if f := fs.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
					Target(f.Value.String()).
					Cause(err).
					Detail("read config file").
					Build()
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and reports the first offending key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Target(fe.Namespace()).
			Value(fe.Value()).
			Cause(err).
			Detail("failed %q constraint", fe.Tag()).
			Build()
	}
	return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "validate configuration")
}

// Layout returns the plugin layout, rooted at defaultDir unless plugin.dir is set.
func (c *Config) Layout(defaultDir string) shim.Layout {
	dir := c.Plugin.Dir
	if dir == "" {
		dir = defaultDir
	}
	return shim.Layout{Root: dir, Name: c.Plugin.Name, Type: c.Plugin.Type}
}

// LocateOptions returns hosting library discovery options for the plugin assembly.
func (c *Config) LocateOptions(assemblyPath string) hostfxr.LocateOptions {
	return hostfxr.LocateOptions{
		AssemblyPath: assemblyPath,
		DotnetRoot:   c.Runtime.DotnetRoot,
		AppLocal:     c.Runtime.AppLocal,
	}
}

// Package config loads harness settings from flags, DOTNET_SHIM_* environment
// variables and an optional YAML file, in that order of precedence, and
// validates them.
//
//	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
//	config.BindFlags(fs)
//	_ = fs.Parse(os.Args[1:])
//	cfg, err := config.Load(fs)
//
// Keys:
//
//	plugin.name          plugin name, required (DOTNET_SHIM_PLUGIN_NAME)
//	plugin.dir           directory holding <name>/<name>.dll
//	plugin.type          plugin type override, must be assembly qualified
//	runtime.dotnet_root  pin the .NET installation root
//	runtime.app_local    prefer a hosting library next to the assembly
//	log.level            debug, info, warn or error
//	log.format           auto, console or json
package config

package config

const (
	defaultConfigPath         = "~/.config/ottoshop/config.toml"
	defaultBaseDir            = "."
	defaultBind               = "127.0.0.1:9080"
	defaultLogLevel           = "normal"
	defaultStoreFileName      = ".shopping_list.txt"
	defaultLockTimeoutSeconds = 5

	// Looked up under the base directory when aisle or pantry is unset.
	defaultAisleFile  = "config/aisle.conf"
	defaultPantryFile = "config/pantry.conf"
)

// Environment variables that override the configuration file.
const (
	EnvBaseDir  = "OTTOSHOP_BASE_DIR"
	EnvAisle    = "OTTOSHOP_AISLE"
	EnvPantry   = "OTTOSHOP_PANTRY"
	EnvBind     = "OTTOSHOP_BIND"
	EnvLogLevel = "OTTOSHOP_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		BaseDir: defaultBaseDir,
		Server: Server{
			Bind: defaultBind,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
		Store: Store{
			FileName:           defaultStoreFileName,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
	}
}

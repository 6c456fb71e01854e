// Package config provides the file-backed collaborators of the loader and the
// validate-and-construct step that turns a raw tree into a typed value.
//
// The package uses an interface-based design with four extension points:
//   - Parser: deserializes raw data into a tree, with section navigation support
//   - DataFetcher: retrieves raw config data (file, memory, etc.)
//   - Defaulter: applies default values before validation
//   - Validator: validates config after construction
//
// # Section Navigation
//
// The Provider function accepts a section parameter that allows targeting a part
// of the configuration file. Sections use colon (:) as the separator:
//
//	"api:permissions"           -> config["api"]["permissions"]
//	"database:connection"       -> config["database"]["connection"]
//	""                          -> entire document
//
// # Construction
//
// Construct decodes the raw tree with weak typing (the yaml tag names the
// key), then layers values that are still zero:
//
//	type DBConfig struct {
//	    Host     string `yaml:"host" validate:"required"`
//	    Port     int    `yaml:"port" validate:"gte=1,lte=65535"`
//	    Password string `yaml:"password" env:"DB_PASSWORD"`
//	}
//
// Password is read from DB_PASSWORD only when the tree leaves it empty.
// Construct then runs SetDefaults, the `validate` tags and Validate.
//
// # Interpolation
//
// Interpolate replaces %(here)s in string values with the absolute directory
// of the configuration file, so relative resources can be addressed:
//
//	data_dir: "%(here)s/data"
//
// # Example
//
//	provider := config.Provider[APIConfig]("services:api",
//	    config.WithTransform(config.Interpolation("/etc/app")))
//	cfg, err := provider(yamlparser.NewParser(), fetcher)
package config

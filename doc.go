// Package confme loads YAML configuration files into typed Go structs and
// layers environment variables and command-line arguments on top.
//
// # Declaring a configuration
//
// Configuration types are plain structs. The yaml tag names each key, the
// validate tag (go-playground/validator) constrains values and the env tag
// resolves secrets that the file leaves empty:
//
//	type DatabaseConfig struct {
//	    Host     string `yaml:"host" validate:"required"`
//	    Port     int    `yaml:"port" validate:"gte=1,lte=65535"`
//	    Password string `yaml:"password" env:"DB_PASSWORD"`
//	}
//
//	type Config struct {
//	    Name     string         `yaml:"name"`
//	    Database DatabaseConfig `yaml:"database"`
//	}
//
// # Loading
//
//	cfg, err := confme.Load[Config]("config/prod.yaml")
//
// Every leaf of Config has a dotted path, e.g. "database.port". Values are
// taken, in increasing precedence, from:
//
//	config file           database: {port: 5432}
//	environment variable  DATABASE.PORT=5433   (name matched case-insensitively)
//	argument              ++database.port 5434 (or ++database.port=5434)
//
// Arguments without the "++" prefix are ignored, so programs keep their own
// flags. Strings in the file may use %(here)s for the file's directory.
//
// # Environments
//
// A Registry picks a file from a folder by the ENV, ENVIRONMENT, ENVIRON or
// STAGE variable and caches the loaded value per environment:
//
//	registry := confme.NewRegistry[Config]()
//	err := registry.RegisterFolder("config", confme.WithDefaultEnvironment("dev"))
//	cfg, err := registry.Get() // ENV=prod selects config/prod.yaml
//
// # Fx
//
// Module and RegistryModule provide *Config to an Fx application.
package confme

// Package config loads application configuration from the environment.
//
// It wraps github.com/caarlos0/env/v11 and github.com/joho/godotenv.
// Settings is a flat key/value snapshot built with Environ. It keeps the
// difference between an unset key and an explicitly empty one, and parses
// prefixed groups of keys into tagged structs with Parse. Both the
// application config and the upload sets are read from it.
//
// # Usage
//
//	type AppConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	settings, err := config.Environ(".env")
//	if err != nil {
//		return err
//	}
//	var cfg AppConfig
//	if err := settings.Parse(&cfg, ""); err != nil {
//		return err
//	}
//	if v, ok := settings.Lookup("UPLOADED_PHOTOS_URL"); ok && v == "" {
//		// serving disabled for this set
//	}
//
// # Error Handling
//
// Parse failures, including a destination that is not a struct pointer,
// wrap ErrParsingConfig. Unreadable dotenv files wrap ErrLoadingEnvFile.
package config

package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ReadEnv loads variables from a .env file picked by ENV so that credentials
// (webhook URLs, repository passwords) stay out of the YAML config. It
// returns os.ErrNotExist when the file is missing, which callers treat as
// "no .env in use".
func ReadEnv() error {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	filename := "./.env"
	switch env {
	case "prd", "prod", "production":
		filename = "./.env.production"
	case "sit", "staging":
		filename = "./.env.sit"
	case "dev", "development":
		filename = "./.env.development"
	case "local":
		filename = "./.env.local"
	}
	if _, err := os.Stat(filename); err != nil {
		return err
	}

	envMap, err := godotenv.Read(filename)
	if err != nil {
		return err
	}
	for k, v := range envMap {
		_ = os.Setenv(k, v)
	}
	return nil
}

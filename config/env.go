package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file loaded when no file is named.
const DefaultEnvFile = ".env"

// LoadEnv loads dotenv files into the process environment. Variables that
// are already set are not overridden. A missing default file is not an
// error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		err := godotenv.Load(DefaultEnvFile)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	return godotenv.Load(files...)
}

// ApplyEnv sets every option whose environment variable is present.
func (c *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var errs []error

	for _, o := range options {
		v, ok := lookup(o.EnvName())
		if !ok {
			continue
		}

		err := c.Set(o.Name, v)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

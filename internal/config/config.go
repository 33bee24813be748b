package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`

	// Database is optional; when the URL is empty the service runs with the
	// file-backed job store instead of Postgres.
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Jobs struct {
		Dir            string `yaml:"dir"`
		RetentionHours int    `yaml:"retention_hours"`
	} `yaml:"jobs"`

	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	Renderer struct {
		ChromePath     string `yaml:"chrome_path"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"renderer"`

	Templates struct {
		Dir string `yaml:"dir"`
	} `yaml:"templates"`

	Curriculum struct {
		Path string `yaml:"path"`
	} `yaml:"curriculum"`

	Logger struct {
		Level string `yaml:"level"`
	} `yaml:"logger"`
}

// Load reads the configuration file, falling back to well-known locations
// when path is empty, then applies environment overrides and defaults.
// A missing file is not an error; defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, candidate := range []string{"config.yaml", "./config.yaml", "../config.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Address = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.Renderer.ChromePath = v
	}
	if v := os.Getenv("CV_JOBS_DIR"); v != "" {
		c.Jobs.Dir = v
	}
	if v := os.Getenv("CV_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("CV_JOB_RETENTION_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Jobs.RetentionHours = n
		}
	}
	if v := os.Getenv("CV_CURRICULUM_PATH"); v != "" {
		c.Curriculum.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8000"
	}
	if c.Jobs.Dir == "" {
		c.Jobs.Dir = "logs/cv_jobs"
	}
	if c.Jobs.RetentionHours <= 0 {
		c.Jobs.RetentionHours = 24
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "curriculum/generated"
	}
	if c.Renderer.TimeoutSeconds <= 0 {
		c.Renderer.TimeoutSeconds = 30
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = "templates"
	}
	if c.Curriculum.Path == "" {
		c.Curriculum.Path = "curriculum/curriculum.yaml"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
}

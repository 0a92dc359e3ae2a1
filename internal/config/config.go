package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var GistgrepVersion = "0.0.1"

var C *Config

// Not using nested structs so that every key maps to a single env variable
type Config struct {
	LogLevel  string `yaml:"log-level"`
	LogOutput string `yaml:"log-output"`
	LogDir    string `yaml:"log-dir"`

	HttpHost string `yaml:"http.host"`
	HttpPort string `yaml:"http.port"`

	GithubApiUrl    string        `yaml:"github.api-url"`
	GithubGistUrl   string        `yaml:"github.gist-url"`
	GithubUserAgent string        `yaml:"github.user-agent"`
	GithubTimeout   time.Duration `yaml:"github.timeout"`

	SearchRegexTimeout time.Duration `yaml:"search.regex-timeout"`

	MetricsEnabled bool `yaml:"metrics.enabled"`
}

func configWithDefaults() *Config {
	c := &Config{}

	c.LogLevel = "warn"
	c.LogOutput = "stdout"

	c.HttpHost = "0.0.0.0"
	c.HttpPort = "8000"

	c.GithubApiUrl = "https://api.github.com"
	c.GithubGistUrl = "https://gist.github.com"
	c.GithubUserAgent = "gistgrep/" + GistgrepVersion

	return c
}

func InitConfig(configPath string, out io.Writer) error {
	c, err := Load(configPath, out)
	if err != nil {
		return err
	}

	C = c
	return nil
}

// Load builds a configuration from the defaults, overridden by the YAML file
// at configPath (if any), then by the CONFIG environment variable (YAML), then
// by the GG_* environment variables.
func Load(configPath string, out io.Writer) (*Config, error) {
	c := configWithDefaults()

	if configPath != "" {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("cannot open config file: %w", err)
		}
		defer file.Close()

		fmt.Fprintln(out, "Using config file: "+configPath)
		if err = yaml.NewDecoder(file).Decode(c); err != nil && err != io.EOF {
			return nil, fmt.Errorf("cannot decode config file: %w", err)
		}
	}

	if configEnv := os.Getenv("CONFIG"); configEnv != "" {
		fmt.Fprintln(out, "Using config from environment variable: CONFIG")
		if err := yaml.NewDecoder(strings.NewReader(configEnv)).Decode(c); err != nil {
			return nil, fmt.Errorf("cannot decode CONFIG environment variable: %w", err)
		}
	}

	if err := loadConfigFromEnv(c); err != nil {
		return nil, err
	}

	return c, nil
}

func EnvKey(yamlTag string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return "GG_" + strings.ToUpper(r.Replace(yamlTag))
}

func loadConfigFromEnv(c *Config) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		tag := t.Field(i).Tag.Get("yaml")
		key := EnvKey(tag)

		envValue, ok := os.LookupEnv(key)
		if !ok || envValue == "" {
			continue
		}

		switch {
		case field.Type() == reflect.TypeOf(time.Duration(0)):
			d, err := time.ParseDuration(envValue)
			if err != nil {
				return fmt.Errorf("invalid duration for %s: %w", key, err)
			}
			field.SetInt(int64(d))
		case field.Kind() == reflect.String:
			field.SetString(envValue)
		case field.Kind() == reflect.Bool:
			b, err := strconv.ParseBool(envValue)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", key, err)
			}
			field.SetBool(b)
		default:
			return fmt.Errorf("unsupported type %s for %s", field.Kind(), key)
		}
	}

	return nil
}

func InitLog() {
	var writers []io.Writer
	for _, output := range strings.Split(C.LogOutput, ",") {
		switch strings.TrimSpace(output) {
		case "stdout":
			writers = append(writers, zerolog.NewConsoleWriter())
		case "file":
			if C.LogDir == "" {
				continue
			}
			if err := os.MkdirAll(C.LogDir, 0755); err != nil {
				panic(err)
			}
			file, err := os.OpenFile(filepath.Join(C.LogDir, "gistgrep.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				panic(err)
			}
			writers = append(writers, file)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, zerolog.NewConsoleWriter())
	}

	level, err := zerolog.ParseLevel(C.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
}

func (c *Config) HttpAddr() string {
	return c.HttpHost + ":" + c.HttpPort
}

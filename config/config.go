package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/thrasher-corp/fxdx/common"
	"github.com/thrasher-corp/fxdx/common/convert"
	"github.com/thrasher-corp/fxdx/common/file"
	"github.com/thrasher-corp/fxdx/encoding/json"
	"github.com/thrasher-corp/fxdx/exchanges/fxdx"
	"github.com/thrasher-corp/fxdx/log"
	"gopkg.in/yaml.v3"
)

// FormatFromPath returns the config format implied by a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", "":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatJSON, fmt.Errorf("%w: %s", errUnknownFileFormat, path)
	}
}

// DefaultFilePath returns the default config file path
// MacOS/Linux: $HOME/.fxdx/config.json
// Windows: %APPDATA%\FXDX\config.json
func DefaultFilePath() string {
	return filepath.Join(common.GetDefaultDataDir(runtime.GOOS), File)
}

// GetFilePath returns the desired config file or the default config file
func GetFilePath(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	p := DefaultFilePath()
	if !file.Exists(p) {
		return "", fmt.Errorf("%w in %s", errConfigNotFound, filepath.Dir(p))
	}
	return p, nil
}

// ReadConfig decodes a config of the supplied format
func ReadConfig(r io.Reader, format Format) (*Config, error) {
	c := &Config{}
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(c); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d", errUnknownFileFormat, format)
	}
	return c, nil
}

// ReadConfigFromFile reads the configuration from the given file
func (c *Config) ReadConfigFromFile(configPath string) error {
	path, err := GetFilePath(configPath)
	if err != nil {
		return err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := ReadConfig(f, format)
	if err != nil {
		return fmt.Errorf("error reading config %w", err)
	}
	secret := c.secret
	*c = *result
	c.secret = secret
	return nil
}

// SaveConfigToFile saves the configuration to the given file in the format
// implied by its extension
func (c *Config) SaveConfigToFile(configPath string) error {
	if configPath == "" {
		configPath = DefaultFilePath()
	}
	format, err := FormatFromPath(configPath)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(c); err != nil {
			return err
		}
		if err = enc.Close(); err != nil {
			return err
		}
	default:
		payload, err := json.MarshalIndent(c, "", " ")
		if err != nil {
			return err
		}
		buf.Write(payload)
	}
	return file.Write(configPath, buf.Bytes())
}

// LoadConfig loads your configuration file into your configuration object
func (c *Config) LoadConfig(configPath string) error {
	if err := c.ReadConfigFromFile(configPath); err != nil {
		return fmt.Errorf(ErrFailureOpeningConfig, configPath, err)
	}
	return c.CheckConfig()
}

// LoadEnv overrides the secret, address and endpoint from the process
// environment. When envFile is set it is read first and the process
// environment takes precedence over it.
func (c *Config) LoadEnv(envFile string) error {
	vars := map[string]string{}
	if envFile != "" {
		var err error
		vars, err = godotenv.Read(envFile)
		if err != nil {
			return err
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := vars[key]
		return v, ok && v != ""
	}
	if v, ok := lookup(EnvSecret); ok {
		c.secret = []byte(v)
	}
	if v, ok := lookup(EnvAddress); ok {
		c.Address = v
	}
	if v, ok := lookup(EnvEndpoint); ok {
		c.Endpoint = v
	}
	return nil
}

// SetSecret sets the shared secret used to sign requests
func (c *Config) SetSecret(secret []byte) {
	c.secret = append([]byte(nil), secret...)
}

// HasSecret returns whether a shared secret is loaded
func (c *Config) HasSecret() bool {
	return len(c.secret) > 0
}

// GetDataPath gets the data path for the given subpath
func (c *Config) GetDataPath(elem ...string) string {
	baseDir := c.DataDirectory
	if baseDir == "" {
		baseDir = common.GetDefaultDataDir(runtime.GOOS)
	}
	return filepath.Join(append([]string{baseDir}, elem...)...)
}

// CheckLoggerConfig checks to see logger values are present and fills in
// defaults
func (c *Config) CheckLoggerConfig() {
	if c.Logging.Enabled == nil || c.Logging.Output == "" {
		c.Logging = log.GenDefaultSettings()
	}
	if c.Logging.AdvancedSettings.ShowLogSystemName == nil {
		c.Logging.AdvancedSettings.ShowLogSystemName = convert.BoolPtr(false)
	}
	if c.Logging.LoggerFileConfig != nil {
		if c.Logging.LoggerFileConfig.FileName == "" {
			c.Logging.LoggerFileConfig.FileName = "log.txt"
		}
		if c.Logging.LoggerFileConfig.Rotate == nil {
			c.Logging.LoggerFileConfig.Rotate = convert.BoolPtr(false)
		}
		if c.Logging.LoggerFileConfig.MaxSize <= 0 {
			c.Logging.LoggerFileConfig.MaxSize = log.DefaultMaxFileSize
		}
	}
}

// SetupLogger applies the logging config to the global logger
func (c *Config) SetupLogger() error {
	c.CheckLoggerConfig()
	if err := log.SetupGlobalLogger(&c.Logging, c.GetDataPath("logs")); err != nil {
		return err
	}
	return log.SetupSubLoggers(c.Logging.SubLoggers)
}

// CheckConfig checks all config settings
func (c *Config) CheckConfig() error {
	c.CheckLoggerConfig()

	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Endpoint == "" {
		return fmt.Errorf(ErrCheckingConfigValues, errEndpointUnset)
	}
	if _, err := url.ParseRequestURI(c.Endpoint); err != nil {
		return fmt.Errorf(ErrCheckingConfigValues, err)
	}
	var errs error
	if _, err := fxdx.ParsePrefix(c.Prefix); err != nil {
		errs = common.AppendError(errs, err)
	}
	if _, err := fxdx.ParseSigningScheme(c.SigningScheme); err != nil {
		errs = common.AppendError(errs, err)
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			errs = common.AppendError(errs, err)
		}
	}
	if errs != nil {
		return fmt.Errorf(ErrCheckingConfigValues, errs)
	}
	if c.HTTPTimeout <= 0 {
		log.Warnf(log.ConfigMgr, "HTTP timeout value not set, defaulting to %v.", defaultHTTPTimeout)
		c.HTTPTimeout = defaultHTTPTimeout
	}
	return nil
}

// NewBuilder returns an fxdx.Builder populated from the config. A static
// secret is bound only when one has been loaded.
func (c *Config) NewBuilder() (*fxdx.Builder, error) {
	if err := c.CheckConfig(); err != nil {
		return nil, err
	}
	prefix, err := fxdx.ParsePrefix(c.Prefix)
	if err != nil {
		return nil, err
	}
	scheme, err := fxdx.ParseSigningScheme(c.SigningScheme)
	if err != nil {
		return nil, err
	}

	b := fxdx.NewBuilder(c.Endpoint).
		Prefix(prefix).
		SigningScheme(scheme).
		Address(c.Address).
		HTTPTimeout(c.HTTPTimeout).
		UserAgent(c.UserAgent).
		Verbose(c.Verbose).
		HTTPDebugging(c.HTTPDebugging).
		HTTPRecording(c.HTTPRecording).
		RecordPath(c.GetDataPath("http_mock"))
	if c.HasSecret() {
		b.Secret(c.secret)
	}
	if c.Proxy != "" {
		proxy, err := url.Parse(c.Proxy)
		if err != nil {
			return nil, err
		}
		b.Proxy(proxy)
	}
	return b, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config represents the x6100d configuration
type Config struct {
	Station struct {
		Callsign string `yaml:"callsign"`
		Grid     string `yaml:"grid"`
	} `yaml:"station"`

	CAT struct {
		Device            string `yaml:"device"`
		BaudRate          int    `yaml:"baud_rate"`
		CIVAddress        string `yaml:"civ_address"`
		ControllerAddress string `yaml:"controller_address"`
	} `yaml:"cat"`

	Web struct {
		Port        int    `yaml:"port"`
		BindAddress string `yaml:"bind_address"`
	} `yaml:"web"`

	Storage struct {
		DatabasePath   string `yaml:"database_path"`
		ADIFImportPath string `yaml:"adif_import_path"`
	} `yaml:"storage"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		Console    bool   `yaml:"console"`
		Structured bool   `yaml:"structured"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	if config.CAT.Device == "" {
		config.CAT.Device = "/dev/ttyS2"
	}
	if config.CAT.BaudRate == 0 {
		config.CAT.BaudRate = 19200
	}
	if config.CAT.CIVAddress == "" {
		config.CAT.CIVAddress = "0xA4"
	}
	if config.CAT.ControllerAddress == "" {
		config.CAT.ControllerAddress = "0xE0"
	}
	if config.Web.Port == 0 {
		config.Web.Port = 8080
	}
	if config.Web.BindAddress == "" {
		config.Web.BindAddress = "0.0.0.0"
	}
	if config.Storage.DatabasePath == "" {
		config.Storage.DatabasePath = "./qso_log.db"
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = 100
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = 5
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = 30
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Station.Callsign == "" {
		return fmt.Errorf("station callsign is required")
	}
	if c.CAT.Device == "" {
		return fmt.Errorf("cat device is required")
	}
	if _, err := parseAddress(c.CAT.CIVAddress); err != nil {
		return fmt.Errorf("invalid civ_address %q: %w", c.CAT.CIVAddress, err)
	}
	if _, err := parseAddress(c.CAT.ControllerAddress); err != nil {
		return fmt.Errorf("invalid controller_address %q: %w", c.CAT.ControllerAddress, err)
	}
	return nil
}

// CIVAddress returns the device's own CI-V bus address as a byte.
// A malformed address falls back to the factory default 0xA4.
func (c *Config) CIVAddress() byte {
	addr, err := parseAddress(c.CAT.CIVAddress)
	if err != nil {
		return 0xA4
	}
	return addr
}

// ControllerAddress returns the expected peer address as a byte.
func (c *Config) ControllerAddress() byte {
	addr, err := parseAddress(c.CAT.ControllerAddress)
	if err != nil {
		return 0xE0
	}
	return addr
}

func parseAddress(s string) (byte, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

package commands

import (
	"errors"
	"os"
	"time"

	"hltv-ranking/internal/components/configutil"
	"hltv-ranking/internal/components/telemetry"
	"hltv-ranking/internal/export"
	"hltv-ranking/internal/scrapers/hltv"
)

const defaultConfigName = "hltv-ranking.json5"

type OutputConfig struct {
	// the string used to indent each level of the json output, 4 spaces by default
	Indent string `json:"indent"`
	// escape every non-ASCII character in the json output
	EnsureASCII bool `json:"ensure_ascii"`
}

type Config struct {
	// overrides the origin rankings are fetched from
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	// 0 means requests never time out
	TimeoutSeconds   int  `json:"timeout_seconds"`
	CloudflareBypass bool `json:"cloudflare_bypass"`

	Output OutputConfig `json:"output"`
	// a sqlite path or libsql url every exported ranking is also stored in
	Archive   string           `json:"archive"`
	Telemetry telemetry.Config `json:"telemetry"`
}

var defaultConfig = Config{
	BaseUrl: hltv.SiteOrigin,
	Output: OutputConfig{
		Indent: export.DefaultIndent,
	},
}

// loadConfig reads the config at `path`, or looks for hltv-ranking.json5 in
// the working directory and its parents if `path` is empty.
func loadConfig(path string) (Config, error) {
	var config Config
	var err error
	if path != "" {
		config, err = configutil.ReadConfig[Config](path)
	} else {
		config, err = configutil.ReadRecursively[Config](defaultConfigName)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	}
	if err != nil {
		return Config{}, err
	}
	return configutil.WithDefaults(config, defaultConfig)
}

func (c Config) clientOptions() hltv.ClientOptions {
	return hltv.ClientOptions{
		BaseUrl:          c.BaseUrl,
		UserAgent:        c.UserAgent,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		CloudflareBypass: c.CloudflareBypass,
	}
}

func (c Config) encodeOptions() export.EncodeOptions {
	return export.EncodeOptions{
		Indent:      c.Output.Indent,
		EnsureASCII: c.Output.EnsureASCII,
	}
}

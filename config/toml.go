package config

import (
	"bytes"
	_ "embed"
	"os"
	"strings"
	"text/template"

	cmtconfig "github.com/cometbft/cometbft/config"
	cmtos "github.com/cometbft/cometbft/libs/os"
)

// DefaultDirPerm is the default permissions used when creating directories.
const DefaultDirPerm = 0o700

var appTemplate *template.Template

func init() {
	var err error
	tmpl := template.New("appFileTemplate").Funcs(template.FuncMap{
		"StringsJoin": strings.Join,
	})
	if appTemplate, err = tmpl.Parse(defaultAppTemplate); err != nil {
		panic(err)
	}
}

// WriteConfigFile writes the comet sections followed by the [app] section.
func WriteConfigFile(configFilePath string, config *Config) {
	cmtconfig.WriteConfigFile(configFilePath, config.Config)

	var buffer bytes.Buffer
	if err := appTemplate.Execute(&buffer, config); err != nil {
		panic(err)
	}
	base, err := os.ReadFile(configFilePath)
	if err != nil {
		panic(err)
	}
	cmtos.MustWriteFile(configFilePath, append(base, buffer.Bytes()...), 0o644)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in GovAppConfig in config/config.go.
//
//go:embed app.toml.tpl
var defaultAppTemplate string

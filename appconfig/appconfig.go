package appconfig

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/qr-forever/resolver/logging"
)

type AppConfig struct {
	ServerName string
	Authority  string

	closeMe []io.Closer
}

var Instance *AppConfig

func setDefaultParams() {
	viper.SetDefault("server.name", "qrf-resolver")
	viper.SetDefault("server.port", "8001")
	viper.SetDefault("server.log.rotation_min", 5)
	viper.SetDefault("chain.name", "polygon")
	viper.SetDefault("chain.scan_blocks", 50000)
	viper.SetDefault("rate_limit.per_minute", 60)
	viper.SetDefault("resolver.public_enabled", true)
}

func Init() error {
	setDefaultParams()

	serverName := viper.GetString("server.name")

	err := logging.InitGlobalLogger(logging.Config{
		LoggerName:  "main",
		ServerName:  serverName,
		FileDir:     viper.GetString("server.log.path"),
		RotationMin: viper.GetInt64("server.log.rotation_min"),
		MaxBackups:  viper.GetInt("server.log.max_backups")})
	if err != nil {
		return err
	}

	logging.Info("*** Creating new AppConfig ***")
	logging.Info("Server Name:", serverName)

	var appConfig AppConfig
	appConfig.ServerName = serverName

	port := viper.GetString("port")
	if port == "" {
		port = viper.GetString("server.port")
	}
	appConfig.Authority = "0.0.0.0:" + port

	Instance = &appConfig
	return nil
}

func (a *AppConfig) ScheduleClosing(c io.Closer) {
	a.closeMe = append(a.closeMe, c)
}

func (a *AppConfig) Close() {
	var result *multierror.Error
	for _, cl := range a.closeMe {
		if err := cl.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if result != nil {
		logging.Error(result.ErrorOrNil())
	}
}

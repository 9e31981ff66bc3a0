package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/qr-forever/resolver/adapters"
	"github.com/qr-forever/resolver/appconfig"
	"github.com/qr-forever/resolver/authorization"
	"github.com/qr-forever/resolver/ledger"
	"github.com/qr-forever/resolver/logging"
	"github.com/qr-forever/resolver/meta"
	"github.com/qr-forever/resolver/metrics"
	"github.com/qr-forever/resolver/middleware"
	"github.com/qr-forever/resolver/notifications"
	"github.com/qr-forever/resolver/ratelimit"
	"github.com/qr-forever/resolver/resolver"
	"github.com/qr-forever/resolver/routers"
	"github.com/qr-forever/resolver/safego"
)

func main() {
	configSource := flag.String("cfg", "", "config source")
	flag.Parse()

	//work only with utc
	time.Local = time.UTC

	if err := readInViperConfig(*configSource); err != nil {
		logging.Fatal("Error reading application config:", err)
	}

	if err := appconfig.Init(); err != nil {
		logging.Fatal(err)
	}

	safego.GlobalRecoverHandler = func(value interface{}) {
		logging.Error("panic:", value)
		logging.Error(string(debug.Stack()))
	}

	//listen to shutdown signals
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		<-c
		logging.Info("* Service is shutting down.. *")
		appconfig.Instance.Close()
		time.Sleep(1 * time.Second)
		os.Exit(0)
	}()

	metrics.Init(viper.GetBool("server.metrics.prometheus.enabled"))

	metaStorage, err := meta.NewStorage(viper.Sub("meta"))
	if err != nil {
		logging.Fatal("Error initializing meta storage:", err)
	}
	appconfig.Instance.ScheduleClosing(metaStorage)
	logging.Info("Using meta storage:", metaStorage.Type())

	authService := authorization.NewService(metaStorage)
	creditLedger := ledger.NewLedger(metaStorage)

	var registry resolver.RegistryReader
	contractAddress := viper.GetString("chain.contract_address")
	if contractAddress != "" {
		registry = adapters.NewRegistryClient(viper.GetString("chain.rpc_url"), contractAddress)
		logging.Infof("Registry contract [%s] on chain [%s]", contractAddress, viper.GetString("chain.name"))
	} else {
		logging.Warn("chain.contract_address isn't configured. Resolution routes will respond with an error.")
	}

	mockRecords := resolver.ParseMockRecords(viper.GetString("resolver.mock_records_json"))
	if len(mockRecords) > 0 {
		logging.Infof("Loaded [%d] mock records", len(mockRecords))
	}

	resolverService := resolver.NewResolver(registry, mockRecords,
		uint64(viper.GetInt64("chain.scan_blocks")), viper.GetString("chain.name"))

	limiter := ratelimit.NewLimiter()
	billingNotifier := notifications.NewBillingNotifier(viper.GetString("billing.webhook_url"),
		viper.GetString("billing.webhook_auth"))

	router := routers.SetupRouter(metaStorage, authService, creditLedger, resolverService, limiter,
		billingNotifier, routers.Config{
			AdminToken:           viper.GetString("server.admin_token"),
			RateLimitPerMinute:   viper.GetInt("rate_limit.per_minute"),
			PublicResolveEnabled: viper.GetBool("resolver.public_enabled"),
		})

	logging.Info("Started server: " + appconfig.Instance.Authority)
	server := &http.Server{
		Addr:              appconfig.Instance.Authority,
		Handler:           middleware.Cors(router),
		ReadTimeout:       time.Second * 60,
		ReadHeaderTimeout: time.Second * 60,
		IdleTimeout:       time.Second * 65,
	}
	logging.Fatal(server.ListenAndServe())
}

//readInViperConfig load configuration from yaml file or environment variables
func readInViperConfig(configSource string) error {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configSource == "" {
		return nil
	}

	viper.SetConfigFile(configSource)
	return viper.ReadInConfig()
}

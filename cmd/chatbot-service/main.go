package main

import (
	"context"
	"flag"

	"campusassistant/pkg/logger"
	"campusassistant/pkg/observability"

	"github.com/go-kratos/kratos/v2"
	kconfig "github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	_ "go.uber.org/automaxprocs"
)

var (
	// Name is the name of the compiled software.
	Name = "chatbot-service"
	// Version is the version of the compiled software.
	Version = "v1.0.0"

	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/chatbot-service.yaml", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

func main() {
	flag.Parse()

	// 加载配置
	c := kconfig.New(
		kconfig.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var conf Config
	if err := c.Scan(&conf); err != nil {
		panic(err)
	}

	// 创建日志
	zapLogger, syncLogger := logger.NewZapLogger(conf.Observability.LogLevel)
	defer syncLogger()

	kratosLogger := log.With(zapLogger,
		"service.name", Name,
		"service.version", Version,
	)
	helper := log.NewHelper(kratosLogger)

	// 初始化追踪
	shutdownTracing, err := observability.InitTracing(context.Background(), conf.Observability.Tracing)
	if err != nil {
		helper.Warnf("failed to init tracing: %v", err)
	} else {
		defer func() {
			_ = shutdownTracing(context.Background())
		}()
	}

	// 使用 Wire 依赖注入初始化应用
	app, cleanup, err := wireApp(&conf, kratosLogger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	helper.Infof("starting %s version %s...", Name, Version)
	helper.Infof("http server: %s", conf.Server.HTTP.Addr)

	if err := app.Run(); err != nil {
		helper.Errorf("failed to run app: %v", err)
		panic(err)
	}
}

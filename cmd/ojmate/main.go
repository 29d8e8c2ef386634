// Command ojmate starts a local http server that runs sample tests for
// locally written solutions and proxies the online judge (login,
// problems, submission, verdict polling) for an editor front end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/ojmate/ojmate/cmd/ojmate/config"
	"github.com/ojmate/ojmate/cmd/ojmate/rest"
	"github.com/ojmate/ojmate/cmd/ojmate/version"
	"github.com/ojmate/ojmate/cmd/ojmate/ws"
	"github.com/ojmate/ojmate/judge"
	"github.com/ojmate/ojmate/sampletest"
)

var logger *zap.Logger

func main() {
	conf := loadConf()
	if conf.Version {
		fmt.Println(version.Version)
		return
	}
	initLogger(conf)
	defer logger.Sync()
	if ce := logger.Check(zap.InfoLevel, "Config loaded"); ce != nil {
		ce.Write(zap.String("config", fmt.Sprintf("%+v", conf)))
	}

	runner := newRunner(conf)
	client := newJudgeClient(conf)

	servers := []initFunc{
		initHTTPServer(conf, runner, client),
		initMonitorHTTPServer(conf),
	}

	// Gracefully shutdown, with signal / HTTP server / Monitor HTTP server
	sig := make(chan os.Signal, 1+len(servers))

	stops := []stopFunc{}
	for _, s := range servers {
		start, stop := s()
		if start != nil {
			go func() {
				start()
				sig <- os.Interrupt
			}()
		}
		if stop != nil {
			stops = append(stops, stop)
		}
	}

	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	signal.Reset(syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Shutting Down...")

	ctx, cancel := context.WithTimeout(context.TODO(), time.Second*3)
	defer cancel()

	var eg errgroup.Group
	for _, s := range stops {
		s := s
		eg.Go(func() error {
			return s(ctx)
		})
	}

	go func() {
		logger.Info("Shutdown Finished", zap.Error(eg.Wait()))
		cancel()
	}()
	<-ctx.Done()
}

type (
	stopFunc func(ctx context.Context) error
	initFunc func() (start func(), cleanUp stopFunc)
)

func loadConf() *config.Config {
	var conf config.Config
	if err := conf.Load(); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalln("load config failed ", err)
	}
	return &conf
}

func initLogger(conf *config.Config) {
	if conf.Silent {
		logger = zap.NewNop()
		return
	}

	var err error
	if conf.Release {
		logger, err = zap.NewProduction()
	} else {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if !conf.EnableDebug {
			config.Level.SetLevel(zap.InfoLevel)
		}
		logger, err = config.Build()
	}
	if err != nil {
		log.Fatalln("init logger failed ", err)
	}
}

// newRunner assembles the sample-test pipeline from explicit flags
// merged over the optional toolchain file.
func newRunner(conf *config.Config) *sampletest.Runner {
	fileConf, err := sampletest.LoadToolchainFile(conf.ToolchainConf)
	if err != nil {
		log.Fatalln("load toolchain config failed ", err)
	}
	tc := sampletest.ToolchainConfig{
		InterpreterPath:      conf.PythonPath,
		CompilerPath:         conf.JavacPath,
		RuntimePath:          conf.JavaPath,
		InterpreterExtraArgs: conf.InterpreterExtraArgs,
		CompilerExtraArgs:    conf.JavacExtraArgs,
		RuntimeExtraArgs:     conf.JavaExtraArgs,
	}.Merge(fileConf)

	return sampletest.NewRunner(sampletest.Config{
		Toolchain:  tc,
		RunTimeout: conf.RunTimeout,
		Logger:     logger,
	})
}

func newJudgeClient(conf *config.Config) *judge.Client {
	if conf.JudgeBaseURL == "" {
		logger.Warn("no judge base url configured, judge endpoints will be unavailable")
		return nil
	}
	client, err := judge.NewClient(judge.Options{
		BaseURL:            conf.JudgeBaseURL,
		Timeout:            conf.JudgeTimeout,
		InsecureSkipVerify: conf.JudgeSkipTLSVerify,
		Logger:             logger,
	})
	if err != nil {
		log.Fatalln("init judge client failed ", err)
	}
	return client
}

func initHTTPServer(conf *config.Config, runner *sampletest.Runner, client *judge.Client) initFunc {
	return func() (start func(), cleanUp stopFunc) {
		r := initHTTPMux(conf, runner, client)
		srv := http.Server{
			Addr:    conf.HTTPAddr,
			Handler: r,
		}

		return func() {
				logger.Info("Starting http server", zap.String("addr", conf.HTTPAddr))
				if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
					logger.Info("Http server stopped", zap.Error(err))
				} else {
					logger.Error("Http server stopped", zap.Error(err))
				}
			}, func(ctx context.Context) error {
				logger.Info("Http server shutting down")
				return srv.Shutdown(ctx)
			}
	}
}

func initHTTPMux(conf *config.Config, runner *sampletest.Runner, client *judge.Client) http.Handler {
	if conf.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(ginzap.Ginzap(logger, "", false))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// Metrics Handle
	if conf.EnableMetrics {
		initGinMetrics(r)
	}

	// Version handle
	r.GET("/version", handleVersion)

	// Sample-test handle
	var observe rest.RunObserver
	if conf.EnableMetrics {
		observe = observeSampleTest
	}
	rest.NewSampleTestHandle(runner, observe, logger).Register(r)

	// Judge handles
	if client != nil {
		rest.NewJudgeHandle(client, logger).Register(r)
		ws.New(client, logger).Register(r)
	}
	return r
}

func initGinMetrics(r *gin.Engine) {
	p := ginprometheus.NewPrometheus("gin")
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		return c.FullPath()
	}
	p.Use(r)
}

func handleVersion(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"buildVersion": version.Version,
		"go":           runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
	})
}

func initMonitorHTTPServer(conf *config.Config) initFunc {
	return func() (start func(), cleanUp stopFunc) {
		mr := initMonitorHTTPMux(conf)
		if mr == nil {
			return nil, nil
		}
		msrv := http.Server{
			Addr:    conf.MonitorAddr,
			Handler: mr,
		}
		return func() {
				logger.Info("Starting monitoring http server", zap.String("addr", conf.MonitorAddr))
				logger.Info("Monitoring http server stopped", zap.Error(msrv.ListenAndServe()))
			}, func(ctx context.Context) error {
				logger.Info("Monitoring http server shutdown")
				return msrv.Shutdown(ctx)
			}
	}
}

func initMonitorHTTPMux(conf *config.Config) http.Handler {
	if !conf.EnableMetrics && !conf.EnableDebug {
		return nil
	}
	mux := http.NewServeMux()
	if conf.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	if conf.EnableDebug {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return mux
}

package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/trsv-dev/simple-web-server/internal/config"
	"github.com/trsv-dev/simple-web-server/internal/logger"
	"github.com/trsv-dev/simple-web-server/internal/mimetypes"
	"github.com/trsv-dev/simple-web-server/internal/netutils"
	"github.com/trsv-dev/simple-web-server/internal/server"
)

const shutdownTimeout = 7 * time.Second

// "Сборка" и запуск сервера.
func main() {
	os.Exit(run())
}

func run() (code int) {
	// recover для логирования паник
	defer func() {
		if r := recover(); r != nil {
			log.Println("Паника в main:", fmt.Sprintf("%v", r))
			code = 2
		}
	}()

	// загружаем переменные окружения из .env, если он есть
	if errEnv := godotenv.Load(".env"); errEnv != nil && !os.IsNotExist(errEnv) {
		log.Println("Не удалось загрузить .env:", errEnv)
	}

	srvConfig, err := config.InitConfig()
	if err != nil {
		log.Println("Ошибка конфигурации:", err)
		return 2
	}

	logger.InitLogger(srvConfig.LogLevel, srvConfig.LogOutput)
	// отложенное закрытие ресурса (актуально если используется файл для логирования)
	defer logger.Log.(*logger.SlogAdapter).Close()

	srv := server.NewServer(server.Config{
		Timeout:             srvConfig.Timeout,
		PoolSize:            srvConfig.PoolSize,
		QueueSize:           srvConfig.QueueSize,
		SilentOnMissingFile: srvConfig.SilentOnMissingFile,
		Types:               mimetypes.Default(),
	})

	if err = srv.Start(srvConfig.BindAddress, srvConfig.Port, srvConfig.Backlog, srvConfig.ContentRoot); err != nil {
		color.Red("Server failed to start: %v", err)
		logger.Log.Error("Не удалось запустить сервер", logger.Err(err))
		return 1
	}

	color.Green("Server started successfully.")

	// проверяем что сокет действительно принимает соединения
	var netChecker netutils.Checker = netutils.NewNetworkChecker()
	if addr, ok := srv.Addr().(*net.TCPAddr); ok {
		probeCtx, probeCancel := context.WithTimeout(context.Background(), netutils.DefaultHostTimeout)
		reachable := netChecker.CheckTCP(probeCtx, probeHost(addr.IP), strconv.Itoa(addr.Port), 0)
		probeCancel()

		logger.Log.Info("Проверка доступности сервера",
			logger.String("address", addr.String()),
			logger.String("reachable", strconv.FormatBool(reachable)),
		)
	}

	// канал системных сигналов
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	sig := <-stop
	logger.Log.Info("Получен сигнал остановки приложения", logger.String("sig", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Ошибка остановки сервера", logger.Err(err))
		return 1
	}

	logger.Log.Info("Приложение завершено")

	return 0
}

// probeHost Адрес для проверки. Сокет на всех интерфейсах проверяется через loopback.
func probeHost(ip net.IP) string {
	if !ip.IsUnspecified() {
		return ip.String()
	}

	if ip.To4() != nil {
		return "127.0.0.1"
	}

	return "::1"
}

package main

import (
	"context"
	"os"

	"Hingaa_Server/internal/config"
	"Hingaa_Server/internal/model"
	"Hingaa_Server/internal/pkg"
	"Hingaa_Server/internal/repository/mysql"
	"Hingaa_Server/internal/repository/redis"
	"Hingaa_Server/internal/router"
	"Hingaa_Server/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	pkg.InitSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatal().Err(err).Msg("connect mysql failed")
	}

	// 连接redis
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatal().Err(err).Msg("connect redis failed")
	}

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Activity{},
		&model.ActivityMember{},
		&model.JoinRequest{},
		&model.UserBlock{},
		&model.Message{},
		&model.RequestOutbox{},
	)

	ctx := context.Background()

	// outbox中继：没配kafka就降级为日志输出
	sender := service.LogSender(log)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect kafka failed")
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(mysql.DB, sender, log)
	go relayer.Run(ctx)

	// 冗余计数对账
	reconciler := service.NewMemberCountReconciler(mysql.DB, log)
	go reconciler.Run(ctx)

	// Gin
	r := router.InitRouter(cfg)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("http server exited")
	}
}

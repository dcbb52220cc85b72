package main

import (
	"log"
	"net/http"

	"projman/bizerror"
	"projman/common"
	"projman/domain"
	"projman/domain/project"
	"projman/domain/skill"
	"projman/domain/taxonomy"
	"projman/infra/tracing"
	"projman/persistence"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go/config"
	jaegerlog "github.com/uber/jaeger-client-go/log"
	"github.com/uber/jaeger-lib/metrics"
)

func main() {
	log.Println("service start")

	tracingCfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("parse tracing config failed %v\n", err)
	}
	tracingCfg.ServiceName = common.GetServiceName()
	tracer, closer, err := tracingCfg.NewTracer(
		config.Logger(jaegerlog.StdLogger),
		config.Metrics(metrics.NullFactory),
	)
	if err != nil {
		log.Fatalf("tracer initialization failed %v\n", err)
	}
	defer closer.Close()
	opentracing.SetGlobalTracer(tracer)

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(
		&domain.SkillType{}, &domain.ProjectType{}, &domain.ProjectStatus{},
		&domain.Skill{}, &domain.Project{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "projman")
	})

	middleWares := []gin.HandlerFunc{tracing.TracingIngress()}
	skill.RegisterSkillsRestAPI(engine, middleWares...)
	taxonomy.RegisterTaxonomiesRestAPI(engine, middleWares...)
	project.RegisterProjectsRestAPI(engine, middleWares...)

	err = engine.Run(":80")
	if err != nil {
		panic(err)
	}
}

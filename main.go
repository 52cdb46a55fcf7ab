package main

import (
	"context"
	"log"
	"os"

	"gointegral/adapters/sink"
	"gointegral/app"
	"gointegral/domain/catalog"
	"gointegral/internal"
	"gointegral/internal/config"
	"gointegral/internal/container"
	"gointegral/ports"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	defer logger.Sync()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Close()

	ctx := context.Background()
	in := appConfig.Integration
	fns := catalog.Build(in.A, in.B)

	runs, err := appContainer.Comparison.CompareCatalog(ctx, fns, in.A, in.B, in.N, in.Parallelism)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}

	sinks := []ports.ResultSink{sink.NewTable(os.Stdout)}

	if appConfig.Database.URL != "" {
		if err := appContainer.InitWithDatabase(ctx); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		sinks = append(sinks, appContainer.Runs)
	}

	var workbook *sink.Workbook
	if appConfig.Export.Path != "" {
		workbook = sink.NewWorkbook()
		defer workbook.Close()
		sinks = append(sinks, workbook)
	}

	if err := app.Publish(ctx, runs, sinks...); err != nil {
		log.Fatalf("Failed to publish results: %v", err)
	}

	if workbook != nil {
		if err := workbook.Save(appConfig.Export.Path); err != nil {
			log.Fatalf("Failed to save workbook: %v", err)
		}
		logger.Info("wrote %s", appConfig.Export.Path)
	}
}

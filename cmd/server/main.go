/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	autoProvider "github.com/wso2/engagement-service/internal/autoresponse/provider"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/database/provider"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/managers"
	"github.com/wso2/engagement-service/internal/system/schedulers"
	"github.com/wso2/engagement-service/internal/system/telemetry"
	"github.com/wso2/engagement-service/internal/system/utils"
	"github.com/wso2/engagement-service/internal/system/workers"
)

const configFile = "repository/conf/deployment.yaml"

func main() {

	engagementHome := getEngagementHome()

	envFiles, _ := filepath.Glob(filepath.Join(engagementHome, "config", "*.env"))
	if len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	engagementConfig, err := config.LoadConfig(engagementHome, configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize runtime configurations.
	if err := config.InitializeRuntime(engagementHome, engagementConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(engagementConfig.Log.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(engagementConfig.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize tracing.", log.Error(err))
	}

	if _, err := provider.NewDBProvider().GetDBClient(); err != nil {
		logger.Fatal("Failed to connect to the database.", log.Error(err))
	}
	if engagementConfig.DataSource.InitSchema {
		if err := provider.InitConfiguredSchema(ctx); err != nil {
			logger.Fatal("Failed to initialize the database schema.", log.Error(err))
		}
	}

	// Start the auto-response dispatch pipeline.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := autoProvider.NewAutoResponseProvider().GetDispatchService()
	worker := workers.StartDispatchWorker(workerCtx, dispatcher, engagementConfig.AutoResponder.Queue())
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		schedulers.StartDispatchScheduler(ctx, worker, engagementConfig.AutoResponder)
	}()

	serverAddr := fmt.Sprintf("%s:%d", engagementConfig.Addr.Host, engagementConfig.Addr.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           initHandler(engagementConfig),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Engagement service started.", log.String("address", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve requests.", log.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down engagement service.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed.", log.Error(err))
	}
	<-schedulerDone
	worker.Stop()
	stopWorkers()
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown failed.", log.Error(err))
	}
	if err := provider.ClosePool(); err != nil {
		logger.Error("Closing the database pool failed.", log.Error(err))
	}
}

// initHandler builds the multiplexer and wraps it with CORS, trace ids and OpenTelemetry.
func initHandler(cfg *config.Config) http.Handler {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Fatal("Failed to register the services.", log.Error(err))
	}

	handler := utils.EnableCORS(cfg.Auth.CORSAllowedOrigins, mux)
	handler = utils.WithTraceID(handler)
	return otelhttp.NewHandler(handler, constants.ServiceName)
}

func getEngagementHome() string {

	homeFlag := flag.String("home", "", "Path to the engagement service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}

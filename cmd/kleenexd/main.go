// Copyright 2025 The wp-kleenexd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"

	"github.com/joho/godotenv"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	wordpressv2 "github.com/epfl-si/wp-kleenexd/api/v2"
	"github.com/epfl-si/wp-kleenexd/internal/auth"
	"github.com/epfl-si/wp-kleenexd/internal/cleanup"
	"github.com/epfl-si/wp-kleenexd/internal/config"
	"github.com/epfl-si/wp-kleenexd/internal/repository"
	"github.com/epfl-si/wp-kleenexd/internal/server"
)

func main() {
	ctrl.SetLogger(zap.New(zap.UseDevMode(os.Getenv("DEV_MODE") == "true")))
	logger := ctrl.Log.WithName("kleenexd")

	// A .env file is a local development convenience; its absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(err, "Unable to load configuration")
		os.Exit(1)
	}

	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		logger.Error(err, "Unable to register core types")
		os.Exit(1)
	}
	if err := wordpressv2.AddToScheme(scheme); err != nil {
		logger.Error(err, "Unable to register WordpressSite types")
		os.Exit(1)
	}

	k8sClient, err := client.New(ctrl.GetConfigOrDie(), client.Options{Scheme: scheme})
	if err != nil {
		logger.Error(err, "Unable to create cluster client")
		os.Exit(1)
	}

	repo := repository.New(k8sClient, cfg.Namespace, cfg.WebsiteHost)
	orchestrator := cleanup.NewOrchestrator(repo, k8sClient, cfg.Namespace)
	scheduler := cleanup.NewScheduler(orchestrator, cfg.CleanupInterval)
	resolver := auth.NewResolver(cfg.JWTSecret, cfg.AdminGroup)
	apiServer := server.NewServer(cfg.ListenAddr, cfg.Port, repo, orchestrator, resolver, cfg.CleanupAPIKey)

	ctx := ctrl.SetupSignalHandler()

	go func() {
		if err := scheduler.Start(ctx); err != nil {
			logger.Error(err, "Cleanup scheduler stopped")
		}
	}()

	logger.Info("Starting wp-kleenexd",
		"namespace", cfg.Namespace,
		"host", cfg.WebsiteHost,
		"cleanupInterval", cfg.CleanupInterval)
	if err := apiServer.Start(ctx); err != nil {
		logger.Error(err, "API server failed")
		os.Exit(1)
	}
}

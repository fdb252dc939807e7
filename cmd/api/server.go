package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/scienceol/chemlookup/cmd/lookup"
	"github.com/scienceol/chemlookup/internal/config"
	"github.com/scienceol/chemlookup/pkg/middleware/db"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	migrate "github.com/scienceol/chemlookup/pkg/repo/migrate"
	"github.com/scienceol/chemlookup/pkg/utils"
	"github.com/scienceol/chemlookup/pkg/web"
)

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         "Start the HTTP lookup server",
		SilenceUsage: true,
		PreRunE:      lookup.InitBackends,
		RunE:         lookup.WithBackends(newRouter),
	}
}

func NewMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Long:         "Create or update the lookup history tables",
		SilenceUsage: true,
		PreRunE:      lookup.InitPostgres,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer db.ClosePostgres(cmd.Context())
			return migrate.Table(cmd.Root().Context())
		},
	}
}

func newRouter(cmd *cobra.Command, _ []string) error {
	router := gin.New()
	router.Use(gin.Recovery())
	web.NewRouter(cmd.Root().Context(), router)
	port := config.Global().Server.Port
	addr := ":" + strconv.Itoa(port)

	httpServer := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	fmt.Printf("API Server starting on http://0.0.0.0:%d\n", port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v\n", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	fmt.Printf("Server started. Press Ctrl+C to shutdown.\n")
	<-cmd.Context().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("shut down server err: %+v", err)
	}
	return nil
}

package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tetris-backend/internal/repository"
)

func Start(port string, leaderboard repository.LeaderboardRepository) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/leaderboard", leaderboardHandler(leaderboard))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/tetris-backend/internal/repository"
)

const leaderboardLimit = 10

func leaderboardHandler(leaderboard repository.LeaderboardRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		entries, err := leaderboard.Top(r.Context(), leaderboardLimit)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
}

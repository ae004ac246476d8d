package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"telegram-affiliate-bot/internal/usecase"
)

// statsHandler serves aggregate bot totals.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, referrals, posts, err := statsUC.Totals(r.Context())
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		response := struct {
			TotalUsers     int `json:"total_users"`
			TotalReferrals int `json:"total_referrals"`
			TotalPosts     int `json:"total_posts"`
		}{
			TotalUsers:     users,
			TotalReferrals: referrals,
			TotalPosts:     posts,
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}

// leaderboardHandler serves the top referrers. Optional ?limit= caps the
// result, defaulting to 10.
func leaderboardHandler(referralUC usecase.ReferralUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > 100 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		top, err := referralUC.Leaderboard(r.Context(), limit)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			return
		}

		type entry struct {
			Rank          int    `json:"rank"`
			Name          string `json:"name"`
			ReferralCount int    `json:"referral_count"`
			Points        int64  `json:"points"`
		}
		entries := make([]entry, 0, len(top))
		for i, u := range top {
			entries = append(entries, entry{
				Rank:          i + 1,
				Name:          u.DisplayName(),
				ReferralCount: u.ReferralCount,
				Points:        u.Points,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Leaderboard []entry `json:"leaderboard"`
		}{entries})
	}
}

// offersHandler serves the current catalog size and a sample of offers.
func offersHandler(catalogUC usecase.CatalogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := catalogUC.Count(r.Context())
		if err != nil {
			http.Error(w, "Failed to count offers", http.StatusInternalServerError)
			return
		}

		sample := 5
		if sample > total && total > 0 {
			sample = total
		}
		type offerView struct {
			ID         string  `json:"id"`
			Title      string  `json:"title"`
			Category   string  `json:"category"`
			Commission float64 `json:"commission"`
			Platform   string  `json:"platform"`
		}
		views := make([]offerView, 0, sample)
		if total > 0 {
			offers, err := catalogUC.SampleRandom(r.Context(), sample)
			if err != nil {
				http.Error(w, "Failed to sample offers", http.StatusInternalServerError)
				return
			}
			for _, o := range offers {
				views = append(views, offerView{
					ID:         o.ID,
					Title:      o.Title,
					Category:   string(o.Category),
					Commission: o.Commission,
					Platform:   o.Platform,
				})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Total  int         `json:"total"`
			Sample []offerView `json:"sample"`
		}{total, views})
	}
}

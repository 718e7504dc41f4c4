package jobs

import (
	"log"
	"strconv"
	"time"

	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/models"
)

// ExpireStaleRequests cancels pending session requests the teacher never
// responded to. The status guard on the update keeps it from touching
// requests answered between the query and the write.
func ExpireStaleRequests() {
	log.Println("Running job: ExpireStaleRequests...")

	days, err := strconv.Atoi(config.ConfigWithDefault("STALE_REQUEST_DAYS", "14"))
	if err != nil || days < 1 {
		days = 14
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	result := database.DB.Model(&models.Session{}).
		Where("status = ? AND requested_date < ?", models.SessionStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":         models.SessionStatusCancelled,
			"scheduled_time": nil,
			"meeting_link":   nil,
			"start_url":      nil,
		})

	if result.Error != nil {
		log.Printf("Error expiring stale session requests: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Cancelled %d stale session request(s).", result.RowsAffected)
	}
}

// services/scheduler.go
package services

import (
	"log"
	"time"

	"league-management-system/models"

	"github.com/go-co-op/gocron/v2"
)

func (s *TournamentService) StartStatusScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: advance tournaments whose dates have passed
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()

			var starting []models.Tournament
			err := s.DB.Where("status = ? AND start_date IS NOT NULL AND start_date <= ?",
				models.TournamentEnrollmentOpen, now).
				Find(&starting).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, t := range starting {
				t.Status = models.TournamentInProgress
				if err := s.DB.Save(&t).Error; err != nil {
					log.Printf("[Scheduler] Failed to start tournament %s: %v", t.ID, err)
				} else {
					log.Printf("✅ Tournament now in progress: %s", t.Name)
				}
			}

			var finishing []models.Tournament
			err = s.DB.Where("status = ? AND end_date IS NOT NULL AND end_date <= ?",
				models.TournamentInProgress, now).
				Find(&finishing).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, t := range finishing {
				t.Status = models.TournamentFinished
				if err := s.DB.Save(&t).Error; err != nil {
					log.Printf("[Scheduler] Failed to finish tournament %s: %v", t.ID, err)
				} else {
					log.Printf("✅ Tournament finished: %s", t.Name)
				}
			}
		}),
	)
}

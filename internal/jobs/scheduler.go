package jobs

import (
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/Masaicker/GamePact/internal/services"
)

// Scheduler runs the periodic housekeeping tasks.
type Scheduler struct {
	cron         *cron.Cron
	adminService *services.AdminService
	steamService *services.SteamService
}

func NewScheduler(adminService *services.AdminService, steamService *services.SteamService) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		adminService: adminService,
		steamService: steamService,
	}
}

func (s *Scheduler) Start() {
	// Hourly invitation expiry sweep.
	s.cron.AddFunc("0 * * * *", func() {
		n, err := s.adminService.ExpireStaleInvites()
		if err != nil {
			log.WithError(err).Error("[CRON] invitation expiry sweep failed")
			return
		}
		if n > 0 {
			log.Infof("[CRON] expired %d stale invitations", n)
		}
	})

	// Daily artwork cache prune.
	s.cron.AddFunc("0 4 * * *", func() {
		if n := s.steamService.PruneCache(); n > 0 {
			log.Infof("[CRON] pruned %d expired artwork cache entries", n)
		}
	})

	s.cron.Start()
	log.Info("background scheduler started")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("background scheduler stopped")
}

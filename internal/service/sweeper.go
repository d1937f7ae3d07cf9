package service

import (
	"log"
	"time"

	"github.com/kawojue/phrednetwork/internal/repository"

	"github.com/robfig/cron/v3"
)

// Sweeper runs the scheduled cleanup passes: expired boost records,
// expired adverts and stale validation tokens.
type Sweeper struct {
	boosts   *repository.BoostingRepository
	adverts  *repository.AdvertRepository
	users    *repository.UserRepository
	schedule *cron.Cron
}

func NewSweeper(boosts *repository.BoostingRepository, adverts *repository.AdvertRepository, users *repository.UserRepository) *Sweeper {
	return &Sweeper{
		boosts:   boosts,
		adverts:  adverts,
		users:    users,
		schedule: cron.New(),
	}
}

// Start registers the nightly sweep and begins the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.schedule.AddFunc("0 2 * * *", s.Sweep); err != nil {
		return err
	}
	s.schedule.Start()
	return nil
}

func (s *Sweeper) Stop() {
	s.schedule.Stop()
}

// Sweep runs one cleanup pass. Safe to call directly, the scheduler
// calls it nightly.
func (s *Sweeper) Sweep() {
	now := time.Now()
	if n, err := s.boosts.DeleteExpired(now); err != nil {
		log.Printf("[Sweep] expired boosts: %v", err)
	} else if n > 0 {
		log.Printf("[Sweep] removed %d expired boosts", n)
	}
	if n, err := s.adverts.DeleteExpired(now); err != nil {
		log.Printf("[Sweep] expired adverts: %v", err)
	} else if n > 0 {
		log.Printf("[Sweep] removed %d expired adverts", n)
	}
	if err := s.users.DeleteExpiredValidations(now); err != nil {
		log.Printf("[Sweep] stale validations: %v", err)
	}
}

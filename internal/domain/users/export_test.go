package users

import "time"

// Ganchos solo para tests.

func (s *Service) SetHashCost(cost int) { s.hashCost = cost }

func (s *Service) SetNow(now func() time.Time) { s.now = now }

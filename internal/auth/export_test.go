package auth

import "time"

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (t *Tokens) SetClock(now func() time.Time) { t.now = now }

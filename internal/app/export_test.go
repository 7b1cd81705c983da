package app

import "time"

func (s *WeightService) SetClock(f func() time.Time)  { s.clock = f }
func (s *IntakeService) SetClock(f func() time.Time)  { s.clock = f }
func (s *ProfileService) SetClock(f func() time.Time) { s.clock = f }
func (s *ChartsService) SetClock(f func() time.Time)  { s.clock = f }

package services

import "sort"

// Status is which tools are between trigger and reveal
type Status struct {
	SpinningWheels  []string `json:"spinningWheels"`
	CoinFlipping    bool     `json:"coinFlipping"`
	FingerSelecting bool     `json:"fingerSelecting"`
}

// StatusService reports the busy flags of every tool
type StatusService struct {
	wheels *WheelService
	coin   *CoinService
	finger *FingerService
}

// NewStatusService creates a new StatusService
func NewStatusService(wheels *WheelService, coin *CoinService, finger *FingerService) *StatusService {
	return &StatusService{wheels: wheels, coin: coin, finger: finger}
}

// Status returns a snapshot of the busy flags
func (s *StatusService) Status() Status {
	spinning := s.wheels.Spinning()
	sort.Strings(spinning)
	return Status{
		SpinningWheels:  spinning,
		CoinFlipping:    s.coin.IsFlipping(),
		FingerSelecting: s.finger.IsSelecting(),
	}
}

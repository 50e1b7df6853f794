package playback

import (
	"time"

	"uav-deconfliction/internal/conflict"
)

type Alert struct {
	Timestamp time.Time // playback clock when the conflict was entered
	Pair      conflict.Pair
	Message   string
	IsUrgent  bool
}

func (p *Playback) AddAlert(pair conflict.Pair, message string, isUrgent bool) {
	p.AlertLog = append(p.AlertLog, Alert{
		Timestamp: p.Clock,
		Pair:      pair,
		Message:   message,
		IsUrgent:  isUrgent,
	})

	if len(p.AlertLog) > p.maxAlertLogSize {
		p.AlertLog = p.AlertLog[len(p.AlertLog)-p.maxAlertLogSize:]
	}
}

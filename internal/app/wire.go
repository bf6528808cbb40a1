package app

import (
	"phyboot/internal/detect"
	"phyboot/internal/domain"
	"phyboot/internal/services/boot"
	"phyboot/internal/services/bridge"
)

// Wire bundles the components that share one session's transport.
type Wire struct {
	Sequencer *boot.Sequencer
	Bridge    *bridge.Bridge
}

// NewWire builds the component graph over t. onState observes sequencer
// transitions.
func NewWire(cfg Config, t domain.LineTransport, onState func(domain.State)) (*Wire, error) {
	markers := cfg.Markers
	if len(markers) == 0 {
		markers = detect.DefaultMarkers
	}
	det, err := detect.FromStrings(markers)
	if err != nil {
		return nil, err
	}

	seq, err := boot.New(t, det, boot.Config{
		ImagePath:   cfg.ImagePath,
		LoadAddress: cfg.LoadAddress,
		Nudge:       nudgeBytes(cfg.Nudge),
		Terminator:  cfg.Terminator,
		ReadTimeout: cfg.ReadTimeout,
		MaxAttempts: cfg.MaxAttempts,
		MaxWait:     cfg.MaxWait,
		SkipConfirm: cfg.SkipConfirm,
		ListFiles:   cfg.ListFiles,
		Echo:        cfg.Output,
		OnState:     onState,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Wire{Sequencer: seq, Bridge: newBridge(cfg, t)}, nil
}

func newBridge(cfg Config, t domain.LineTransport) *bridge.Bridge {
	return bridge.New(t, bridge.NewLineInput(cfg.Input), cfg.Output, bridge.Config{
		ExitDirective: cfg.ExitDirective,
		Terminator:    cfg.Terminator,
		ReadTimeout:   cfg.ReadTimeout,
		Logger:        cfg.Logger,
	})
}

func nudgeBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

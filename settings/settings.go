/*
Package settings provides typed configuration on top of the kv collaborator.

PURPOSE:
  The user-facing policy configuration - flex and core windows, default
  daily target, minor status, the running overtime balance and the log-sync
  switch - lives as flattened keys in the synced storage area. This package
  reads them with defaults, writes them back, and bridges to the calculation
  engine's PolicyConfig value.

RECOGNIZED KEYS (flattened, one value each):
  flexStart, coreStart, coreEndWeekday, coreEndFriday, flexEnd,
  targetHoursDefault, isMinorDefault, currentBalanceHours, logSyncEnabled

DEFAULTS:
  06:45 / 08:45 / 15:30 / 15:00 (Fri) / 19:00, 8h target, adult, zero
  balance, sync off.

SEE ALSO:
  - flextime: consumes PolicyConfig values produced here
  - logbook: asks this package which storage area holds the log
*/
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Jojo252511/arbeitszeit/flextime"
	"github.com/Jojo252511/arbeitszeit/kv"
)

// Key names in the kv store. Settings always live in the Sync namespace;
// only the logbook itself moves between areas.
const (
	KeyFlexStart           = "flexStart"
	KeyCoreStart           = "coreStart"
	KeyCoreEndWeekday      = "coreEndWeekday"
	KeyCoreEndFriday       = "coreEndFriday"
	KeyFlexEnd             = "flexEnd"
	KeyTargetHoursDefault  = "targetHoursDefault"
	KeyIsMinorDefault      = "isMinorDefault"
	KeyCurrentBalanceHours = "currentBalanceHours"
	KeyLogSyncEnabled      = "logSyncEnabled"
)

// Settings is the complete user configuration with defaults applied.
type Settings struct {
	FlexStart      flextime.Minutes `json:"flexStart"`
	CoreStart      flextime.Minutes `json:"coreStart"`
	CoreEndWeekday flextime.Minutes `json:"coreEndWeekday"`
	CoreEndFriday  flextime.Minutes `json:"coreEndFriday"`
	FlexEnd        flextime.Minutes `json:"flexEnd"`

	TargetHoursDefault  decimal.Decimal `json:"targetHoursDefault"`
	IsMinorDefault      bool            `json:"isMinorDefault"`
	CurrentBalanceHours decimal.Decimal `json:"currentBalanceHours"`
	LogSyncEnabled      bool            `json:"logSyncEnabled"`
}

// Defaults returns the configuration the tool ships with.
func Defaults() Settings {
	p := flextime.DefaultPolicy()
	return Settings{
		FlexStart:           p.FlexStart,
		CoreStart:           p.CoreStart,
		CoreEndWeekday:      p.CoreEndWeekday,
		CoreEndFriday:       p.CoreEndFriday,
		FlexEnd:             p.FlexEnd,
		TargetHoursDefault:  decimal.NewFromInt(8),
		CurrentBalanceHours: decimal.Zero,
	}
}

// Policy converts the settings into the engine's policy value.
func (s Settings) Policy() flextime.PolicyConfig {
	return flextime.PolicyConfig{
		FlexStart:      s.FlexStart,
		CoreStart:      s.CoreStart,
		CoreEndWeekday: s.CoreEndWeekday,
		CoreEndFriday:  s.CoreEndFriday,
		FlexEnd:        s.FlexEnd,
		IsMinor:        s.IsMinorDefault,
	}
}

// Service reads and writes settings through the kv collaborator.
type Service struct {
	KV kv.Store
}

func NewService(store kv.Store) *Service {
	return &Service{KV: store}
}

// Load reads every recognized key, applying the default for absent ones.
func (s *Service) Load(ctx context.Context) (Settings, error) {
	out := Defaults()

	fields := []struct {
		key string
		dst any
	}{
		{KeyFlexStart, &out.FlexStart},
		{KeyCoreStart, &out.CoreStart},
		{KeyCoreEndWeekday, &out.CoreEndWeekday},
		{KeyCoreEndFriday, &out.CoreEndFriday},
		{KeyFlexEnd, &out.FlexEnd},
		{KeyTargetHoursDefault, &out.TargetHoursDefault},
		{KeyIsMinorDefault, &out.IsMinorDefault},
		{KeyCurrentBalanceHours, &out.CurrentBalanceHours},
		{KeyLogSyncEnabled, &out.LogSyncEnabled},
	}

	for _, f := range fields {
		raw, err := s.KV.Get(ctx, kv.Sync, f.key)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return Settings{}, err
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return Settings{}, fmt.Errorf("corrupt setting %q: %w", f.key, err)
		}
	}
	return out, nil
}

// Save writes every recognized key.
func (s *Service) Save(ctx context.Context, in Settings) error {
	fields := map[string]any{
		KeyFlexStart:           in.FlexStart,
		KeyCoreStart:           in.CoreStart,
		KeyCoreEndWeekday:      in.CoreEndWeekday,
		KeyCoreEndFriday:       in.CoreEndFriday,
		KeyFlexEnd:             in.FlexEnd,
		KeyTargetHoursDefault:  in.TargetHoursDefault,
		KeyIsMinorDefault:      in.IsMinorDefault,
		KeyCurrentBalanceHours: in.CurrentBalanceHours.Round(2),
		KeyLogSyncEnabled:      in.LogSyncEnabled,
	}
	for key, val := range fields {
		raw, err := json.Marshal(val)
		if err != nil {
			return err
		}
		if err := s.KV.Set(ctx, kv.Sync, key, raw); err != nil {
			return err
		}
	}
	return nil
}

// SaveBalance persists only the running balance, rounded to two decimal
// places like every balance value the tool has ever stored.
func (s *Service) SaveBalance(ctx context.Context, hours decimal.Decimal) error {
	raw, err := json.Marshal(hours.Round(2))
	if err != nil {
		return err
	}
	return s.KV.Set(ctx, kv.Sync, KeyCurrentBalanceHours, raw)
}

// LogArea returns the storage area the logbook lives in: Sync when the
// user enabled cloud synchronisation, Local otherwise.
func (s *Service) LogArea(ctx context.Context) (kv.Namespace, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return kv.Local, err
	}
	if cfg.LogSyncEnabled {
		return kv.Sync, nil
	}
	return kv.Local, nil
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"time_recorder_bot/internal/domain/attendance"
	idb "time_recorder_bot/internal/infra/database"
)

// Messages are the reminder texts sent by the scheduler.
type Messages struct {
	Start string `json:"start"`
	Leave string `json:"leave"`
}

// DefaultMessages are used for any text the user has not customised.
var DefaultMessages = Messages{
	Start: "出社しましたか？",
	Leave: "退社しますか？",
}

// Preferences gives typed access to the JSON values in the key-value store.
type Preferences struct {
	store         attendance.KeyValueStore
	defaultSiteID int
}

func NewPreferences(store attendance.KeyValueStore, defaultSiteID int) *Preferences {
	return &Preferences{store: store, defaultSiteID: defaultSiteID}
}

// load decodes the value of key into v. found is false for a missing key.
func (p *Preferences) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, idb.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (p *Preferences) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return p.store.Set(ctx, key, string(raw))
}

// LastInfo is the notice watermark: the date of the last announcement read.
func (p *Preferences) LastInfo(ctx context.Context) (string, error) {
	var last string
	_, err := p.load(ctx, attendance.KeyLastInfo, &last)
	return last, err
}

func (p *Preferences) SetLastInfo(ctx context.Context, latest string) error {
	return p.save(ctx, attendance.KeyLastInfo, latest)
}

// Holidays lists the summary column labels counted as leave days.
func (p *Preferences) Holidays(ctx context.Context) ([]string, error) {
	holidays := []string{}
	if _, err := p.load(ctx, attendance.KeyHolidays, &holidays); err != nil {
		return []string{}, err
	}
	return holidays, nil
}

func (p *Preferences) SetHolidays(ctx context.Context, holidays []string) error {
	if holidays == nil {
		holidays = []string{}
	}
	return p.save(ctx, attendance.KeyHolidays, holidays)
}

// MenuList is the last non-empty menu snapshot seen after login.
func (p *Preferences) MenuList(ctx context.Context) ([]attendance.MenuEntry, error) {
	var menus []attendance.MenuEntry
	_, err := p.load(ctx, attendance.KeyMenuList, &menus)
	return menus, err
}

// UpdateMenuList keeps the previous snapshot when menus is empty.
func (p *Preferences) UpdateMenuList(ctx context.Context, menus []attendance.MenuEntry) error {
	if len(menus) == 0 {
		return nil
	}
	return p.save(ctx, attendance.KeyMenuList, menus)
}

// SiteID selects the portal host.
func (p *Preferences) SiteID(ctx context.Context) (int, error) {
	siteID := p.defaultSiteID
	if _, err := p.load(ctx, attendance.KeySiteID, &siteID); err != nil {
		return p.defaultSiteID, err
	}
	return siteID, nil
}

func (p *Preferences) SetSiteID(ctx context.Context, siteID int) error {
	return p.save(ctx, attendance.KeySiteID, siteID)
}

// LastAnnounce is the date ("2006-01-02") of the last "not stamped yet" notice.
func (p *Preferences) LastAnnounce(ctx context.Context) (string, error) {
	var last string
	_, err := p.load(ctx, attendance.KeyLastAnnounce, &last)
	return last, err
}

func (p *Preferences) SetLastAnnounce(ctx context.Context, day string) error {
	return p.save(ctx, attendance.KeyLastAnnounce, day)
}

// Messages merges stored reminder texts over the defaults.
func (p *Preferences) Messages(ctx context.Context) (Messages, error) {
	msg := DefaultMessages
	var stored Messages
	found, err := p.load(ctx, attendance.KeyMessage, &stored)
	if err != nil || !found {
		return msg, err
	}
	if stored.Start != "" {
		msg.Start = stored.Start
	}
	if stored.Leave != "" {
		msg.Leave = stored.Leave
	}
	return msg, nil
}

func (p *Preferences) SetMessages(ctx context.Context, msg Messages) error {
	return p.save(ctx, attendance.KeyMessage, msg)
}

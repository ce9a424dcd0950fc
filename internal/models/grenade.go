package models

import (
	"errors"
	"fmt"
)

// GrenadeData holds optional details shown with a setup
type GrenadeData struct {
	BestTiming     *int   `json:"best_timing,omitempty"`     // Score, higher means earlier in the round
	TimeInFly      *int   `json:"time_in_fly,omitempty"`     // Seconds
	AdditionalInfo string `json:"additional_info,omitempty"`
	IsInsta        bool   `json:"is_insta"`
}

// TelegramData references the channel post that documents a setup
type TelegramData struct {
	VideoFileID       string `json:"video_file_id,omitempty"`
	VideoDuration     int    `json:"video_duration,omitempty"`
	SetupPhotoFileID  string `json:"setup_photo_file_id,omitempty"`
	FinishPhotoFileID string `json:"finish_photo_file_id,omitempty"`
	SetupPhotoMsgID   *int64 `json:"setup_photo_msg_id,omitempty"`
	FinishPhotoMsgID  *int64 `json:"finish_photo_msg_id,omitempty"`
	CoverFileID       string `json:"cover_file_id,omitempty"`
	Likes             int    `json:"likes"`
	Dislikes          int    `json:"dislikes"`
}

// Grenade is one recorded setup: where to stand, where it lands and how to throw it
type Grenade struct {
	ID              int64        `json:"id" db:"id"`
	Map             CsMap        `json:"map" db:"map"`
	Type            GrenadeType  `json:"type" db:"type"`
	Side            Side         `json:"side" db:"side"`
	Difficult       int          `json:"difficult" db:"difficult"`
	Data            GrenadeData  `json:"data" db:"data"`
	TgPostID        *int64       `json:"tg_post_id" db:"tg_post_id"`
	TgData          TelegramData `json:"tg_data" db:"tg_data"`
	KeyCombo        KeyCombo     `json:"key_combo"`
	InitialPosition MapPosition  `json:"initial_position"`
	FinalPosition   MapPosition  `json:"final_position"`
	IsFavourite     bool         `json:"is_favourite"`
	UpdatedAt       string       `json:"update_date,omitempty" db:"updated_at"`
}

// DestinationKey groups setups that land on the same point
func (g Grenade) DestinationKey() string {
	return g.FinalPosition.Position.Key()
}

// BestTime is the raw minutes/seconds input for a setup's best timing
type BestTime struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// NewGrenade is the admin payload for creating or editing a setup.
// ID 0 creates a new setup.
type NewGrenade struct {
	ID              int64          `json:"id"`
	Map             CsMap          `json:"map" binding:"required"`
	Type            GrenadeType    `json:"type" binding:"required"`
	Side            Side           `json:"side" binding:"required"`
	Difficult       int            `json:"difficult" binding:"required"`
	Data            GrenadeData    `json:"data"`
	BestTime        *BestTime      `json:"best_time,omitempty"`
	TgPostID        *int64         `json:"tg_post_id"`
	TgData          TelegramData   `json:"tg_data"`
	InitialPosition NewMapPosition `json:"initial_position"`
	FinalPosition   NewMapPosition `json:"final_position"`
	KeyCombo        NewKeyCombo    `json:"key_combo"`
}

// Validate checks enumerations, difficulty and nested references
func (g NewGrenade) Validate() error {
	if !g.Map.Valid() {
		return fmt.Errorf("unknown map %q", g.Map)
	}
	if !g.Type.Valid() {
		return fmt.Errorf("unknown grenade type %q", g.Type)
	}
	if !g.Side.Valid() {
		return fmt.Errorf("unknown side %q", g.Side)
	}
	if !ValidDifficulty(g.Difficult) {
		return fmt.Errorf("difficult must be within %d..%d, got %d", MinDifficulty, MaxDifficulty, g.Difficult)
	}
	if g.BestTime != nil {
		if _, err := TimingScore(g.BestTime.Minutes, g.BestTime.Seconds); err != nil {
			return err
		}
	}
	if err := g.InitialPosition.Validate(); err != nil {
		return fmt.Errorf("initial_position: %w", err)
	}
	if err := g.FinalPosition.Validate(); err != nil {
		return fmt.Errorf("final_position: %w", err)
	}
	if err := g.KeyCombo.Validate(); err != nil {
		return fmt.Errorf("key_combo: %w", err)
	}
	return nil
}

// MaxTimingSeconds is the latest raw time that still yields a score
const MaxTimingSeconds = 119

var ErrTimingOutOfRange = errors.New("best timing must be between 0:00 and 1:59")

// TimingScore converts a minutes/seconds round time into a best-timing score
func TimingScore(minutes, seconds int) (int, error) {
	if minutes < 0 || minutes > MaxTimingSeconds/60 || seconds < 0 || seconds > 59 {
		return 0, ErrTimingOutOfRange
	}
	total := minutes*60 + seconds
	if total > MaxTimingSeconds {
		return 0, ErrTimingOutOfRange
	}
	return MaxTimingSeconds - total, nil
}

// FavouriteRequest names a grenade and the user marking it
type FavouriteRequest struct {
	GrenadeID int64 `json:"grenade_id" form:"grenade_id" binding:"required"`
	UserID    int64 `json:"user_id" form:"user_id" binding:"required"`
}

// AdminData lists everything the setup editor can reuse for a map
type AdminData struct {
	MapPositions []MapPosition `json:"map_positions"`
	KeyCombos    []KeyCombo    `json:"key_combos"`
}

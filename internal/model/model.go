package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&EngineInfo{},
	&SequenceRecord{},
	&BeatRecord{},
	&EnginePerformance{},
}

// EngineInfo contains instance information, created once at first setup
type EngineInfo struct {
	gorm.Model
	InstanceName string `json:"instanceName" gorm:"size:127"`
	Description  string `json:"description" gorm:"size:255"`
	GridMode     string `json:"gridMode" gorm:"size:15"`
}

func (*EngineInfo) TableName() string {
	return "engine_infos"
}

// SequenceRecord is one saved sequence with its classification summary.
// The word is the concatenation of every beat's letter, which is what
// the browser searches on.
type SequenceRecord struct {
	gorm.Model
	Name          string         `json:"name" gorm:"size:255;index:idx_sequence_name"`
	Word          string         `json:"word" gorm:"size:255;index:idx_sequence_word"`
	GridMode      string         `json:"gridMode" gorm:"size:15"`
	Length        int            `json:"length"`
	CapVariant    string         `json:"capVariant" gorm:"size:31"`
	EndsAtStart   bool           `json:"endsAtStart"`
	StartPosition datatypes.JSON `json:"startPosition"`
	Beats         []BeatRecord   `json:"beats" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:SequenceID"`
}

func (*SequenceRecord) TableName() string {
	return "sequences"
}

// BeatRecord is one beat row. The two motion attribute sets are stored
// as JSON columns; the engine always reads whole beats and never
// filters on individual motion fields.
type BeatRecord struct {
	gorm.Model
	SequenceID uint           `json:"sequenceId" gorm:"index:idx_beat_sequence_id"`
	BeatNumber int            `json:"beat"`
	Letter     string         `json:"letter" gorm:"size:7"`
	LetterType string         `json:"letterType" gorm:"size:15"`
	StartPos   string         `json:"startPos" gorm:"size:15"`
	EndPos     string         `json:"endPos" gorm:"size:15"`
	Timing     string         `json:"timing" gorm:"size:15"`
	Direction  string         `json:"direction" gorm:"size:15"`
	Blue       datatypes.JSON `json:"blueAttributes"`
	Red        datatypes.JSON `json:"redAttributes"`
}

func (*BeatRecord) TableName() string {
	return "beats"
}

// EnginePerformance is the model for engine performance metrics
type EnginePerformance struct {
	Time                time.Time    `json:"time" gorm:"type:timestamptz;index:idx_time"`
	QueueLengths        QueueLengths `json:"queueLengths" gorm:"embedded;embeddedPrefix:queue_"`
	AnchorCacheEntries  int          `json:"anchorCacheEntries"`
	LetterCacheEntries  int          `json:"letterCacheEntries"`
	LastWriteDurationMs float32      `json:"lastWriteDurationMs"`
}

func (*EnginePerformance) TableName() string {
	return "engine_performances"
}

// QueueLengths is the model for the write queue lengths
type QueueLengths struct {
	Sequences uint16 `json:"sequences"`
	Beats     uint16 `json:"beats"`
}

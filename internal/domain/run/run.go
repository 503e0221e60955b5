// Package run defines the audit record persisted for every pipeline run and
// the outcome vocabulary shared by the orchestrator, the audit store, and
// the outcome event producer.
package run

import (
	"time"

	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/domain/settlement"
)

// Outcome is the terminal state of a pipeline run.
type Outcome string

const (
	OutcomeDone   Outcome = "DONE"
	OutcomeNoData Outcome = "NO_DATA"
	OutcomeFailed Outcome = "FAILED"
)

// Stage names the pipeline stage a run finished in. For failed runs it is
// the stage that failed; for successful runs it is the last stage executed.
type Stage string

const (
	StageValidate Stage = "VALIDATE"
	StageFetch    Stage = "FETCH"
	StageResolve  Stage = "RESOLVE"
	StageBuild    Stage = "BUILD"
	StageBackup   Stage = "BACKUP"
	StageEncrypt  Stage = "ENCRYPT"
	StageTransmit Stage = "TRANSMIT"
)

// Record is the audit document stored once per run. It makes the run
// outcome queryable so callers and operators do not have to scrape logs.
type Record struct {
	RunID          uuid.UUID                  `json:"run_id" bson:"run_id"`
	ProcessingDate time.Time                  `json:"processing_date" bson:"processing_date"`
	Program        settlement.ProgramSelector `json:"program" bson:"program"`
	ProgramID      string                     `json:"program_id" bson:"program_id"`
	Outcome        Outcome                    `json:"outcome" bson:"outcome"`
	Stage          Stage                      `json:"stage,omitempty" bson:"stage,omitempty"`
	Detail         string                     `json:"detail,omitempty" bson:"detail,omitempty"`
	FileName       string                     `json:"file_name,omitempty" bson:"file_name,omitempty"`
	CorrelationID  string                     `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	StartedAt      time.Time                  `json:"started_at" bson:"started_at"`
	FinishedAt     time.Time                  `json:"finished_at" bson:"finished_at"`
}

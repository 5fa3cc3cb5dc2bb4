package database

import (
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/upper/db/v4"
)

// CreateRun writes run and its selections in a single transaction and
// returns the stored run. An empty UUID or zero start time are filled in.
func (d *Database) CreateRun(run Run, selections []Selection) (*Run, error) {
	if run.UUID == "" {
		run.UUID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()
	run.ID = 0
	err := d.sess.Tx(func(tx db.Session) error {
		res, err := tx.Collection("runs").Insert(run)
		if err != nil {
			return errors.Wrap(err, "creating run")
		}
		id, ok := res.ID().(int64)
		if !ok {
			return errors.New("database: unexpected run ID type")
		}
		run.ID = id
		for _, entry := range selections {
			entry.ID = 0
			entry.RunID = run.ID
			if _, err := tx.Collection("selections").Insert(entry); err != nil {
				return errors.Wrap(err, "creating selection")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("database: created run %s with %d selections", run.UUID, len(selections))
	return &run, nil
}

// ListRuns returns at most limit runs, newest first. A non-positive
// limit returns every run.
func (d *Database) ListRuns(limit int) ([]*Run, error) {
	runs := []*Run{}
	res := d.sess.Collection("runs").Find().OrderBy("-id")
	if limit > 0 {
		res = res.Limit(limit)
	}
	if err := res.All(&runs); err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	return runs, nil
}

// ListSelections returns the selections of the given run in insertion order.
func (d *Database) ListSelections(runID int64) ([]*Selection, error) {
	selections := []*Selection{}
	res := d.sess.Collection("selections").Find(db.Cond{"run_id": runID}).OrderBy("id")
	if err := res.All(&selections); err != nil {
		return nil, errors.Wrap(err, "listing selections")
	}
	return selections, nil
}

package survey

import (
	"time"

	"github.com/google/uuid"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

// SubmissionSaver persists submitted surveys; *storage.Store implements it.
type SubmissionSaver interface {
	SaveSubmission(sub model.Submission) error
}

// Recorder is a Handoff that stores every record it receives.
type Recorder struct {
	saver SubmissionSaver
	now   func() time.Time
	last  model.Submission
}

func NewRecorder(saver SubmissionSaver) *Recorder {
	return &Recorder{saver: saver, now: time.Now}
}

func (r *Recorder) Proceed(rec model.Record) error {
	sub := model.Submission{
		ID:          uuid.NewString(),
		SubmittedAt: r.now(),
		Record:      rec,
	}
	if err := r.saver.SaveSubmission(sub); err != nil {
		return err
	}
	r.last = sub
	return nil
}

// Last returns the most recently stored submission.
func (r *Recorder) Last() model.Submission { return r.last }

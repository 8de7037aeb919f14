package notify

import (
	"context"

	domain "approval-engine/internal/domain/request"

	"go.uber.org/zap"
)

// Recorder appends to a request's notificationsSent log; satisfied by
// the workflow use-case.
type Recorder interface {
	RecordNotification(ctx context.Context, requestNumber, userID, kind string) (*domain.ApprovalRequest, error)
}

var _ Dispatcher = (*LogDispatcher)(nil)

// LogDispatcher logs each notification and records it on the request.
// Actual delivery (email/push) is out of scope; downstream senders tail
// the log or the notificationsSent field.
type LogDispatcher struct {
	log *zap.Logger
	rec Recorder
}

func NewLogDispatcher(log *zap.Logger, rec Recorder) *LogDispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogDispatcher{log: log, rec: rec}
}

func (d *LogDispatcher) Notify(ctx context.Context, userID, requestNumber string, kind Kind) error {
	d.log.Info("notification dispatched",
		zap.String("userId", userID),
		zap.String("requestNumber", requestNumber),
		zap.String("kind", string(kind)))

	if d.rec == nil {
		return nil
	}
	if _, err := d.rec.RecordNotification(ctx, requestNumber, userID, string(kind)); err != nil {
		// Recording can lose a version race with another writer; the
		// notification itself already went out, so just report it.
		d.log.Warn("could not record notification",
			zap.String("requestNumber", requestNumber),
			zap.Error(err))
		return err
	}
	return nil
}

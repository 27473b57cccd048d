package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier turns booking events into actual messages. Delivery is best
// effort: callers log and ignore a returned error, so an implementation must
// never be load-bearing for the booking itself.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// LogNotifier writes events to the structured log. It stands in for the
// mail-delivery collaborator in environments without one configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, e Event) error {
	fields := []zap.Field{
		zap.String("kind", string(e.Kind)),
		zap.String("lesson_id", e.Lesson.LessonID),
		zap.String("student", e.Lesson.StudentName),
		zap.String("student_email", e.Lesson.StudentEmail),
		zap.Time("start", e.Lesson.Start),
		zap.Time("end", e.Lesson.End),
		zap.String("location", e.Lesson.LocationLabel),
		zap.String("price", e.Lesson.Price.StringFixed(2)),
	}
	if e.CalendarLink != "" {
		fields = append(fields, zap.String("calendar_link", e.CalendarLink))
	}
	n.log.Info("booking notification", fields...)
	return nil
}

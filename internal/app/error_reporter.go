package app

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"time_recorder_bot/internal/domain/attendance"
)

// ErrorTitle heads every error notification.
const ErrorTitle = "エラーが発生しました"

// UserMessage maps an error to the text shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, attendance.ErrStructuralScrape):
		return "項目特定エラー：Issueに連絡ください。"
	case errors.Is(err, attendance.ErrCredentialsMissing):
		return attendance.CodeUnknown.Title()
	case errors.Is(err, attendance.ErrAuthenticationFailed):
		return "ログインできませんでした。"
	case errors.Is(err, attendance.ErrStampFailed):
		return "処理に失敗しました。"
	default:
		return err.Error()
	}
}

// ErrorReporter surfaces errors to the user. Nothing is retried here.
type ErrorReporter struct {
	sink   NotificationSink
	logger *logrus.Entry
}

func NewErrorReporter(sink NotificationSink, logger *logrus.Entry) *ErrorReporter {
	return &ErrorReporter{sink: sink, logger: logger}
}

func (r *ErrorReporter) Report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	r.logger.WithError(err).Warn("Reporting error to user")
	r.sink.Notify(ctx, Notification{
		Message:        ErrorTitle,
		ContextMessage: UserMessage(err),
	})
}

package book_viewing

import (
	"context"

	bookViewing "github.com/oryxestates/viewing-service/internal/usecase/book_viewing"
)

type BookViewingUseCase interface {
	Execute(ctx context.Context, req *bookViewing.Request) (*bookViewing.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

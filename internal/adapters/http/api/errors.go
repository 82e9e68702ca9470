package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/talker/internal/app"
	"github.com/okian/talker/pkg/logger"
)

// Response messages not owned by a validation chain.
const (
	MsgNotFound    = "Pessoa palestrante não encontrada"
	MsgInternal    = "Erro interno do servidor"
	MsgBusy        = "Servidor ocupado, tente novamente"
	MsgUnavailable = "Serviço indisponível"
)

// writeServiceError maps a service error onto a status and message.
func writeServiceError(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, MsgNotFound)
	case errors.Is(err, service.ErrBackpressure):
		log.Warn(ctx, "write queue full", logger.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, MsgBusy)
	case errors.Is(err, service.ErrNotStarted):
		log.Warn(ctx, "service not running", logger.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, MsgUnavailable)
	default:
		log.Error(ctx, "request failed", logger.Error(err))
		writeMessage(w, http.StatusInternalServerError, MsgInternal)
	}
}
